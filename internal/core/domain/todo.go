package domain

import (
	"time"
)

// Todo is a user-owned task record. Images holds stored filenames in the
// order they were uploaded; it is empty for non-pro todos.
type Todo struct {
	ID          int
	Title       string `validate:"required,min=1,max=255"`
	Description string `validate:"max=1000"`
	Time        string `validate:"max=50"`
	Images      []string
	UserID      int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (t *Todo) BelongsToUser(userID int) bool {
	return t.UserID == userID
}

func (t *Todo) IsPro() bool {
	return len(t.Images) > 0
}

// TodoPatch carries the optional deltas of a partial update. A nil field
// means "retain the stored value"; images are not mutable through a patch.
type TodoPatch struct {
	Title       *string
	Description *string
	Time        *string
}

func (p *TodoPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Time == nil
}

// Apply merges the patch over an existing todo, field by field.
func (p *TodoPatch) Apply(todo Todo) Todo {
	if p.Title != nil {
		todo.Title = *p.Title
	}
	if p.Description != nil {
		todo.Description = *p.Description
	}
	if p.Time != nil {
		todo.Time = *p.Time
	}
	return todo
}
