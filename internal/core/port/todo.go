package port

import (
	"context"
	"mime/multipart"

	"todopro/internal/core/domain"
)

type TodoRepository interface {
	// Create persists the todo and its image rows in a single transaction.
	Create(ctx context.Context, todo domain.Todo) (domain.Todo, error)

	// GetByID returns domain.ErrTodoNotFound when no row matches.
	GetByID(ctx context.Context, id int) (domain.Todo, error)

	// Update applies a partial patch; nil fields keep their stored value.
	Update(ctx context.Context, id int, patch domain.TodoPatch) (domain.Todo, error)

	// Delete removes the todo and its image rows permanently.
	Delete(ctx context.Context, id int) error

	// ListWithCursor pages over every todo in the store, id ascending,
	// regardless of owner. Returns the page and whether more rows follow.
	ListWithCursor(ctx context.Context, limit int, cursor string) ([]domain.Todo, bool, error)
}

type CreateTodoInput struct {
	Title       string
	Description string
	Time        string
	IsPro       bool
	Images      []*multipart.FileHeader
}

type TodoService interface {
	Create(ctx context.Context, userID int, in CreateTodoInput) (domain.Todo, error)
	GetByID(ctx context.Context, userID, id int) (domain.Todo, error)
	Update(ctx context.Context, userID, id int, patch domain.TodoPatch) (domain.Todo, error)
	Delete(ctx context.Context, userID, id int) error
	ListWithCursor(ctx context.Context, limit int, cursor string) ([]domain.Todo, bool, error)
}
