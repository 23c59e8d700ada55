package service

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"todopro/internal/core/domain"
	"todopro/internal/core/port"
	"todopro/pkg/telemetry"
)

type TodoService struct {
	repo  port.TodoRepository
	store port.ImageStore
}

func NewTodoService(repo port.TodoRepository, store port.ImageStore) *TodoService {
	return &TodoService{repo: repo, store: store}
}

// Create stores a new todo for userID. Pro todos must carry at least one
// image; files are pushed to the image store first and the todo row plus
// the returned filenames are persisted in one transaction. If that
// transaction fails the stored files are removed again so neither side
// keeps an orphan.
func (ts *TodoService) Create(ctx context.Context, userID int, in port.CreateTodoInput) (domain.Todo, error) {
	ctx, span := telemetry.CreateChildSpan(ctx, "service.todo.Create", []attribute.KeyValue{
		attribute.Int("user.id", userID),
		attribute.Bool("todo.is_pro", in.IsPro),
	})

	defer span.End()

	filenames := []string{}

	if in.IsPro {
		if len(in.Images) == 0 {
			return domain.Todo{}, domain.ErrMissingUpload
		}

		for _, file := range in.Images {
			filename, err := ts.store.Save(ctx, file)

			if err != nil {
				telemetry.AddSpanError(span, err)
				ts.removeStored(ctx, filenames)
				return domain.Todo{}, err
			}

			filenames = append(filenames, filename)
		}
	}

	todo := domain.Todo{
		Title:       in.Title,
		Description: in.Description,
		Time:        in.Time,
		Images:      filenames,
		UserID:      userID,
	}

	saved, err := ts.repo.Create(ctx, todo)

	if err != nil {
		telemetry.AddSpanError(span, err)
		slog.Error("Repository create failed", "error", err, "title", todo.Title)
		ts.removeStored(ctx, filenames)
		return domain.Todo{}, err
	}

	return saved, nil
}

// GetByID enforces existence before ownership: a missing todo is
// ErrTodoNotFound, a todo owned by someone else is ErrNotOwner.
func (ts *TodoService) GetByID(ctx context.Context, userID, id int) (domain.Todo, error) {
	todo, err := ts.repo.GetByID(ctx, id)

	if err != nil {
		return domain.Todo{}, err
	}

	if !todo.BelongsToUser(userID) {
		return domain.Todo{}, domain.ErrNotOwner
	}

	return todo, nil
}

func (ts *TodoService) Update(ctx context.Context, userID, id int, patch domain.TodoPatch) (domain.Todo, error) {
	if _, err := ts.GetByID(ctx, userID, id); err != nil {
		return domain.Todo{}, err
	}

	return ts.repo.Update(ctx, id, patch)
}

func (ts *TodoService) Delete(ctx context.Context, userID, id int) error {
	if _, err := ts.GetByID(ctx, userID, id); err != nil {
		return err
	}

	return ts.repo.Delete(ctx, id)
}

// ListWithCursor is the unfiltered query surface feed: it pages over
// todos of every user. Callers are authenticated at the transport but
// not filtered here.
func (ts *TodoService) ListWithCursor(ctx context.Context, limit int, cursor string) ([]domain.Todo, bool, error) {
	return ts.repo.ListWithCursor(ctx, limit, cursor)
}

func (ts *TodoService) removeStored(ctx context.Context, filenames []string) {
	for _, filename := range filenames {
		if err := ts.store.Remove(ctx, filename); err != nil {
			slog.Error("Error removing stored image", "error", err, "filename", filename)
		}
	}
}
