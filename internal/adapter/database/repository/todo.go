package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"go.opentelemetry.io/otel/attribute"

	"todopro/internal/adapter/database"
	"todopro/internal/core/domain"
	"todopro/internal/core/port"
	"todopro/pkg/db/cursor"
	"todopro/pkg/telemetry"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type TodoRepository struct {
	db *database.DB
}

func NewTodoRepository(db *database.DB) port.TodoRepository {
	return &TodoRepository{db: db}
}

// Create inserts the todo and its image rows in one transaction so a
// half-created pro todo can never be observed.
func (r *TodoRepository) Create(ctx context.Context, todo domain.Todo) (domain.Todo, error) {
	ctx, span := telemetry.CreateChildSpan(ctx, "db.todo.Create", []attribute.KeyValue{
		attribute.String("db.table", "todos"),
		attribute.String("db.operation", "INSERT"),
		attribute.Int("user.id", todo.UserID),
	})

	defer span.End()

	tx, err := r.db.BeginTx(ctx, nil)

	if err != nil {
		return domain.Todo{}, fmt.Errorf("beginning transaction: %w", err)
	}

	defer tx.Rollback()

	now := time.Now().UTC()

	query := r.db.QueryBuilder.Insert("todos").
		Columns("title", "description", "time", "user_id", "created_at", "updated_at").
		Values(todo.Title, todo.Description, todo.Time, todo.UserID, now, now).
		Suffix("RETURNING id")

	stmt, args, err := query.ToSql()

	if err != nil {
		return domain.Todo{}, err
	}

	if err := tx.QueryRowContext(ctx, stmt, args...).Scan(&todo.ID); err != nil {
		telemetry.AddSpanError(span, err)
		slog.Error("Error creating todo", "error", err)
		return domain.Todo{}, fmt.Errorf("inserting todo: %w", err)
	}

	for position, filename := range todo.Images {
		imgQuery := r.db.QueryBuilder.Insert("todo_images").
			Columns("todo_id", "position", "filename").
			Values(todo.ID, position, filename)

		stmt, args, err := imgQuery.ToSql()

		if err != nil {
			return domain.Todo{}, err
		}

		if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
			telemetry.AddSpanError(span, err)
			return domain.Todo{}, fmt.Errorf("inserting todo image: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.Todo{}, fmt.Errorf("committing todo: %w", err)
	}

	return r.GetByID(ctx, todo.ID)
}

func (r *TodoRepository) GetByID(ctx context.Context, id int) (domain.Todo, error) {
	return r.getByID(ctx, r.db, id)
}

func (r *TodoRepository) getByID(ctx context.Context, run querier, id int) (domain.Todo, error) {
	query := r.db.QueryBuilder.
		Select("id", "title", "description", "time", "user_id", "created_at", "updated_at").
		From("todos").
		Where(sq.Eq{"id": id}).
		Limit(1)

	stmt, args, err := query.ToSql()

	if err != nil {
		return domain.Todo{}, err
	}

	var todo domain.Todo

	err = run.QueryRowContext(ctx, stmt, args...).Scan(
		&todo.ID,
		&todo.Title,
		&todo.Description,
		&todo.Time,
		&todo.UserID,
		&todo.CreatedAt,
		&todo.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return domain.Todo{}, domain.ErrTodoNotFound
	}

	if err != nil {
		return domain.Todo{}, fmt.Errorf("querying todo: %w", err)
	}

	images, err := r.loadImages(ctx, run, []int{todo.ID})

	if err != nil {
		return domain.Todo{}, err
	}

	todo.Images = images[todo.ID]

	if todo.Images == nil {
		todo.Images = []string{}
	}

	return todo, nil
}

// Update applies the non-nil patch fields over the stored row. Absent
// fields are never cleared.
func (r *TodoRepository) Update(ctx context.Context, id int, patch domain.TodoPatch) (domain.Todo, error) {
	existing, err := r.GetByID(ctx, id)

	if err != nil {
		return domain.Todo{}, err
	}

	if patch.IsEmpty() {
		return existing, nil
	}

	query := r.db.QueryBuilder.Update("todos").
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id})

	if patch.Title != nil {
		query = query.Set("title", *patch.Title)
	}

	if patch.Description != nil {
		query = query.Set("description", *patch.Description)
	}

	if patch.Time != nil {
		query = query.Set("time", *patch.Time)
	}

	stmt, args, err := query.ToSql()

	if err != nil {
		return domain.Todo{}, err
	}

	result, err := r.db.ExecContext(ctx, stmt, args...)

	if err != nil {
		slog.Error("Error updating todo", "error", err)
		return domain.Todo{}, fmt.Errorf("updating todo: %w", err)
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return domain.Todo{}, domain.ErrTodoNotFound
	}

	return r.GetByID(ctx, id)
}

// Delete removes the todo and its image rows permanently.
func (r *TodoRepository) Delete(ctx context.Context, id int) error {
	tx, err := r.db.BeginTx(ctx, nil)

	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	defer tx.Rollback()

	imgQuery := r.db.QueryBuilder.Delete("todo_images").Where(sq.Eq{"todo_id": id})

	stmt, args, err := imgQuery.ToSql()

	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("deleting todo images: %w", err)
	}

	query := r.db.QueryBuilder.Delete("todos").Where(sq.Eq{"id": id})

	stmt, args, err = query.ToSql()

	if err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, stmt, args...)

	if err != nil {
		slog.Error("Error deleting todo", "error", err)
		return fmt.Errorf("deleting todo: %w", err)
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return domain.ErrTodoNotFound
	}

	return tx.Commit()
}

// ListWithCursor pages over every todo in the store, id ascending. The
// cursor is the signed id of the last row of the previous page; one extra
// row is fetched to learn whether a next page exists.
func (r *TodoRepository) ListWithCursor(ctx context.Context, limit int, cursorToken string) ([]domain.Todo, bool, error) {
	ctx, span := telemetry.CreateChildSpan(ctx, "db.todo.ListWithCursor", []attribute.KeyValue{
		attribute.String("db.table", "todos"),
		attribute.String("db.operation", "SELECT"),
		attribute.Int("todo.limit", limit),
	})

	defer span.End()

	actualLimit := limit + 1

	query := r.db.QueryBuilder.
		Select("id", "title", "description", "time", "user_id", "created_at", "updated_at").
		From("todos").
		OrderBy("id ASC").
		Limit(uint64(actualLimit))

	if cursorToken != "" {
		lastID, err := cursor.DecodeCursor(cursorToken)

		if err != nil {
			telemetry.AddSpanError(span, err)
			slog.Error("Error decoding cursor", "error", err)
			return []domain.Todo{}, false, err
		}

		query = query.Where(sq.Gt{"id": lastID})
	}

	stmt, args, err := query.ToSql()

	if err != nil {
		return []domain.Todo{}, false, err
	}

	rows, err := r.db.QueryContext(ctx, stmt, args...)

	if err != nil {
		slog.Error("Error fetching todos", "error", err)
		return []domain.Todo{}, false, fmt.Errorf("querying todos: %w", err)
	}

	defer rows.Close()

	data := []domain.Todo{}

	for rows.Next() {
		var todo domain.Todo

		err = rows.Scan(&todo.ID, &todo.Title, &todo.Description, &todo.Time, &todo.UserID, &todo.CreatedAt, &todo.UpdatedAt)

		if err != nil {
			return []domain.Todo{}, false, fmt.Errorf("scanning todo: %w", err)
		}

		data = append(data, todo)
	}

	if err := rows.Err(); err != nil {
		return []domain.Todo{}, false, err
	}

	hasNext := len(data) == actualLimit

	if hasNext {
		data = data[:limit]
	}

	if len(data) > 0 {
		ids := make([]int, 0, len(data))

		for _, todo := range data {
			ids = append(ids, todo.ID)
		}

		images, err := r.loadImages(ctx, r.db, ids)

		if err != nil {
			return []domain.Todo{}, false, err
		}

		for i := range data {
			data[i].Images = images[data[i].ID]

			if data[i].Images == nil {
				data[i].Images = []string{}
			}
		}
	}

	span.SetAttributes(
		attribute.Int("db.rows_returned", len(data)),
		attribute.Bool("db.has_next", hasNext),
	)

	return data, hasNext, nil
}

func (r *TodoRepository) loadImages(ctx context.Context, run querier, todoIDs []int) (map[int][]string, error) {
	query := r.db.QueryBuilder.
		Select("todo_id", "filename").
		From("todo_images").
		Where(sq.Eq{"todo_id": todoIDs}).
		OrderBy("todo_id ASC", "position ASC")

	stmt, args, err := query.ToSql()

	if err != nil {
		return nil, err
	}

	rows, err := run.QueryContext(ctx, stmt, args...)

	if err != nil {
		return nil, fmt.Errorf("querying todo images: %w", err)
	}

	defer rows.Close()

	images := make(map[int][]string)

	for rows.Next() {
		var todoID int
		var filename string

		if err := rows.Scan(&todoID, &filename); err != nil {
			return nil, fmt.Errorf("scanning todo image: %w", err)
		}

		images[todoID] = append(images[todoID], filename)
	}

	return images, rows.Err()
}
