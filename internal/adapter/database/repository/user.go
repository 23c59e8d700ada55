package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"

	"todopro/internal/adapter/database"
	"todopro/internal/core/domain"
	"todopro/internal/core/port"
)

type UserRepository struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) port.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	now := time.Now().UTC()

	query := r.db.QueryBuilder.Insert("users").
		Columns("username", "encrypted_password", "created_at", "updated_at").
		Values(user.Username, user.EncryptedPassword, now, now).
		Suffix("RETURNING id")

	stmt, args, err := query.ToSql()

	if err != nil {
		return domain.User{}, err
	}

	if err := r.db.QueryRowContext(ctx, stmt, args...).Scan(&user.ID); err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, domain.ErrUserExists
		}

		slog.Error("Error creating user", "error", err)
		return domain.User{}, fmt.Errorf("inserting user: %w", err)
	}

	user.CreatedAt = now
	user.UpdatedAt = now

	return user, nil
}

// isUniqueViolation recognizes a UNIQUE constraint breach from either
// driver, so a concurrent duplicate insert surfaces as ErrUserExists
// instead of a generic persistence failure.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error

	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}

	var pgErr *pgconn.PgError

	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}

	return false
}

func (r *UserRepository) GetByID(ctx context.Context, id int) (domain.User, error) {
	return r.getOne(ctx, sq.Eq{"id": id})
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	return r.getOne(ctx, sq.Eq{"username": username})
}

func (r *UserRepository) getOne(ctx context.Context, where sq.Eq) (domain.User, error) {
	query := r.db.QueryBuilder.
		Select("id", "username", "encrypted_password", "created_at", "updated_at").
		From("users").
		Where(where).
		Limit(1)

	stmt, args, err := query.ToSql()

	if err != nil {
		return domain.User{}, err
	}

	var user domain.User

	err = r.db.QueryRowContext(ctx, stmt, args...).Scan(
		&user.ID,
		&user.Username,
		&user.EncryptedPassword,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, sql.ErrNoRows
	}

	if err != nil {
		return domain.User{}, fmt.Errorf("querying user: %w", err)
	}

	return user, nil
}
