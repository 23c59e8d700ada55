package port

import (
	"context"

	"todopro/internal/core/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	GetByID(ctx context.Context, id int) (domain.User, error)
	GetByUsername(ctx context.Context, username string) (domain.User, error)
}

type UserService interface {
	// Register hashes the password before anything touches the store.
	Register(ctx context.Context, username, password string) (domain.User, error)

	// Authenticate returns domain.ErrInvalidCredentials on any mismatch.
	Authenticate(ctx context.Context, username, password string) (domain.User, error)

	GetByID(ctx context.Context, id int) (domain.User, error)
}
