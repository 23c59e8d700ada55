package service

import (
	"context"
	"log/slog"

	"todopro/internal/core/domain"
	"todopro/internal/core/port"
	"todopro/internal/core/util"
)

type UserService struct {
	repo port.UserRepository
}

func NewUserService(repo port.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// Register creates a user with a bcrypt-hashed password. Plaintext never
// reaches the repository.
func (us *UserService) Register(ctx context.Context, username, password string) (domain.User, error) {
	oldUser, err := us.repo.GetByUsername(ctx, username)

	if err == nil && oldUser.Username != "" {
		return domain.User{}, domain.ErrUserExists
	}

	encrypted, err := util.GenerateEncrypt(password)

	if err != nil {
		return domain.User{}, err
	}

	user := domain.User{
		Username:          username,
		EncryptedPassword: encrypted,
	}

	return us.repo.Create(ctx, user)
}

func (us *UserService) Authenticate(ctx context.Context, username, password string) (domain.User, error) {
	user, err := us.repo.GetByUsername(ctx, username)

	if err != nil {
		slog.Error("User#Authenticate", "get_by_username", err)
		return domain.User{}, domain.ErrInvalidCredentials
	}

	if err := util.ComparePassword(password, user.EncryptedPassword); err != nil {
		slog.Error("User#Authenticate", "compare_password", err)
		return domain.User{}, domain.ErrInvalidCredentials
	}

	return user, nil
}

func (us *UserService) GetByID(ctx context.Context, id int) (domain.User, error) {
	return us.repo.GetByID(ctx, id)
}
