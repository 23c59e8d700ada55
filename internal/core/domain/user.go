package domain

import (
	"time"
)

// User owns zero or more todos. The password is only ever stored as a
// bcrypt hash.
type User struct {
	ID                int
	Username          string `validate:"required,min=2,max=50"`
	EncryptedPassword string `validate:"required"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
