package katbin

import (
	"context"
	"time"
)

type UserID int64

type User struct {
	ID             UserID `json:"id"`
	Email          string `json:"email"`
	HashedPassword string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UserService interface {
	Register(ctx context.Context, email, password string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id UserID) (*User, error)

	// Authenticate returns ErrInvalidCredentials for both an unknown email
	// and a wrong password.
	Authenticate(ctx context.Context, email, password string) (*User, error)
}

// UserRepository is the persistence backend for users. Email comparisons are
// case-insensitive. InsertUser assigns u.ID and reports ErrUniqueViolation
// for a duplicate email.
type UserRepository interface {
	InsertUser(ctx context.Context, u *User) error
	GetUserByID(ctx context.Context, id UserID) (*User, error)
	FindUserByEmail(ctx context.Context, email string) (*User, error)
}
