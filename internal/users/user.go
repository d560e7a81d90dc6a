package users

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

// User is the persisted identity record. Every user carries at least
// one of GoogleID or PasswordHash: local signup sets the hash,
// federated login sets the provider id.
type User struct {
	ID           string
	GoogleID     sql.NullString
	Email        string
	PasswordHash sql.NullString
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Repository is the persistence boundary for identity records. Each
// method issues an independent statement; email uniqueness is enforced
// by the database, not by callers.
type Repository interface {
	FindByGoogleID(ctx context.Context, googleID string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Insert(ctx context.Context, u User) (*User, error)
	UpdatePassword(ctx context.Context, email, passwordHash string) error
	AttachGoogleID(ctx context.Context, userID, googleID string) error
}
