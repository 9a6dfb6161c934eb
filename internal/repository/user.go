package repository

import (
	"context"
	"errors"

	"study-buddy/internal/domain"
)

var (
	// ErrUserExists is returned when inserting a username that is already taken.
	ErrUserExists = errors.New("user already exists")
	// ErrUserNotFound is returned when a username has no stored record.
	ErrUserNotFound = errors.New("user not found")
	// ErrStorage wraps connectivity and read/write failures of the backing store.
	ErrStorage = errors.New("storage failure")
)

// UserRepository defines persistence operations for User entities.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}
