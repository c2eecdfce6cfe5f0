package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence operations for users.
type Repository interface {
	// Create persists a new user.
	Create(ctx context.Context, u *User) error

	// FindByID returns the user or ErrNotFound.
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
}
