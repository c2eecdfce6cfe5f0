package session

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence operations for sessions.
type Repository interface {
	// Create persists a new session.
	Create(ctx context.Context, s *Session) error

	// FindByID returns the session without its messages, or ErrNotFound.
	FindByID(ctx context.Context, id uuid.UUID) (*Session, error)
}
