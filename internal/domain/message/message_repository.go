package message

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence and query operations for messages.
//
// Every listing is ordered by creation time ascending, then by id, so
// results are stable for pagination and for LatestInSession.
type Repository interface {
	// Create persists m and reads it back, sender included, in one
	// transaction. A zero CreatedAt is filled in before the insert.
	Create(ctx context.Context, m *Message) (*Message, error)

	// FindByID returns the message or ErrNotFound.
	FindByID(ctx context.Context, id uuid.UUID) (*Message, error)

	// ListBySession returns all messages of a session.
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*Message, error)

	// ListBySessionWithSender is ListBySession with Sender populated.
	ListBySessionWithSender(ctx context.Context, sessionID uuid.UUID) ([]*Message, error)

	// LatestInSession returns the newest message, or ErrNotFound when the
	// session has none.
	LatestInSession(ctx context.Context, sessionID uuid.UUID) (*Message, error)

	// SearchByContent returns every message whose content contains term,
	// ignoring case. It is not scoped to a session.
	SearchByContent(ctx context.Context, term string) ([]*Message, error)

	// CountBySession returns the number of messages, zero for unknown sessions.
	CountBySession(ctx context.Context, sessionID uuid.UUID) (int64, error)

	// ListPage returns limit messages starting at offset.
	ListPage(ctx context.Context, sessionID uuid.UUID, offset, limit int) ([]*Message, error)

	// Delete removes the message and returns what was removed, or
	// ErrNotFound when nothing matched.
	Delete(ctx context.Context, id uuid.UUID) (*Message, error)
}
