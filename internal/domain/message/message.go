// Package message holds the domain model and invariants for session messages.
package message

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/oggyb/session-messaging/internal/domain/user"
)

var (
	// ErrNotFound is returned by repositories when no message matches.
	ErrNotFound = errors.New("message not found")
	// ErrMissingSession is returned when no session id is provided.
	ErrMissingSession = errors.New("message session id is required")
	// ErrMissingSender is returned when no sender id is provided.
	ErrMissingSender = errors.New("message sender id is required")
	// ErrEmptyContent is returned when the message body is empty.
	ErrEmptyContent = errors.New("message content is required")
)

// Message is a single timestamped unit of text written by one session
// participant. It is immutable once persisted.
type Message struct {
	ID        uuid.UUID
	SessionID uuid.UUID
	SenderID  uuid.UUID
	Content   string
	CreatedAt time.Time

	// Sender is set only when the message was loaded with its relations.
	Sender *user.User
}

// New constructs a message bound to sessionID and senderID.
//
// The id is a UUIDv7, so ids sort in assignment order and break ties
// between messages that share a millisecond.
func New(sessionID, senderID uuid.UUID, content string) (*Message, error) {
	if sessionID == uuid.Nil {
		return nil, ErrMissingSession
	}
	if senderID == uuid.Nil {
		return nil, ErrMissingSender
	}
	if content == "" {
		return nil, ErrEmptyContent
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate message id: %w", err)
	}

	return &Message{
		ID:        id,
		SessionID: sessionID,
		SenderID:  senderID,
		Content:   content,
		CreatedAt: Now(),
	}, nil
}

// Now is the persistence clock: UTC with millisecond precision, which is
// what event timestamps carry.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
