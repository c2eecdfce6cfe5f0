// Package event defines the notification emitted after a message is
// persisted and the asynchronous dispatch that hands it to the event
// channel.
package event

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/oggyb/session-messaging/internal/domain/message"
	"github.com/oggyb/session-messaging/internal/domain/session"
)

// TypeMessageCreated identifies MessageCreatedEvent payloads on the wire.
const TypeMessageCreated = "message.created"

// MessageCreatedEvent is published once per successfully created message.
// It is never persisted.
type MessageCreatedEvent struct {
	MessageID  uuid.UUID `json:"messageId"`
	SessionID  uuid.UUID `json:"sessionId"`
	ReceiverID uuid.UUID `json:"receiverId"`
	SenderID   uuid.UUID `json:"senderId"`
	Content    string    `json:"content"`
	// Timestamp is the message's creation time in epoch milliseconds.
	Timestamp int64 `json:"timestamp"`
}

// NewMessageCreated builds the event for m, deriving the receiver as the
// session participant that did not send it.
func NewMessageCreated(s *session.Session, m *message.Message) MessageCreatedEvent {
	return MessageCreatedEvent{
		MessageID:  m.ID,
		SessionID:  m.SessionID,
		ReceiverID: s.Counterpart(m.SenderID),
		SenderID:   m.SenderID,
		Content:    m.Content,
		Timestamp:  m.CreatedAt.UnixMilli(),
	}
}

// Publisher writes events to the event channel.
type Publisher interface {
	Publish(ctx context.Context, evt MessageCreatedEvent) error
}

// PublicationError reports that an event for an already committed message
// could not be handed to the event channel.
type PublicationError struct {
	MessageID uuid.UUID
	Reason    string
	Err       error
}

func (e *PublicationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("publish event for message %s: %s", e.MessageID, e.Reason)
	}
	return fmt.Sprintf("publish event for message %s: %s: %v", e.MessageID, e.Reason, e.Err)
}

func (e *PublicationError) Unwrap() error { return e.Err }
