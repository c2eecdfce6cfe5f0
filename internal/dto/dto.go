// Package dto holds the transfer representations exposed to callers and
// the pure mappers that build them from domain entities.
package dto

import (
	"time"

	"github.com/google/uuid"
)

// MessageDTO is the public shape of a message.
type MessageDTO struct {
	MessageID uuid.UUID `json:"messageId"`
	SessionID uuid.UUID `json:"sessionId"`
	SenderID  uuid.UUID `json:"senderId"`
	Message   string    `json:"message"`
	DateTime  time.Time `json:"dateTime"`
}

// SessionDTO is the public shape of a session. SenderID and ReceiverID
// are the initiator and the counterparty.
//
// Messages is nil when messages were not requested, and points to a
// possibly empty slice when they were.
type SessionDTO struct {
	SessionID    uuid.UUID     `json:"sessionId"`
	Subject      string        `json:"subject"`
	CreationDate time.Time     `json:"creationDate"`
	SenderID     uuid.UUID     `json:"senderId"`
	ReceiverID   uuid.UUID     `json:"receiverId"`
	Messages     *[]MessageDTO `json:"messages,omitempty"`
}
