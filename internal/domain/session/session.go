// Package session holds the two-party conversation container.
package session

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oggyb/session-messaging/internal/domain/message"
)

var (
	// ErrNotFound is returned by repositories when no session matches.
	ErrNotFound = errors.New("session not found")
	// ErrMissingParticipant is returned when a participant id is nil.
	ErrMissingParticipant = errors.New("session participant is required")
	// ErrSameParticipant is returned when both participants are the same user.
	ErrSameParticipant = errors.New("session participants must differ")
)

// Session is a conversation between exactly two users. The order of
// InitiatorID and CounterpartyID is fixed at creation.
type Session struct {
	ID             uuid.UUID
	Subject        string
	CreatedAt      time.Time
	InitiatorID    uuid.UUID
	CounterpartyID uuid.UUID

	// Messages is only populated when the session was loaded with them.
	Messages []*message.Message
}

// New constructs a session between initiator and counterparty.
// Existence of both users is checked by the caller.
func New(initiatorID, counterpartyID uuid.UUID, subject string) (*Session, error) {
	if initiatorID == uuid.Nil || counterpartyID == uuid.Nil {
		return nil, ErrMissingParticipant
	}
	if initiatorID == counterpartyID {
		return nil, ErrSameParticipant
	}

	return &Session{
		ID:             uuid.New(),
		Subject:        strings.TrimSpace(subject),
		CreatedAt:      time.Now().UTC(),
		InitiatorID:    initiatorID,
		CounterpartyID: counterpartyID,
	}, nil
}

// Counterpart returns the participant that is not senderID.
// A sender equal to the initiator gets the counterparty; anything else
// gets the initiator.
func (s *Session) Counterpart(senderID uuid.UUID) uuid.UUID {
	if senderID == s.InitiatorID {
		return s.CounterpartyID
	}
	return s.InitiatorID
}

// HasParticipant reports whether id is one of the two participants.
func (s *Session) HasParticipant(id uuid.UUID) bool {
	return id == s.InitiatorID || id == s.CounterpartyID
}
