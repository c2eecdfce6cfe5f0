package dto

import (
	"github.com/oggyb/session-messaging/internal/domain/message"
	"github.com/oggyb/session-messaging/internal/domain/session"
	"github.com/samber/lo"
)

// ToMessage maps a domain message to its transfer representation.
func ToMessage(m *message.Message) MessageDTO {
	return MessageDTO{
		MessageID: m.ID,
		SessionID: m.SessionID,
		SenderID:  m.SenderID,
		Message:   m.Content,
		DateTime:  m.CreatedAt,
	}
}

// ToMessages maps messages in order. The result is never nil.
func ToMessages(msgs []*message.Message) []MessageDTO {
	return lo.Map(msgs, func(m *message.Message, _ int) MessageDTO {
		return ToMessage(m)
	})
}

// ToSession maps a session. With includeMessages the session's messages
// are attached in stored order; without it Messages stays nil.
func ToSession(s *session.Session, includeMessages bool) SessionDTO {
	out := SessionDTO{
		SessionID:    s.ID,
		Subject:      s.Subject,
		CreationDate: s.CreatedAt,
		SenderID:     s.InitiatorID,
		ReceiverID:   s.CounterpartyID,
	}

	if includeMessages {
		msgs := ToMessages(s.Messages)
		out.Messages = &msgs
	}

	return out
}
