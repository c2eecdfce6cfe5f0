package messagegorm

import (
	"github.com/oggyb/session-messaging/internal/domain/message"
	usergorm "github.com/oggyb/session-messaging/internal/repository/gorm/user"
)

// toDomain maps a GORM MessageModel to a domain-level Message.
// Sender is carried over only when it was preloaded.
func toDomain(m *MessageModel) *message.Message {
	return &message.Message{
		ID:        m.ID,
		SessionID: m.SessionID,
		SenderID:  m.SenderID,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
		Sender:    usergorm.ToDomain(m.Sender),
	}
}

// toDomainMany maps a slice of MessageModel to a slice of domain Messages.
func toDomainMany(models []MessageModel) []*message.Message {
	out := make([]*message.Message, len(models))
	for i := range models {
		out[i] = toDomain(&models[i])
	}
	return out
}

// fromDomain maps a domain-level Message to a GORM MessageModel.
// The sender relation is never written through a message.
func fromDomain(d *message.Message) *MessageModel {
	return &MessageModel{
		ID:        d.ID,
		SessionID: d.SessionID,
		SenderID:  d.SenderID,
		Content:   d.Content,
		CreatedAt: d.CreatedAt,
	}
}
