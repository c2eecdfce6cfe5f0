package sessiongorm

import (
	"github.com/oggyb/session-messaging/internal/domain/session"
)

func toDomain(m *SessionModel) *session.Session {
	return &session.Session{
		ID:             m.ID,
		Subject:        m.Subject,
		CreatedAt:      m.CreatedAt,
		InitiatorID:    m.InitiatorID,
		CounterpartyID: m.CounterpartyID,
	}
}

func fromDomain(s *session.Session) *SessionModel {
	return &SessionModel{
		ID:             s.ID,
		Subject:        s.Subject,
		CreatedAt:      s.CreatedAt,
		InitiatorID:    s.InitiatorID,
		CounterpartyID: s.CounterpartyID,
	}
}
