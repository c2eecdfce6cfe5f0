package sessiongorm

import (
	"time"

	"github.com/google/uuid"
	messagegorm "github.com/oggyb/session-messaging/internal/repository/gorm/message"
	"gorm.io/gorm"
)

// SessionModel is the GORM persistence model for sessions.
// Deleting a session cascades to its messages.
type SessionModel struct {
	ID             uuid.UUID                  `gorm:"type:uuid;primaryKey"`
	Subject        string                     `gorm:"size:255"`
	CreatedAt      time.Time                  `gorm:"not null"`
	InitiatorID    uuid.UUID                  `gorm:"type:uuid;not null;index"`
	CounterpartyID uuid.UUID                  `gorm:"type:uuid;not null;index"`
	Messages       []messagegorm.MessageModel `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
}

// TableName overrides the default table name used by GORM.
func (SessionModel) TableName() string {
	return "sessions"
}

// BeforeCreate ensures a UUID is set before inserting a new record.
func (m *SessionModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
