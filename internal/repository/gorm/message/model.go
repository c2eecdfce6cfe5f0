package messagegorm

import (
	"time"

	"github.com/google/uuid"
	usergorm "github.com/oggyb/session-messaging/internal/repository/gorm/user"
	"gorm.io/gorm"
)

// MessageModel is the GORM persistence model for messages.
// It maps directly to the "messages" table.
type MessageModel struct {
	ID        uuid.UUID           `gorm:"type:uuid;primaryKey"`
	SessionID uuid.UUID           `gorm:"type:uuid;not null;index:idx_messages_session_created,priority:1"`
	SenderID  uuid.UUID           `gorm:"type:uuid;not null;index"`
	Content   string              `gorm:"type:text;not null"`
	CreatedAt time.Time           `gorm:"not null;index:idx_messages_session_created,priority:2"`
	Sender    *usergorm.UserModel `gorm:"foreignKey:SenderID;constraint:OnDelete:RESTRICT"`
}

// TableName overrides the default table name used by GORM.
func (MessageModel) TableName() string {
	return "messages"
}

// BeforeCreate ensures a time-ordered UUID is set before inserting a new record.
func (m *MessageModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		m.ID = id
	}
	return nil
}
