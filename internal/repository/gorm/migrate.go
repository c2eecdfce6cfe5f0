// Package gormrepo groups the GORM repositories and their schema.
package gormrepo

import (
	"fmt"

	"github.com/oggyb/session-messaging/internal/db"
	messagegorm "github.com/oggyb/session-messaging/internal/repository/gorm/message"
	sessiongorm "github.com/oggyb/session-messaging/internal/repository/gorm/session"
	usergorm "github.com/oggyb/session-messaging/internal/repository/gorm/user"
	"gorm.io/gorm"
)

// AutoMigrate creates or updates the users, sessions and messages tables.
// Order matters: messages reference both other tables.
func AutoMigrate(d db.DB) error {
	conn := d.Conn().(*gorm.DB)

	if err := conn.AutoMigrate(
		&usergorm.UserModel{},
		&sessiongorm.SessionModel{},
		&messagegorm.MessageModel{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
