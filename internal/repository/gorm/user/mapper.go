package usergorm

import (
	"github.com/oggyb/session-messaging/internal/domain/user"
)

// ToDomain maps a GORM UserModel to a domain-level User.
// It is exported for the message repository, which preloads senders.
func ToDomain(m *UserModel) *user.User {
	if m == nil {
		return nil
	}
	return &user.User{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         user.Role(m.Role),
		CreatedAt:    m.CreatedAt,
	}
}

func fromDomain(u *user.User) *UserModel {
	return &UserModel{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		CreatedAt:    u.CreatedAt,
	}
}
