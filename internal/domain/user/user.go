// Package user holds the identity model for session participants.
package user

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role is the kind of participant a user is.
type Role string

const (
	RoleDoctor  Role = "DOCTOR"
	RoleStaff   Role = "STAFF"
	RolePatient Role = "PATIENT"
)

// Roles lists every supported role.
var Roles = []Role{RoleDoctor, RoleStaff, RolePatient}

var (
	// ErrNotFound is returned by repositories when no user matches.
	ErrNotFound = errors.New("user not found")
	// ErrEmptyName is returned when no display name is provided.
	ErrEmptyName = errors.New("user name is required")
	// ErrEmptyEmail is returned when no contact address is provided.
	ErrEmptyEmail = errors.New("user email is required")
	// ErrInvalidRole is returned for roles outside Roles.
	ErrInvalidRole = errors.New("invalid user role")
)

// User is a participant identity. It is referenced by sessions and
// messages but never owned by them.
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// Valid reports whether r is one of the supported roles.
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// New constructs a user with a fresh identifier.
func New(name, email, passwordHash string, role Role) (*User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if name == "" {
		return nil, ErrEmptyName
	}
	if email == "" {
		return nil, ErrEmptyEmail
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	return &User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}, nil
}
