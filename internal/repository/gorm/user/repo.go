package usergorm

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/oggyb/session-messaging/internal/db"
	"github.com/oggyb/session-messaging/internal/domain/user"
	"gorm.io/gorm"
)

// Repository is a GORM-backed implementation of user.Repository.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a user repository using the given DB adapter.
func NewRepository(d db.DB) *Repository {
	return &Repository{
		db: d.Conn().(*gorm.DB),
	}
}

// Create inserts a new user record.
func (r *Repository) Create(ctx context.Context, u *user.User) error {
	model := fromDomain(u)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	u.ID = model.ID
	return nil
}

// FindByID loads a user by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	var model UserModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, user.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return ToDomain(&model), nil
}

var _ user.Repository = (*Repository)(nil)
