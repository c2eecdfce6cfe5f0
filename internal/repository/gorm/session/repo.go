package sessiongorm

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/oggyb/session-messaging/internal/db"
	"github.com/oggyb/session-messaging/internal/domain/session"
	"gorm.io/gorm"
)

// Repository is a GORM-backed implementation of session.Repository.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a session repository using the given DB adapter.
func NewRepository(d db.DB) *Repository {
	return &Repository{
		db: d.Conn().(*gorm.DB),
	}
}

// Create inserts a new session record. Messages are never written here.
func (r *Repository) Create(ctx context.Context, s *session.Session) error {
	model := fromDomain(s)
	if err := r.db.WithContext(ctx).Omit("Messages").Create(model).Error; err != nil {
		return err
	}
	s.ID = model.ID
	return nil
}

// FindByID loads a session by primary key, without messages.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*session.Session, error) {
	var model SessionModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, session.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return toDomain(&model), nil
}

var _ session.Repository = (*Repository)(nil)
