package messagegorm

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/oggyb/session-messaging/internal/db"
	"github.com/oggyb/session-messaging/internal/domain/message"
	"gorm.io/gorm"
)

// chronological is the single ordering used by every listing. The id
// column breaks ties between equal timestamps because ids are UUIDv7.
const chronological = "created_at ASC, id ASC"

// Repository is a GORM-backed implementation of the message.Repository interface.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a message repository using the given DB adapter.
func NewRepository(d db.DB) *Repository {
	return &Repository{
		db: d.Conn().(*gorm.DB),
	}
}

// Create inserts m and reads it back with its sender inside one transaction.
func (r *Repository) Create(ctx context.Context, m *message.Message) (*message.Message, error) {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = message.Now()
	}

	var saved MessageModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := fromDomain(m)
		if err := tx.Omit("Sender").Create(model).Error; err != nil {
			return err
		}
		return tx.Preload("Sender").First(&saved, "id = ?", model.ID).Error
	})
	if err != nil {
		return nil, err
	}

	return toDomain(&saved), nil
}

// FindByID loads a single message by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*message.Message, error) {
	var model MessageModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, message.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return toDomain(&model), nil
}

// ListBySession returns every message in a session, oldest first.
func (r *Repository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*message.Message, error) {
	var models []MessageModel

	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order(chronological).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	return toDomainMany(models), nil
}

// ListBySessionWithSender is ListBySession with each sender preloaded.
func (r *Repository) ListBySessionWithSender(ctx context.Context, sessionID uuid.UUID) ([]*message.Message, error) {
	var models []MessageModel

	err := r.db.WithContext(ctx).
		Preload("Sender").
		Where("session_id = ?", sessionID).
		Order(chronological).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	return toDomainMany(models), nil
}

// LatestInSession returns the message with the greatest timestamp.
func (r *Repository) LatestInSession(ctx context.Context, sessionID uuid.UUID) (*message.Message, error) {
	var model MessageModel

	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC, id DESC").
		Take(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, message.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return toDomain(&model), nil
}

// SearchByContent does a case-insensitive substring match on content.
// LIKE wildcards in term are matched literally.
func (r *Repository) SearchByContent(ctx context.Context, term string) ([]*message.Message, error) {
	var models []MessageModel

	pattern := "%" + escapeLike(term) + "%"
	err := r.db.WithContext(ctx).
		Where(`LOWER(content) LIKE LOWER(?) ESCAPE '\'`, pattern).
		Order(chronological).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	return toDomainMany(models), nil
}

// CountBySession counts messages in a session.
func (r *Repository) CountBySession(ctx context.Context, sessionID uuid.UUID) (int64, error) {
	var total int64

	err := r.db.WithContext(ctx).
		Model(&MessageModel{}).
		Where("session_id = ?", sessionID).
		Count(&total).Error
	if err != nil {
		return 0, err
	}

	return total, nil
}

// ListPage returns a contiguous window of ListBySession.
func (r *Repository) ListPage(ctx context.Context, sessionID uuid.UUID, offset, limit int) ([]*message.Message, error) {
	var models []MessageModel

	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order(chronological).
		Offset(offset).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	return toDomainMany(models), nil
}

// Delete removes a message by id and returns the removed record.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (*message.Message, error) {
	var deleted MessageModel

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&deleted, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return message.ErrNotFound
			}
			return err
		}

		res := tx.Where("id = ?", id).Delete(&MessageModel{})
		if res.Error != nil {
			return res.Error
		}
		// Lost a race with a concurrent delete.
		if res.RowsAffected == 0 {
			return message.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toDomain(&deleted), nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// compile-time interface check
var _ message.Repository = (*Repository)(nil)
