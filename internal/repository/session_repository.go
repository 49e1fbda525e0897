package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"sanabridge/internal/model"
)

// SessionRepository persists login sessions keyed by token hash.
// Rows only ever contain the hash; callers hash before lookup.
type SessionRepository interface {
	Create(ctx context.Context, session *model.Session) error
	FindByHash(ctx context.Context, tokenHash string) (*model.Session, error)
	DeleteByHash(ctx context.Context, tokenHash string) error
	DeleteForUser(ctx context.Context, userID uuid.UUID) error
}

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository builds a GORM-backed session repository.
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *model.Session) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *sessionRepository) FindByHash(ctx context.Context, tokenHash string) (*model.Session, error) {
	var session model.Session
	if err := r.db.WithContext(ctx).
		Where("token_hash = ?", tokenHash).First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// DeleteByHash removes a session row. Deleting an absent hash is a no-op.
func (r *sessionRepository) DeleteByHash(ctx context.Context, tokenHash string) error {
	return r.db.WithContext(ctx).
		Where("token_hash = ?", tokenHash).Delete(&model.Session{}).Error
}

// DeleteForUser revokes every session belonging to a user, e.g. after a
// password change.
func (r *sessionRepository) DeleteForUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).Delete(&model.Session{}).Error
}
