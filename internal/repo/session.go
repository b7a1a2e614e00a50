package repo

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/docvault/internal/models"
)

func (r *GormRepo) CreateSession(ctx context.Context, s *models.Session) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return r.DB.WithContext(ctx).Create(s).Error
}

// FindValidSession returns any session for the user that has not passed its
// expiry. A signed refresh token without such a record is revoked.
func (r *GormRepo) FindValidSession(ctx context.Context, userID uuid.UUID, now time.Time) (*models.Session, error) {
	var session models.Session
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND expires_at >= ?", userID, now).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// DeleteSessionByTokenHash is idempotent: deleting an absent session is not an
// error.
func (r *GormRepo) DeleteSessionByTokenHash(ctx context.Context, tokenHash string) error {
	return r.DB.WithContext(ctx).
		Where("token_hash = ?", tokenHash).
		Delete(&models.Session{}).Error
}
