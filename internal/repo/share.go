package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/Skotchmaster/docvault/internal/models"
)

func (r *GormRepo) CreateShareGrant(ctx context.Context, grant *models.ShareGrant) error {
	if grant.ID == uuid.Nil {
		grant.ID = uuid.New()
	}
	return r.DB.WithContext(ctx).Create(grant).Error
}

func (r *GormRepo) FindShareGrant(ctx context.Context, sharedBy, sharedTo string, documentID uuid.UUID) (*models.ShareGrant, error) {
	var grant models.ShareGrant
	err := r.DB.WithContext(ctx).
		Where("shared_by = ? AND shared_to = ? AND document_id = ?", sharedBy, sharedTo, documentID).
		First(&grant).Error
	if err != nil {
		return nil, err
	}
	return &grant, nil
}

func (r *GormRepo) ListShareGrantsTo(ctx context.Context, sharedTo string) ([]models.ShareGrant, error) {
	var grants []models.ShareGrant
	err := r.DB.WithContext(ctx).
		Where("shared_to = ?", sharedTo).
		Find(&grants).Error
	if err != nil {
		return nil, err
	}
	return grants, nil
}

func (r *GormRepo) HasShareGrantFor(ctx context.Context, sharedTo string, documentID uuid.UUID) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.ShareGrant{}).
		Where("shared_to = ? AND document_id = ?", sharedTo, documentID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
