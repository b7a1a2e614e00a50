package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/docvault/internal/models"
)

func (r *GormRepo) CreateDocument(ctx context.Context, doc *models.Document) error {
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	return r.DB.WithContext(ctx).Create(doc).Error
}

func (r *GormRepo) GetDocument(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	var doc models.Document
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&doc).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *GormRepo) FindDocumentByOwnerAndName(ctx context.Context, ownerID uuid.UUID, name string) (*models.Document, error) {
	var doc models.Document
	err := r.DB.WithContext(ctx).
		Where("owner_id = ? AND original_name = ?", ownerID, name).
		First(&doc).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *GormRepo) ListDocumentsByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Document, error) {
	var docs []models.Document
	err := r.DB.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Find(&docs).Error
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// DeleteDocumentCascade removes the document together with every grant that
// references it, so shared listings never see a dangling grant.
func (r *GormRepo) DeleteDocumentCascade(ctx context.Context, id uuid.UUID) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("document_id = ?", id).Delete(&models.ShareGrant{}).Error; err != nil {
			return err
		}

		res := tx.Where("id = ?", id).Delete(&models.Document{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
