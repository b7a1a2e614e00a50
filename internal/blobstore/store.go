// Package blobstore holds raw document bytes behind an opaque reference. The
// registry keeps only the ref; swapping the backing store never touches
// document metadata.
package blobstore

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Skotchmaster/docvault/internal/models"
)

var ErrBlobNotFound = errors.New("blob not found")

type Store interface {
	Put(ctx context.Context, ref string, data []byte) error
	Get(ctx context.Context, ref string) ([]byte, error)
	Delete(ctx context.Context, ref string) error
}

// DBStore keeps blobs in a table next to the metadata, the default for small
// deployments.
type DBStore struct {
	DB *gorm.DB
}

func (s *DBStore) Put(ctx context.Context, ref string, data []byte) error {
	blob := models.Blob{Ref: ref, Data: data}
	return s.DB.WithContext(ctx).Create(&blob).Error
}

func (s *DBStore) Get(ctx context.Context, ref string) ([]byte, error) {
	var blob models.Blob
	if err := s.DB.WithContext(ctx).Where("ref = ?", ref).First(&blob).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlobNotFound
		}
		return nil, err
	}
	return blob.Data, nil
}

func (s *DBStore) Delete(ctx context.Context, ref string) error {
	return s.DB.WithContext(ctx).Where("ref = ?", ref).Delete(&models.Blob{}).Error
}
