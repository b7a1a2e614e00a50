package service

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/docvault/internal/blobstore"
	"github.com/Skotchmaster/docvault/internal/models"
	"github.com/Skotchmaster/docvault/internal/repo"
)

type testEnv struct {
	DB     *gorm.DB
	Repo   *repo.GormRepo
	Auth   *AuthService
	Docs   *DocumentService
	Shares *ShareService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Document{},
		&models.ShareGrant{},
		&models.Blob{},
	))

	rp := &repo.GormRepo{DB: db}

	return &testEnv{
		DB:   db,
		Repo: rp,
		Auth: &AuthService{
			Repo:       rp,
			Secret:     []byte("test-secret"),
			AccessTTL:  30 * time.Second,
			RefreshTTL: 7 * 24 * time.Hour,
		},
		Docs: &DocumentService{
			Repo:  rp,
			Blobs: &blobstore.DBStore{DB: db},
		},
		Shares: &ShareService{
			Repo: rp,
		},
	}
}
