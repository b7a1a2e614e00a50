package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"  json:"id"`
	FirstName    string    `gorm:"not null"              json:"first_name"`
	LastName     string    `gorm:"not null"              json:"last_name"`
	Email        string    `gorm:"uniqueIndex;not null"  json:"email"`
	PasswordHash string    `gorm:"not null"              json:"-"`
}

// Session is one persisted refresh-token record per login. TokenHash is the
// sha256 of the refresh token value; the raw token never touches the database.
type Session struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"      json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null"  json:"user_id"`
	TokenHash string    `gorm:"uniqueIndex;not null"      json:"-"`
	IssuedAt  time.Time `gorm:"not null"                  json:"issued_at"`
	ExpiresAt time.Time `gorm:"not null"                  json:"expires_at"`
}

type Document struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"                           json:"id"`
	OwnerID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_owner_name"  json:"owner_id"`
	OriginalName string    `gorm:"not null;uniqueIndex:idx_owner_name"            json:"original_name"`
	Encoding     string    `json:"encoding"`
	MimeType     string    `json:"mime_type"`
	Category     string    `gorm:"not null"                                       json:"category"`
	BlobRef      string    `gorm:"not null"                                       json:"-"`
	Size         int64     `gorm:"not null"                                       json:"size"`
}

type ShareGrant struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"                             json:"id"`
	SharedBy   string    `gorm:"not null;uniqueIndex:idx_share_triple"            json:"shared_by"`
	SharedTo   string    `gorm:"not null;index;uniqueIndex:idx_share_triple"      json:"shared_to"`
	DocumentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_share_triple"  json:"document_id"`
}

// Blob backs the database blob store. S3-backed deployments leave this table
// empty.
type Blob struct {
	Ref  string `gorm:"primaryKey"  json:"ref"`
	Data []byte `gorm:"not null"    json:"-"`
}
