package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/docvault/internal/blobstore"
	"github.com/Skotchmaster/docvault/internal/events"
	"github.com/Skotchmaster/docvault/internal/logging"
	"github.com/Skotchmaster/docvault/internal/models"
	"github.com/Skotchmaster/docvault/internal/repo"
	"github.com/Skotchmaster/docvault/internal/search"
)

type DocumentService struct {
	Repo     *repo.GormRepo
	Blobs    blobstore.Store
	Indexer  *search.Indexer
	Producer *events.Producer
}

type UploadInput struct {
	OriginalName string
	Encoding     string
	MimeType     string
	Size         int64
	Data         []byte
}

type DocumentSummary struct {
	ID       uuid.UUID `json:"document_id"`
	Name     string    `json:"document_name"`
	Category string    `json:"document_type"`
	Size     int64     `json:"document_size"`
}

func (s *DocumentService) Upload(ctx context.Context, ownerID uuid.UUID, in UploadInput) (*models.Document, error) {
	l := logging.FromContext(ctx).With("svc", "document.upload", "owner_id", ownerID)

	if _, err := s.Repo.FindDocumentByOwnerAndName(ctx, ownerID, in.OriginalName); err == nil {
		return nil, Conflict("document already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		l.Error("upload_failed", "error", err)
		return nil, Internal(err)
	}

	doc := models.Document{
		ID:           uuid.New(),
		OwnerID:      ownerID,
		OriginalName: in.OriginalName,
		Encoding:     in.Encoding,
		MimeType:     in.MimeType,
		Category:     Categorize(in.OriginalName),
		Size:         in.Size,
	}
	doc.BlobRef = doc.ID.String()

	if err := s.Repo.CreateDocument(ctx, &doc); err != nil {
		if repo.IsDuplicate(err) {
			return nil, Conflict("document already exists")
		}
		l.Error("upload_failed", "error", err)
		return nil, Internal(err)
	}

	if err := s.Blobs.Put(ctx, doc.BlobRef, in.Data); err != nil {
		// Metadata without bytes is worse than a failed upload.
		if delErr := s.Repo.DeleteDocumentCascade(ctx, doc.ID); delErr != nil {
			l.Error("upload_rollback_failed", "error", delErr)
		}
		l.Error("upload_failed", "reason", "blob store", "error", err)
		return nil, Internal(err)
	}

	if s.Indexer != nil {
		if err := s.Indexer.IndexDocument(ctx, &doc); err != nil {
			l.Warn("index_failed", "document_id", doc.ID, "error", err)
		}
	}

	if err := s.Producer.PublishEvent(ctx, events.TopicDocumentEvents, doc.ID.String(), map[string]any{
		"type":     "document_uploaded",
		"owner_id": ownerID.String(),
		"name":     doc.OriginalName,
	}); err != nil {
		l.Warn("event_publish_failed", "error", err)
	}

	l.Info("document_uploaded", "document_id", doc.ID, "category", doc.Category)
	return &doc, nil
}

func (s *DocumentService) List(ctx context.Context, ownerID uuid.UUID) ([]DocumentSummary, error) {
	docs, err := s.Repo.ListDocumentsByOwner(ctx, ownerID)
	if err != nil {
		return nil, Internal(err)
	}

	summaries := make([]DocumentSummary, len(docs))
	for i, doc := range docs {
		summaries[i] = DocumentSummary{
			ID:       doc.ID,
			Name:     doc.OriginalName,
			Category: doc.Category,
			Size:     doc.Size,
		}
	}
	return summaries, nil
}

func (s *DocumentService) Get(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	doc, err := s.Repo.GetDocument(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("document not found")
		}
		return nil, Internal(err)
	}
	return doc, nil
}

// Delete removes the document, its grants and its blob. Only the owner may
// delete.
func (s *DocumentService) Delete(ctx context.Context, callerID, id uuid.UUID) error {
	l := logging.FromContext(ctx).With("svc", "document.delete", "document_id", id)

	doc, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if doc.OwnerID != callerID {
		return Unauthorized("not the document owner")
	}

	if err := s.Repo.DeleteDocumentCascade(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFound("document not found")
		}
		l.Error("delete_failed", "error", err)
		return Internal(err)
	}

	if err := s.Blobs.Delete(ctx, doc.BlobRef); err != nil {
		l.Warn("blob_delete_failed", "error", err)
	}
	if s.Indexer != nil {
		if err := s.Indexer.DeleteDocument(ctx, id); err != nil {
			l.Warn("index_delete_failed", "error", err)
		}
	}

	if err := s.Producer.PublishEvent(ctx, events.TopicDocumentEvents, id.String(), map[string]any{
		"type": "document_deleted",
	}); err != nil {
		l.Warn("event_publish_failed", "error", err)
	}

	l.Info("document_deleted")
	return nil
}

// Download returns the document and its bytes for the owner or for a user the
// document was shared with.
func (s *DocumentService) Download(ctx context.Context, callerID, id uuid.UUID) (*models.Document, []byte, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if doc.OwnerID != callerID {
		caller, err := s.Repo.GetUserByID(ctx, callerID)
		if err != nil {
			return nil, nil, Unauthorized("user not found")
		}
		granted, err := s.Repo.HasShareGrantFor(ctx, caller.Email, id)
		if err != nil {
			return nil, nil, Internal(err)
		}
		if !granted {
			return nil, nil, Unauthorized("document not shared with you")
		}
	}

	data, err := s.Blobs.Get(ctx, doc.BlobRef)
	if err != nil {
		if errors.Is(err, blobstore.ErrBlobNotFound) {
			return nil, nil, NotFound("document not found")
		}
		return nil, nil, Internal(err)
	}
	return doc, data, nil
}
