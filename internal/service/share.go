package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/docvault/internal/events"
	"github.com/Skotchmaster/docvault/internal/logging"
	"github.com/Skotchmaster/docvault/internal/models"
	"github.com/Skotchmaster/docvault/internal/repo"
)

type ShareService struct {
	Repo     *repo.GormRepo
	Producer *events.Producer
}

// SharedDocumentView joins a grant with the shared document's metadata. Owner
// fields stay out of the view.
type SharedDocumentView struct {
	GrantID    uuid.UUID `json:"grant_id"`
	DocumentID uuid.UUID `json:"document_id"`
	Name       string    `json:"document_name"`
	Category   string    `json:"document_type"`
	Size       int64     `json:"document_size"`
}

// Share grants receiverEmail access to the document. Check order matters:
// self-share and existence are rejected before the duplicate check so the
// error a caller sees is unambiguous.
func (s *ShareService) Share(ctx context.Context, senderID uuid.UUID, receiverEmail string, documentID uuid.UUID) (*models.ShareGrant, error) {
	l := logging.FromContext(ctx).With("svc", "share.create", "document_id", documentID)

	sender, err := s.Repo.GetUserByID(ctx, senderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, Unauthorized("sender not found")
		}
		l.Error("share_failed", "error", err)
		return nil, Internal(err)
	}

	if receiverEmail == sender.Email {
		return nil, Conflict("cannot share document with self")
	}

	receiver, err := s.Repo.GetUserByEmail(ctx, receiverEmail)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("receiver email not found")
		}
		l.Error("share_failed", "error", err)
		return nil, Internal(err)
	}

	if _, err := s.Repo.GetDocument(ctx, documentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("document not found")
		}
		l.Error("share_failed", "error", err)
		return nil, Internal(err)
	}

	if existing, err := s.Repo.FindShareGrant(ctx, sender.Email, receiver.Email, documentID); err == nil {
		return nil, Conflict(fmt.Sprintf("document already shared to %s", existing.SharedTo))
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		l.Error("share_failed", "error", err)
		return nil, Internal(err)
	}

	grant := models.ShareGrant{
		SharedBy:   sender.Email,
		SharedTo:   receiver.Email,
		DocumentID: documentID,
	}
	if err := s.Repo.CreateShareGrant(ctx, &grant); err != nil {
		if repo.IsDuplicate(err) {
			return nil, Conflict(fmt.Sprintf("document already shared to %s", receiver.Email))
		}
		l.Error("share_failed", "error", err)
		return nil, Internal(err)
	}

	if err := s.Producer.PublishEvent(ctx, events.TopicDocumentEvents, documentID.String(), map[string]any{
		"type":      "document_shared",
		"shared_by": grant.SharedBy,
		"shared_to": grant.SharedTo,
	}); err != nil {
		l.Warn("event_publish_failed", "error", err)
	}

	l.Info("document_shared", "shared_to", grant.SharedTo)
	return &grant, nil
}

// ListSharedWith returns every grant addressed to the user, joined with the
// referenced document by the service layer rather than by the store.
func (s *ShareService) ListSharedWith(ctx context.Context, userID uuid.UUID) ([]SharedDocumentView, error) {
	l := logging.FromContext(ctx).With("svc", "share.list")

	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, Unauthorized("user not found")
		}
		return nil, Internal(err)
	}

	grants, err := s.Repo.ListShareGrantsTo(ctx, user.Email)
	if err != nil {
		return nil, Internal(err)
	}

	views := make([]SharedDocumentView, 0, len(grants))
	for _, grant := range grants {
		doc, err := s.Repo.GetDocument(ctx, grant.DocumentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Cascade delete keeps this from happening; tolerate anyway.
				l.Warn("dangling_share_grant", "grant_id", grant.ID)
				continue
			}
			return nil, Internal(err)
		}
		views = append(views, SharedDocumentView{
			GrantID:    grant.ID,
			DocumentID: doc.ID,
			Name:       doc.OriginalName,
			Category:   doc.Category,
			Size:       doc.Size,
		})
	}
	return views, nil
}
