package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/google/uuid"

	"github.com/Skotchmaster/docvault/internal/models"
)

// Indexer mirrors document metadata into elasticsearch for owner-scoped name
// search. Blob contents are never indexed.
type Indexer struct {
	ES    *elasticsearch.Client
	Index string
}

type DocumentHit struct {
	ID           string `json:"id"`
	OwnerID      string `json:"owner_id"`
	OriginalName string `json:"original_name"`
	Category     string `json:"category"`
	Size         int64  `json:"size"`
}

func (ix *Indexer) IndexDocument(ctx context.Context, doc *models.Document) error {
	entry := DocumentHit{
		ID:           doc.ID.String(),
		OwnerID:      doc.OwnerID.String(),
		OriginalName: doc.OriginalName,
		Category:     doc.Category,
		Size:         doc.Size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(entry); err != nil {
		return err
	}

	res, err := ix.ES.Index(
		ix.Index,
		&buf,
		ix.ES.Index.WithDocumentID(entry.ID),
		ix.ES.Index.WithContext(ctx),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index document: %s", res.Status())
	}
	return nil
}

func (ix *Indexer) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	res, err := ix.ES.Delete(
		ix.Index,
		id.String(),
		ix.ES.Delete.WithContext(ctx),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete document: %s", res.Status())
	}
	return nil
}

func (ix *Indexer) Search(ctx context.Context, ownerID uuid.UUID, query string) ([]DocumentHit, error) {
	body := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"match": map[string]any{
						"original_name": map[string]any{
							"query":     query,
							"fuzziness": "AUTO",
						},
					},
				},
				"filter": map[string]any{
					"term": map[string]any{
						"owner_id": ownerID.String(),
					},
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, err
	}

	res, err := ix.ES.Search(
		ix.ES.Search.WithContext(ctx),
		ix.ES.Search.WithIndex(ix.Index),
		ix.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Hits []struct {
				Source DocumentHit `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, err
	}

	hits := make([]DocumentHit, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		hits[i] = hit.Source
	}
	return hits, nil
}
