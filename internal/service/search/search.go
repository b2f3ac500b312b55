// Package search keeps the caller's snippets queryable as they type. The
// index mirrors the relational store; writes to it are best-effort.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/google/uuid"

	"github.com/dkotenko/snipvault/internal/models"
)

// Document is the indexed projection of a snippet.
type Document struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Code        string `json:"code"`
	Language    string `json:"language"`
}

func docOf(s *models.Snippet) Document {
	return Document{
		ID:          s.ID.String(),
		UserID:      s.UserID.String(),
		Title:       s.Title,
		Description: s.Description,
		Code:        s.Code,
		Language:    s.Language,
	}
}

// Search runs a fuzzy multi-field query scoped to one user's documents.
func Search(ctx context.Context, es *elasticsearch.Client, index string, userID uuid.UUID, query string, from, size int) (int64, []Document, error) {
	body := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":     query,
						"fields":    []string{"title^2", "description", "code", "language"},
						"fuzziness": "AUTO",
					},
				},
				"filter": map[string]any{
					"term": map[string]any{"user_id": userID.String()},
				},
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("encode search query: %w", err)
	}

	res, err := es.Search(
		es.Search.WithContext(ctx),
		es.Search.WithIndex(index),
		es.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		msg, _ := io.ReadAll(res.Body)
		return 0, nil, fmt.Errorf("search: %s: %s", res.Status(), msg)
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source Document `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	docs := make([]Document, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		docs[i] = hit.Source
	}
	return r.Hits.Total.Value, docs, nil
}

// IndexSnippet upserts the snippet's document.
func IndexSnippet(ctx context.Context, es *elasticsearch.Client, index string, s *models.Snippet) error {
	data, err := json.Marshal(docOf(s))
	if err != nil {
		return err
	}

	res, err := es.Index(
		index,
		bytes.NewReader(data),
		es.Index.WithDocumentID(s.ID.String()),
		es.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index snippet: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index snippet: %s", res.Status())
	}
	return nil
}

// DeleteSnippet drops the snippet's document. A missing document is fine.
func DeleteSnippet(ctx context.Context, es *elasticsearch.Client, index string, id uuid.UUID) error {
	res, err := es.Delete(
		index,
		id.String(),
		es.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("delete snippet document: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete snippet document: %s", res.Status())
	}
	return nil
}
