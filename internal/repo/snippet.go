package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dkotenko/snipvault/internal/models"
)

func (r *Repo) CreateSnippet(ctx context.Context, s *models.Snippet) error {
	return r.DB.WithContext(ctx).Create(s).Error
}

func (r *Repo) ListSnippets(ctx context.Context, userID uuid.UUID) ([]models.Snippet, error) {
	var snippets []models.Snippet
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&snippets).Error
	if err != nil {
		return nil, err
	}
	return snippets, nil
}

// GetSnippet is owner-scoped; a foreign id and a missing id fail identically.
func (r *Repo) GetSnippet(ctx context.Context, userID, id uuid.UUID) (*models.Snippet, error) {
	var snippet models.Snippet
	err := r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&snippet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &snippet, nil
}

type SnippetUpdate struct {
	Title       string
	Description string
	Code        string
	Language    string
	IsPublic    bool
}

func (r *Repo) UpdateSnippet(ctx context.Context, userID, id uuid.UUID, upd SnippetUpdate) (*models.Snippet, error) {
	res := r.DB.WithContext(ctx).Model(&models.Snippet{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]any{
			"title":       upd.Title,
			"description": upd.Description,
			"code":        upd.Code,
			"language":    upd.Language,
			"is_public":   upd.IsPublic,
			"updated_at":  time.Now().UTC(),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetSnippet(ctx, userID, id)
}

func (r *Repo) DeleteSnippet(ctx context.Context, userID, id uuid.UUID) error {
	return r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Snippet{}).Error
}
