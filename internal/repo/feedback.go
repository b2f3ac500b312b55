package repo

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dkotenko/snipvault/internal/models"
)

func (r *Repo) CreateFeedback(ctx context.Context, f *models.Feedback) error {
	return r.DB.WithContext(ctx).Create(f).Error
}

// ListFeedback returns all entries, newest first, with the author preloaded.
// Admin-only surface; not owner-scoped.
func (r *Repo) ListFeedback(ctx context.Context) ([]models.Feedback, error) {
	var entries []models.Feedback
	err := r.DB.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *Repo) UpdateFeedback(ctx context.Context, id uuid.UUID, status string, reply *string) (*models.Feedback, error) {
	now := time.Now().UTC()
	res := r.DB.WithContext(ctx).Model(&models.Feedback{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     status,
			"reply":      reply,
			"replied_at": now,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	var updated models.Feedback
	if err := r.DB.WithContext(ctx).Preload("User").First(&updated, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &updated, nil
}
