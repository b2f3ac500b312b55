package repo

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dkotenko/snipvault/internal/models"
)

func (r *Repo) ListTags(ctx context.Context, userID uuid.UUID) ([]models.Tag, error) {
	var tags []models.Tag
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("name ASC").
		Find(&tags).Error
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// CreateTag normalizes the name and is idempotent per (user, name).
func (r *Repo) CreateTag(ctx context.Context, userID uuid.UUID, name string) (*models.Tag, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	tag := models.Tag{UserID: userID, Name: name}

	err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&tag).Error
	if err != nil && !isUniqueViolation(err) {
		return nil, err
	}

	var stored models.Tag
	if err := r.DB.WithContext(ctx).
		Where("user_id = ? AND name = ?", userID, name).
		First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

// SetSnippetTags replaces a snippet's tag set.
func (r *Repo) SetSnippetTags(ctx context.Context, snippet *models.Snippet, tags []models.Tag) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Model(snippet).Association("Tags").Replace(tags)
	})
}

func (r *Repo) ListSnippetTags(ctx context.Context, snippet *models.Snippet) ([]models.Tag, error) {
	var tags []models.Tag
	if err := r.DB.WithContext(ctx).Model(snippet).Association("Tags").Find(&tags); err != nil {
		return nil, err
	}
	return tags, nil
}
