package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dkotenko/snipvault/internal/models"
)

func (r *Repo) CreateToken(ctx context.Context, t *models.CLIToken) error {
	return r.DB.WithContext(ctx).Create(t).Error
}

func (r *Repo) FindTokenByDigest(ctx context.Context, digest string) (*models.CLIToken, error) {
	var token models.CLIToken
	if err := r.DB.WithContext(ctx).Where("token_digest = ?", digest).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &token, nil
}

// ListTokens returns the caller's tokens. The digest column is never
// projected outward.
func (r *Repo) ListTokens(ctx context.Context, userID uuid.UUID) ([]models.CLIToken, error) {
	var tokens []models.CLIToken
	err := r.DB.WithContext(ctx).
		Select("id", "user_id", "name", "created_at", "last_used_at").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&tokens).Error
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

// TouchTokenLastUsed is advisory bookkeeping; a lost update under a race is
// acceptable.
func (r *Repo) TouchTokenLastUsed(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.DB.WithContext(ctx).Model(&models.CLIToken{}).
		Where("id = ?", id).
		Update("last_used_at", at).Error
}

// DeleteToken revokes by id, scoped to the owner so one user cannot revoke
// another's token by guessing ids. Deleting a missing row is not an error.
func (r *Repo) DeleteToken(ctx context.Context, userID, tokenID uuid.UUID) error {
	return r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", tokenID, userID).
		Delete(&models.CLIToken{}).Error
}
