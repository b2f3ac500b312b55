package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dkotenko/snipvault/internal/models"
)

// incrementUsageSQL is a single atomic upsert-with-limit-check. Two concurrent
// requests racing on the last remaining slot cannot both succeed: the storage
// engine serializes the conflict on the (user_id, date) unique constraint and
// the WHERE clause on the update arm rejects the loser.
const incrementUsageSQL = `
INSERT INTO ai_usages (id, user_id, date, count)
VALUES (?, ?, ?, 1)
ON CONFLICT (user_id, date)
DO UPDATE SET count = ai_usages.count + 1 WHERE ai_usages.count < ?
RETURNING count`

// IncrementUsage consumes one quota slot for (userID, date) if fewer than
// limit have been used. Returns the post-increment count and whether the slot
// was granted. A denied attempt performs no write.
func (r *Repo) IncrementUsage(ctx context.Context, userID uuid.UUID, date string, limit int) (int, bool, error) {
	var count int
	res := r.DB.WithContext(ctx).
		Raw(incrementUsageSQL, uuid.New(), userID, date, limit).
		Scan(&count)
	if res.Error != nil {
		return 0, false, res.Error
	}
	if res.RowsAffected == 0 {
		return limit, false, nil
	}
	return count, true, nil
}

// GetUsage reads the current count without mutating it. A missing row means
// no usage today.
func (r *Repo) GetUsage(ctx context.Context, userID uuid.UUID, date string) (int, error) {
	var usage models.AIUsage
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		First(&usage).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return usage.Count, nil
}
