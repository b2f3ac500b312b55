package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dkotenko/snipvault/internal/repo"
)

// DailyAILimit is applied uniformly; there are no per-user overrides.
const DailyAILimit = 10

type QuotaService struct {
	Repo *repo.Repo

	// Now is the clock reference for the UTC day boundary. Nil means
	// time.Now. Evaluated fresh on every check; never cached across requests.
	Now func() time.Time
}

type QuotaUsage struct {
	Count     int `json:"count"`
	Limit     int `json:"limit"`
	Remaining int `json:"remaining"`
}

func (s *QuotaService) today() string {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	return now().UTC().Format("2006-01-02")
}

// CheckAndIncrement consumes one slot of today's quota if any remain. The
// read-modify-write is a single atomic statement at the storage layer; a
// denied attempt consumes nothing.
func (s *QuotaService) CheckAndIncrement(ctx context.Context, userID uuid.UUID) (allowed bool, remaining int, err error) {
	count, allowed, err := s.Repo.IncrementUsage(ctx, userID, s.today(), DailyAILimit)
	if err != nil {
		return false, 0, err
	}
	if !allowed {
		return false, 0, nil
	}
	return true, DailyAILimit - count, nil
}

// Usage never mutates state; it exists for display.
func (s *QuotaService) Usage(ctx context.Context, userID uuid.UUID) (QuotaUsage, error) {
	count, err := s.Repo.GetUsage(ctx, userID, s.today())
	if err != nil {
		return QuotaUsage{}, err
	}
	return QuotaUsage{
		Count:     count,
		Limit:     DailyAILimit,
		Remaining: DailyAILimit - count,
	}, nil
}
