package service

import (
	"context"
	"time"

	"library_backend/internal/access"
	"library_backend/internal/models"
	"library_backend/internal/repository"
)

// StatsService reports circulation counters.
type StatsService struct {
	statsRepo repository.StatsRepo
	now       func() time.Time
}

func NewStatsService(statsRepo repository.StatsRepo) *StatsService {
	return &StatsService{statsRepo: statsRepo, now: func() time.Time { return time.Now().UTC() }}
}

// Snapshot returns the admin dashboard counters.
func (s *StatsService) Snapshot(ctx context.Context, who models.Identity) (models.CirculationStats, error) {
	if err := access.Authorize(who, access.AdminOnly); err != nil {
		return models.CirculationStats{}, err
	}
	return s.Current(ctx)
}

// Current returns the counters without an access check. It feeds the live
// stats stream, which authenticates on connect.
func (s *StatsService) Current(ctx context.Context) (models.CirculationStats, error) {
	return s.statsRepo.Snapshot(ctx, s.now())
}
