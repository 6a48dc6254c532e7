package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/eventpulse/eventpulse-api/internal/domain"
)

// StatsService serves the organizer dashboard aggregates, cache-aside when a
// cache is configured. Stale reads are bounded by the cache TTL plus the
// invalidations done on every mutation.
type StatsService struct {
	repo  EventRepository
	cache Cache
}

func NewStatsService(repo EventRepository, cache Cache) *StatsService {
	return &StatsService{
		repo:  repo,
		cache: cache,
	}
}

func (s *StatsService) GetStats(ctx context.Context, organizerID string) (domain.EventStats, error) {
	if s.cache != nil {
		stats, err := s.cache.GetStats(ctx, organizerID)
		if err == nil {
			return stats, nil
		}
	}

	stats, err := s.repo.StatsByOrganizer(ctx, organizerID)
	if err != nil {
		return domain.EventStats{}, storeErr("s.repo.StatsByOrganizer", err)
	}

	if s.cache != nil {
		if err := s.cache.SetStats(ctx, organizerID, stats); err != nil {
			zap.L().Warn("failed to cache stats", zap.Error(err))
		}
	}

	return stats, nil
}
