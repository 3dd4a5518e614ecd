package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/edudesk/edudesk-api/internal/apperr"
	"github.com/edudesk/edudesk-api/internal/dto"
	"github.com/edudesk/edudesk-api/internal/models"
	"github.com/edudesk/edudesk-api/internal/observability"
	"github.com/edudesk/edudesk-api/internal/repository"
)

// StatsService computes user growth analytics over a date window. Results
// are cached in Redis keyed by the window; cache failures degrade to a
// direct aggregation, never to an error.
type StatsService interface {
	UserGrowth(ctx context.Context, startDate, endDate string) (dto.UserGrowthResponse, error)
	GrowthComparison(ctx context.Context, currentStart, currentEnd, previousStart, previousEnd string) ([]dto.RoleGrowthComparison, error)
}

type statsService struct {
	repo     repository.UserRepository
	cache    *redis.Client
	cacheTTL time.Duration
	tracer   trace.Tracer
	logger   zerolog.Logger
}

// NewStatsService constructs the stats service. cache may be nil; caching
// is then skipped entirely.
func NewStatsService(repo repository.UserRepository, cache *redis.Client, cacheTTL time.Duration, logger zerolog.Logger) StatsService {
	return &statsService{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
		tracer:   otel.Tracer("edudesk.stats"),
		logger:   logger.With().Str("component", "stats_service").Logger(),
	}
}

func growthCacheKey(startDate, endDate string) string {
	return fmt.Sprintf("stats:user_growth:%s:%s", startDate, endDate)
}

// UserGrowth returns the per-day signup series plus the role distribution
// for the window. Both halves come from a single pass each over the users
// collection.
func (s *statsService) UserGrowth(ctx context.Context, startDate, endDate string) (dto.UserGrowthResponse, error) {
	ctx, span := s.tracer.Start(ctx, "stats.user_growth",
		trace.WithAttributes(
			attribute.String("stats.start_date", startDate),
			attribute.String("stats.end_date", endDate),
		))
	defer span.End()

	key := growthCacheKey(startDate, endDate)
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, key).Result()
		if err == nil {
			var cached dto.UserGrowthResponse
			if decodeErr := json.Unmarshal([]byte(raw), &cached); decodeErr == nil {
				cached.CacheHit = true
				span.SetAttributes(attribute.Bool("cache.hit", true))
				observability.StatsCacheHits().Inc()
				return cached, nil
			} else {
				s.logger.Warn().Err(decodeErr).Str("key", key).Msg("discarding undecodable cache entry")
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Str("key", key).Msg("stats cache read failed")
		}
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))
	observability.StatsCacheMisses().Inc()

	daily, err := s.repo.GrowthStats(ctx, startDate, endDate)
	if err != nil {
		return dto.UserGrowthResponse{}, err
	}
	byRole, err := s.repo.GrowthStatsByRole(ctx, startDate, endDate)
	if err != nil {
		return dto.UserGrowthResponse{}, err
	}

	response := dto.UserGrowthResponse{Daily: daily, ByRole: byRole}

	if s.cache != nil {
		encoded, err := json.Marshal(response)
		if err != nil {
			return dto.UserGrowthResponse{}, apperr.Internal("encode growth stats for cache", err)
		}
		if err := s.cache.Set(ctx, key, encoded, s.cacheTTL).Err(); err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("stats cache write failed")
		}
	}
	return response, nil
}

// GrowthComparison compares per-role signup counts between two windows.
// A role absent from the previous window reports a growth percentage of
// one hundred times the current count.
func (s *statsService) GrowthComparison(ctx context.Context, currentStart, currentEnd, previousStart, previousEnd string) ([]dto.RoleGrowthComparison, error) {
	ctx, span := s.tracer.Start(ctx, "stats.growth_comparison")
	defer span.End()

	current, err := s.repo.RoleCountsBetween(ctx, currentStart, currentEnd)
	if err != nil {
		return nil, err
	}
	previous, err := s.repo.RoleCountsBetween(ctx, previousStart, previousEnd)
	if err != nil {
		return nil, err
	}

	comparisons := make([]dto.RoleGrowthComparison, 0, len(models.Roles()))
	for _, role := range models.Roles() {
		prev := previous[role]
		cur := current[role]
		var growth float64
		if prev == 0 {
			growth = float64(cur) * 100
		} else {
			growth = (float64(cur) - float64(prev)) / float64(prev) * 100
		}
		comparisons = append(comparisons, dto.RoleGrowthComparison{
			Role:             role,
			Previous:         prev,
			Current:          cur,
			GrowthPercentage: roundTo2(growth),
		})
	}
	return comparisons, nil
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
