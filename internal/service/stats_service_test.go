package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/edudesk/edudesk-api/internal/models"
	"github.com/edudesk/edudesk-api/internal/repository"
)

type statsUserRepo struct {
	memoryUserRepo
	daily      []repository.DailyGrowthPoint
	byRole     []repository.RoleGrowthPoint
	roleCounts []map[models.Role]int64
	calls      int
}

func (r *statsUserRepo) GrowthStats(ctx context.Context, start, end string) ([]repository.DailyGrowthPoint, error) {
	r.calls++
	return r.daily, nil
}

func (r *statsUserRepo) GrowthStatsByRole(ctx context.Context, start, end string) ([]repository.RoleGrowthPoint, error) {
	return r.byRole, nil
}

func (r *statsUserRepo) RoleCountsBetween(ctx context.Context, start, end string) (map[models.Role]int64, error) {
	if len(r.roleCounts) == 0 {
		return map[models.Role]int64{}, nil
	}
	counts := r.roleCounts[0]
	r.roleCounts = r.roleCounts[1:]
	return counts, nil
}

func TestStatsServiceUserGrowthCache(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer redisClient.Close()

	repo := &statsUserRepo{daily: []repository.DailyGrowthPoint{
		{Date: "2026-01-01", Count: 3, Percentage: 60},
		{Date: "2026-01-02", Count: 2, Percentage: 40},
	}}

	svc := NewStatsService(repo, redisClient, time.Minute, testLogger())

	resp, err := svc.UserGrowth(context.Background(), "2026-01-01", "2026-01-02")
	require.NoError(t, err)
	require.False(t, resp.CacheHit)
	require.Len(t, resp.Daily, 2)
	require.Equal(t, 1, repo.calls)

	cached, err := svc.UserGrowth(context.Background(), "2026-01-01", "2026-01-02")
	require.NoError(t, err)
	require.True(t, cached.CacheHit)
	require.Len(t, cached.Daily, 2)
	require.Equal(t, 1, repo.calls)

	// a different window misses the cache
	_, err = svc.UserGrowth(context.Background(), "2026-01-03", "2026-01-04")
	require.NoError(t, err)
	require.Equal(t, 2, repo.calls)
}

func TestStatsServiceUserGrowthWithoutCache(t *testing.T) {
	repo := &statsUserRepo{daily: []repository.DailyGrowthPoint{}}
	svc := NewStatsService(repo, nil, time.Minute, testLogger())

	resp, err := svc.UserGrowth(context.Background(), "2026-01-01", "2026-01-02")
	require.NoError(t, err)
	require.False(t, resp.CacheHit)
	require.Empty(t, resp.Daily)
}

func TestStatsServiceGrowthComparison(t *testing.T) {
	repo := &statsUserRepo{roleCounts: []map[models.Role]int64{
		{models.RoleStudent: 30, models.RoleTeacher: 4},  // current window
		{models.RoleStudent: 20, models.RoleTeacher: 0},  // previous window
	}}

	svc := NewStatsService(repo, nil, time.Minute, testLogger())

	comparisons, err := svc.GrowthComparison(context.Background(), "2026-02-01", "2026-02-28", "2026-01-01", "2026-01-31")
	require.NoError(t, err)
	require.Len(t, comparisons, 3)

	byRole := map[models.Role]float64{}
	for _, c := range comparisons {
		byRole[c.Role] = c.GrowthPercentage
	}
	require.InDelta(t, 50.0, byRole[models.RoleStudent], 0.001)
	// a role with no previous signups reports 100x the current count
	require.InDelta(t, 400.0, byRole[models.RoleTeacher], 0.001)
	require.InDelta(t, 0.0, byRole[models.RoleAdmin], 0.001)
}
