package repository

import (
	"context"
	"math"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/edudesk/edudesk-api/internal/apperr"
	"github.com/edudesk/edudesk-api/internal/docutil"
	"github.com/edudesk/edudesk-api/internal/models"
)

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func createdBetween(start, end string) (bson.M, error) {
	startAt, endAt, err := docutil.DayRange(start, end)
	if err != nil {
		return nil, err
	}
	return bson.M{"created_at": bson.M{"$gte": startAt, "$lte": endAt}}, nil
}

// GrowthStats returns the per-day counts of users created inside the
// inclusive date window, each with its share of the window total. An empty
// window yields an empty series.
func (r *userRepository) GrowthStats(ctx context.Context, start, end string) ([]DailyGrowthPoint, error) {
	match, err := createdBetween(start, end)
	if err != nil {
		return nil, err
	}

	pipeline := []bson.M{
		{"$match": match},
		{"$facet": bson.M{
			"dailyCounts": []bson.M{
				{"$group": bson.M{
					"_id":   bson.M{"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$created_at"}},
					"count": bson.M{"$sum": 1},
				}},
				{"$sort": bson.M{"_id": 1}},
			},
			"totalCount": []bson.M{
				{"$count": "total"},
			},
		}},
	}

	cursor, err := r.users.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, apperr.Internal("aggregate user growth stats", err)
	}
	defer cursor.Close(ctx)

	var facets []struct {
		DailyCounts []struct {
			Date  string `bson:"_id"`
			Count int64  `bson:"count"`
		} `bson:"dailyCounts"`
		TotalCount []struct {
			Total int64 `bson:"total"`
		} `bson:"totalCount"`
	}
	if err := cursor.All(ctx, &facets); err != nil {
		return nil, apperr.Internal("decode user growth stats", err)
	}
	if len(facets) == 0 {
		return []DailyGrowthPoint{}, nil
	}

	var total int64
	if len(facets[0].TotalCount) > 0 {
		total = facets[0].TotalCount[0].Total
	}

	points := make([]DailyGrowthPoint, 0, len(facets[0].DailyCounts))
	for _, entry := range facets[0].DailyCounts {
		var percentage float64
		if total > 0 {
			percentage = round2(float64(entry.Count) / float64(total) * 100)
		}
		points = append(points, DailyGrowthPoint{
			Date:       entry.Date,
			Count:      entry.Count,
			Percentage: percentage,
		})
	}
	return points, nil
}

// GrowthStatsByRole groups the users created in the window by role, most
// numerous first, each with its share of the window total.
func (r *userRepository) GrowthStatsByRole(ctx context.Context, start, end string) ([]RoleGrowthPoint, error) {
	match, err := createdBetween(start, end)
	if err != nil {
		return nil, err
	}

	pipeline := []bson.M{
		{"$match": match},
		{"$group": bson.M{"_id": "$role", "count": bson.M{"$sum": 1}}},
		{"$sort": bson.M{"count": -1}},
	}

	cursor, err := r.users.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, apperr.Internal("aggregate growth stats by role", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Role  models.Role `bson:"_id"`
		Count int64       `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, apperr.Internal("decode growth stats by role", err)
	}
	if len(rows) == 0 {
		return []RoleGrowthPoint{}, nil
	}

	var total int64
	for _, row := range rows {
		total += row.Count
	}

	points := make([]RoleGrowthPoint, 0, len(rows))
	for _, row := range rows {
		var percentage float64
		if total > 0 {
			percentage = round2(float64(row.Count) / float64(total) * 100)
		}
		points = append(points, RoleGrowthPoint{
			Role:       row.Role,
			Count:      row.Count,
			Percentage: percentage,
		})
	}
	return points, nil
}

// RoleCountsBetween counts users created inside the window, keyed by role.
// Roles with no signups in the window are absent from the map.
func (r *userRepository) RoleCountsBetween(ctx context.Context, start, end string) (map[models.Role]int64, error) {
	match, err := createdBetween(start, end)
	if err != nil {
		return nil, err
	}

	pipeline := []bson.M{
		{"$match": match},
		{"$group": bson.M{"_id": "$role", "count": bson.M{"$sum": 1}}},
	}

	cursor, err := r.users.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, apperr.Internal("aggregate role counts", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Role  models.Role `bson:"_id"`
		Count int64       `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, apperr.Internal("decode role counts", err)
	}

	counts := make(map[models.Role]int64, len(rows))
	for _, row := range rows {
		counts[row.Role] = row.Count
	}
	return counts, nil
}
