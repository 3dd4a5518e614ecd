package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/edudesk/edudesk-api/internal/apperr"
	"github.com/edudesk/edudesk-api/internal/models"
)

// ReportRepository provides access to the reports collection.
type ReportRepository interface {
	Insert(ctx context.Context, report models.Report) (models.Report, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Report, error)
	FindByStatus(ctx context.Context, status models.ReportStatus) ([]models.Report, error)
	FindByReporter(ctx context.Context, reporterID primitive.ObjectID) ([]models.Report, error)
	Update(ctx context.Context, id primitive.ObjectID, patch bson.M) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type reportRepository struct {
	reports *mongo.Collection
}

// NewReportRepository constructs a MongoDB-backed report repository.
func NewReportRepository(db *mongo.Database) ReportRepository {
	return &reportRepository{reports: db.Collection("reports")}
}

func (r *reportRepository) Insert(ctx context.Context, report models.Report) (models.Report, error) {
	result, err := r.reports.InsertOne(ctx, report)
	if err != nil {
		return models.Report{}, apperr.Internal("insert report", err)
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		report.ID = id
	}
	return report, nil
}

func (r *reportRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.Report, error) {
	var report models.Report
	err := r.reports.FindOne(ctx, bson.M{"_id": id}).Decode(&report)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Report{}, apperr.NotFound("report", id.Hex())
		}
		return models.Report{}, apperr.Internal("find report by id", err)
	}
	return report, nil
}

func (r *reportRepository) find(ctx context.Context, filter bson.M, op string) ([]models.Report, error) {
	cursor, err := r.reports.Find(ctx, filter)
	if err != nil {
		return nil, apperr.Internal(op, err)
	}
	defer cursor.Close(ctx)

	reports := []models.Report{}
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, apperr.Internal(op, err)
	}
	return reports, nil
}

func (r *reportRepository) FindByStatus(ctx context.Context, status models.ReportStatus) ([]models.Report, error) {
	return r.find(ctx, bson.M{"status": status}, "find reports by status")
}

func (r *reportRepository) FindByReporter(ctx context.Context, reporterID primitive.ObjectID) ([]models.Report, error) {
	return r.find(ctx, bson.M{"reporter_id": reporterID}, "find reports by reporter")
}

func (r *reportRepository) Update(ctx context.Context, id primitive.ObjectID, patch bson.M) error {
	result, err := r.reports.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": patch})
	if err != nil {
		return apperr.Internal("update report", err)
	}
	if result.MatchedCount == 0 {
		return apperr.NotFound("report", id.Hex())
	}
	return nil
}

func (r *reportRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.reports.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperr.Internal("delete report", err)
	}
	if result.DeletedCount == 0 {
		return apperr.NotFound("report", id.Hex())
	}
	return nil
}
