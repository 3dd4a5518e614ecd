package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/edudesk/edudesk-api/internal/apperr"
	"github.com/edudesk/edudesk-api/internal/dto"
	"github.com/edudesk/edudesk-api/internal/models"
)

type memoryReportRepo struct {
	reports map[primitive.ObjectID]models.Report
}

func newMemoryReportRepo() *memoryReportRepo {
	return &memoryReportRepo{reports: map[primitive.ObjectID]models.Report{}}
}

func (r *memoryReportRepo) Insert(ctx context.Context, report models.Report) (models.Report, error) {
	report.ID = primitive.NewObjectID()
	r.reports[report.ID] = report
	return report, nil
}

func (r *memoryReportRepo) FindByID(ctx context.Context, id primitive.ObjectID) (models.Report, error) {
	report, ok := r.reports[id]
	if !ok {
		return models.Report{}, apperr.NotFound("report", id.Hex())
	}
	return report, nil
}

func (r *memoryReportRepo) FindByStatus(ctx context.Context, status models.ReportStatus) ([]models.Report, error) {
	matched := []models.Report{}
	for _, report := range r.reports {
		if report.Status == status {
			matched = append(matched, report)
		}
	}
	return matched, nil
}

func (r *memoryReportRepo) FindByReporter(ctx context.Context, reporterID primitive.ObjectID) ([]models.Report, error) {
	matched := []models.Report{}
	for _, report := range r.reports {
		if report.ReporterID == reporterID {
			matched = append(matched, report)
		}
	}
	return matched, nil
}

func (r *memoryReportRepo) Update(ctx context.Context, id primitive.ObjectID, patch bson.M) error {
	report, ok := r.reports[id]
	if !ok {
		return apperr.NotFound("report", id.Hex())
	}
	if status, ok := patch["status"].(models.ReportStatus); ok {
		report.Status = status
	}
	r.reports[id] = report
	return nil
}

func (r *memoryReportRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.reports[id]; !ok {
		return apperr.NotFound("report", id.Hex())
	}
	delete(r.reports, id)
	return nil
}

func reportFixture() (*memoryReportRepo, ReportService) {
	repo := newMemoryReportRepo()
	validate := validator.New(validator.WithRequiredStructEnabled())
	return repo, NewReportService(repo, validate, testLogger())
}

func TestReportServiceCreateDefaults(t *testing.T) {
	_, svc := reportFixture()

	report, err := svc.Create(context.Background(), primitive.NewObjectID().Hex(), dto.CreateReportRequest{
		Reason:      "harassment",
		Description: "Repeated abusive messages in class chat.",
	})
	require.NoError(t, err)
	require.Equal(t, models.ReportStatusPending, report.Status)
	require.Equal(t, models.ReportSeverityMedium, report.Severity)
}

func TestReportServiceStatusLifecycle(t *testing.T) {
	_, svc := reportFixture()

	report, err := svc.Create(context.Background(), primitive.NewObjectID().Hex(), dto.CreateReportRequest{
		Reason:      "cheating",
		Description: "Suspected plagiarism on the midterm.",
		Severity:    "high",
	})
	require.NoError(t, err)

	reviewing, err := svc.UpdateStatus(context.Background(), report.ID.Hex(), dto.UpdateReportStatusRequest{Status: "reviewing"})
	require.NoError(t, err)
	require.Equal(t, models.ReportStatusReviewing, reviewing.Status)

	pending, err := svc.ListByStatus(context.Background(), "pending")
	require.NoError(t, err)
	require.Empty(t, pending)

	inReview, err := svc.ListByStatus(context.Background(), "reviewing")
	require.NoError(t, err)
	require.Len(t, inReview, 1)
	require.Equal(t, report.ID, inReview[0].ID)
}

func TestReportServiceListByInvalidStatus(t *testing.T) {
	_, svc := reportFixture()

	_, err := svc.ListByStatus(context.Background(), "archived")
	require.Error(t, err)
	require.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
}
