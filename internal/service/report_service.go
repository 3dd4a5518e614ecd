package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/edudesk/edudesk-api/internal/apperr"
	"github.com/edudesk/edudesk-api/internal/docutil"
	"github.com/edudesk/edudesk-api/internal/dto"
	"github.com/edudesk/edudesk-api/internal/models"
	"github.com/edudesk/edudesk-api/internal/repository"
)

// ReportService manages user-submitted reports and their handling
// lifecycle: pending, reviewing, resolved or dismissed.
type ReportService interface {
	Create(ctx context.Context, reporterID string, req dto.CreateReportRequest) (models.Report, error)
	Get(ctx context.Context, id string) (models.Report, error)
	ListByStatus(ctx context.Context, status string) ([]models.Report, error)
	ListByReporter(ctx context.Context, reporterID string) ([]models.Report, error)
	UpdateStatus(ctx context.Context, id string, req dto.UpdateReportStatusRequest) (models.Report, error)
	Delete(ctx context.Context, id string) error
}

type reportService struct {
	reports   repository.ReportRepository
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewReportService constructs the report service.
func NewReportService(reports repository.ReportRepository, validate *validator.Validate, logger zerolog.Logger) ReportService {
	return &reportService{
		reports:   reports,
		validator: validate,
		logger:    logger.With().Str("component", "report_service").Logger(),
		now:       time.Now,
	}
}

func (s *reportService) Create(ctx context.Context, reporterID string, req dto.CreateReportRequest) (models.Report, error) {
	reporter, err := docutil.ValidateObjectID(reporterID)
	if err != nil {
		return models.Report{}, err
	}

	if err := s.validator.Struct(req); err != nil {
		return models.Report{}, validationError(err)
	}

	severity := models.ReportSeverity(req.Severity)
	if req.Severity == "" {
		severity = models.ReportSeverityMedium
	}

	report := models.Report{
		ReporterID:  reporter,
		TargetType:  req.TargetType,
		Reason:      req.Reason,
		Description: req.Description,
		Severity:    severity,
		Status:      models.ReportStatusPending,
		CreatedAt:   s.now().UTC(),
	}
	if req.TargetID != "" {
		target, err := docutil.ValidateObjectID(req.TargetID)
		if err != nil {
			return models.Report{}, err
		}
		report.TargetID = target
	}

	return s.reports.Insert(ctx, report)
}

func (s *reportService) Get(ctx context.Context, id string) (models.Report, error) {
	reportID, err := docutil.ValidateObjectID(id)
	if err != nil {
		return models.Report{}, err
	}
	return s.reports.FindByID(ctx, reportID)
}

func (s *reportService) ListByStatus(ctx context.Context, status string) ([]models.Report, error) {
	reportStatus := models.ReportStatus(status)
	if !reportStatus.Valid() {
		return nil, apperr.BadRequest("invalid report status %q", status)
	}
	return s.reports.FindByStatus(ctx, reportStatus)
}

func (s *reportService) ListByReporter(ctx context.Context, reporterID string) ([]models.Report, error) {
	id, err := docutil.ValidateObjectID(reporterID)
	if err != nil {
		return nil, err
	}
	return s.reports.FindByReporter(ctx, id)
}

func (s *reportService) UpdateStatus(ctx context.Context, id string, req dto.UpdateReportStatusRequest) (models.Report, error) {
	reportID, err := docutil.ValidateObjectID(id)
	if err != nil {
		return models.Report{}, err
	}

	if err := s.validator.Struct(req); err != nil {
		return models.Report{}, validationError(err)
	}

	status := models.ReportStatus(req.Status)
	if !status.Valid() {
		return models.Report{}, apperr.BadRequest("invalid report status %q", req.Status)
	}

	if err := s.reports.Update(ctx, reportID, bson.M{"status": status}); err != nil {
		return models.Report{}, err
	}
	return s.reports.FindByID(ctx, reportID)
}

func (s *reportService) Delete(ctx context.Context, id string) error {
	reportID, err := docutil.ValidateObjectID(id)
	if err != nil {
		return err
	}
	return s.reports.Delete(ctx, reportID)
}
