package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/edudesk/edudesk-api/internal/apperr"
	"github.com/edudesk/edudesk-api/internal/docutil"
	"github.com/edudesk/edudesk-api/internal/dto"
	"github.com/edudesk/edudesk-api/internal/models"
	"github.com/edudesk/edudesk-api/internal/repository"
)

// ClassService manages classes: batch creation, metadata patching with an
// append-only update history, and roster membership.
type ClassService interface {
	CreateBatch(ctx context.Context, creatorID string, reqs []dto.CreateClassRequest) ([]models.Class, error)
	Get(ctx context.Context, id string) (models.Class, error)
	List(ctx context.Context) ([]models.Class, error)
	ListByCreator(ctx context.Context, teacherID string) ([]models.Class, error)
	Patch(ctx context.Context, id string, req dto.PatchClassRequest) (models.Class, error)
	Enroll(ctx context.Context, id string, req dto.EnrollRequest) (models.Class, error)
	Unenroll(ctx context.Context, id string, req dto.EnrollRequest) (models.Class, error)
	Delete(ctx context.Context, id string) error
}

type classService struct {
	classes   repository.ClassRepository
	users     repository.UserRepository
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewClassService constructs the class service.
func NewClassService(classes repository.ClassRepository, users repository.UserRepository, validate *validator.Validate, logger zerolog.Logger) ClassService {
	return &classService{
		classes:   classes,
		users:     users,
		validator: validate,
		logger:    logger.With().Str("component", "class_service").Logger(),
		now:       time.Now,
	}
}

// CreateBatch validates every entry before inserting any, so a bad payload
// midway through the batch cannot leave a partial insert behind.
func (s *classService) CreateBatch(ctx context.Context, creatorID string, reqs []dto.CreateClassRequest) ([]models.Class, error) {
	if len(reqs) == 0 {
		return nil, apperr.BadRequest("no classes provided").
			WithUserMessage("Please provide at least one class to create.")
	}

	creator, err := docutil.ValidateObjectID(creatorID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	classes := make([]models.Class, 0, len(reqs))
	for i, req := range reqs {
		if err := s.validator.Struct(req); err != nil {
			return nil, validationError(err).WithDetail("index", i)
		}
		classes = append(classes, models.Class{
			ClassInfo: models.ClassInfo{
				CourseCode:  req.CourseCode,
				CourseTitle: req.CourseTitle,
				Lecturer:    req.Lecturer,
				Email:       req.Email,
				PhoneNumber: req.PhoneNumber,
				Hybrid:      req.Hybrid,
				Schedule:    req.Schedule,
				Credits:     req.Credits,
				Department:  req.Department,
				Description: req.Description,
				Year:        req.Year,
			},
			CreatedBy:        creator,
			StudentsEnrolled: []primitive.ObjectID{},
			MaxStudents:      req.MaxStudents,
			CreatedAt:        now,
			UpdateHistory:    []time.Time{},
		})
	}

	inserted, err := s.classes.InsertMany(ctx, classes)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int("count", len(inserted)).Str("created_by", creator.Hex()).Msg("classes created")
	return inserted, nil
}

func (s *classService) Get(ctx context.Context, id string) (models.Class, error) {
	classID, err := docutil.ValidateObjectID(id)
	if err != nil {
		return models.Class{}, err
	}
	return s.classes.FindByID(ctx, classID)
}

func (s *classService) List(ctx context.Context) ([]models.Class, error) {
	return s.classes.FindAll(ctx)
}

func (s *classService) ListByCreator(ctx context.Context, teacherID string) ([]models.Class, error) {
	creator, err := docutil.ValidateObjectID(teacherID)
	if err != nil {
		return nil, err
	}
	return s.classes.FindByCreator(ctx, creator)
}

// Patch updates class metadata. Nested class_info fields are flattened to
// dot paths so untouched siblings survive the $set.
func (s *classService) Patch(ctx context.Context, id string, req dto.PatchClassRequest) (models.Class, error) {
	classID, err := docutil.ValidateObjectID(id)
	if err != nil {
		return models.Class{}, err
	}

	if err := s.validator.Struct(req); err != nil {
		return models.Class{}, validationError(err)
	}

	payload := docutil.PrepareSafeUpdate(req.ToMap())
	if len(payload) == 0 {
		return models.Class{}, apperr.BadRequest("no update data provided").
			WithUserMessage("Please provide fields to update.")
	}

	patch := bson.M{}
	for key, value := range docutil.Flatten(payload) {
		patch[key] = value
	}

	if err := s.classes.Update(ctx, classID, patch); err != nil {
		return models.Class{}, err
	}
	return s.classes.FindByID(ctx, classID)
}

// Enroll adds a student to the roster after checking existence, role and
// capacity. The roster write itself is a set add, so a repeated enroll is
// harmless.
func (s *classService) Enroll(ctx context.Context, id string, req dto.EnrollRequest) (models.Class, error) {
	classID, studentID, class, err := s.resolveRosterChange(ctx, id, req)
	if err != nil {
		return models.Class{}, err
	}

	if class.IsEnrolled(studentID) {
		return models.Class{}, apperr.BadRequest("student %s already enrolled", studentID.Hex()).
			WithUserMessage("The student is already enrolled in this class.")
	}
	if class.IsFull() {
		return models.Class{}, apperr.BadRequest("class %s is full", classID.Hex()).
			WithUserMessage("The class has reached its maximum capacity.")
	}

	if err := s.classes.Enroll(ctx, classID, studentID); err != nil {
		return models.Class{}, err
	}
	return s.classes.FindByID(ctx, classID)
}

// Unenroll removes a student from the roster.
func (s *classService) Unenroll(ctx context.Context, id string, req dto.EnrollRequest) (models.Class, error) {
	classID, studentID, class, err := s.resolveRosterChange(ctx, id, req)
	if err != nil {
		return models.Class{}, err
	}

	if !class.IsEnrolled(studentID) {
		return models.Class{}, apperr.BadRequest("student %s is not enrolled", studentID.Hex()).
			WithUserMessage("The student is not enrolled in this class.")
	}

	if err := s.classes.Unenroll(ctx, classID, studentID); err != nil {
		return models.Class{}, err
	}
	return s.classes.FindByID(ctx, classID)
}

func (s *classService) resolveRosterChange(ctx context.Context, id string, req dto.EnrollRequest) (primitive.ObjectID, primitive.ObjectID, models.Class, error) {
	classID, err := docutil.ValidateObjectID(id)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, models.Class{}, err
	}

	if err := s.validator.Struct(req); err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, models.Class{}, validationError(err)
	}

	studentID, err := docutil.ValidateObjectID(req.StudentID)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, models.Class{}, err
	}

	class, err := s.classes.FindByID(ctx, classID)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, models.Class{}, err
	}

	student, err := s.users.FindByID(ctx, studentID)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, models.Class{}, err
	}
	if student.Role != models.RoleStudent {
		return primitive.NilObjectID, primitive.NilObjectID, models.Class{},
			apperr.BadRequest("user %s is not a student", studentID.Hex()).
				WithUserMessage("Only students can be enrolled in classes.")
	}

	return classID, studentID, class, nil
}

func (s *classService) Delete(ctx context.Context, id string) error {
	classID, err := docutil.ValidateObjectID(id)
	if err != nil {
		return err
	}
	return s.classes.Delete(ctx, classID)
}
