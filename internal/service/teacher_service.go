package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/edudesk/edudesk-api/internal/apperr"
	"github.com/edudesk/edudesk-api/internal/docutil"
	"github.com/edudesk/edudesk-api/internal/models"
	"github.com/edudesk/edudesk-api/internal/repository"
)

// TeacherService serves teacher-scoped views of the user aggregate.
type TeacherService interface {
	GetInfo(ctx context.Context, userID string) (models.TeacherInfo, error)
	ListClasses(ctx context.Context, userID string) ([]models.Class, error)
}

type teacherService struct {
	users     repository.UserRepository
	classes   repository.ClassRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewTeacherService constructs the teacher service.
func NewTeacherService(users repository.UserRepository, classes repository.ClassRepository, validate *validator.Validate, logger zerolog.Logger) TeacherService {
	return &teacherService{
		users:     users,
		classes:   classes,
		validator: validate,
		logger:    logger.With().Str("component", "teacher_service").Logger(),
	}
}

// GetInfo returns the teacher satellite of a user, rejecting users that
// are not teachers.
func (s *teacherService) GetInfo(ctx context.Context, userID string) (models.TeacherInfo, error) {
	id, err := docutil.ValidateObjectID(userID)
	if err != nil {
		return models.TeacherInfo{}, err
	}

	detail, err := s.users.FindDetail(ctx, id)
	if err != nil {
		return models.TeacherInfo{}, err
	}
	if detail.Profile.Role != models.RoleTeacher {
		return models.TeacherInfo{}, apperr.BadRequest("user %s is not a teacher", id.Hex()).
			WithUserMessage("The specified user is not a teacher.")
	}
	if detail.TeacherInfo == nil {
		return models.TeacherInfo{}, apperr.NotFound("teacher info", id.Hex())
	}
	return *detail.TeacherInfo, nil
}

// ListClasses returns the classes created by a teacher.
func (s *teacherService) ListClasses(ctx context.Context, userID string) ([]models.Class, error) {
	id, err := docutil.ValidateObjectID(userID)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleTeacher {
		return nil, apperr.BadRequest("user %s is not a teacher", id.Hex()).
			WithUserMessage("The specified user is not a teacher.")
	}
	return s.classes.FindByCreator(ctx, id)
}
