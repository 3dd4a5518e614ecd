package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/edudesk/edudesk-api/internal/apperr"
	"github.com/edudesk/edudesk-api/internal/docutil"
	"github.com/edudesk/edudesk-api/internal/models"
	"github.com/edudesk/edudesk-api/internal/repository"
)

// StudentService serves student-scoped views of the user aggregate.
type StudentService interface {
	GetInfo(ctx context.Context, userID string) (models.StudentInfo, error)
	ListClasses(ctx context.Context, userID string) ([]models.Class, error)
	GetAttendance(ctx context.Context, userID string) (map[string]string, error)
}

type studentService struct {
	users   repository.UserRepository
	classes repository.ClassRepository
	logger  zerolog.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(users repository.UserRepository, classes repository.ClassRepository, logger zerolog.Logger) StudentService {
	return &studentService{
		users:   users,
		classes: classes,
		logger:  logger.With().Str("component", "student_service").Logger(),
	}
}

func (s *studentService) studentDetail(ctx context.Context, userID string) (models.UserDetail, error) {
	id, err := docutil.ValidateObjectID(userID)
	if err != nil {
		return models.UserDetail{}, err
	}

	detail, err := s.users.FindDetail(ctx, id)
	if err != nil {
		return models.UserDetail{}, err
	}
	if detail.Profile.Role != models.RoleStudent {
		return models.UserDetail{}, apperr.BadRequest("user %s is not a student", id.Hex()).
			WithUserMessage("The specified user is not a student.")
	}
	if detail.StudentInfo == nil {
		return models.UserDetail{}, apperr.NotFound("student info", id.Hex())
	}
	return detail, nil
}

// GetInfo returns the student satellite of a user, rejecting users that
// are not students.
func (s *studentService) GetInfo(ctx context.Context, userID string) (models.StudentInfo, error) {
	detail, err := s.studentDetail(ctx, userID)
	if err != nil {
		return models.StudentInfo{}, err
	}
	return *detail.StudentInfo, nil
}

// ListClasses returns the classes whose roster contains the student.
func (s *studentService) ListClasses(ctx context.Context, userID string) ([]models.Class, error) {
	id, err := docutil.ValidateObjectID(userID)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleStudent {
		return nil, apperr.BadRequest("user %s is not a student", id.Hex()).
			WithUserMessage("The specified user is not a student.")
	}
	return s.classes.FindByStudent(ctx, id)
}

// GetAttendance returns the student's date-keyed attendance map. An empty
// map, not nil, is returned for students with no recorded attendance.
func (s *studentService) GetAttendance(ctx context.Context, userID string) (map[string]string, error) {
	detail, err := s.studentDetail(ctx, userID)
	if err != nil {
		return nil, err
	}
	record := detail.StudentInfo.AttendanceRecord
	if record == nil {
		record = map[string]string{}
	}
	return record, nil
}
