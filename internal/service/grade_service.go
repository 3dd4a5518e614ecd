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

// GradeService records and serves component scores. One grade document
// exists per (student, class) pair; creation for an existing pair fails.
type GradeService interface {
	Create(ctx context.Context, teacherID string, req dto.CreateGradeRequest) (dto.GradeResponse, error)
	Get(ctx context.Context, id string) (dto.GradeResponse, error)
	ListByStudent(ctx context.Context, studentID string) ([]dto.GradeResponse, error)
	ListByClass(ctx context.Context, classID string) ([]dto.GradeResponse, error)
	Patch(ctx context.Context, id string, req dto.PatchGradeRequest) (dto.GradeResponse, error)
	Delete(ctx context.Context, id string) error
}

type gradeService struct {
	grades    repository.GradeRepository
	users     repository.UserRepository
	classes   repository.ClassRepository
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewGradeService constructs the grade service.
func NewGradeService(grades repository.GradeRepository, users repository.UserRepository, classes repository.ClassRepository, validate *validator.Validate, logger zerolog.Logger) GradeService {
	return &gradeService{
		grades:    grades,
		users:     users,
		classes:   classes,
		validator: validate,
		logger:    logger.With().Str("component", "grade_service").Logger(),
		now:       time.Now,
	}
}

func (s *gradeService) Create(ctx context.Context, teacherID string, req dto.CreateGradeRequest) (dto.GradeResponse, error) {
	teacher, err := docutil.ValidateObjectID(teacherID)
	if err != nil {
		return dto.GradeResponse{}, err
	}

	if err := s.validator.Struct(req); err != nil {
		return dto.GradeResponse{}, validationError(err)
	}

	studentID, err := docutil.ValidateObjectID(req.StudentID)
	if err != nil {
		return dto.GradeResponse{}, err
	}
	classID, err := docutil.ValidateObjectID(req.ClassID)
	if err != nil {
		return dto.GradeResponse{}, err
	}

	student, err := s.users.FindByID(ctx, studentID)
	if err != nil {
		return dto.GradeResponse{}, err
	}
	if student.Role != models.RoleStudent {
		return dto.GradeResponse{}, apperr.BadRequest("user %s is not a student", studentID.Hex()).
			WithUserMessage("Grades can only be recorded for students.")
	}

	class, err := s.classes.FindByID(ctx, classID)
	if err != nil {
		return dto.GradeResponse{}, err
	}
	if !class.IsEnrolled(studentID) {
		return dto.GradeResponse{}, apperr.BadRequest("student %s is not enrolled in class %s", studentID.Hex(), classID.Hex()).
			WithUserMessage("The student is not enrolled in this class.")
	}

	existing, err := s.grades.FindByStudentClass(ctx, studentID, classID)
	if err != nil {
		return dto.GradeResponse{}, err
	}
	if existing != nil {
		return dto.GradeResponse{}, apperr.BadRequest("grade already exists for student %s in class %s", studentID.Hex(), classID.Hex()).
			WithUserMessage("A grade for this student in this class already exists. Use update instead.")
	}

	grade := models.Grade{
		TeacherID:   teacher,
		StudentID:   studentID,
		StudentName: student.Username,
		ClassID:     classID,
		Attendance:  req.Attendance,
		Assignment:  req.Assignment,
		Quiz:        req.Quiz,
		Project:     req.Project,
		Midterm:     req.Midterm,
		FinalExam:   req.FinalExam,
		ExtraExam:   req.ExtraExam,
		Term:        req.Term,
		Remark:      req.Remark,
		CreatedAt:   s.now().UTC(),
	}
	if req.CourseID != "" {
		courseID, err := docutil.ValidateObjectID(req.CourseID)
		if err != nil {
			return dto.GradeResponse{}, err
		}
		grade.CourseID = courseID
	}

	inserted, err := s.grades.Insert(ctx, grade)
	if err != nil {
		return dto.GradeResponse{}, err
	}
	return dto.NewGradeResponse(inserted), nil
}

func (s *gradeService) Get(ctx context.Context, id string) (dto.GradeResponse, error) {
	gradeID, err := docutil.ValidateObjectID(id)
	if err != nil {
		return dto.GradeResponse{}, err
	}

	grade, err := s.grades.FindByID(ctx, gradeID)
	if err != nil {
		return dto.GradeResponse{}, err
	}
	return dto.NewGradeResponse(grade), nil
}

func (s *gradeService) ListByStudent(ctx context.Context, studentID string) ([]dto.GradeResponse, error) {
	id, err := docutil.ValidateObjectID(studentID)
	if err != nil {
		return nil, err
	}

	grades, err := s.grades.FindByStudent(ctx, id)
	if err != nil {
		return nil, err
	}
	return toGradeResponses(grades), nil
}

func (s *gradeService) ListByClass(ctx context.Context, classID string) ([]dto.GradeResponse, error) {
	id, err := docutil.ValidateObjectID(classID)
	if err != nil {
		return nil, err
	}

	grades, err := s.grades.FindByClass(ctx, id)
	if err != nil {
		return nil, err
	}
	return toGradeResponses(grades), nil
}

func (s *gradeService) Patch(ctx context.Context, id string, req dto.PatchGradeRequest) (dto.GradeResponse, error) {
	gradeID, err := docutil.ValidateObjectID(id)
	if err != nil {
		return dto.GradeResponse{}, err
	}

	if err := s.validator.Struct(req); err != nil {
		return dto.GradeResponse{}, validationError(err)
	}

	payload := docutil.PrepareSafeUpdate(req.ToMap())
	if len(payload) == 0 {
		return dto.GradeResponse{}, apperr.BadRequest("no update data provided").
			WithUserMessage("Please provide fields to update.")
	}

	patch := bson.M{}
	for key, value := range payload {
		patch[key] = value
	}
	patch["updated_at"] = s.now().UTC()

	if err := s.grades.Update(ctx, gradeID, patch); err != nil {
		return dto.GradeResponse{}, err
	}

	updated, err := s.grades.FindByID(ctx, gradeID)
	if err != nil {
		return dto.GradeResponse{}, err
	}
	return dto.NewGradeResponse(updated), nil
}

func (s *gradeService) Delete(ctx context.Context, id string) error {
	gradeID, err := docutil.ValidateObjectID(id)
	if err != nil {
		return err
	}
	return s.grades.Delete(ctx, gradeID)
}

func toGradeResponses(grades []models.Grade) []dto.GradeResponse {
	responses := make([]dto.GradeResponse, 0, len(grades))
	for _, grade := range grades {
		responses = append(responses, dto.NewGradeResponse(grade))
	}
	return responses
}
