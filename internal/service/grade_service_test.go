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

type memoryGradeRepo struct {
	grades  map[primitive.ObjectID]models.Grade
	patches []bson.M
}

func newMemoryGradeRepo() *memoryGradeRepo {
	return &memoryGradeRepo{grades: map[primitive.ObjectID]models.Grade{}}
}

func (r *memoryGradeRepo) Insert(ctx context.Context, grade models.Grade) (models.Grade, error) {
	grade.ID = primitive.NewObjectID()
	r.grades[grade.ID] = grade
	return grade, nil
}

func (r *memoryGradeRepo) FindByID(ctx context.Context, id primitive.ObjectID) (models.Grade, error) {
	grade, ok := r.grades[id]
	if !ok {
		return models.Grade{}, apperr.NotFound("grade", id.Hex())
	}
	return grade, nil
}

func (r *memoryGradeRepo) FindByStudent(ctx context.Context, studentID primitive.ObjectID) ([]models.Grade, error) {
	matched := []models.Grade{}
	for _, grade := range r.grades {
		if grade.StudentID == studentID {
			matched = append(matched, grade)
		}
	}
	return matched, nil
}

func (r *memoryGradeRepo) FindByStudentClass(ctx context.Context, studentID, classID primitive.ObjectID) (*models.Grade, error) {
	for _, grade := range r.grades {
		if grade.StudentID == studentID && grade.ClassID == classID {
			g := grade
			return &g, nil
		}
	}
	return nil, nil
}

func (r *memoryGradeRepo) FindByClass(ctx context.Context, classID primitive.ObjectID) ([]models.Grade, error) {
	matched := []models.Grade{}
	for _, grade := range r.grades {
		if grade.ClassID == classID {
			matched = append(matched, grade)
		}
	}
	return matched, nil
}

func (r *memoryGradeRepo) Update(ctx context.Context, id primitive.ObjectID, patch bson.M) error {
	grade, ok := r.grades[id]
	if !ok {
		return apperr.NotFound("grade", id.Hex())
	}
	r.patches = append(r.patches, patch)
	if midterm, ok := patch["midterm"].(float64); ok {
		grade.Midterm = &midterm
	}
	r.grades[id] = grade
	return nil
}

func (r *memoryGradeRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.grades[id]; !ok {
		return apperr.NotFound("grade", id.Hex())
	}
	delete(r.grades, id)
	return nil
}

func gradeFixture(t *testing.T) (*memoryGradeRepo, GradeService, primitive.ObjectID, primitive.ObjectID, primitive.ObjectID) {
	t.Helper()
	gradeRepo := newMemoryGradeRepo()
	userRepo := newMemoryUserRepo()
	classRepo := newMemoryClassRepo()
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewGradeService(gradeRepo, userRepo, classRepo, validate, testLogger())

	teacherID, err := userRepo.Insert(context.Background(), models.User{Username: "teacher1", Role: models.RoleTeacher})
	require.NoError(t, err)
	studentID, err := userRepo.Insert(context.Background(), models.User{Username: "student1", Role: models.RoleStudent})
	require.NoError(t, err)

	classes, err := classRepo.InsertMany(context.Background(), []models.Class{{
		ClassInfo:        models.ClassInfo{CourseCode: "CS101", CourseTitle: "Intro to CS", Lecturer: "Dr. Smith"},
		StudentsEnrolled: []primitive.ObjectID{studentID},
	}})
	require.NoError(t, err)

	return gradeRepo, svc, teacherID, studentID, classes[0].ID
}

func scorePtr(v float64) *float64 { return &v }

func TestGradeServiceCreate(t *testing.T) {
	_, svc, teacherID, studentID, classID := gradeFixture(t)

	resp, err := svc.Create(context.Background(), teacherID.Hex(), dto.CreateGradeRequest{
		StudentID: studentID.Hex(),
		ClassID:   classID.Hex(),
		Midterm:   scorePtr(20),
		FinalExam: scorePtr(30),
	})
	require.NoError(t, err)
	require.Equal(t, studentID.Hex(), resp.StudentID)
	require.Equal(t, "student1", resp.StudentName)
	require.InDelta(t, 50.0, resp.Total, 0.001)
	require.Equal(t, "F", resp.LetterGrade)
}

func TestGradeServiceCreateDuplicatePair(t *testing.T) {
	_, svc, teacherID, studentID, classID := gradeFixture(t)

	_, err := svc.Create(context.Background(), teacherID.Hex(), dto.CreateGradeRequest{
		StudentID: studentID.Hex(), ClassID: classID.Hex(), Midterm: scorePtr(20),
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), teacherID.Hex(), dto.CreateGradeRequest{
		StudentID: studentID.Hex(), ClassID: classID.Hex(), Midterm: scorePtr(25),
	})
	require.Error(t, err)
	require.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
}

func TestGradeServiceCreateUnknownClass(t *testing.T) {
	gradeRepo, svc, teacherID, studentID, _ := gradeFixture(t)

	_, err := svc.Create(context.Background(), teacherID.Hex(), dto.CreateGradeRequest{
		StudentID: studentID.Hex(),
		ClassID:   primitive.NewObjectID().Hex(),
	})
	require.Error(t, err)
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	require.Empty(t, gradeRepo.grades)
}

func TestGradeServicePatch(t *testing.T) {
	gradeRepo, svc, teacherID, studentID, classID := gradeFixture(t)

	created, err := svc.Create(context.Background(), teacherID.Hex(), dto.CreateGradeRequest{
		StudentID: studentID.Hex(), ClassID: classID.Hex(), Midterm: scorePtr(20),
	})
	require.NoError(t, err)

	resp, err := svc.Patch(context.Background(), created.ID, dto.PatchGradeRequest{Midterm: scorePtr(25)})
	require.NoError(t, err)
	require.InDelta(t, 25.0, resp.Total, 0.001)
	require.Len(t, gradeRepo.patches, 1)
	require.Contains(t, gradeRepo.patches[0], "updated_at")
}

func TestGradeServicePatchEmpty(t *testing.T) {
	_, svc, teacherID, studentID, classID := gradeFixture(t)

	created, err := svc.Create(context.Background(), teacherID.Hex(), dto.CreateGradeRequest{
		StudentID: studentID.Hex(), ClassID: classID.Hex(), Midterm: scorePtr(20),
	})
	require.NoError(t, err)

	_, err = svc.Patch(context.Background(), created.ID, dto.PatchGradeRequest{})
	require.Error(t, err)
	require.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
}

func TestGradeServiceDelete(t *testing.T) {
	gradeRepo, svc, teacherID, studentID, classID := gradeFixture(t)

	created, err := svc.Create(context.Background(), teacherID.Hex(), dto.CreateGradeRequest{
		StudentID: studentID.Hex(), ClassID: classID.Hex(), Midterm: scorePtr(20),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))
	require.Empty(t, gradeRepo.grades)

	err = svc.Delete(context.Background(), created.ID)
	require.Error(t, err)
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
