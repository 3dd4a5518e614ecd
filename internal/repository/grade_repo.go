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

// GradeRepository provides access to the grades collection.
type GradeRepository interface {
	Insert(ctx context.Context, grade models.Grade) (models.Grade, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Grade, error)
	FindByStudent(ctx context.Context, studentID primitive.ObjectID) ([]models.Grade, error)
	FindByStudentClass(ctx context.Context, studentID, classID primitive.ObjectID) (*models.Grade, error)
	FindByClass(ctx context.Context, classID primitive.ObjectID) ([]models.Grade, error)
	Update(ctx context.Context, id primitive.ObjectID, patch bson.M) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type gradeRepository struct {
	grades *mongo.Collection
}

// NewGradeRepository constructs a MongoDB-backed grade repository.
func NewGradeRepository(db *mongo.Database) GradeRepository {
	return &gradeRepository{grades: db.Collection("grades")}
}

func (r *gradeRepository) Insert(ctx context.Context, grade models.Grade) (models.Grade, error) {
	result, err := r.grades.InsertOne(ctx, grade)
	if err != nil {
		return models.Grade{}, apperr.Internal("insert grade", err)
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		grade.ID = id
	}
	return grade, nil
}

func (r *gradeRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.Grade, error) {
	var grade models.Grade
	err := r.grades.FindOne(ctx, bson.M{"_id": id}).Decode(&grade)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Grade{}, apperr.NotFound("grade", id.Hex())
		}
		return models.Grade{}, apperr.Internal("find grade by id", err)
	}
	return grade, nil
}

func (r *gradeRepository) find(ctx context.Context, filter bson.M, op string) ([]models.Grade, error) {
	cursor, err := r.grades.Find(ctx, filter)
	if err != nil {
		return nil, apperr.Internal(op, err)
	}
	defer cursor.Close(ctx)

	grades := []models.Grade{}
	if err := cursor.All(ctx, &grades); err != nil {
		return nil, apperr.Internal(op, err)
	}
	return grades, nil
}

func (r *gradeRepository) FindByStudent(ctx context.Context, studentID primitive.ObjectID) ([]models.Grade, error) {
	return r.find(ctx, bson.M{"student_id": studentID}, "find grades by student")
}

func (r *gradeRepository) FindByClass(ctx context.Context, classID primitive.ObjectID) ([]models.Grade, error) {
	return r.find(ctx, bson.M{"class_id": classID}, "find grades by class")
}

// FindByStudentClass returns nil when no grade exists for the pair; the
// caller treats absence as a normal outcome.
func (r *gradeRepository) FindByStudentClass(ctx context.Context, studentID, classID primitive.ObjectID) (*models.Grade, error) {
	var grade models.Grade
	err := r.grades.FindOne(ctx, bson.M{"student_id": studentID, "class_id": classID}).Decode(&grade)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, apperr.Internal("find grade by student and class", err)
	}
	return &grade, nil
}

func (r *gradeRepository) Update(ctx context.Context, id primitive.ObjectID, patch bson.M) error {
	result, err := r.grades.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": patch})
	if err != nil {
		return apperr.Internal("update grade", err)
	}
	if result.MatchedCount == 0 {
		return apperr.NotFound("grade", id.Hex())
	}
	return nil
}

func (r *gradeRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.grades.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperr.Internal("delete grade", err)
	}
	if result.DeletedCount == 0 {
		return apperr.NotFound("grade", id.Hex())
	}
	return nil
}
