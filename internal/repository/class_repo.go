package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/edudesk/edudesk-api/internal/apperr"
	"github.com/edudesk/edudesk-api/internal/models"
)

// ClassRepository provides access to the classes collection.
type ClassRepository interface {
	InsertMany(ctx context.Context, classes []models.Class) ([]models.Class, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Class, error)
	FindAll(ctx context.Context) ([]models.Class, error)
	FindByCreator(ctx context.Context, teacherID primitive.ObjectID) ([]models.Class, error)
	FindByStudent(ctx context.Context, studentID primitive.ObjectID) ([]models.Class, error)
	Update(ctx context.Context, id primitive.ObjectID, patch bson.M) error
	Enroll(ctx context.Context, id, studentID primitive.ObjectID) error
	Unenroll(ctx context.Context, id, studentID primitive.ObjectID) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type classRepository struct {
	classes *mongo.Collection
}

// NewClassRepository constructs a MongoDB-backed class repository.
func NewClassRepository(db *mongo.Database) ClassRepository {
	return &classRepository{classes: db.Collection("classes")}
}

func (r *classRepository) InsertMany(ctx context.Context, classes []models.Class) ([]models.Class, error) {
	docs := make([]any, 0, len(classes))
	for _, class := range classes {
		docs = append(docs, class)
	}

	result, err := r.classes.InsertMany(ctx, docs)
	if err != nil {
		return nil, apperr.Internal("insert classes", err)
	}

	cursor, err := r.classes.Find(ctx, bson.M{"_id": bson.M{"$in": result.InsertedIDs}})
	if err != nil {
		return nil, apperr.Internal("fetch inserted classes", err)
	}
	defer cursor.Close(ctx)

	inserted := []models.Class{}
	if err := cursor.All(ctx, &inserted); err != nil {
		return nil, apperr.Internal("decode inserted classes", err)
	}
	return inserted, nil
}

func (r *classRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.Class, error) {
	var class models.Class
	err := r.classes.FindOne(ctx, bson.M{"_id": id}).Decode(&class)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Class{}, apperr.NotFound("class", id.Hex())
		}
		return models.Class{}, apperr.Internal("find class by id", err)
	}
	return class, nil
}

func (r *classRepository) find(ctx context.Context, filter bson.M, op string) ([]models.Class, error) {
	cursor, err := r.classes.Find(ctx, filter)
	if err != nil {
		return nil, apperr.Internal(op, err)
	}
	defer cursor.Close(ctx)

	classes := []models.Class{}
	if err := cursor.All(ctx, &classes); err != nil {
		return nil, apperr.Internal(op, err)
	}
	return classes, nil
}

func (r *classRepository) FindAll(ctx context.Context) ([]models.Class, error) {
	return r.find(ctx, bson.M{}, "find all classes")
}

func (r *classRepository) FindByCreator(ctx context.Context, teacherID primitive.ObjectID) ([]models.Class, error) {
	return r.find(ctx, bson.M{"created_by": teacherID}, "find classes by creator")
}

func (r *classRepository) FindByStudent(ctx context.Context, studentID primitive.ObjectID) ([]models.Class, error) {
	return r.find(ctx, bson.M{"students_enrolled": studentID}, "find classes by student")
}

// Update applies a $set patch and appends the mutation timestamp to the
// class's append-only update history.
func (r *classRepository) Update(ctx context.Context, id primitive.ObjectID, patch bson.M) error {
	now := time.Now().UTC()
	patch["updated_at"] = now

	result, err := r.classes.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set":  patch,
		"$push": bson.M{"update_history": now},
	})
	if err != nil {
		return apperr.Internal("update class", err)
	}
	if result.MatchedCount == 0 {
		return apperr.NotFound("class", id.Hex())
	}
	return nil
}

func (r *classRepository) Enroll(ctx context.Context, id, studentID primitive.ObjectID) error {
	now := time.Now().UTC()
	result, err := r.classes.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$addToSet": bson.M{"students_enrolled": studentID},
		"$set":      bson.M{"updated_at": now},
		"$push":     bson.M{"update_history": now},
	})
	if err != nil {
		return apperr.Internal("enroll student", err)
	}
	if result.MatchedCount == 0 {
		return apperr.NotFound("class", id.Hex())
	}
	return nil
}

func (r *classRepository) Unenroll(ctx context.Context, id, studentID primitive.ObjectID) error {
	now := time.Now().UTC()
	result, err := r.classes.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$pull": bson.M{"students_enrolled": studentID},
		"$set":  bson.M{"updated_at": now},
		"$push": bson.M{"update_history": now},
	})
	if err != nil {
		return apperr.Internal("unenroll student", err)
	}
	if result.MatchedCount == 0 {
		return apperr.NotFound("class", id.Hex())
	}
	return nil
}

func (r *classRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.classes.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperr.Internal("delete class", err)
	}
	if result.DeletedCount == 0 {
		return apperr.NotFound("class", id.Hex())
	}
	return nil
}
