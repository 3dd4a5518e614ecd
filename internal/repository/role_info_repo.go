package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/edudesk/edudesk-api/internal/apperr"
	"github.com/edudesk/edudesk-api/internal/models"
)

// RoleInfoRepository manages the per-role satellite collections. A satellite
// document shares its _id with the owning user; the role picks the
// collection through the models dispatch table.
type RoleInfoRepository interface {
	CreateMinimal(ctx context.Context, id primitive.ObjectID, role models.Role) error
	ApplyPatch(ctx context.Context, id primitive.ObjectID, role models.Role, patch bson.M) (int64, error)
	Delete(ctx context.Context, id primitive.ObjectID, role models.Role) error
}

type roleInfoRepository struct {
	db *mongo.Database
}

// NewRoleInfoRepository constructs the satellite repository.
func NewRoleInfoRepository(db *mongo.Database) RoleInfoRepository {
	return &roleInfoRepository{db: db}
}

func (r *roleInfoRepository) collection(role models.Role) (*mongo.Collection, error) {
	name, err := models.CollectionForRole(role)
	if err != nil {
		return nil, err
	}
	return r.db.Collection(name), nil
}

func minimalDocument(id primitive.ObjectID, role models.Role) any {
	switch role {
	case models.RoleStudent:
		return models.NewMinimalStudentInfo(id)
	case models.RoleTeacher:
		return models.NewMinimalTeacherInfo(id)
	default:
		return models.AdminInfo{ID: id, CreatedAt: time.Now().UTC()}
	}
}

// CreateMinimal inserts the empty role document created alongside a new user.
func (r *roleInfoRepository) CreateMinimal(ctx context.Context, id primitive.ObjectID, role models.Role) error {
	collection, err := r.collection(role)
	if err != nil {
		return err
	}
	if _, err := collection.InsertOne(ctx, minimalDocument(id, role)); err != nil {
		return apperr.Internal("create role info", err).WithDetail("role", string(role)).WithDetail("id", id.Hex())
	}
	return nil
}

// ApplyPatch applies a flattened dot-path $set to the satellite document and
// returns how many documents were modified. Zero modifications is not an
// error here; the service decides how to report it.
func (r *roleInfoRepository) ApplyPatch(ctx context.Context, id primitive.ObjectID, role models.Role, patch bson.M) (int64, error) {
	collection, err := r.collection(role)
	if err != nil {
		return 0, err
	}

	result, err := collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": patch})
	if err != nil {
		return 0, apperr.Internal("patch role info", err).WithDetail("role", string(role)).WithDetail("id", id.Hex())
	}
	if result.MatchedCount == 0 {
		return 0, apperr.NotFound("role info", id.Hex()).WithDetail("role", string(role))
	}
	return result.ModifiedCount, nil
}

// Delete removes the satellite document. A missing document is tolerated so
// user deletion can proceed on a half-created aggregate.
func (r *roleInfoRepository) Delete(ctx context.Context, id primitive.ObjectID, role models.Role) error {
	collection, err := r.collection(role)
	if err != nil {
		return err
	}
	if _, err := collection.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return apperr.Internal("delete role info", err).WithDetail("role", string(role)).WithDetail("id", id.Hex())
	}
	return nil
}
