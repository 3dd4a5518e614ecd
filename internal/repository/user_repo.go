package repository

import (
	"context"
	"errors"
	"regexp"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/edudesk/edudesk-api/internal/apperr"
	"github.com/edudesk/edudesk-api/internal/docutil"
	"github.com/edudesk/edudesk-api/internal/models"
)

// UserRepository provides access to the primary user collection and the
// role-satellite joins. Optional lookups (FindByUsername, FindByEmail)
// return nil with no error when absence is a normal outcome; everything
// else raises typed errors.
type UserRepository interface {
	Insert(ctx context.Context, user models.User) (primitive.ObjectID, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByRole(ctx context.Context, role models.Role) ([]models.User, error)
	FindAll(ctx context.Context) ([]models.User, error)
	FindDetail(ctx context.Context, id primitive.ObjectID) (models.UserDetail, error)
	Search(ctx context.Context, query string, page, pageSize int) ([]models.UserDetail, error)
	UsernameTaken(ctx context.Context, username string, excludeID primitive.ObjectID) (bool, error)
	EmailTaken(ctx context.Context, email string, excludeID primitive.ObjectID) (bool, error)
	Update(ctx context.Context, id primitive.ObjectID, patch bson.M) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	CountByRole(ctx context.Context) (map[models.Role]int64, error)
	GrowthStats(ctx context.Context, start, end string) ([]DailyGrowthPoint, error)
	GrowthStatsByRole(ctx context.Context, start, end string) ([]RoleGrowthPoint, error)
	RoleCountsBetween(ctx context.Context, start, end string) (map[models.Role]int64, error)
}

// DailyGrowthPoint is one calendar day in a growth-stats series.
type DailyGrowthPoint struct {
	Date       string  `json:"date"`
	Count      int64   `json:"count"`
	Percentage float64 `json:"percentage"`
}

// RoleGrowthPoint is the per-role share of users created in a window.
type RoleGrowthPoint struct {
	Role       models.Role `json:"role"`
	Count      int64       `json:"count"`
	Percentage float64     `json:"percentage"`
}

type userRepository struct {
	users     *mongo.Collection
	converter *docutil.Converter
}

// NewUserRepository constructs a MongoDB-backed user repository. List
// reads tolerate individually malformed documents: they are logged and
// skipped rather than failing the whole query.
func NewUserRepository(db *mongo.Database, logger zerolog.Logger) UserRepository {
	return &userRepository{
		users:     db.Collection(models.CollectionUsers),
		converter: docutil.NewConverter(docutil.LogAndSkip, logger),
	}
}

func (r *userRepository) Insert(ctx context.Context, user models.User) (primitive.ObjectID, error) {
	result, err := r.users.InsertOne(ctx, user)
	if err != nil {
		return primitive.NilObjectID, apperr.Internal("insert user", err)
	}

	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, apperr.Internal("insert user", errors.New("unexpected inserted id type"))
	}
	return id, nil
}

func (r *userRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var user models.User
	err := r.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, apperr.NotFound("user", id.Hex())
		}
		return models.User{}, apperr.Internal("find user by id", err)
	}
	return user, nil
}

func (r *userRepository) findOneOptional(ctx context.Context, filter bson.M, op string) (*models.User, error) {
	var user models.User
	err := r.users.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, apperr.Internal(op, err)
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOneOptional(ctx, bson.M{"username": username}, "find user by username")
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOneOptional(ctx, bson.M{"email": email}, "find user by email")
}

func (r *userRepository) FindByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	cursor, err := r.users.Find(ctx, bson.M{"role": role})
	if err != nil {
		return nil, apperr.Internal("find users by role", err)
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, apperr.Internal("decode users by role", err)
	}
	return users, nil
}

func (r *userRepository) FindAll(ctx context.Context) ([]models.User, error) {
	cursor, err := r.users.Find(ctx, bson.M{})
	if err != nil {
		return nil, apperr.Internal("find all users", err)
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, apperr.Internal("decode all users", err)
	}
	return users, nil
}

// userDetailDoc is the shape produced by the satellite $lookup pipeline.
type userDetailDoc struct {
	models.User `bson:",inline"`
	TeacherInfo *models.TeacherInfo `bson:"teacher_info,omitempty"`
	StudentInfo *models.StudentInfo `bson:"student_info,omitempty"`
	AdminInfo   *models.AdminInfo   `bson:"admin_info,omitempty"`
}

func (d userDetailDoc) toDetail() models.UserDetail {
	detail := models.UserDetail{Profile: d.User.WithoutPassword()}
	// only the satellite matching the role is exposed
	switch d.User.Role {
	case models.RoleTeacher:
		detail.TeacherInfo = d.TeacherInfo
	case models.RoleStudent:
		detail.StudentInfo = d.StudentInfo
	case models.RoleAdmin:
		detail.AdminInfo = d.AdminInfo
	}
	return detail
}

func satelliteLookupStages() []bson.M {
	stages := make([]bson.M, 0, 6)
	for _, join := range []struct {
		collection string
		field      string
	}{
		{models.CollectionAdminInfo, "admin_info"},
		{models.CollectionTeacherInfo, "teacher_info"},
		{models.CollectionStudentInfo, "student_info"},
	} {
		stages = append(stages,
			bson.M{"$lookup": bson.M{
				"from":         join.collection,
				"localField":   "_id",
				"foreignField": "_id",
				"as":           join.field,
			}},
			bson.M{"$unwind": bson.M{
				"path":                       "$" + join.field,
				"preserveNullAndEmptyArrays": true,
			}},
		)
	}
	return stages
}

func (r *userRepository) FindDetail(ctx context.Context, id primitive.ObjectID) (models.UserDetail, error) {
	pipeline := append([]bson.M{{"$match": bson.M{"_id": id}}}, satelliteLookupStages()...)

	cursor, err := r.users.Aggregate(ctx, pipeline)
	if err != nil {
		return models.UserDetail{}, apperr.Internal("aggregate user detail", err)
	}
	defer cursor.Close(ctx)

	var docs []userDetailDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return models.UserDetail{}, apperr.Internal("decode user detail", err)
	}
	if len(docs) == 0 {
		return models.UserDetail{}, apperr.NotFound("user", id.Hex())
	}
	return docs[0].toDetail(), nil
}

func (r *userRepository) Search(ctx context.Context, query string, page, pageSize int) ([]models.UserDetail, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	regex := bson.M{"$regex": regexp.QuoteMeta(query), "$options": "i"}
	pipeline := []bson.M{
		{"$match": bson.M{"$or": []bson.M{{"username": regex}, {"email": regex}}}},
		{"$sort": bson.M{"created_at": -1}},
		{"$skip": int64((page - 1) * pageSize)},
		{"$limit": int64(pageSize)},
	}
	pipeline = append(pipeline, satelliteLookupStages()...)

	cursor, err := r.users.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, apperr.Internal("search users", err)
	}
	defer cursor.Close(ctx)

	var raw []bson.M
	if err := cursor.All(ctx, &raw); err != nil {
		return nil, apperr.Internal("decode user search results", err)
	}

	docs, err := docutil.DecodeList[userDetailDoc](r.converter, raw)
	if err != nil {
		return nil, apperr.Internal("convert user search results", err)
	}

	details := make([]models.UserDetail, 0, len(docs))
	for _, doc := range docs {
		details = append(details, doc.toDetail())
	}
	return details, nil
}

func (r *userRepository) taken(ctx context.Context, filter bson.M, excludeID primitive.ObjectID, op string) (bool, error) {
	if !excludeID.IsZero() {
		filter["_id"] = bson.M{"$ne": excludeID}
	}
	err := r.users.FindOne(ctx, filter).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, apperr.Internal(op, err)
	}
	return true, nil
}

func (r *userRepository) UsernameTaken(ctx context.Context, username string, excludeID primitive.ObjectID) (bool, error) {
	return r.taken(ctx, bson.M{"username": username}, excludeID, "check username uniqueness")
}

func (r *userRepository) EmailTaken(ctx context.Context, email string, excludeID primitive.ObjectID) (bool, error) {
	return r.taken(ctx, bson.M{"email": email}, excludeID, "check email uniqueness")
}

func (r *userRepository) Update(ctx context.Context, id primitive.ObjectID, patch bson.M) error {
	result, err := r.users.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": patch})
	if err != nil {
		return apperr.Internal("update user", err)
	}
	if result.MatchedCount == 0 {
		return apperr.NotFound("user", id.Hex())
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.users.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperr.Internal("delete user", err)
	}
	if result.DeletedCount == 0 {
		return apperr.NotFound("user", id.Hex())
	}
	return nil
}

func (r *userRepository) CountByRole(ctx context.Context) (map[models.Role]int64, error) {
	pipeline := []bson.M{
		{"$group": bson.M{"_id": "$role", "count": bson.M{"$sum": 1}}},
	}

	cursor, err := r.users.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, apperr.Internal("count users by role", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Role  models.Role `bson:"_id"`
		Count int64       `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, apperr.Internal("decode role counts", err)
	}

	counts := make(map[models.Role]int64, len(models.Roles()))
	for _, role := range models.Roles() {
		counts[role] = 0
	}
	for _, row := range rows {
		if _, known := counts[row.Role]; known {
			counts[row.Role] = row.Count
		}
	}
	return counts, nil
}
