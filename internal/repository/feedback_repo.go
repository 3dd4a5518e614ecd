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

// FeedbackRepository provides access to the feedback collection.
type FeedbackRepository interface {
	Insert(ctx context.Context, feedback models.Feedback) (models.Feedback, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Feedback, error)
	FindByReceiver(ctx context.Context, receiverID primitive.ObjectID) ([]models.Feedback, error)
	FindBySender(ctx context.Context, senderID primitive.ObjectID) ([]models.Feedback, error)
	Update(ctx context.Context, id primitive.ObjectID, patch bson.M) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type feedbackRepository struct {
	feedback *mongo.Collection
}

// NewFeedbackRepository constructs a MongoDB-backed feedback repository.
func NewFeedbackRepository(db *mongo.Database) FeedbackRepository {
	return &feedbackRepository{feedback: db.Collection("feedback")}
}

func (r *feedbackRepository) Insert(ctx context.Context, feedback models.Feedback) (models.Feedback, error) {
	result, err := r.feedback.InsertOne(ctx, feedback)
	if err != nil {
		return models.Feedback{}, apperr.Internal("insert feedback", err)
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		feedback.ID = id
	}
	return feedback, nil
}

func (r *feedbackRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.Feedback, error) {
	var feedback models.Feedback
	err := r.feedback.FindOne(ctx, bson.M{"_id": id}).Decode(&feedback)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Feedback{}, apperr.NotFound("feedback", id.Hex())
		}
		return models.Feedback{}, apperr.Internal("find feedback by id", err)
	}
	return feedback, nil
}

func (r *feedbackRepository) find(ctx context.Context, filter bson.M, op string) ([]models.Feedback, error) {
	cursor, err := r.feedback.Find(ctx, filter)
	if err != nil {
		return nil, apperr.Internal(op, err)
	}
	defer cursor.Close(ctx)

	entries := []models.Feedback{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, apperr.Internal(op, err)
	}
	return entries, nil
}

func (r *feedbackRepository) FindByReceiver(ctx context.Context, receiverID primitive.ObjectID) ([]models.Feedback, error) {
	return r.find(ctx, bson.M{"receiver_id": receiverID}, "find feedback by receiver")
}

func (r *feedbackRepository) FindBySender(ctx context.Context, senderID primitive.ObjectID) ([]models.Feedback, error) {
	return r.find(ctx, bson.M{"sender_id": senderID}, "find feedback by sender")
}

func (r *feedbackRepository) Update(ctx context.Context, id primitive.ObjectID, patch bson.M) error {
	result, err := r.feedback.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": patch})
	if err != nil {
		return apperr.Internal("update feedback", err)
	}
	if result.MatchedCount == 0 {
		return apperr.NotFound("feedback", id.Hex())
	}
	return nil
}

func (r *feedbackRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.feedback.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperr.Internal("delete feedback", err)
	}
	if result.DeletedCount == 0 {
		return apperr.NotFound("feedback", id.Hex())
	}
	return nil
}
