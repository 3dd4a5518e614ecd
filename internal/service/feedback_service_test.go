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

type memoryFeedbackRepo struct {
	entries map[primitive.ObjectID]models.Feedback
}

func newMemoryFeedbackRepo() *memoryFeedbackRepo {
	return &memoryFeedbackRepo{entries: map[primitive.ObjectID]models.Feedback{}}
}

func (r *memoryFeedbackRepo) Insert(ctx context.Context, feedback models.Feedback) (models.Feedback, error) {
	feedback.ID = primitive.NewObjectID()
	r.entries[feedback.ID] = feedback
	return feedback, nil
}

func (r *memoryFeedbackRepo) FindByID(ctx context.Context, id primitive.ObjectID) (models.Feedback, error) {
	entry, ok := r.entries[id]
	if !ok {
		return models.Feedback{}, apperr.NotFound("feedback", id.Hex())
	}
	return entry, nil
}

func (r *memoryFeedbackRepo) FindByReceiver(ctx context.Context, receiverID primitive.ObjectID) ([]models.Feedback, error) {
	matched := []models.Feedback{}
	for _, entry := range r.entries {
		if entry.ReceiverID == receiverID {
			matched = append(matched, entry)
		}
	}
	return matched, nil
}

func (r *memoryFeedbackRepo) FindBySender(ctx context.Context, senderID primitive.ObjectID) ([]models.Feedback, error) {
	matched := []models.Feedback{}
	for _, entry := range r.entries {
		if entry.SenderID == senderID {
			matched = append(matched, entry)
		}
	}
	return matched, nil
}

func (r *memoryFeedbackRepo) Update(ctx context.Context, id primitive.ObjectID, patch bson.M) error {
	entry, ok := r.entries[id]
	if !ok {
		return apperr.NotFound("feedback", id.Hex())
	}
	if status, ok := patch["status"].(models.FeedbackStatus); ok {
		entry.Status = status
	}
	if response, ok := patch["response"].(models.FeedbackResponse); ok {
		entry.Response = &response
	}
	r.entries[id] = entry
	return nil
}

func (r *memoryFeedbackRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.entries[id]; !ok {
		return apperr.NotFound("feedback", id.Hex())
	}
	delete(r.entries, id)
	return nil
}

func feedbackFixture() (*memoryFeedbackRepo, *memoryUserRepo, FeedbackService) {
	repo := newMemoryFeedbackRepo()
	users := newMemoryUserRepo()
	validate := validator.New(validator.WithRequiredStructEnabled())
	return repo, users, NewFeedbackService(repo, users, validate, testLogger())
}

func TestFeedbackServiceCreateStartsUnread(t *testing.T) {
	_, _, svc := feedbackFixture()

	entry, err := svc.Create(context.Background(), primitive.NewObjectID().Hex(), dto.CreateFeedbackRequest{
		Role:     "student",
		Category: "facilities",
		Message:  "The projector in room 204 is broken.",
	})
	require.NoError(t, err)
	require.Equal(t, models.FeedbackStatusUnread, entry.Status)
	require.Nil(t, entry.Response)
}

func TestFeedbackServiceCreateUnknownReceiver(t *testing.T) {
	_, _, svc := feedbackFixture()

	_, err := svc.Create(context.Background(), primitive.NewObjectID().Hex(), dto.CreateFeedbackRequest{
		ReceiverID: primitive.NewObjectID().Hex(),
		Role:       "student",
		Category:   "facilities",
		Message:    "The projector in room 204 is broken.",
	})
	require.Error(t, err)
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestFeedbackServiceRespondResolves(t *testing.T) {
	_, _, svc := feedbackFixture()

	entry, err := svc.Create(context.Background(), primitive.NewObjectID().Hex(), dto.CreateFeedbackRequest{
		Role:     "teacher",
		Category: "scheduling",
		Message:  "Two of my classes overlap on Tuesdays.",
	})
	require.NoError(t, err)

	responder := primitive.NewObjectID()
	resolved, err := svc.Respond(context.Background(), entry.ID.Hex(), responder.Hex(), dto.RespondFeedbackRequest{
		Message: "Schedule has been corrected.",
	})
	require.NoError(t, err)
	require.Equal(t, models.FeedbackStatusResolved, resolved.Status)
	require.NotNil(t, resolved.Response)
	require.Equal(t, responder, resolved.Response.ResponderID)
}

func TestFeedbackServiceRespondTwiceRejected(t *testing.T) {
	_, _, svc := feedbackFixture()

	entry, err := svc.Create(context.Background(), primitive.NewObjectID().Hex(), dto.CreateFeedbackRequest{
		Role:     "teacher",
		Category: "scheduling",
		Message:  "Two of my classes overlap on Tuesdays.",
	})
	require.NoError(t, err)

	_, err = svc.Respond(context.Background(), entry.ID.Hex(), primitive.NewObjectID().Hex(), dto.RespondFeedbackRequest{Message: "Fixed."})
	require.NoError(t, err)

	_, err = svc.Respond(context.Background(), entry.ID.Hex(), primitive.NewObjectID().Hex(), dto.RespondFeedbackRequest{Message: "Fixed again."})
	require.Error(t, err)
	require.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
}

func TestFeedbackServiceStatusLifecycle(t *testing.T) {
	_, _, svc := feedbackFixture()

	entry, err := svc.Create(context.Background(), primitive.NewObjectID().Hex(), dto.CreateFeedbackRequest{
		Role:     "student",
		Category: "other",
		Message:  "General remark about the cafeteria.",
	})
	require.NoError(t, err)

	read, err := svc.UpdateStatus(context.Background(), entry.ID.Hex(), dto.UpdateFeedbackStatusRequest{Status: "read"})
	require.NoError(t, err)
	require.Equal(t, models.FeedbackStatusRead, read.Status)

	_, err = svc.UpdateStatus(context.Background(), entry.ID.Hex(), dto.UpdateFeedbackStatusRequest{Status: "archived"})
	require.Error(t, err)
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}
