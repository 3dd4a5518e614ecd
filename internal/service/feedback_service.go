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

// FeedbackService manages feedback entries and their unread/read/resolved
// lifecycle. A response may be attached once; responding marks the entry
// resolved.
type FeedbackService interface {
	Create(ctx context.Context, senderID string, req dto.CreateFeedbackRequest) (models.Feedback, error)
	Get(ctx context.Context, id string) (models.Feedback, error)
	ListByReceiver(ctx context.Context, receiverID string) ([]models.Feedback, error)
	ListBySender(ctx context.Context, senderID string) ([]models.Feedback, error)
	Respond(ctx context.Context, id, responderID string, req dto.RespondFeedbackRequest) (models.Feedback, error)
	UpdateStatus(ctx context.Context, id string, req dto.UpdateFeedbackStatusRequest) (models.Feedback, error)
	Delete(ctx context.Context, id string) error
}

type feedbackService struct {
	feedback  repository.FeedbackRepository
	users     repository.UserRepository
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewFeedbackService constructs the feedback service.
func NewFeedbackService(feedback repository.FeedbackRepository, users repository.UserRepository, validate *validator.Validate, logger zerolog.Logger) FeedbackService {
	return &feedbackService{
		feedback:  feedback,
		users:     users,
		validator: validate,
		logger:    logger.With().Str("component", "feedback_service").Logger(),
		now:       time.Now,
	}
}

func (s *feedbackService) Create(ctx context.Context, senderID string, req dto.CreateFeedbackRequest) (models.Feedback, error) {
	sender, err := docutil.ValidateObjectID(senderID)
	if err != nil {
		return models.Feedback{}, err
	}

	if err := s.validator.Struct(req); err != nil {
		return models.Feedback{}, validationError(err)
	}

	entry := models.Feedback{
		SenderID:  sender,
		Role:      models.Role(req.Role),
		Category:  req.Category,
		Message:   req.Message,
		Status:    models.FeedbackStatusUnread,
		CreatedAt: s.now().UTC(),
	}

	if req.ReceiverID != "" {
		receiver, err := docutil.ValidateObjectID(req.ReceiverID)
		if err != nil {
			return models.Feedback{}, err
		}
		if _, err := s.users.FindByID(ctx, receiver); err != nil {
			return models.Feedback{}, err
		}
		entry.ReceiverID = receiver
	}

	return s.feedback.Insert(ctx, entry)
}

func (s *feedbackService) Get(ctx context.Context, id string) (models.Feedback, error) {
	feedbackID, err := docutil.ValidateObjectID(id)
	if err != nil {
		return models.Feedback{}, err
	}
	return s.feedback.FindByID(ctx, feedbackID)
}

func (s *feedbackService) ListByReceiver(ctx context.Context, receiverID string) ([]models.Feedback, error) {
	id, err := docutil.ValidateObjectID(receiverID)
	if err != nil {
		return nil, err
	}
	return s.feedback.FindByReceiver(ctx, id)
}

func (s *feedbackService) ListBySender(ctx context.Context, senderID string) ([]models.Feedback, error) {
	id, err := docutil.ValidateObjectID(senderID)
	if err != nil {
		return nil, err
	}
	return s.feedback.FindBySender(ctx, id)
}

// Respond attaches a reply and resolves the entry. A second response is
// rejected rather than overwriting the first.
func (s *feedbackService) Respond(ctx context.Context, id, responderID string, req dto.RespondFeedbackRequest) (models.Feedback, error) {
	feedbackID, err := docutil.ValidateObjectID(id)
	if err != nil {
		return models.Feedback{}, err
	}
	responder, err := docutil.ValidateObjectID(responderID)
	if err != nil {
		return models.Feedback{}, err
	}

	if err := s.validator.Struct(req); err != nil {
		return models.Feedback{}, validationError(err)
	}

	entry, err := s.feedback.FindByID(ctx, feedbackID)
	if err != nil {
		return models.Feedback{}, err
	}
	if entry.Response != nil {
		return models.Feedback{}, apperr.BadRequest("feedback %s already has a response", feedbackID.Hex()).
			WithUserMessage("This feedback has already been responded to.")
	}

	patch := bson.M{
		"response": models.FeedbackResponse{
			ResponderID: responder,
			Message:     req.Message,
			RespondedAt: s.now().UTC(),
		},
		"status": models.FeedbackStatusResolved,
	}
	if err := s.feedback.Update(ctx, feedbackID, patch); err != nil {
		return models.Feedback{}, err
	}
	return s.feedback.FindByID(ctx, feedbackID)
}

func (s *feedbackService) UpdateStatus(ctx context.Context, id string, req dto.UpdateFeedbackStatusRequest) (models.Feedback, error) {
	feedbackID, err := docutil.ValidateObjectID(id)
	if err != nil {
		return models.Feedback{}, err
	}

	if err := s.validator.Struct(req); err != nil {
		return models.Feedback{}, validationError(err)
	}

	status := models.FeedbackStatus(req.Status)
	if !status.Valid() {
		return models.Feedback{}, apperr.BadRequest("invalid feedback status %q", req.Status)
	}

	if err := s.feedback.Update(ctx, feedbackID, bson.M{"status": status}); err != nil {
		return models.Feedback{}, err
	}
	return s.feedback.FindByID(ctx, feedbackID)
}

func (s *feedbackService) Delete(ctx context.Context, id string) error {
	feedbackID, err := docutil.ValidateObjectID(id)
	if err != nil {
		return err
	}
	return s.feedback.Delete(ctx, feedbackID)
}

