package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/edudesk/edudesk-api/internal/dto"
	"github.com/edudesk/edudesk-api/internal/middleware"
	"github.com/edudesk/edudesk-api/internal/service"
	"github.com/edudesk/edudesk-api/internal/utils"
)

// FeedbackHandler serves feedback submission and its lifecycle.
type FeedbackHandler struct {
	service service.FeedbackService
	logger  zerolog.Logger
}

// NewFeedbackHandler constructs a feedback handler.
func NewFeedbackHandler(service service.FeedbackService, logger zerolog.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		service: service,
		logger:  logger.With().Str("component", "feedback_handler").Logger(),
	}
}

// Register wires feedback routes.
func (h *FeedbackHandler) Register(router fiber.Router) {
	router.Post("/", h.create)
	router.Get("/sent", h.listSent)
	router.Get("/received", h.listReceived)
	router.Get("/:id", h.get)
	router.Post("/:id/respond", middleware.RequireRole("teacher", "admin"), h.respond)
	router.Patch("/:id/status", middleware.RequireRole("teacher", "admin"), h.updateStatus)
	router.Delete("/:id", middleware.RequireRole("admin"), h.delete)
}

func (h *FeedbackHandler) create(c *fiber.Ctx) error {
	var payload dto.CreateFeedbackRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	entry, err := h.service.Create(c.UserContext(), userIDFromContext(c), payload)
	if err != nil {
		return utils.SendAppError(c, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "feedback submitted successfully", entry)
}

func (h *FeedbackHandler) get(c *fiber.Ctx) error {
	entry, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return utils.SendAppError(c, err)
	}
	return utils.SendSuccess(c, "feedback retrieved", entry)
}

func (h *FeedbackHandler) listSent(c *fiber.Ctx) error {
	entries, err := h.service.ListBySender(c.UserContext(), userIDFromContext(c))
	if err != nil {
		return utils.SendAppError(c, err)
	}
	return utils.SendSuccess(c, "feedback retrieved", entries)
}

func (h *FeedbackHandler) listReceived(c *fiber.Ctx) error {
	entries, err := h.service.ListByReceiver(c.UserContext(), userIDFromContext(c))
	if err != nil {
		return utils.SendAppError(c, err)
	}
	return utils.SendSuccess(c, "feedback retrieved", entries)
}

func (h *FeedbackHandler) respond(c *fiber.Ctx) error {
	var payload dto.RespondFeedbackRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	entry, err := h.service.Respond(c.UserContext(), c.Params("id"), userIDFromContext(c), payload)
	if err != nil {
		return utils.SendAppError(c, err)
	}
	return utils.SendSuccess(c, "response recorded", entry)
}

func (h *FeedbackHandler) updateStatus(c *fiber.Ctx) error {
	var payload dto.UpdateFeedbackStatusRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	entry, err := h.service.UpdateStatus(c.UserContext(), c.Params("id"), payload)
	if err != nil {
		return utils.SendAppError(c, err)
	}
	return utils.SendSuccess(c, "feedback status updated", entry)
}

func (h *FeedbackHandler) delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return utils.SendAppError(c, err)
	}
	return utils.SendSuccess(c, "feedback deleted successfully", nil)
}
