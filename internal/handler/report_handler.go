package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/edudesk/edudesk-api/internal/dto"
	"github.com/edudesk/edudesk-api/internal/middleware"
	"github.com/edudesk/edudesk-api/internal/service"
	"github.com/edudesk/edudesk-api/internal/utils"
)

// ReportHandler serves report filing and admin triage.
type ReportHandler struct {
	service service.ReportService
	logger  zerolog.Logger
}

// NewReportHandler constructs a report handler.
func NewReportHandler(service service.ReportService, logger zerolog.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		logger:  logger.With().Str("component", "report_handler").Logger(),
	}
}

// Register wires report routes. Filing is open to any authenticated user;
// triage belongs to admins.
func (h *ReportHandler) Register(router fiber.Router) {
	router.Post("/", h.create)
	router.Get("/mine", h.listMine)
	router.Get("/status/:status", middleware.RequireRole("admin"), h.listByStatus)
	router.Get("/:id", middleware.RequireRole("admin"), h.get)
	router.Patch("/:id/status", middleware.RequireRole("admin"), h.updateStatus)
	router.Delete("/:id", middleware.RequireRole("admin"), h.delete)
}

func (h *ReportHandler) create(c *fiber.Ctx) error {
	var payload dto.CreateReportRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	report, err := h.service.Create(c.UserContext(), userIDFromContext(c), payload)
	if err != nil {
		return utils.SendAppError(c, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "report filed successfully", report)
}

func (h *ReportHandler) get(c *fiber.Ctx) error {
	report, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return utils.SendAppError(c, err)
	}
	return utils.SendSuccess(c, "report retrieved", report)
}

func (h *ReportHandler) listMine(c *fiber.Ctx) error {
	reports, err := h.service.ListByReporter(c.UserContext(), userIDFromContext(c))
	if err != nil {
		return utils.SendAppError(c, err)
	}
	return utils.SendSuccess(c, "reports retrieved", reports)
}

func (h *ReportHandler) listByStatus(c *fiber.Ctx) error {
	reports, err := h.service.ListByStatus(c.UserContext(), c.Params("status"))
	if err != nil {
		return utils.SendAppError(c, err)
	}
	return utils.SendSuccess(c, "reports retrieved", reports)
}

func (h *ReportHandler) updateStatus(c *fiber.Ctx) error {
	var payload dto.UpdateReportStatusRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	report, err := h.service.UpdateStatus(c.UserContext(), c.Params("id"), payload)
	if err != nil {
		return utils.SendAppError(c, err)
	}
	return utils.SendSuccess(c, "report status updated", report)
}

func (h *ReportHandler) delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return utils.SendAppError(c, err)
	}
	return utils.SendSuccess(c, "report deleted successfully", nil)
}
