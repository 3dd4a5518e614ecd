package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/edudesk/edudesk-api/internal/dto"
	"github.com/edudesk/edudesk-api/internal/middleware"
	"github.com/edudesk/edudesk-api/internal/service"
	"github.com/edudesk/edudesk-api/internal/utils"
)

// GradeHandler serves grade records and their derived totals.
type GradeHandler struct {
	service service.GradeService
	logger  zerolog.Logger
}

// NewGradeHandler constructs a grade handler.
func NewGradeHandler(service service.GradeService, logger zerolog.Logger) *GradeHandler {
	return &GradeHandler{
		service: service,
		logger:  logger.With().Str("component", "grade_handler").Logger(),
	}
}

// Register wires grade routes. Writing grades is a teacher/admin
// operation; students may read their own through the self guard.
func (h *GradeHandler) Register(router fiber.Router) {
	router.Post("/", middleware.RequireRole("teacher", "admin"), h.create)
	router.Get("/student/:id", middleware.RequireSelfOrRole("id", "teacher", "admin"), h.listByStudent)
	router.Get("/class/:id", middleware.RequireRole("teacher", "admin"), h.listByClass)
	router.Get("/:id", middleware.RequireRole("teacher", "admin"), h.get)
	router.Patch("/:id", middleware.RequireRole("teacher", "admin"), h.patch)
	router.Delete("/:id", middleware.RequireRole("teacher", "admin"), h.delete)
}

func (h *GradeHandler) create(c *fiber.Ctx) error {
	var payload dto.CreateGradeRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	grade, err := h.service.Create(c.UserContext(), userIDFromContext(c), payload)
	if err != nil {
		return utils.SendAppError(c, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "grade recorded successfully", grade)
}

func (h *GradeHandler) get(c *fiber.Ctx) error {
	grade, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return utils.SendAppError(c, err)
	}
	return utils.SendSuccess(c, "grade retrieved", grade)
}

func (h *GradeHandler) listByStudent(c *fiber.Ctx) error {
	grades, err := h.service.ListByStudent(c.UserContext(), c.Params("id"))
	if err != nil {
		return utils.SendAppError(c, err)
	}
	return utils.SendSuccess(c, "grades retrieved", grades)
}

func (h *GradeHandler) listByClass(c *fiber.Ctx) error {
	grades, err := h.service.ListByClass(c.UserContext(), c.Params("id"))
	if err != nil {
		return utils.SendAppError(c, err)
	}
	return utils.SendSuccess(c, "grades retrieved", grades)
}

func (h *GradeHandler) patch(c *fiber.Ctx) error {
	var payload dto.PatchGradeRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	grade, err := h.service.Patch(c.UserContext(), c.Params("id"), payload)
	if err != nil {
		return utils.SendAppError(c, err)
	}
	return utils.SendSuccess(c, "grade updated successfully", grade)
}

func (h *GradeHandler) delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return utils.SendAppError(c, err)
	}
	return utils.SendSuccess(c, "grade deleted successfully", nil)
}
