package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/edudesk/edudesk-api/internal/dto"
	"github.com/edudesk/edudesk-api/internal/middleware"
	"github.com/edudesk/edudesk-api/internal/service"
	"github.com/edudesk/edudesk-api/internal/utils"
)

// ClassHandler serves class management and roster membership.
type ClassHandler struct {
	service service.ClassService
	logger  zerolog.Logger
}

// NewClassHandler constructs a class handler.
func NewClassHandler(service service.ClassService, logger zerolog.Logger) *ClassHandler {
	return &ClassHandler{
		service: service,
		logger:  logger.With().Str("component", "class_handler").Logger(),
	}
}

// Register wires class routes. Mutations are restricted to teachers and
// admins; reads are open to any authenticated user.
func (h *ClassHandler) Register(router fiber.Router) {
	router.Get("/", h.list)
	router.Post("/", middleware.RequireRole("teacher", "admin"), h.createBatch)
	router.Get("/:id", h.get)
	router.Patch("/:id", middleware.RequireRole("teacher", "admin"), h.patch)
	router.Post("/:id/enroll", middleware.RequireRole("teacher", "admin"), h.enroll)
	router.Post("/:id/unenroll", middleware.RequireRole("teacher", "admin"), h.unenroll)
	router.Delete("/:id", middleware.RequireRole("admin"), h.delete)
}

func (h *ClassHandler) createBatch(c *fiber.Ctx) error {
	var payload []dto.CreateClassRequest
	if err := c.BodyParser(&payload); err != nil {
		// fall back to a single-object body
		var single dto.CreateClassRequest
		if err := c.BodyParser(&single); err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
		}
		payload = []dto.CreateClassRequest{single}
	}

	classes, err := h.service.CreateBatch(c.UserContext(), userIDFromContext(c), payload)
	if err != nil {
		return utils.SendAppError(c, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "classes created successfully", classes)
}

func (h *ClassHandler) list(c *fiber.Ctx) error {
	if creator := c.Query("created_by"); creator != "" {
		classes, err := h.service.ListByCreator(c.UserContext(), creator)
		if err != nil {
			return utils.SendAppError(c, err)
		}
		return utils.SendSuccess(c, "classes retrieved", classes)
	}

	classes, err := h.service.List(c.UserContext())
	if err != nil {
		return utils.SendAppError(c, err)
	}
	return utils.SendSuccess(c, "classes retrieved", classes)
}

func (h *ClassHandler) get(c *fiber.Ctx) error {
	class, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return utils.SendAppError(c, err)
	}
	return utils.SendSuccess(c, "class retrieved", class)
}

func (h *ClassHandler) patch(c *fiber.Ctx) error {
	var payload dto.PatchClassRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	class, err := h.service.Patch(c.UserContext(), c.Params("id"), payload)
	if err != nil {
		return utils.SendAppError(c, err)
	}
	return utils.SendSuccess(c, "class updated successfully", class)
}

func (h *ClassHandler) enroll(c *fiber.Ctx) error {
	var payload dto.EnrollRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	class, err := h.service.Enroll(c.UserContext(), c.Params("id"), payload)
	if err != nil {
		return utils.SendAppError(c, err)
	}
	return utils.SendSuccess(c, "student enrolled successfully", class)
}

func (h *ClassHandler) unenroll(c *fiber.Ctx) error {
	var payload dto.EnrollRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	class, err := h.service.Unenroll(c.UserContext(), c.Params("id"), payload)
	if err != nil {
		return utils.SendAppError(c, err)
	}
	return utils.SendSuccess(c, "student unenrolled successfully", class)
}

func (h *ClassHandler) delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return utils.SendAppError(c, err)
	}
	return utils.SendSuccess(c, "class deleted successfully", nil)
}
