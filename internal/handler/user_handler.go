package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/edudesk/edudesk-api/internal/dto"
	"github.com/edudesk/edudesk-api/internal/middleware"
	"github.com/edudesk/edudesk-api/internal/service"
	"github.com/edudesk/edudesk-api/internal/utils"
)

// UserHandler serves the user aggregate: accounts plus their role details.
type UserHandler struct {
	service service.UserService
	logger  zerolog.Logger
}

// NewUserHandler constructs a user handler.
func NewUserHandler(service service.UserService, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		logger:  logger.With().Str("component", "user_handler").Logger(),
	}
}

// Register wires user routes. Listing, creation and deletion are admin
// operations; single-user reads allow the owner through as well.
func (h *UserHandler) Register(router fiber.Router) {
	router.Get("/", middleware.RequireRole("admin"), h.list)
	router.Post("/", middleware.RequireRole("admin"), h.create)
	router.Get("/search", middleware.RequireRole("admin"), h.search)
	router.Get("/counts", middleware.RequireRole("admin"), h.counts)
	router.Get("/role/:role", middleware.RequireRole("admin"), h.listByRole)
	router.Get("/:id", middleware.RequireSelfOrRole("id", "admin", "teacher"), h.get)
	router.Get("/:id/detail", middleware.RequireSelfOrRole("id", "admin", "teacher"), h.getDetail)
	router.Patch("/:id", middleware.RequireSelfOrRole("id", "admin"), h.patch)
	router.Patch("/:id/detail", middleware.RequireSelfOrRole("id", "admin"), h.patchDetail)
	router.Delete("/:id", middleware.RequireRole("admin"), h.delete)
}

func (h *UserHandler) create(c *fiber.Ctx) error {
	var payload dto.CreateUserRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	user, err := h.service.Create(c.UserContext(), payload)
	if err != nil {
		requestLogger(h.logger, c).Warn().Err(err).Msg("user creation rejected")
		return utils.SendAppError(c, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "user created successfully", user)
}

func (h *UserHandler) list(c *fiber.Ctx) error {
	users, err := h.service.List(c.UserContext())
	if err != nil {
		return utils.SendAppError(c, err)
	}
	return utils.SendSuccess(c, "users retrieved", users)
}

func (h *UserHandler) listByRole(c *fiber.Ctx) error {
	users, err := h.service.ListByRole(c.UserContext(), c.Params("role"))
	if err != nil {
		return utils.SendAppError(c, err)
	}
	return utils.SendSuccess(c, "users retrieved", users)
}

func (h *UserHandler) search(c *fiber.Ctx) error {
	page := parseQueryInt(c, "page", 1)
	pageSize := parseQueryInt(c, "page_size", 20)

	results, err := h.service.Search(c.UserContext(), c.Query("q"), page, pageSize)
	if err != nil {
		return utils.SendAppError(c, err)
	}
	return utils.SendSuccess(c, "search results", results)
}

func (h *UserHandler) counts(c *fiber.Ctx) error {
	counts, err := h.service.CountByRole(c.UserContext())
	if err != nil {
		return utils.SendAppError(c, err)
	}
	return utils.SendSuccess(c, "user counts by role", counts)
}

func (h *UserHandler) get(c *fiber.Ctx) error {
	user, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return utils.SendAppError(c, err)
	}
	return utils.SendSuccess(c, "user retrieved", user)
}

func (h *UserHandler) getDetail(c *fiber.Ctx) error {
	detail, err := h.service.GetDetail(c.UserContext(), c.Params("id"))
	if err != nil {
		return utils.SendAppError(c, err)
	}
	detail.Profile = detail.Profile.WithoutPassword()
	return utils.SendSuccess(c, "user detail retrieved", detail)
}

func (h *UserHandler) patch(c *fiber.Ctx) error {
	var payload dto.PatchUserRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	user, err := h.service.Patch(c.UserContext(), c.Params("id"), payload)
	if err != nil {
		return utils.SendAppError(c, err)
	}
	return utils.SendSuccess(c, "user updated successfully", user)
}

func (h *UserHandler) patchDetail(c *fiber.Ctx) error {
	var payload dto.PatchUserDetailRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	result, err := h.service.PatchDetail(c.UserContext(), c.Params("id"), payload)
	if err != nil {
		return utils.SendAppError(c, err)
	}
	return utils.SendSuccess(c, result.Message, result)
}

func (h *UserHandler) delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		requestLogger(h.logger, c).Warn().Err(err).Str("user_id", c.Params("id")).Msg("user deletion failed")
		return utils.SendAppError(c, err)
	}
	return utils.SendSuccess(c, "user deleted successfully", nil)
}
