package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/edudesk/edudesk-api/internal/service"
	"github.com/edudesk/edudesk-api/internal/utils"
)

// StatsHandler serves admin growth analytics.
type StatsHandler struct {
	service service.StatsService
	logger  zerolog.Logger
}

// NewStatsHandler constructs a stats handler.
func NewStatsHandler(service service.StatsService, logger zerolog.Logger) *StatsHandler {
	return &StatsHandler{
		service: service,
		logger:  logger.With().Str("component", "stats_handler").Logger(),
	}
}

// Register wires stats routes.
func (h *StatsHandler) Register(router fiber.Router) {
	router.Get("/user-growth", h.userGrowth)
	router.Get("/growth-comparison", h.growthComparison)
}

func (h *StatsHandler) userGrowth(c *fiber.Ctx) error {
	startDate := strings.TrimSpace(c.Query("start_date"))
	endDate := strings.TrimSpace(c.Query("end_date"))
	if startDate == "" || endDate == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "start_date and end_date are required")
	}

	stats, err := h.service.UserGrowth(c.UserContext(), startDate, endDate)
	if err != nil {
		return utils.SendAppError(c, err)
	}
	return utils.SendSuccess(c, "user growth statistics", stats)
}

func (h *StatsHandler) growthComparison(c *fiber.Ctx) error {
	currentStart := strings.TrimSpace(c.Query("current_start"))
	currentEnd := strings.TrimSpace(c.Query("current_end"))
	previousStart := strings.TrimSpace(c.Query("previous_start"))
	previousEnd := strings.TrimSpace(c.Query("previous_end"))
	if currentStart == "" || currentEnd == "" || previousStart == "" || previousEnd == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "current and previous window dates are required")
	}

	comparison, err := h.service.GrowthComparison(c.UserContext(), currentStart, currentEnd, previousStart, previousEnd)
	if err != nil {
		return utils.SendAppError(c, err)
	}
	return utils.SendSuccess(c, "growth comparison", comparison)
}
