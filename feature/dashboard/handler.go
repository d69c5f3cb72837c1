package dashboard

import (
	"student-crm/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the dashboard.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the dashboard routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/dashboard/stats", h.HandleStats)
}

// HandleStats returns the dashboard summary.
// @Summary Dashboard Stats
// @Description Active students, batches, revenue and students per program. The mentor filter limits counts to the mentor's batches and zeroes revenue.
// @Tags dashboard
// @Produce json
// @Param mentor query int false "Mentor user ID"
// @Success 200 {object} dashboard.Stats "Stats"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /dashboard/stats [get]
func (h *Handler) HandleStats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.Context(), uint(c.QueryInt("mentor")))
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Dashboard stats failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to compute stats"})
	}
	return c.JSON(stats)
}
