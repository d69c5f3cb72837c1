package sync

import (
	"errors"

	"student-crm/core/logger"
	"student-crm/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for sync runs.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the sync routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/sync")
	group.Post("/students", h.HandleSyncStudents)
	group.Get("/reports", h.HandleListReports)
	group.Get("/reports/:id", h.HandleGetReport)
}

// HandleSyncStudents runs a student sync and returns its report.
// @Summary Sync Students
// @Description Pull every student from the LMS, link existing local students by phone and create missing ones. Concurrent requests share one run.
// @Tags sync
// @Produce json
// @Success 200 {object} reconcile.Report "Completed (possibly with a truncated listing)"
// @Failure 500 {object} reconcile.Report "Aborted"
// @Failure 503 {object} reconcile.Report "LMS Not Configured"
// @Router /sync/students [post]
func (h *Handler) HandleSyncStudents(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering student sync")

	report, err := h.service.Run(c.Context())
	if report == nil {
		l.Error("Sync failed without report", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	status := fiber.StatusOK
	switch report.Status {
	case reconcile.StatusNotConfigured:
		status = fiber.StatusServiceUnavailable
	case reconcile.StatusAborted:
		status = fiber.StatusInternalServerError
		l.Error("Sync aborted", zap.Error(err))
	}
	return c.Status(status).JSON(report)
}

// HandleListReports lists archived sync reports.
// @Summary List Sync Reports
// @Description List archived sync run reports, newest first.
// @Tags sync
// @Produce json
// @Success 200 {array} sync.ReportInfo "Reports"
// @Failure 404 {object} map[string]string "Archive Disabled"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /sync/reports [get]
func (h *Handler) HandleListReports(c *fiber.Ctx) error {
	archive := h.service.Archive()
	if archive == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "report archive disabled"})
	}

	infos, err := archive.List(c.Context())
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Failed to list reports", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if infos == nil {
		infos = []ReportInfo{}
	}
	return c.JSON(infos)
}

// HandleGetReport returns one archived report.
// @Summary Get Sync Report
// @Description Get an archived sync run report by run id.
// @Tags sync
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} reconcile.Report "Report"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /sync/reports/{id} [get]
func (h *Handler) HandleGetReport(c *fiber.Ctx) error {
	archive := h.service.Archive()
	if archive == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "report archive disabled"})
	}

	report, err := archive.Get(c.Context(), c.Params("id"))
	if errors.Is(err, ErrReportNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Failed to read report", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}
