package catalog

import (
	"errors"

	"student-crm/core/lms"
	"student-crm/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the catalog.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the catalog routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/catalog")
	group.Get("/programs", h.HandleListPrograms)
	group.Get("/subprograms", h.HandleListSubPrograms)
	group.Get("/courses", h.HandleListLocalCourses)
	group.Get("/lms/courses", h.HandleListCourses)
	group.Get("/lms/courses/:id", h.HandleGetCourse)
	group.Get("/lms/teachers", h.HandleListTeachers)
}

// HandleListPrograms lists local programs.
// @Summary List Programs
// @Tags catalog
// @Produce json
// @Success 200 {array} models.Program "Programs"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /catalog/programs [get]
func (h *Handler) HandleListPrograms(c *fiber.Ctx) error {
	programs, err := h.service.Programs(c.Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(programs)
}

// HandleListSubPrograms lists local sub-programs.
// @Summary List Sub-Programs
// @Tags catalog
// @Produce json
// @Param program query int false "Program ID"
// @Success 200 {array} models.SubProgram "Sub-programs"
// @Router /catalog/subprograms [get]
func (h *Handler) HandleListSubPrograms(c *fiber.Ctx) error {
	list, err := h.service.SubPrograms(c.Context(), uint(c.QueryInt("program")))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(list)
}

// HandleListLocalCourses lists local feeable courses.
// @Summary List Courses
// @Tags catalog
// @Produce json
// @Param subprogram query int false "Sub-program ID"
// @Success 200 {array} models.Course "Courses"
// @Router /catalog/courses [get]
func (h *Handler) HandleListLocalCourses(c *fiber.Ctx) error {
	list, err := h.service.LocalCourses(c.Context(), uint(c.QueryInt("subprogram")))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(list)
}

// HandleListCourses lists LMS classes.
// @Summary List LMS Courses
// @Description List LMS classes of a type (LIVE by default).
// @Tags catalog
// @Produce json
// @Param type query string false "Class type" default(LIVE)
// @Success 200 {array} map[string]interface{} "Courses"
// @Failure 503 {object} map[string]string "LMS Not Configured"
// @Router /catalog/lms/courses [get]
func (h *Handler) HandleListCourses(c *fiber.Ctx) error {
	courses, err := h.service.Courses(c.Context(), c.Query("type", "LIVE"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(courses)
}

// HandleGetCourse returns one LMS class with fees.
// @Summary Get LMS Course
// @Tags catalog
// @Produce json
// @Param id path string true "LMS class ID"
// @Success 200 {object} map[string]interface{} "Course"
// @Failure 502 {object} map[string]string "LMS Unavailable"
// @Router /catalog/lms/courses/{id} [get]
func (h *Handler) HandleGetCourse(c *fiber.Ctx) error {
	course, err := h.service.CourseDetails(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(course)
}

// HandleListTeachers lists LMS teachers.
// @Summary List LMS Teachers
// @Tags catalog
// @Produce json
// @Success 200 {array} map[string]interface{} "Teachers"
// @Failure 503 {object} map[string]string "LMS Not Configured"
// @Router /catalog/lms/teachers [get]
func (h *Handler) HandleListTeachers(c *fiber.Ctx) error {
	teachers, err := h.service.Teachers(c.Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(teachers)
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, lms.ErrNotConfigured):
		status = fiber.StatusServiceUnavailable
	case errors.Is(err, lms.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, lms.ErrUnavailable):
		status = fiber.StatusBadGateway
	default:
		logger.WithRayID(h.service.logger, c).Error("Catalog request failed", zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
