package batches

import (
	"errors"
	"strconv"

	"student-crm/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for batches.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the batch routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/batches")
	group.Get("/", h.HandleListBatches)
	group.Post("/", h.HandleCreateBatch)
	group.Get("/:id", h.HandleGetBatch)
	group.Get("/:id/students", h.HandleListStudents)
	group.Post("/:id/students", h.HandleAddStudent)
	group.Delete("/:id/students/:student", h.HandleRemoveStudent)
}

// membership is the body of an add-student request.
type membership struct {
	StudentID uint `json:"student_id"`
}

// HandleListBatches lists batches.
// @Summary List Batches
// @Tags batches
// @Produce json
// @Param mentor query int false "Only batches this mentor leads or assists"
// @Success 200 {array} models.Batch "Batches"
// @Router /batches [get]
func (h *Handler) HandleListBatches(c *fiber.Ctx) error {
	list, err := h.service.List(c.Context(), uint(c.QueryInt("mentor")))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(list)
}

// HandleCreateBatch creates a batch.
// @Summary Create Batch
// @Tags batches
// @Accept json
// @Produce json
// @Param body body batches.CreateRequest true "Batch"
// @Success 201 {object} models.Batch "Batch"
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Router /batches [post]
func (h *Handler) HandleCreateBatch(c *fiber.Ctx) error {
	var req CreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	batch, err := h.service.Create(c.Context(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(batch)
}

// HandleGetBatch returns one batch.
// @Summary Get Batch
// @Tags batches
// @Produce json
// @Param id path int true "Batch ID"
// @Success 200 {object} models.Batch "Batch"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /batches/{id} [get]
func (h *Handler) HandleGetBatch(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	batch, err := h.service.Get(c.Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(batch)
}

// HandleListStudents lists the students of a batch.
// @Summary List Batch Students
// @Tags batches
// @Produce json
// @Param id path int true "Batch ID"
// @Success 200 {array} models.Student "Students"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /batches/{id}/students [get]
func (h *Handler) HandleListStudents(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	list, err := h.service.Students(c.Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(list)
}

// HandleAddStudent assigns a student to a batch.
// @Summary Add Student To Batch
// @Tags batches
// @Accept json
// @Produce json
// @Param id path int true "Batch ID"
// @Param body body batches.membership true "Student"
// @Success 200 {object} map[string]string "Added"
// @Failure 404 {object} map[string]string "Batch or student not found"
// @Router /batches/{id}/students [post]
func (h *Handler) HandleAddStudent(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var body membership
	if err := c.BodyParser(&body); err != nil || body.StudentID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "student_id is required"})
	}
	if err := h.service.AddStudent(c.Context(), id, body.StudentID); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "student added"})
}

// HandleRemoveStudent unassigns a student from a batch.
// @Summary Remove Student From Batch
// @Tags batches
// @Produce json
// @Param id path int true "Batch ID"
// @Param student path int true "Student ID"
// @Success 200 {object} map[string]string "Removed"
// @Failure 404 {object} map[string]string "Not in this batch"
// @Router /batches/{id}/students/{student} [delete]
func (h *Handler) HandleRemoveStudent(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	studentID, err := pathID(c, "student")
	if err != nil {
		return err
	}
	if err := h.service.RemoveStudent(c.Context(), id, studentID); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "student removed"})
}

func pathID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid "+name+" id")
	}
	return uint(id), nil
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	if fields := h.service.validate.Fields(err); fields != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation failed", "fields": fields})
	}

	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, ErrBatchNotFound), errors.Is(err, ErrStudentNotFound), errors.Is(err, ErrStudentNotInBatch):
		status = fiber.StatusNotFound
	case errors.Is(err, ErrCourseNotFound), errors.Is(err, ErrMentorNotFound), errors.Is(err, ErrInvalidDates):
		status = fiber.StatusBadRequest
	default:
		logger.WithRayID(h.service.logger, c).Error("Batch request failed", zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
