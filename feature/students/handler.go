package students

import (
	"errors"
	"strconv"

	"student-crm/core/lms"
	"student-crm/core/logger"
	"student-crm/core/password"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for students.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the student routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/students")
	group.Get("/", h.HandleListStudents)
	group.Get("/:id", h.HandleGetStudent)
	group.Delete("/:id", h.HandleDeactivateStudent)
	group.Post("/:id/restore", h.HandleRestoreStudent)
	group.Delete("/:id/permanent", h.HandleDeleteStudent)
	group.Post("/:id/credentials", h.HandleSetCredentials)
	group.Get("/:id/transactions", h.HandleListTransactions)
	group.Post("/:id/transactions", h.HandleAddTransaction)
	group.Get("/:id/lms", h.HandleGetLMSDetails)
	group.Post("/:id/lms/link", h.HandleLinkStudent)
	group.Post("/:id/lms/credits", h.HandleConsumeCredits)
}

// HandleListStudents lists students.
// @Summary List Students
// @Description Active students by default. Filters combine.
// @Tags students
// @Produce json
// @Param is_active query bool false "Active flag" default(true)
// @Param batch query int false "Batch ID"
// @Param unassigned query bool false "Only students without a batch"
// @Param program query int false "Program ID"
// @Param search query string false "Name, code, mobile or email"
// @Success 200 {array} models.Student "Students"
// @Router /students [get]
func (h *Handler) HandleListStudents(c *fiber.Ctx) error {
	list, err := h.service.List(c.Context(), ListFilter{
		Inactive:   c.Query("is_active", "true") != "true",
		BatchID:    uint(c.QueryInt("batch")),
		Unassigned: c.QueryBool("unassigned"),
		ProgramID:  uint(c.QueryInt("program")),
		Search:     c.Query("search"),
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(list)
}

// HandleGetStudent returns one student.
// @Summary Get Student
// @Description Get a local student profile with its program.
// @Tags students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} models.Student "Student"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /students/{id} [get]
func (h *Handler) HandleGetStudent(c *fiber.Ctx) error {
	id, err := studentID(c)
	if err != nil {
		return err
	}
	student, err := h.service.Get(c.Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(student)
}

// HandleGetLMSDetails returns live LMS data for a student.
// @Summary Get Student LMS Details
// @Description Fees, enrolled courses, progress and recent activity from the LMS. When the LMS cannot be reached the payload carries an error_message instead of failing.
// @Tags students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} students.LMSDetails "LMS Details"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /students/{id}/lms [get]
func (h *Handler) HandleGetLMSDetails(c *fiber.Ctx) error {
	id, err := studentID(c)
	if err != nil {
		return err
	}
	details, err := h.service.LMSDetails(c.Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(details)
}

// HandleLinkStudent links a student to the LMS account with the same phone.
// @Summary Link Student To LMS
// @Description Search the LMS by the student's phone and store the remote id.
// @Tags students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} students.LinkResult "Linked"
// @Failure 400 {object} map[string]string "No Mobile"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 503 {object} map[string]string "LMS Not Configured"
// @Router /students/{id}/lms/link [post]
func (h *Handler) HandleLinkStudent(c *fiber.Ctx) error {
	id, err := studentID(c)
	if err != nil {
		return err
	}
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Linking student to LMS", zap.Uint("student_id", id))

	result, err := h.service.LinkStudent(c.Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(result)
}

// HandleConsumeCredits debits session credits in the LMS.
// @Summary Consume LMS Credits
// @Description Debit session credits of a linked student in one LMS class.
// @Tags students
// @Accept json
// @Produce json
// @Param id path int true "Student ID"
// @Param body body students.CreditRequest true "Credit debit"
// @Success 200 {object} map[string]interface{} "LMS response data"
// @Failure 400 {object} map[string]interface{} "Invalid request, not linked or rejected"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /students/{id}/lms/credits [post]
func (h *Handler) HandleConsumeCredits(c *fiber.Ctx) error {
	id, err := studentID(c)
	if err != nil {
		return err
	}

	var req CreditRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	data, err := h.service.ConsumeCredits(c.Context(), id, req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Credits consumed successfully",
		"data":    data,
	})
}

// HandleDeactivateStudent soft-deletes a student.
// @Summary Deactivate Student
// @Tags students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} map[string]string "Deactivated"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /students/{id} [delete]
func (h *Handler) HandleDeactivateStudent(c *fiber.Ctx) error {
	id, err := studentID(c)
	if err != nil {
		return err
	}
	if err := h.service.Deactivate(c.Context(), id); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "student deactivated"})
}

// HandleRestoreStudent reactivates a student.
// @Summary Restore Student
// @Tags students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} map[string]string "Restored"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /students/{id}/restore [post]
func (h *Handler) HandleRestoreStudent(c *fiber.Ctx) error {
	id, err := studentID(c)
	if err != nil {
		return err
	}
	if err := h.service.Restore(c.Context(), id); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "student restored"})
}

// HandleDeleteStudent permanently deletes a student.
// @Summary Delete Student Permanently
// @Tags students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} map[string]string "Deleted"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /students/{id}/permanent [delete]
func (h *Handler) HandleDeleteStudent(c *fiber.Ctx) error {
	id, err := studentID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Context(), id); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "student permanently deleted"})
}

// HandleSetCredentials sets the login of a student.
// @Summary Set Student Credentials
// @Tags students
// @Accept json
// @Produce json
// @Param id path int true "Student ID"
// @Param body body students.CredentialsRequest true "Credentials"
// @Success 200 {object} map[string]string "Updated"
// @Failure 400 {object} map[string]interface{} "Invalid request or username taken"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /students/{id}/credentials [post]
func (h *Handler) HandleSetCredentials(c *fiber.Ctx) error {
	id, err := studentID(c)
	if err != nil {
		return err
	}
	var req CredentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.service.SetCredentials(c.Context(), id, req); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "Credentials updated successfully"})
}

// HandleListTransactions lists the payments of a student.
// @Summary List Student Transactions
// @Tags students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {array} models.Transaction "Transactions"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /students/{id}/transactions [get]
func (h *Handler) HandleListTransactions(c *fiber.Ctx) error {
	id, err := studentID(c)
	if err != nil {
		return err
	}
	list, err := h.service.Transactions(c.Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(list)
}

// HandleAddTransaction records a payment.
// @Summary Add Student Transaction
// @Tags students
// @Accept json
// @Produce json
// @Param id path int true "Student ID"
// @Param body body students.TransactionRequest true "Payment"
// @Success 201 {object} models.Transaction "Transaction"
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /students/{id}/transactions [post]
func (h *Handler) HandleAddTransaction(c *fiber.Ctx) error {
	id, err := studentID(c)
	if err != nil {
		return err
	}
	var req TransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	txn, err := h.service.AddTransaction(c.Context(), id, req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(txn)
}

func studentID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid student id")
	}
	return uint(id), nil
}

// fail maps service errors to HTTP responses.
func (h *Handler) fail(c *fiber.Ctx, err error) error {
	if fields := h.service.validate.Fields(err); fields != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation failed", "fields": fields})
	}

	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, ErrStudentNotFound), errors.Is(err, lms.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, ErrNoMobile), errors.Is(err, ErrNotLinked), errors.Is(err, lms.ErrRejected),
		errors.Is(err, ErrUsernameTaken), errors.Is(err, password.ErrTooLong):
		status = fiber.StatusBadRequest
	case errors.Is(err, lms.ErrNotConfigured):
		status = fiber.StatusServiceUnavailable
	}

	if status == fiber.StatusInternalServerError {
		logger.WithRayID(h.service.logger, c).Error("Student request failed", zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
