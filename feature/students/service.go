package students

import (
	"context"
	"errors"
	"fmt"

	"student-crm/core/lms"
	"student-crm/core/password"
	"student-crm/core/validation"
	"student-crm/feature/students/models"
	"student-crm/feature/students/normalize"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LMS is the part of the LMS client the students feature uses.
type LMS interface {
	Configured() bool
	SearchByPhone(ctx context.Context, phone string) (lms.Record, error)
	FeeSummary(ctx context.Context, studentID string) (map[string]any, error)
	RegistrationData(ctx context.Context, studentID string) (map[string]any, error)
	StudentReports(ctx context.Context, studentID string) (map[string]any, error)
	ConsumeCredits(ctx context.Context, studentID, classID string, debit lms.CreditDebit) (map[string]any, error)
}

// Service handles student operations.
type Service struct {
	db       *gorm.DB
	lms      LMS
	logger   *zap.Logger
	validate *validation.Validator
	hasher   *password.Hasher
}

// NewService creates a new students service.
func NewService(db *gorm.DB, client LMS, logger *zap.Logger) *Service {
	return &Service{
		db:       db,
		lms:      client,
		logger:   logger,
		validate: validation.MustNew(),
		hasher:   password.NewHasher(0),
	}
}

// Get returns a student with its program.
func (s *Service) Get(ctx context.Context, id uint) (*models.Student, error) {
	var student models.Student
	err := s.db.WithContext(ctx).Preload("Program").First(&student, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrStudentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load student %d: %w", id, err)
	}
	return &student, nil
}

// LinkResult is the outcome of a successful LinkStudent.
type LinkResult struct {
	StudentID    uint       `json:"student_id"`
	LMSStudentID string     `json:"lms_student_id"`
	Message      string     `json:"message"`
	Remote       lms.Record `json:"remote"`
}

// LinkStudent searches the LMS by the student's phone and stores the remote id.
func (s *Service) LinkStudent(ctx context.Context, id uint) (*LinkResult, error) {
	student, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.lms.Configured() {
		return nil, lms.ErrNotConfigured
	}
	if student.Mobile == "" {
		return nil, ErrNoMobile
	}

	remote, err := s.lms.SearchByPhone(ctx, student.Mobile)
	if err != nil {
		return nil, err
	}

	remoteID := normalize.ExternalID(remote)
	if remoteID == "" {
		return nil, fmt.Errorf("remote student has no id: %w", lms.ErrNotFound)
	}

	err = s.db.WithContext(ctx).
		Model(&models.Student{}).
		Where("id = ?", student.ID).
		Update("lms_student_id", remoteID).Error
	if err != nil {
		return nil, fmt.Errorf("link student %d: %w", student.ID, err)
	}

	s.logger.Info("Linked student to LMS",
		zap.Uint("student_id", student.ID),
		zap.String("lms_student_id", remoteID))

	return &LinkResult{
		StudentID:    student.ID,
		LMSStudentID: remoteID,
		Message:      fmt.Sprintf("Successfully linked to %s!", normalize.DisplayName(remote)),
		Remote:       remote,
	}, nil
}

// CreditRequest is the body of a credit consumption.
type CreditRequest struct {
	ClassID string  `json:"class_id" validate:"notblank"`
	Credit  float64 `json:"credit" validate:"gte=0,lte=1000"`
	Note    string  `json:"note" validate:"max=255"`
}

// ConsumeCredits debits session credits of a linked student in one LMS class.
// A zero credit defaults to one.
func (s *Service) ConsumeCredits(ctx context.Context, id uint, req CreditRequest) (map[string]any, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	student, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	lmsID := student.LMSID()
	if lmsID == "" {
		return nil, ErrNotLinked
	}

	if req.Credit == 0 {
		req.Credit = 1
	}
	data, err := s.lms.ConsumeCredits(ctx, lmsID, req.ClassID, lms.CreditDebit{
		Credit: req.Credit,
		Note:   req.Note,
		Type:   lms.CreditTypeDebit,
	})
	if err != nil {
		s.logger.Warn("Credit consumption failed",
			zap.Uint("student_id", student.ID),
			zap.String("class_id", req.ClassID),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("Consumed credits",
		zap.Uint("student_id", student.ID),
		zap.String("class_id", req.ClassID),
		zap.Float64("credit", req.Credit))
	return data, nil
}
