package catalog

import (
	"context"
	"fmt"

	"student-crm/core/lms"
	"student-crm/feature/students/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LMS is the part of the LMS client the catalog uses.
type LMS interface {
	ListCourses(ctx context.Context, classType string) ([]lms.Record, error)
	ListTeachers(ctx context.Context) ([]lms.Record, error)
	CourseDetails(ctx context.Context, classID string) (map[string]any, error)
}

// Service handles catalog operations.
type Service struct {
	db     *gorm.DB
	lms    LMS
	logger *zap.Logger
}

// NewService creates a new catalog service.
func NewService(db *gorm.DB, client LMS, logger *zap.Logger) *Service {
	return &Service{db: db, lms: client, logger: logger}
}

// Programs returns local programs ordered by name.
func (s *Service) Programs(ctx context.Context) ([]models.Program, error) {
	var programs []models.Program
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&programs).Error; err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	return programs, nil
}

// SubPrograms returns local sub-programs, optionally limited to one program.
func (s *Service) SubPrograms(ctx context.Context, programID uint) ([]models.SubProgram, error) {
	q := s.db.WithContext(ctx).Order("name ASC")
	if programID > 0 {
		q = q.Where("program_id = ?", programID)
	}
	var list []models.SubProgram
	if err := q.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list sub-programs: %w", err)
	}
	return list, nil
}

// LocalCourses returns feeable courses, optionally limited to one sub-program.
func (s *Service) LocalCourses(ctx context.Context, subProgramID uint) ([]models.Course, error) {
	q := s.db.WithContext(ctx).Order("name ASC")
	if subProgramID > 0 {
		q = q.Where("sub_program_id = ?", subProgramID)
	}
	var list []models.Course
	if err := q.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return list, nil
}

// Courses returns LMS classes of a type. A listing cut short by a failed page is
// returned with what was read and a nil error; the failure is logged.
func (s *Service) Courses(ctx context.Context, classType string) ([]lms.Record, error) {
	return s.partial("courses", func() ([]lms.Record, error) {
		return s.lms.ListCourses(ctx, classType)
	})
}

// Teachers returns the LMS teacher listing, with the same partial semantics as Courses.
func (s *Service) Teachers(ctx context.Context) ([]lms.Record, error) {
	return s.partial("teachers", func() ([]lms.Record, error) {
		return s.lms.ListTeachers(ctx)
	})
}

// CourseDetails returns the full LMS class document.
func (s *Service) CourseDetails(ctx context.Context, classID string) (map[string]any, error) {
	return s.lms.CourseDetails(ctx, classID)
}

func (s *Service) partial(resource string, list func() ([]lms.Record, error)) ([]lms.Record, error) {
	records, err := list()
	if err == nil {
		return orEmpty(records), nil
	}
	if len(records) > 0 {
		s.logger.Warn("Returning partial LMS listing", zap.String("resource", resource), zap.Int("records", len(records)), zap.Error(err))
		return records, nil
	}
	return nil, err
}

func orEmpty(records []lms.Record) []lms.Record {
	if records == nil {
		return []lms.Record{}
	}
	return records
}
