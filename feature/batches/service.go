package batches

import (
	"context"
	"errors"
	"fmt"
	"time"

	"student-crm/core/validation"
	"student-crm/feature/students/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// Service handles batch operations.
type Service struct {
	db       *gorm.DB
	logger   *zap.Logger
	validate *validation.Validator
}

// NewService creates a new batches service.
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger, validate: validation.MustNew()}
}

// List returns batches with their course, mentors and student counts. A non-zero
// mentorID keeps batches the mentor leads or assists.
func (s *Service) List(ctx context.Context, mentorID uint) ([]models.Batch, error) {
	q := s.preload(s.db.WithContext(ctx))
	if mentorID > 0 {
		q = q.Where("primary_mentor_id = ? OR id IN (?)", mentorID,
			s.db.Table("batch_secondary_mentors").Select("batch_id").Where("user_id = ?", mentorID))
	}

	var list []models.Batch
	if err := q.Order("start_date DESC, id DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	if err := s.fillCounts(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// Get returns one batch.
func (s *Service) Get(ctx context.Context, id uint) (*models.Batch, error) {
	var batch models.Batch
	err := s.preload(s.db.WithContext(ctx)).First(&batch, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBatchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load batch %d: %w", id, err)
	}

	list := []models.Batch{batch}
	if err := s.fillCounts(ctx, list); err != nil {
		return nil, err
	}
	return &list[0], nil
}

func (s *Service) preload(q *gorm.DB) *gorm.DB {
	return q.Preload("Course").Preload("PrimaryMentor").Preload("SecondaryMentors")
}

type batchCount struct {
	BatchID uint
	Total   int64
}

func (s *Service) fillCounts(ctx context.Context, list []models.Batch) error {
	if len(list) == 0 {
		return nil
	}
	ids := make([]uint, len(list))
	for i, b := range list {
		ids[i] = b.ID
	}

	var counts []batchCount
	err := s.db.WithContext(ctx).Model(&models.Student{}).
		Select("batch_id, COUNT(*) AS total").
		Where("batch_id IN ?", ids).
		Group("batch_id").
		Scan(&counts).Error
	if err != nil {
		return fmt.Errorf("count batch students: %w", err)
	}

	byID := make(map[uint]int64, len(counts))
	for _, c := range counts {
		byID[c.BatchID] = c.Total
	}
	for i := range list {
		list[i].StudentCount = byID[list[i].ID]
	}
	return nil
}

// CreateRequest describes a new batch. Dates use YYYY-MM-DD.
type CreateRequest struct {
	Name               string `json:"name" validate:"notblank,max=100"`
	CourseID           uint   `json:"course_id" validate:"required"`
	StartDate          string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate            string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	PrimaryMentorID    *uint  `json:"primary_mentor_id"`
	SecondaryMentorIDs []uint `json:"secondary_mentor_ids"`
}

// Create stores a new batch.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*models.Batch, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	start, _ := time.Parse(dateLayout, req.StartDate)
	batch := models.Batch{Name: req.Name, CourseID: req.CourseID, StartDate: start, PrimaryMentorID: req.PrimaryMentorID}
	if req.EndDate != "" {
		end, _ := time.Parse(dateLayout, req.EndDate)
		if end.Before(start) {
			return nil, ErrInvalidDates
		}
		batch.EndDate = &end
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := exists(tx, &models.Course{}, req.CourseID, ErrCourseNotFound); err != nil {
			return err
		}
		if req.PrimaryMentorID != nil {
			if err := exists(tx, &models.User{}, *req.PrimaryMentorID, ErrMentorNotFound); err != nil {
				return err
			}
		}
		if len(req.SecondaryMentorIDs) > 0 {
			var mentors []models.User
			if err := tx.Where("id IN ?", req.SecondaryMentorIDs).Find(&mentors).Error; err != nil {
				return fmt.Errorf("load mentors: %w", err)
			}
			if len(mentors) != len(uniq(req.SecondaryMentorIDs)) {
				return ErrMentorNotFound
			}
			batch.SecondaryMentors = mentors
		}
		if err := tx.Create(&batch).Error; err != nil {
			return fmt.Errorf("create batch: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Batch created", zap.Uint("batch_id", batch.ID), zap.String("name", batch.Name))
	return s.Get(ctx, batch.ID)
}

func exists(tx *gorm.DB, model any, id uint, notFound error) error {
	var n int64
	if err := tx.Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return fmt.Errorf("check %T %d: %w", model, id, err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}

func uniq(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}

// Students returns the students assigned to a batch.
func (s *Service) Students(ctx context.Context, batchID uint) ([]models.Student, error) {
	if err := exists(s.db.WithContext(ctx), &models.Batch{}, batchID, ErrBatchNotFound); err != nil {
		return nil, err
	}
	var list []models.Student
	err := s.db.WithContext(ctx).Where("batch_id = ?", batchID).Order("first_name, id").Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list students of batch %d: %w", batchID, err)
	}
	return list, nil
}

// AddStudent assigns a student to a batch, moving it out of any previous batch.
func (s *Service) AddStudent(ctx context.Context, batchID, studentID uint) error {
	db := s.db.WithContext(ctx)
	if err := exists(db, &models.Batch{}, batchID, ErrBatchNotFound); err != nil {
		return err
	}
	res := db.Model(&models.Student{}).Where("id = ?", studentID).Update("batch_id", batchID)
	if res.Error != nil {
		return fmt.Errorf("assign student %d: %w", studentID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrStudentNotFound
	}
	s.logger.Info("Student added to batch", zap.Uint("batch_id", batchID), zap.Uint("student_id", studentID))
	return nil
}

// RemoveStudent unassigns a student from the batch holding it.
func (s *Service) RemoveStudent(ctx context.Context, batchID, studentID uint) error {
	db := s.db.WithContext(ctx)
	if err := exists(db, &models.Batch{}, batchID, ErrBatchNotFound); err != nil {
		return err
	}
	res := db.Model(&models.Student{}).
		Where("id = ? AND batch_id = ?", studentID, batchID).
		Update("batch_id", nil)
	if res.Error != nil {
		return fmt.Errorf("unassign student %d: %w", studentID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrStudentNotInBatch
	}
	s.logger.Info("Student removed from batch", zap.Uint("batch_id", batchID), zap.Uint("student_id", studentID))
	return nil
}
