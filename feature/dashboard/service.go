package dashboard

import (
	"context"
	"database/sql"
	"fmt"

	"student-crm/feature/students/models"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Slice is one program's share of the active students.
type Slice struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

// Stats is the dashboard summary.
type Stats struct {
	Students     int64   `json:"students"`
	Batches      int64   `json:"batches"`
	Revenue      float64 `json:"revenue"`
	Distribution []Slice `json:"distribution"`
}

// unassigned labels students without a program.
const unassigned = "Unassigned"

// Service computes dashboard statistics.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewService creates a new dashboard service.
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// Stats returns the summary. A non-zero mentorID scopes students and batches to
// the mentor's batches and reports no revenue.
func (s *Service) Stats(ctx context.Context, mentorID uint) (*Stats, error) {
	stats := &Stats{Distribution: []Slice{}}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := s.batches(ctx, mentorID).Count(&stats.Batches).Error
		if err != nil {
			return fmt.Errorf("count batches: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		err := s.students(ctx, mentorID).Count(&stats.Students).Error
		if err != nil {
			return fmt.Errorf("count students: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		err := s.students(ctx, mentorID).
			Select("COALESCE(programs.name, ?) AS name, COUNT(students.id) AS value", unassigned).
			Joins("LEFT JOIN programs ON programs.id = students.program_id").
			Group("programs.name").
			Order("value DESC, name ASC").
			Scan(&stats.Distribution).Error
		if err != nil {
			return fmt.Errorf("program distribution: %w", err)
		}
		return nil
	})
	if mentorID == 0 {
		g.Go(func() error {
			var total sql.NullFloat64
			err := s.db.WithContext(ctx).Model(&models.Transaction{}).Select("SUM(amount)").Row().Scan(&total)
			if err != nil {
				return fmt.Errorf("sum revenue: %w", err)
			}
			stats.Revenue = total.Float64
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *Service) batches(ctx context.Context, mentorID uint) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&models.Batch{})
	if mentorID > 0 {
		q = q.Where("primary_mentor_id = ? OR id IN (?)", mentorID, s.mentored(mentorID))
	}
	return q
}

func (s *Service) students(ctx context.Context, mentorID uint) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&models.Student{}).Where("students.is_active = ?", true)
	if mentorID > 0 {
		q = q.Where("students.batch_id IN (?)",
			s.db.Model(&models.Batch{}).Select("id").
				Where("primary_mentor_id = ? OR id IN (?)", mentorID, s.mentored(mentorID)))
	}
	return q
}

// mentored selects the batches a user assists.
func (s *Service) mentored(mentorID uint) *gorm.DB {
	return s.db.Table("batch_secondary_mentors").Select("batch_id").Where("user_id = ?", mentorID)
}
