package students

import (
	"context"
	"fmt"
	"strings"

	"student-crm/feature/students/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ListFilter narrows a student listing. The zero value lists active students.
type ListFilter struct {
	// Inactive lists deactivated students instead of active ones.
	Inactive bool
	// BatchID keeps students of one batch.
	BatchID uint
	// Unassigned keeps students without a batch.
	Unassigned bool
	// ProgramID keeps students of one program.
	ProgramID uint
	// Search matches names, code, mobile or email.
	Search string
}

// List returns students matching the filter, newest first.
func (s *Service) List(ctx context.Context, f ListFilter) ([]models.Student, error) {
	q := s.db.WithContext(ctx).
		Preload("Program").
		Where("is_active = ?", !f.Inactive)

	if f.BatchID > 0 {
		q = q.Where("batch_id = ?", f.BatchID)
	}
	if f.Unassigned {
		q = q.Where("batch_id IS NULL")
	}
	if f.ProgramID > 0 {
		q = q.Where("program_id = ?", f.ProgramID)
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		like := "%" + term + "%"
		q = q.Where("first_name LIKE ? OR last_name LIKE ? OR crm_student_id LIKE ? OR mobile LIKE ? OR email LIKE ?",
			like, like, like, like, like)
	}

	var list []models.Student
	if err := q.Order("id DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return list, nil
}

// Deactivate soft-deletes a student. Syncs keep matching deactivated students.
func (s *Service) Deactivate(ctx context.Context, id uint) error {
	return s.setActive(ctx, id, false)
}

// Restore reactivates a soft-deleted student.
func (s *Service) Restore(ctx context.Context, id uint) error {
	return s.setActive(ctx, id, true)
}

func (s *Service) setActive(ctx context.Context, id uint, active bool) error {
	res := s.db.WithContext(ctx).Model(&models.Student{}).Where("id = ?", id).Update("is_active", active)
	if res.Error != nil {
		return fmt.Errorf("update student %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrStudentNotFound
	}
	s.logger.Info("Student active flag changed", zap.Uint("student_id", id), zap.Bool("active", active))
	return nil
}

// Delete removes a student and its transactions. The login is kept.
func (s *Service) Delete(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("student_id = ?", id).Delete(&models.Transaction{}).Error; err != nil {
			return fmt.Errorf("delete transactions: %w", err)
		}
		res := tx.Delete(&models.Student{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete student: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrStudentNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Warn("Student permanently deleted", zap.Uint("student_id", id))
	return nil
}

// CredentialsRequest sets the login of a student.
type CredentialsRequest struct {
	Username string `json:"username" validate:"notblank,max=150"`
	Password string `json:"password" validate:"notblank,max=72"`
}

// SetCredentials replaces the username and password of the student's login and
// forces the STUDENT role.
func (s *Service) SetCredentials(ctx context.Context, id uint, req CredentialsRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return err
	}
	student, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	username := strings.TrimSpace(req.Username)
	var taken int64
	err = s.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ? AND id <> ?", username, student.UserID).
		Count(&taken).Error
	if err != nil {
		return fmt.Errorf("check username: %w", err)
	}
	if taken > 0 {
		return ErrUsernameTaken
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", student.UserID).Updates(map[string]any{
		"username":      username,
		"password_hash": hash,
		"role":          models.RoleStudent,
	}).Error
	if err != nil {
		return fmt.Errorf("update login of student %d: %w", id, err)
	}
	return nil
}
