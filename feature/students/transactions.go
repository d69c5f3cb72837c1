package students

import (
	"context"
	"fmt"
	"strings"

	"student-crm/feature/students/models"

	"go.uber.org/zap"
)

// TransactionRequest records a fee payment.
type TransactionRequest struct {
	TransactionID string  `json:"transaction_id" validate:"notblank,max=100"`
	Amount        float64 `json:"amount" validate:"gt=0,lt=100000000"`
	Link          string  `json:"transaction_link" validate:"omitempty,url,max=200"`
}

// Transactions returns the payments of a student, newest first.
func (s *Service) Transactions(ctx context.Context, id uint) ([]models.Transaction, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	var list []models.Transaction
	err := s.db.WithContext(ctx).Where("student_id = ?", id).Order("date DESC, id DESC").Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list transactions of student %d: %w", id, err)
	}
	return list, nil
}

// AddTransaction records a payment against a student.
func (s *Service) AddTransaction(ctx context.Context, id uint, req TransactionRequest) (*models.Transaction, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	txn := models.Transaction{
		StudentID:     id,
		TransactionID: strings.TrimSpace(req.TransactionID),
		Amount:        req.Amount,
		Link:          req.Link,
	}
	if err := s.db.WithContext(ctx).Create(&txn).Error; err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}
	s.logger.Info("Transaction recorded",
		zap.Uint("student_id", id),
		zap.String("transaction_id", txn.TransactionID),
		zap.Float64("amount", txn.Amount))
	return &txn, nil
}
