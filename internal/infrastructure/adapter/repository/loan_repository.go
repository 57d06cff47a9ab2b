package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stellovault/backend/internal/domain/entity"
	errs "github.com/stellovault/backend/internal/domain/error"
	coreport "github.com/stellovault/backend/internal/domain/port/core"
	"github.com/stellovault/backend/internal/domain/port/persistence"
	"github.com/stellovault/backend/internal/infrastructure/adapter/model"
)

// LoanRepository implements persistence.LoanRepository using GORM
type LoanRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewLoanRepository creates a new LoanRepository instance
func NewLoanRepository(db *gorm.DB, logger coreport.Logger) *LoanRepository {
	return &LoanRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func repaymentModelToEntity(m *model.Repayment) entity.Repayment {
	return entity.Repayment{
		ID:        m.ID,
		LoanID:    m.LoanID,
		Amount:    m.Amount,
		PaidAt:    m.PaidAt,
		CreatedAt: m.CreatedAt,
	}
}

func loanModelToEntity(m *model.Loan) *entity.Loan {
	repayments := make([]entity.Repayment, 0, len(m.Repayments))
	for i := range m.Repayments {
		repayments = append(repayments, repaymentModelToEntity(&m.Repayments[i]))
	}
	return &entity.Loan{
		ID:                m.ID,
		BorrowerID:        m.BorrowerID,
		LenderID:          m.LenderID,
		Amount:            m.Amount,
		CollateralAmt:     m.CollateralAmt,
		AssetCode:         m.AssetCode,
		Status:            entity.LoanStatus(m.Status),
		EscrowAddress:     m.EscrowAddress,
		InvocationPayload: m.InvocationPayload,
		Repayments:        repayments,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func loanEntityToModel(l *entity.Loan) *model.Loan {
	return &model.Loan{
		ID:                l.ID,
		BorrowerID:        l.BorrowerID,
		LenderID:          l.LenderID,
		Amount:            l.Amount,
		CollateralAmt:     l.CollateralAmt,
		AssetCode:         l.AssetCode,
		Status:            string(l.Status),
		EscrowAddress:     l.EscrowAddress,
		InvocationPayload: l.InvocationPayload,
		CreatedAt:         l.CreatedAt,
		UpdatedAt:         l.UpdatedAt,
	}
}

// Create persists a new loan
func (r *LoanRepository) Create(ctx context.Context, loan *entity.Loan) error {
	result := r.db.WithContext(ctx).Create(loanEntityToModel(loan))
	if result.Error != nil {
		r.logger.Error("Database error when creating loan", map[string]any{
			"loanId": loan.ID.String(),
			"error":  result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}
	return nil
}

// GetByID retrieves a loan with all its repayments, oldest repayment first
func (r *LoanRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Loan, error) {
	var m model.Loan
	result := r.db.WithContext(ctx).
		Preload("Repayments", func(db *gorm.DB) *gorm.DB {
			return db.Order("repayments.created_at ASC")
		}).
		First(&m, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrLoanNotFound
		}
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}
	return loanModelToEntity(&m), nil
}

// List returns loans matching the filter, newest first, without repayments
func (r *LoanRepository) List(ctx context.Context, filter persistence.LoanFilter) ([]entity.Loan, error) {
	query := r.db.WithContext(ctx).Model(&model.Loan{})
	if filter.BorrowerID != nil {
		query = query.Where("borrower_id = ?", *filter.BorrowerID)
	}
	if filter.LenderID != nil {
		query = query.Where("lender_id = ?", *filter.LenderID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}

	var ms []model.Loan
	result := query.Order("created_at DESC").Find(&ms)
	if result.Error != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	loans := make([]entity.Loan, 0, len(ms))
	for i := range ms {
		loans = append(loans, *loanModelToEntity(&ms[i]))
	}
	return loans, nil
}

// AddRepayment appends a repayment record
func (r *LoanRepository) AddRepayment(ctx context.Context, repayment *entity.Repayment) error {
	m := &model.Repayment{
		ID:        repayment.ID,
		LoanID:    repayment.LoanID,
		Amount:    repayment.Amount,
		PaidAt:    repayment.PaidAt,
		CreatedAt: repayment.CreatedAt,
	}
	result := r.db.WithContext(ctx).Create(m)
	if result.Error != nil {
		if r.errorClassifier.IsSerializationError(result.Error) {
			return errs.ErrConcurrentUpdate
		}
		r.logger.Error("Database error when adding repayment", map[string]any{
			"loanId": repayment.LoanID.String(),
			"error":  result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}
	return nil
}

// UpdateStatus rewrites the loan's derived status
func (r *LoanRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.LoanStatus, now time.Time) error {
	result := r.db.WithContext(ctx).Model(&model.Loan{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     string(status),
			"updated_at": now,
		})
	if result.Error != nil {
		if r.errorClassifier.IsSerializationError(result.Error) {
			return errs.ErrConcurrentUpdate
		}
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}
	if result.RowsAffected == 0 {
		return errs.ErrLoanNotFound
	}
	return nil
}
