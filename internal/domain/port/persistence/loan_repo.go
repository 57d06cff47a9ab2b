package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/stellovault/backend/internal/domain/entity"
)

// LoanFilter narrows loan listings
type LoanFilter struct {
	BorrowerID *uuid.UUID
	LenderID   *uuid.UUID
	Status     *entity.LoanStatus
}

// LoanRepository defines persistence operations for loans and their repayments
type LoanRepository interface {
	// Create persists a new loan
	Create(ctx context.Context, loan *entity.Loan) error

	// GetByID retrieves a loan with all its repayments, or ErrLoanNotFound
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Loan, error)

	// List returns loans matching the filter, newest first
	List(ctx context.Context, filter LoanFilter) ([]entity.Loan, error)

	// AddRepayment appends a repayment record; repayments are never updated or
	// deleted
	AddRepayment(ctx context.Context, repayment *entity.Repayment) error

	// UpdateStatus rewrites the loan's derived status
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.LoanStatus, now time.Time) error
}
