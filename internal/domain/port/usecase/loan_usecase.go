package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stellovault/backend/internal/domain/entity"
	"github.com/stellovault/backend/internal/domain/port/persistence"
)

// IssueLoanRequest carries the inputs for loan issuance. RequesterID must be
// one of the two parties
type IssueLoanRequest struct {
	RequesterID   uuid.UUID
	BorrowerID    uuid.UUID
	LenderID      uuid.UUID
	Amount        decimal.Decimal
	CollateralAmt decimal.Decimal
	AssetCode     string
	EscrowAddress string
}

// IssueLoanResult pairs the persisted loan with its invocation payload
type IssueLoanResult struct {
	Loan              *entity.Loan
	InvocationPayload string
}

// RecordRepaymentRequest carries a repayment against an open loan. PaidAt is
// the settlement time reported by the caller; when nil the clock is used.
type RecordRepaymentRequest struct {
	RequesterID uuid.UUID
	LoanID      uuid.UUID
	Amount      decimal.Decimal
	PaidAt      *time.Time
}

// RecordRepaymentResult reports the balance movement caused by a repayment
type RecordRepaymentResult struct {
	Loan              *entity.Loan
	Repayment         *entity.Repayment
	OutstandingBefore decimal.Decimal
	OutstandingAfter  decimal.Decimal
	FullyRepaid       bool
}

// LoanUseCase manages loan issuance and repayment bookkeeping
type LoanUseCase interface {
	// IssueLoan validates both parties and the collateral ratio, builds the
	// invocation payload and persists the loan in PENDING
	IssueLoan(ctx context.Context, req IssueLoanRequest) (*IssueLoanResult, error)

	// RecordRepayment applies a repayment under a serializable transaction so
	// concurrent repayments cannot overdraw the outstanding balance
	RecordRepayment(ctx context.Context, req RecordRepaymentRequest) (*RecordRepaymentResult, error)

	// GetLoan retrieves a loan with its repayment history
	GetLoan(ctx context.Context, id uuid.UUID) (*entity.Loan, error)

	// ListLoans returns loans matching the filter, newest first
	ListLoans(ctx context.Context, filter persistence.LoanFilter) ([]entity.Loan, error)
}
