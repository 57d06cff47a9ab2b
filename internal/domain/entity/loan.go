package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	errs "github.com/stellovault/backend/internal/domain/error"
)

// LoanStatus is the lifecycle state of a loan. Transitions are derived from
// repayments, not event-driven: PENDING is the creation state, the first
// repayment moves it to ACTIVE, and outstanding balance hitting zero moves it
// to REPAID. DEFAULTED is an administrative transition applied from outside
// this core; repayments are rejected once DEFAULTED.
type LoanStatus string

const (
	LoanPending   LoanStatus = "PENDING"
	LoanActive    LoanStatus = "ACTIVE"
	LoanRepaid    LoanStatus = "REPAID"
	LoanDefaulted LoanStatus = "DEFAULTED"
)

// ParseLoanStatus validates a status string
func ParseLoanStatus(s string) (LoanStatus, error) {
	switch LoanStatus(s) {
	case LoanPending, LoanActive, LoanRepaid, LoanDefaulted:
		return LoanStatus(s), nil
	default:
		return "", fmt.Errorf("%w: unknown loan status %q", errs.ErrValidation, s)
	}
}

// Loan tracks principal, collateral and derived status. Repayments are
// append-only; outstanding balance is principal minus the repayment sum and
// must never go negative.
type Loan struct {
	ID            uuid.UUID
	BorrowerID    uuid.UUID
	LenderID      uuid.UUID
	Amount        decimal.Decimal
	CollateralAmt decimal.Decimal
	AssetCode     string
	Status        LoanStatus
	EscrowAddress string
	InvocationPayload string
	Repayments    []Repayment
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Repayment is a single append-only repayment record against a loan
type Repayment struct {
	ID        uuid.UUID
	LoanID    uuid.UUID
	Amount    decimal.Decimal
	PaidAt    time.Time
	CreatedAt time.Time
}

// NewLoan validates inputs, applies the collateral-ratio rule and creates a
// loan in PENDING
func NewLoan(borrowerID, lenderID uuid.UUID, amount, collateralAmt decimal.Decimal, assetCode, escrowAddress string, now time.Time) (*Loan, error) {
	if borrowerID == lenderID {
		return nil, fmt.Errorf("%w: borrower and lender must be different", errs.ErrValidation)
	}
	amount, err := ValidateAmount(amount)
	if err != nil {
		return nil, err
	}
	collateralAmt, err = ValidateAmount(collateralAmt)
	if err != nil {
		return nil, err
	}
	if assetCode == "" {
		return nil, fmt.Errorf("%w: asset code is required", errs.ErrValidation)
	}
	if !MeetsCollateralRatio(amount, collateralAmt) {
		return nil, errs.ErrInsufficientCollateral
	}

	return &Loan{
		ID:            uuid.New(),
		BorrowerID:    borrowerID,
		LenderID:      lenderID,
		Amount:        amount,
		CollateralAmt: collateralAmt,
		AssetCode:     assetCode,
		Status:        LoanPending,
		EscrowAddress: escrowAddress,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// Outstanding returns principal minus the sum of recorded repayments
func (l *Loan) Outstanding() decimal.Decimal {
	out := l.Amount
	for _, r := range l.Repayments {
		out = out.Sub(r.Amount)
	}
	return out
}

// IsParty reports whether the given user is the borrower or the lender
func (l *Loan) IsParty(userID uuid.UUID) bool {
	return userID == l.BorrowerID || userID == l.LenderID
}

// StatusAfterRepayment derives the status the loan moves to once a repayment
// brings outstanding to the given balance
func (l *Loan) StatusAfterRepayment(outstandingAfter decimal.Decimal) LoanStatus {
	if outstandingAfter.IsZero() {
		return LoanRepaid
	}
	if l.Status == LoanPending {
		return LoanActive
	}
	return l.Status
}
