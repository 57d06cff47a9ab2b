package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/stellovault/backend/internal/domain/error"
)

func TestNewLoan(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	borrower, lender := uuid.New(), uuid.New()

	t.Run("starts pending with valid collateral", func(t *testing.T) {
		ln, err := NewLoan(borrower, lender, decimal.RequireFromString("300"), decimal.RequireFromString("450"), "USDC", "GESCROW", now)
		require.NoError(t, err)
		assert.Equal(t, LoanPending, ln.Status)
		assert.True(t, ln.Outstanding().Equal(decimal.RequireFromString("300")))
	})

	t.Run("rejects insufficient collateral", func(t *testing.T) {
		_, err := NewLoan(borrower, lender, decimal.RequireFromString("300"), decimal.RequireFromString("449"), "USDC", "GESCROW", now)
		assert.ErrorIs(t, err, errs.ErrInsufficientCollateral)
	})

	t.Run("rejects borrower equal to lender", func(t *testing.T) {
		_, err := NewLoan(borrower, borrower, decimal.RequireFromString("100"), decimal.RequireFromString("150"), "USDC", "GESCROW", now)
		assert.True(t, errs.IsValidationError(err))
	})
}

func TestLoanOutstanding(t *testing.T) {
	ln := &Loan{Amount: decimal.RequireFromString("300")}
	assert.True(t, ln.Outstanding().Equal(decimal.RequireFromString("300")))

	ln.Repayments = append(ln.Repayments, Repayment{Amount: decimal.RequireFromString("50")})
	assert.True(t, ln.Outstanding().Equal(decimal.RequireFromString("250")))

	ln.Repayments = append(ln.Repayments, Repayment{Amount: decimal.RequireFromString("250")})
	assert.True(t, ln.Outstanding().IsZero())
}

func TestStatusAfterRepayment(t *testing.T) {
	t.Run("zero balance repays the loan", func(t *testing.T) {
		ln := &Loan{Status: LoanActive}
		assert.Equal(t, LoanRepaid, ln.StatusAfterRepayment(decimal.Zero))
	})

	t.Run("first partial repayment activates a pending loan", func(t *testing.T) {
		ln := &Loan{Status: LoanPending}
		assert.Equal(t, LoanActive, ln.StatusAfterRepayment(decimal.RequireFromString("250")))
	})

	t.Run("partial repayment on an active loan keeps it active", func(t *testing.T) {
		ln := &Loan{Status: LoanActive}
		assert.Equal(t, LoanActive, ln.StatusAfterRepayment(decimal.RequireFromString("100")))
	})
}

func TestIsParty(t *testing.T) {
	borrower, lender := uuid.New(), uuid.New()
	ln := &Loan{BorrowerID: borrower, LenderID: lender}

	assert.True(t, ln.IsParty(borrower))
	assert.True(t, ln.IsParty(lender))
	assert.False(t, ln.IsParty(uuid.New()))
}

func TestParseLoanStatus(t *testing.T) {
	status, err := ParseLoanStatus("DEFAULTED")
	require.NoError(t, err)
	assert.Equal(t, LoanDefaulted, status)

	_, err = ParseLoanStatus("OVERDUE")
	assert.True(t, errs.IsValidationError(err))
}
