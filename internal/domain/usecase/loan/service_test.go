package loan

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/stellovault/backend/internal/domain/entity"
	errs "github.com/stellovault/backend/internal/domain/error"
	"github.com/stellovault/backend/internal/domain/port/usecase"
	coremocks "github.com/stellovault/backend/mocks/port/core"
	externalmocks "github.com/stellovault/backend/mocks/port/external"
	persistencemocks "github.com/stellovault/backend/mocks/port/persistence"
)

const testContractID = "CBLEND6HJLQ3XPOWZ2CVNBFA5EVW3LYHRJGWDMQWGPOHP36VHIQ5QJ5A"

func newTestService() (*Service, *persistencemocks.MockUnitOfWork, *externalmocks.MockInvocationBuilder, *externalmocks.MockNotifier) {
	uow := persistencemocks.NewMockUnitOfWork()
	builder := externalmocks.NewMockInvocationBuilder()
	notifier := externalmocks.NewMockNotifier()
	clock := coremocks.NewMockTimeProvider(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	logger := coremocks.NewMockLogger()
	svc := NewService(uow, builder, notifier, clock, logger, testContractID)
	return svc, uow, builder, notifier
}

func TestIssueLoan(t *testing.T) {
	ctx := context.Background()
	borrowerID, lenderID := uuid.New(), uuid.New()

	validRequest := func() usecase.IssueLoanRequest {
		return usecase.IssueLoanRequest{
			RequesterID:   borrowerID,
			BorrowerID:    borrowerID,
			LenderID:      lenderID,
			Amount:        decimal.RequireFromString("300"),
			CollateralAmt: decimal.RequireFromString("450"),
			AssetCode:     "USDC",
			EscrowAddress: "GAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAWHF5",
		}
	}

	t.Run("issues a pending loan at exactly the minimum ratio", func(t *testing.T) {
		svc, uow, builder, _ := newTestService()
		req := validRequest()

		uow.UserRepo.On("Exists", mock.Anything, borrowerID).Return(true, nil)
		uow.UserRepo.On("Exists", mock.Anything, lenderID).Return(true, nil)
		builder.On("BuildInvocation", mock.Anything, testContractID, "issue_loan", mock.Anything).
			Return("bG9hbg==", nil)
		uow.LoanRepo.On("Create", mock.Anything, mock.MatchedBy(func(l *entity.Loan) bool {
			return l.Status == entity.LoanPending && l.InvocationPayload == "bG9hbg=="
		})).Return(nil)

		result, err := svc.IssueLoan(ctx, req)

		require.NoError(t, err)
		assert.Equal(t, entity.LoanPending, result.Loan.Status)
		assert.True(t, result.Loan.Outstanding().Equal(decimal.RequireFromString("300")))
	})

	t.Run("collateral just below the ratio is rejected", func(t *testing.T) {
		svc, uow, _, _ := newTestService()
		req := validRequest()
		req.CollateralAmt = decimal.RequireFromString("449.9999999")

		result, err := svc.IssueLoan(ctx, req)

		assert.Nil(t, result)
		assert.ErrorIs(t, err, errs.ErrInsufficientCollateral)
		uow.LoanRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("only a party to the loan may issue it", func(t *testing.T) {
		svc, _, _, _ := newTestService()
		req := validRequest()
		req.RequesterID = uuid.New()

		result, err := svc.IssueLoan(ctx, req)

		assert.Nil(t, result)
		assert.ErrorIs(t, err, errs.ErrForbidden)
	})

	t.Run("borrower and lender must differ", func(t *testing.T) {
		svc, _, _, _ := newTestService()
		req := validRequest()
		req.LenderID = borrowerID

		result, err := svc.IssueLoan(ctx, req)

		assert.Nil(t, result)
		assert.True(t, errs.IsValidationError(err))
	})

	t.Run("a builder failure writes nothing", func(t *testing.T) {
		svc, uow, builder, _ := newTestService()
		req := validRequest()
		uow.UserRepo.On("Exists", mock.Anything, mock.Anything).Return(true, nil)
		builder.On("BuildInvocation", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return("", errs.ErrDependency)

		result, err := svc.IssueLoan(ctx, req)

		assert.Nil(t, result)
		assert.ErrorIs(t, err, errs.ErrDependency)
		uow.LoanRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestRecordRepayment(t *testing.T) {
	ctx := context.Background()
	borrowerID, lenderID := uuid.New(), uuid.New()

	openLoan := func(status entity.LoanStatus, repaid ...string) *entity.Loan {
		ln := &entity.Loan{
			ID:            uuid.New(),
			BorrowerID:    borrowerID,
			LenderID:      lenderID,
			Amount:        decimal.RequireFromString("300"),
			CollateralAmt: decimal.RequireFromString("450"),
			AssetCode:     "USDC",
			Status:        status,
		}
		for _, amt := range repaid {
			ln.Repayments = append(ln.Repayments, entity.Repayment{
				ID:     uuid.New(),
				LoanID: ln.ID,
				Amount: decimal.RequireFromString(amt),
			})
		}
		return ln
	}

	t.Run("first repayment activates the loan", func(t *testing.T) {
		svc, uow, _, notifier := newTestService()
		ln := openLoan(entity.LoanPending)

		uow.LoanRepo.On("GetByID", mock.Anything, ln.ID).Return(ln, nil)
		uow.LoanRepo.On("AddRepayment", mock.Anything, mock.MatchedBy(func(r *entity.Repayment) bool {
			return r.LoanID == ln.ID && r.Amount.Equal(decimal.RequireFromString("50"))
		})).Return(nil)
		uow.LoanRepo.On("UpdateStatus", mock.Anything, ln.ID, entity.LoanActive, mock.Anything).Return(nil)

		result, err := svc.RecordRepayment(ctx, usecase.RecordRepaymentRequest{
			RequesterID: borrowerID,
			LoanID:      ln.ID,
			Amount:      decimal.RequireFromString("50"),
		})

		require.NoError(t, err)
		assert.True(t, result.OutstandingBefore.Equal(decimal.RequireFromString("300")))
		assert.True(t, result.OutstandingAfter.Equal(decimal.RequireFromString("250")))
		assert.False(t, result.FullyRepaid)
		assert.Equal(t, entity.LoanActive, result.Loan.Status)
		assert.Equal(t, 1, uow.SerializableBegins())
		assert.Equal(t, 1, uow.Commits())

		events := notifier.Events()
		require.Len(t, events, 1)
		updated, ok := events[0].(entity.LoanUpdated)
		require.True(t, ok)
		assert.Equal(t, entity.LoanActive, updated.Status)
	})

	t.Run("a supplied settlement time stamps the repayment", func(t *testing.T) {
		svc, uow, _, _ := newTestService()
		ln := openLoan(entity.LoanActive, "50")
		paidAt := time.Date(2025, 5, 28, 9, 30, 0, 0, time.UTC)

		uow.LoanRepo.On("GetByID", mock.Anything, ln.ID).Return(ln, nil)
		uow.LoanRepo.On("AddRepayment", mock.Anything, mock.MatchedBy(func(r *entity.Repayment) bool {
			return r.PaidAt.Equal(paidAt)
		})).Return(nil)

		result, err := svc.RecordRepayment(ctx, usecase.RecordRepaymentRequest{
			RequesterID: borrowerID,
			LoanID:      ln.ID,
			Amount:      decimal.RequireFromString("25"),
			PaidAt:      &paidAt,
		})

		require.NoError(t, err)
		assert.True(t, result.Repayment.PaidAt.Equal(paidAt))
	})

	t.Run("the clock stamps a repayment without a settlement time", func(t *testing.T) {
		svc, uow, _, _ := newTestService()
		ln := openLoan(entity.LoanActive, "50")
		now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

		uow.LoanRepo.On("GetByID", mock.Anything, ln.ID).Return(ln, nil)
		uow.LoanRepo.On("AddRepayment", mock.Anything, mock.MatchedBy(func(r *entity.Repayment) bool {
			return r.PaidAt.Equal(now)
		})).Return(nil)

		result, err := svc.RecordRepayment(ctx, usecase.RecordRepaymentRequest{
			RequesterID: borrowerID,
			LoanID:      ln.ID,
			Amount:      decimal.RequireFromString("25"),
		})

		require.NoError(t, err)
		assert.True(t, result.Repayment.PaidAt.Equal(now))
	})

	t.Run("repaying the full remainder closes the loan", func(t *testing.T) {
		svc, uow, _, notifier := newTestService()
		ln := openLoan(entity.LoanActive, "50", "100")

		uow.LoanRepo.On("GetByID", mock.Anything, ln.ID).Return(ln, nil)
		uow.LoanRepo.On("AddRepayment", mock.Anything, mock.Anything).Return(nil)
		uow.LoanRepo.On("UpdateStatus", mock.Anything, ln.ID, entity.LoanRepaid, mock.Anything).Return(nil)

		result, err := svc.RecordRepayment(ctx, usecase.RecordRepaymentRequest{
			RequesterID: lenderID,
			LoanID:      ln.ID,
			Amount:      decimal.RequireFromString("150"),
		})

		require.NoError(t, err)
		assert.True(t, result.OutstandingAfter.IsZero())
		assert.True(t, result.FullyRepaid)
		assert.Equal(t, entity.LoanRepaid, result.Loan.Status)
		require.Len(t, notifier.Events(), 1)
	})

	t.Run("an intermediate repayment keeps the status and publishes nothing", func(t *testing.T) {
		svc, uow, _, notifier := newTestService()
		ln := openLoan(entity.LoanActive, "50")

		uow.LoanRepo.On("GetByID", mock.Anything, ln.ID).Return(ln, nil)
		uow.LoanRepo.On("AddRepayment", mock.Anything, mock.Anything).Return(nil)

		result, err := svc.RecordRepayment(ctx, usecase.RecordRepaymentRequest{
			RequesterID: borrowerID,
			LoanID:      ln.ID,
			Amount:      decimal.RequireFromString("100"),
		})

		require.NoError(t, err)
		assert.True(t, result.OutstandingAfter.Equal(decimal.RequireFromString("150")))
		assert.Equal(t, entity.LoanActive, result.Loan.Status)
		uow.LoanRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		assert.Empty(t, notifier.Events())
	})

	t.Run("overpaying the outstanding balance is rejected", func(t *testing.T) {
		svc, uow, _, _ := newTestService()
		ln := openLoan(entity.LoanActive, "250")

		uow.LoanRepo.On("GetByID", mock.Anything, ln.ID).Return(ln, nil)

		result, err := svc.RecordRepayment(ctx, usecase.RecordRepaymentRequest{
			RequesterID: borrowerID,
			LoanID:      ln.ID,
			Amount:      decimal.RequireFromString("50.01"),
		})

		assert.Nil(t, result)
		assert.ErrorIs(t, err, errs.ErrRepaymentTooLarge)
		assert.Equal(t, 1, uow.Rollbacks())
		uow.LoanRepo.AssertNotCalled(t, "AddRepayment", mock.Anything, mock.Anything)
	})

	t.Run("a defaulted loan accepts no repayments", func(t *testing.T) {
		svc, uow, _, _ := newTestService()
		ln := openLoan(entity.LoanDefaulted)
		uow.LoanRepo.On("GetByID", mock.Anything, ln.ID).Return(ln, nil)

		result, err := svc.RecordRepayment(ctx, usecase.RecordRepaymentRequest{
			RequesterID: borrowerID,
			LoanID:      ln.ID,
			Amount:      decimal.RequireFromString("10"),
		})

		assert.Nil(t, result)
		assert.ErrorIs(t, err, errs.ErrLoanDefaulted)
	})

	t.Run("a repaid loan accepts no repayments", func(t *testing.T) {
		svc, uow, _, _ := newTestService()
		ln := openLoan(entity.LoanRepaid, "300")
		uow.LoanRepo.On("GetByID", mock.Anything, ln.ID).Return(ln, nil)

		result, err := svc.RecordRepayment(ctx, usecase.RecordRepaymentRequest{
			RequesterID: borrowerID,
			LoanID:      ln.ID,
			Amount:      decimal.RequireFromString("10"),
		})

		assert.Nil(t, result)
		assert.ErrorIs(t, err, errs.ErrLoanFullyRepaid)
	})

	t.Run("only a party to the loan may repay", func(t *testing.T) {
		svc, uow, _, _ := newTestService()
		ln := openLoan(entity.LoanActive, "50")
		uow.LoanRepo.On("GetByID", mock.Anything, ln.ID).Return(ln, nil)

		result, err := svc.RecordRepayment(ctx, usecase.RecordRepaymentRequest{
			RequesterID: uuid.New(),
			LoanID:      ln.ID,
			Amount:      decimal.RequireFromString("10"),
		})

		assert.Nil(t, result)
		assert.ErrorIs(t, err, errs.ErrForbidden)
	})

	t.Run("a non-positive amount never opens a transaction", func(t *testing.T) {
		svc, uow, _, _ := newTestService()

		result, err := svc.RecordRepayment(ctx, usecase.RecordRepaymentRequest{
			RequesterID: borrowerID,
			LoanID:      uuid.New(),
			Amount:      decimal.Zero,
		})

		assert.Nil(t, result)
		assert.ErrorIs(t, err, errs.ErrInvalidAmount)
		assert.Equal(t, 0, uow.SerializableBegins())
	})
}
