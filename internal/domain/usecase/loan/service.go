package loan

import (
	"context"

	"github.com/google/uuid"

	"github.com/stellovault/backend/internal/domain/entity"
	errs "github.com/stellovault/backend/internal/domain/error"
	coreport "github.com/stellovault/backend/internal/domain/port/core"
	"github.com/stellovault/backend/internal/domain/port/external"
	"github.com/stellovault/backend/internal/domain/port/persistence"
	"github.com/stellovault/backend/internal/domain/port/usecase"
)

// Service manages loan issuance and repayment bookkeeping. Repayments run
// under serializable isolation so two concurrent repayments can never overdraw
// the outstanding balance.
type Service struct {
	uow          persistence.UnitOfWork
	builder      external.InvocationBuilder
	notifier     external.Notifier
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	contractID   string
}

// NewService creates a new loan Service. contractID identifies the lending
// contract on the external ledger for invocation payloads.
func NewService(
	uow persistence.UnitOfWork,
	builder external.InvocationBuilder,
	notifier external.Notifier,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	contractID string,
) *Service {
	return &Service{
		uow:          uow,
		builder:      builder,
		notifier:     notifier,
		timeProvider: timeProvider,
		logger:       logger,
		contractID:   contractID,
	}
}

// IssueLoan validates both parties and the collateral ratio, builds the
// invocation payload and persists the loan in PENDING. Only a party to the
// loan may issue it.
func (s *Service) IssueLoan(ctx context.Context, req usecase.IssueLoanRequest) (*usecase.IssueLoanResult, error) {
	if req.RequesterID != req.BorrowerID && req.RequesterID != req.LenderID {
		return nil, errs.ErrForbidden
	}

	now := s.timeProvider.Now()
	ln, err := entity.NewLoan(req.BorrowerID, req.LenderID, req.Amount, req.CollateralAmt, req.AssetCode, req.EscrowAddress, now)
	if err != nil {
		return nil, err
	}

	userRepo := s.uow.GetUserRepository(ctx)
	for _, id := range []uuid.UUID{req.BorrowerID, req.LenderID} {
		exists, err := userRepo.Exists(ctx, id)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, errs.ErrUserNotFound
		}
	}

	payload, err := s.builder.BuildInvocation(ctx, s.contractID, "issue_loan", []any{
		req.BorrowerID.String(),
		req.LenderID.String(),
		req.Amount.String(),
		req.CollateralAmt.String(),
		req.AssetCode,
		req.EscrowAddress,
	})
	if err != nil {
		s.logger.Error("Failed to build loan invocation", map[string]any{
			"borrowerId": req.BorrowerID.String(),
			"lenderId":   req.LenderID.String(),
			"error":      err.Error(),
		})
		return nil, err
	}
	ln.InvocationPayload = payload

	if err := s.uow.GetLoanRepository(ctx).Create(ctx, ln); err != nil {
		s.logger.Error("Failed to persist loan", map[string]any{
			"loanId": ln.ID.String(),
			"error":  err.Error(),
		})
		return nil, err
	}

	s.logger.Info("Loan issued", map[string]any{
		"loanId":     ln.ID.String(),
		"borrowerId": ln.BorrowerID.String(),
		"lenderId":   ln.LenderID.String(),
		"amount":     ln.Amount.String(),
		"collateral": ln.CollateralAmt.String(),
	})

	return &usecase.IssueLoanResult{
		Loan:              ln,
		InvocationPayload: payload,
	}, nil
}

// RecordRepayment applies a repayment inside a serializable transaction:
// load the loan with its repayments, check the balance, append the repayment
// and derive the new status. A serialization failure from a concurrent
// repayment aborts the transaction and surfaces as a retry-able conflict.
func (s *Service) RecordRepayment(ctx context.Context, req usecase.RecordRepaymentRequest) (*usecase.RecordRepaymentResult, error) {
	amount, err := entity.ValidateAmount(req.Amount)
	if err != nil {
		return nil, err
	}

	txCtx, err := s.uow.BeginSerializable(ctx)
	if err != nil {
		return nil, err
	}

	loanRepo := s.uow.GetLoanRepository(txCtx)

	ln, err := loanRepo.GetByID(txCtx, req.LoanID)
	if err != nil {
		_ = s.uow.Rollback(txCtx)
		return nil, err
	}
	if !ln.IsParty(req.RequesterID) {
		_ = s.uow.Rollback(txCtx)
		return nil, errs.ErrForbidden
	}

	outstandingBefore := ln.Outstanding()
	switch {
	case ln.Status == entity.LoanDefaulted:
		_ = s.uow.Rollback(txCtx)
		return nil, errs.NewRepaymentError(ln.ID.String(), amount.String(), outstandingBefore.String(), errs.ErrLoanDefaulted)
	case ln.Status == entity.LoanRepaid:
		_ = s.uow.Rollback(txCtx)
		return nil, errs.NewRepaymentError(ln.ID.String(), amount.String(), outstandingBefore.String(), errs.ErrLoanFullyRepaid)
	case amount.GreaterThan(outstandingBefore):
		_ = s.uow.Rollback(txCtx)
		return nil, errs.NewRepaymentError(ln.ID.String(), amount.String(), outstandingBefore.String(), errs.ErrRepaymentTooLarge)
	}

	now := s.timeProvider.Now()
	paidAt := now
	if req.PaidAt != nil {
		paidAt = *req.PaidAt
	}
	repayment := &entity.Repayment{
		ID:        uuid.New(),
		LoanID:    ln.ID,
		Amount:    amount,
		PaidAt:    paidAt,
		CreatedAt: now,
	}
	if err := loanRepo.AddRepayment(txCtx, repayment); err != nil {
		_ = s.uow.Rollback(txCtx)
		return nil, err
	}

	outstandingAfter := outstandingBefore.Sub(amount)
	newStatus := ln.StatusAfterRepayment(outstandingAfter)
	statusChanged := newStatus != ln.Status
	if statusChanged {
		if err := loanRepo.UpdateStatus(txCtx, ln.ID, newStatus, now); err != nil {
			_ = s.uow.Rollback(txCtx)
			return nil, err
		}
	}

	if err := s.uow.Commit(txCtx); err != nil {
		return nil, err
	}

	ln.Repayments = append(ln.Repayments, *repayment)
	ln.Status = newStatus
	ln.UpdatedAt = now

	if statusChanged {
		s.notifier.Publish(entity.LoanUpdated{
			LoanID: ln.ID,
			Status: newStatus,
		})
	}

	s.logger.Info("Repayment recorded", map[string]any{
		"loanId":      ln.ID.String(),
		"amount":      amount.String(),
		"outstanding": outstandingAfter.String(),
		"status":      string(newStatus),
	})

	return &usecase.RecordRepaymentResult{
		Loan:              ln,
		Repayment:         repayment,
		OutstandingBefore: outstandingBefore,
		OutstandingAfter:  outstandingAfter,
		FullyRepaid:       newStatus == entity.LoanRepaid,
	}, nil
}

// GetLoan retrieves a loan with its repayment history
func (s *Service) GetLoan(ctx context.Context, id uuid.UUID) (*entity.Loan, error) {
	return s.uow.GetLoanRepository(ctx).GetByID(ctx, id)
}

// ListLoans returns loans matching the filter, newest first
func (s *Service) ListLoans(ctx context.Context, filter persistence.LoanFilter) ([]entity.Loan, error) {
	return s.uow.GetLoanRepository(ctx).List(ctx, filter)
}
