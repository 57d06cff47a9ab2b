package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/stellovault/backend/internal/domain/entity"
	"github.com/stellovault/backend/internal/domain/port/persistence"
	"github.com/stellovault/backend/internal/domain/port/usecase"
)

// MockLoanUseCase is a testify mock for usecase.LoanUseCase
type MockLoanUseCase struct {
	mock.Mock
}

func NewMockLoanUseCase() *MockLoanUseCase {
	return &MockLoanUseCase{}
}

func (m *MockLoanUseCase) IssueLoan(ctx context.Context, req usecase.IssueLoanRequest) (*usecase.IssueLoanResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.IssueLoanResult), args.Error(1)
}

func (m *MockLoanUseCase) RecordRepayment(ctx context.Context, req usecase.RecordRepaymentRequest) (*usecase.RecordRepaymentResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.RecordRepaymentResult), args.Error(1)
}

func (m *MockLoanUseCase) GetLoan(ctx context.Context, id uuid.UUID) (*entity.Loan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Loan), args.Error(1)
}

func (m *MockLoanUseCase) ListLoans(ctx context.Context, filter persistence.LoanFilter) ([]entity.Loan, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Loan), args.Error(1)
}

var _ usecase.LoanUseCase = (*MockLoanUseCase)(nil)
