package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/stellovault/backend/internal/domain/entity"
	"github.com/stellovault/backend/internal/domain/port/persistence"
)

// MockLoanRepository is a testify mock for persistence.LoanRepository
type MockLoanRepository struct {
	mock.Mock
}

func NewMockLoanRepository() *MockLoanRepository {
	return &MockLoanRepository{}
}

func (m *MockLoanRepository) Create(ctx context.Context, loan *entity.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

func (m *MockLoanRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Loan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Loan), args.Error(1)
}

func (m *MockLoanRepository) List(ctx context.Context, filter persistence.LoanFilter) ([]entity.Loan, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Loan), args.Error(1)
}

func (m *MockLoanRepository) AddRepayment(ctx context.Context, repayment *entity.Repayment) error {
	args := m.Called(ctx, repayment)
	return args.Error(0)
}

func (m *MockLoanRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.LoanStatus, now time.Time) error {
	args := m.Called(ctx, id, status, now)
	return args.Error(0)
}

var _ persistence.LoanRepository = (*MockLoanRepository)(nil)
