package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/stellovault/backend/internal/domain/entity"
	"github.com/stellovault/backend/internal/domain/port/persistence"
	"github.com/stellovault/backend/internal/domain/port/usecase"
)

// MockEscrowUseCase is a testify mock for usecase.EscrowUseCase
type MockEscrowUseCase struct {
	mock.Mock
}

func NewMockEscrowUseCase() *MockEscrowUseCase {
	return &MockEscrowUseCase{}
}

func (m *MockEscrowUseCase) Create(ctx context.Context, req usecase.CreateEscrowRequest) (*usecase.CreateEscrowResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.CreateEscrowResult), args.Error(1)
}

func (m *MockEscrowUseCase) ProcessEvent(ctx context.Context, escrowID uuid.UUID, newStatus entity.EscrowStatus, txHash *string) (*entity.Escrow, error) {
	args := m.Called(ctx, escrowID, newStatus, txHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Escrow), args.Error(1)
}

func (m *MockEscrowUseCase) Get(ctx context.Context, id uuid.UUID) (*entity.Escrow, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Escrow), args.Error(1)
}

func (m *MockEscrowUseCase) List(ctx context.Context, filter persistence.EscrowFilter) ([]entity.Escrow, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Escrow), args.Error(1)
}

func (m *MockEscrowUseCase) TimeoutSweep(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

var _ usecase.EscrowUseCase = (*MockEscrowUseCase)(nil)
