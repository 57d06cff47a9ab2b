package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/stellovault/backend/internal/domain/entity"
	"github.com/stellovault/backend/internal/domain/port/persistence"
)

// MockEscrowRepository is a testify mock for persistence.EscrowRepository
type MockEscrowRepository struct {
	mock.Mock
}

func NewMockEscrowRepository() *MockEscrowRepository {
	return &MockEscrowRepository{}
}

func (m *MockEscrowRepository) Create(ctx context.Context, escrow *entity.Escrow) error {
	args := m.Called(ctx, escrow)
	return args.Error(0)
}

func (m *MockEscrowRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Escrow, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Escrow), args.Error(1)
}

func (m *MockEscrowRepository) List(ctx context.Context, filter persistence.EscrowFilter) ([]entity.Escrow, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Escrow), args.Error(1)
}

func (m *MockEscrowRepository) UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to entity.EscrowStatus, txHash *string, now time.Time) (int64, error) {
	args := m.Called(ctx, id, from, to, txHash, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEscrowRepository) ListExpiredActive(ctx context.Context, now time.Time) ([]entity.Escrow, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Escrow), args.Error(1)
}

var _ persistence.EscrowRepository = (*MockEscrowRepository)(nil)
