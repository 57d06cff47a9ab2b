package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/stellovault/backend/internal/domain/entity"
	"github.com/stellovault/backend/internal/domain/port/persistence"
)

// MockChallengeRepository is a testify mock for persistence.ChallengeRepository
type MockChallengeRepository struct {
	mock.Mock
}

func NewMockChallengeRepository() *MockChallengeRepository {
	return &MockChallengeRepository{}
}

func (m *MockChallengeRepository) Create(ctx context.Context, challenge *entity.Challenge) error {
	args := m.Called(ctx, challenge)
	return args.Error(0)
}

func (m *MockChallengeRepository) Consume(ctx context.Context, address, nonce string, purpose entity.ChallengePurpose, userID *uuid.UUID, now time.Time) (int64, error) {
	args := m.Called(ctx, address, nonce, purpose, userID, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockChallengeRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

var _ persistence.ChallengeRepository = (*MockChallengeRepository)(nil)
