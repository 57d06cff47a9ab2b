package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/stellovault/backend/internal/domain/entity"
	"github.com/stellovault/backend/internal/domain/port/usecase"
)

// MockAuthUseCase is a testify mock for usecase.AuthUseCase
type MockAuthUseCase struct {
	mock.Mock
}

func NewMockAuthUseCase() *MockAuthUseCase {
	return &MockAuthUseCase{}
}

func (m *MockAuthUseCase) Issue(ctx context.Context, address string, purpose entity.ChallengePurpose, userID *uuid.UUID) (*usecase.ChallengeResult, error) {
	args := m.Called(ctx, address, purpose, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.ChallengeResult), args.Error(1)
}

func (m *MockAuthUseCase) VerifyAndConsume(ctx context.Context, req usecase.VerifyChallengeRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockAuthUseCase) Login(ctx context.Context, address, nonce, signature string) (*usecase.LoginResult, error) {
	args := m.Called(ctx, address, nonce, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.LoginResult), args.Error(1)
}

var _ usecase.AuthUseCase = (*MockAuthUseCase)(nil)
