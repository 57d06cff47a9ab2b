package persistence

import (
	"context"
	"sync"

	"github.com/stellovault/backend/internal/domain/port/persistence"
)

// MockUnitOfWork is a test double wiring the repository mocks together.
// Begin/Commit/Rollback only count calls; the repository getters hand back
// the same mocks regardless of transactional context, so tests assert the
// repository interactions directly.
type MockUnitOfWork struct {
	UserRepo      *MockUserRepository
	WalletRepo    *MockWalletRepository
	ChallengeRepo *MockChallengeRepository
	EscrowRepo    *MockEscrowRepository
	LoanRepo      *MockLoanRepository

	BeginErr  error
	CommitErr error

	mu                 sync.Mutex
	begins             int
	serializableBegins int
	commits            int
	rollbacks          int
}

// NewMockUnitOfWork creates a unit of work with fresh repository mocks
func NewMockUnitOfWork() *MockUnitOfWork {
	return &MockUnitOfWork{
		UserRepo:      NewMockUserRepository(),
		WalletRepo:    NewMockWalletRepository(),
		ChallengeRepo: NewMockChallengeRepository(),
		EscrowRepo:    NewMockEscrowRepository(),
		LoanRepo:      NewMockLoanRepository(),
	}
}

func (m *MockUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.BeginErr != nil {
		return nil, m.BeginErr
	}
	m.begins++
	return ctx, nil
}

func (m *MockUnitOfWork) BeginSerializable(ctx context.Context) (context.Context, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.BeginErr != nil {
		return nil, m.BeginErr
	}
	m.serializableBegins++
	return ctx, nil
}

func (m *MockUnitOfWork) Commit(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CommitErr != nil {
		return m.CommitErr
	}
	m.commits++
	return nil
}

func (m *MockUnitOfWork) Rollback(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rollbacks++
	return nil
}

func (m *MockUnitOfWork) GetUserRepository(ctx context.Context) persistence.UserRepository {
	return m.UserRepo
}

func (m *MockUnitOfWork) GetWalletRepository(ctx context.Context) persistence.WalletRepository {
	return m.WalletRepo
}

func (m *MockUnitOfWork) GetChallengeRepository(ctx context.Context) persistence.ChallengeRepository {
	return m.ChallengeRepo
}

func (m *MockUnitOfWork) GetEscrowRepository(ctx context.Context) persistence.EscrowRepository {
	return m.EscrowRepo
}

func (m *MockUnitOfWork) GetLoanRepository(ctx context.Context) persistence.LoanRepository {
	return m.LoanRepo
}

// Begins returns how many plain transactions were started
func (m *MockUnitOfWork) Begins() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.begins
}

// SerializableBegins returns how many serializable transactions were started
func (m *MockUnitOfWork) SerializableBegins() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.serializableBegins
}

// Commits returns how many transactions were committed
func (m *MockUnitOfWork) Commits() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.commits
}

// Rollbacks returns how many transactions were rolled back
func (m *MockUnitOfWork) Rollbacks() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rollbacks
}

var _ persistence.UnitOfWork = (*MockUnitOfWork)(nil)
