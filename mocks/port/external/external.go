package external

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/stellovault/backend/internal/domain/entity"
	"github.com/stellovault/backend/internal/domain/port/external"
)

// MockSignatureVerifier is a testify mock for external.SignatureVerifier
type MockSignatureVerifier struct {
	mock.Mock
}

func NewMockSignatureVerifier() *MockSignatureVerifier {
	return &MockSignatureVerifier{}
}

func (m *MockSignatureVerifier) ValidateAddress(address string) error {
	args := m.Called(address)
	return args.Error(0)
}

func (m *MockSignatureVerifier) Verify(address, message, signature string) error {
	args := m.Called(address, message, signature)
	return args.Error(0)
}

// MockTokenIssuer is a testify mock for external.TokenIssuer
type MockTokenIssuer struct {
	mock.Mock
}

func NewMockTokenIssuer() *MockTokenIssuer {
	return &MockTokenIssuer{}
}

func (m *MockTokenIssuer) Issue(userID uuid.UUID) (string, time.Time, error) {
	args := m.Called(userID)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

// MockInvocationBuilder is a testify mock for external.InvocationBuilder
type MockInvocationBuilder struct {
	mock.Mock
}

func NewMockInvocationBuilder() *MockInvocationBuilder {
	return &MockInvocationBuilder{}
}

func (m *MockInvocationBuilder) BuildInvocation(ctx context.Context, contractID, method string, args []any) (string, error) {
	called := m.Called(ctx, contractID, method, args)
	return called.String(0), called.Error(1)
}

// MockNotifier captures published events for assertions. Publish never blocks.
type MockNotifier struct {
	mu     sync.Mutex
	events []entity.Event
}

func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) Publish(event entity.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

// Events returns a copy of everything published so far
func (m *MockNotifier) Events() []entity.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]entity.Event, len(m.events))
	copy(out, m.events)
	return out
}

var (
	_ external.SignatureVerifier = (*MockSignatureVerifier)(nil)
	_ external.TokenIssuer       = (*MockTokenIssuer)(nil)
	_ external.InvocationBuilder = (*MockInvocationBuilder)(nil)
	_ external.Notifier          = (*MockNotifier)(nil)
)
