package core

import (
	"context"
	"sync"
	"time"

	coreport "github.com/stellovault/backend/internal/domain/port/core"
)

// MockTimeProvider is a pinned clock for tests. The current time only moves
// when Advance or Set is called.
type MockTimeProvider struct {
	mu  sync.Mutex
	now time.Time
}

// NewMockTimeProvider creates a clock pinned to the given instant
func NewMockTimeProvider(now time.Time) *MockTimeProvider {
	return &MockTimeProvider{now: now}
}

func (p *MockTimeProvider) Now() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.now
}

func (p *MockTimeProvider) Since(t time.Time) time.Duration { return p.Now().Sub(t) }
func (p *MockTimeProvider) Until(t time.Time) time.Duration { return t.Sub(p.Now()) }

func (p *MockTimeProvider) WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout)
}

// Advance moves the clock forward
func (p *MockTimeProvider) Advance(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.now = p.now.Add(d)
}

// Set pins the clock to a new instant
func (p *MockTimeProvider) Set(t time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.now = t
}

var _ coreport.TimeProvider = (*MockTimeProvider)(nil)
