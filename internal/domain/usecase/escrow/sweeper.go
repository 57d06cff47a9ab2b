package escrow

import (
	"context"
	"sync"
	"time"

	coreport "github.com/stellovault/backend/internal/domain/port/core"
	"github.com/stellovault/backend/internal/domain/port/persistence"
)

// DefaultSweepInterval is how often the background sweep runs
const DefaultSweepInterval = 60 * time.Second

// Sweeper periodically expires overdue escrows and garbage-collects expired
// authentication challenges. It runs as a single background goroutine owned
// by the process lifecycle.
type Sweeper struct {
	service      *Service
	uow          persistence.UnitOfWork
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	interval     time.Duration

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewSweeper creates a Sweeper. A non-positive interval falls back to the
// default.
func NewSweeper(
	service *Service,
	uow persistence.UnitOfWork,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	interval time.Duration,
) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &Sweeper{
		service:      service,
		uow:          uow,
		timeProvider: timeProvider,
		logger:       logger,
		interval:     interval,
		stop:         make(chan struct{}),
		done:         make(chan struct{}),
	}
}

// Start launches the background loop. It returns immediately.
func (s *Sweeper) Start() {
	go s.run()
	s.logger.Info("Escrow sweeper started", map[string]any{
		"interval": s.interval.String(),
	})
}

// Stop halts the loop and waits for an in-flight sweep to finish. Safe to
// call more than once.
func (s *Sweeper) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
	<-s.done
	s.logger.Info("Escrow sweeper stopped", nil)
}

func (s *Sweeper) run() {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stop:
			return
		}
	}
}

// sweep runs one maintenance pass. Errors are logged, never fatal; the next
// tick retries.
func (s *Sweeper) sweep() {
	ctx, cancel := s.timeProvider.WithTimeout(context.Background(), s.interval)
	defer cancel()

	if _, err := s.service.TimeoutSweep(ctx); err != nil {
		s.logger.Error("Escrow timeout sweep failed", map[string]any{
			"error": err.Error(),
		})
	}

	removed, err := s.uow.GetChallengeRepository(ctx).DeleteExpired(ctx, s.timeProvider.Now())
	if err != nil {
		s.logger.Error("Expired challenge cleanup failed", map[string]any{
			"error": err.Error(),
		})
		return
	}
	if removed > 0 {
		s.logger.Debug("Expired challenges removed", map[string]any{
			"count": removed,
		})
	}
}
