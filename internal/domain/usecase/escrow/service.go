package escrow

import (
	"context"

	"github.com/google/uuid"

	"github.com/stellovault/backend/internal/domain/entity"
	errs "github.com/stellovault/backend/internal/domain/error"
	coreport "github.com/stellovault/backend/internal/domain/port/core"
	"github.com/stellovault/backend/internal/domain/port/external"
	"github.com/stellovault/backend/internal/domain/port/persistence"
	"github.com/stellovault/backend/internal/domain/port/usecase"
)

// Service manages the escrow lifecycle. Status moves only through the
// allowed-transition table, and every write uses an optimistic conditional
// update so concurrent writers never overwrite each other.
type Service struct {
	uow          persistence.UnitOfWork
	builder      external.InvocationBuilder
	notifier     external.Notifier
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	contractID   string
}

// NewService creates a new escrow Service. contractID identifies the escrow
// contract on the external ledger for invocation payloads.
func NewService(
	uow persistence.UnitOfWork,
	builder external.InvocationBuilder,
	notifier external.Notifier,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	contractID string,
) *Service {
	return &Service{
		uow:          uow,
		builder:      builder,
		notifier:     notifier,
		timeProvider: timeProvider,
		logger:       logger,
		contractID:   contractID,
	}
}

// Create validates both parties, builds the ledger invocation payload and
// persists the escrow in PENDING. Payload building happens before any write
// so a builder failure leaves no partial state behind.
func (s *Service) Create(ctx context.Context, req usecase.CreateEscrowRequest) (*usecase.CreateEscrowResult, error) {
	now := s.timeProvider.Now()
	esc, err := entity.NewEscrow(req.BuyerID, req.SellerID, req.Amount, req.AssetCode, req.ExpiresAt, now)
	if err != nil {
		return nil, err
	}

	userRepo := s.uow.GetUserRepository(ctx)
	for _, id := range []uuid.UUID{req.BuyerID, req.SellerID} {
		exists, err := userRepo.Exists(ctx, id)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, errs.ErrUserNotFound
		}
	}

	payload, err := s.builder.BuildInvocation(ctx, s.contractID, "create_escrow", []any{
		req.BuyerID.String(),
		req.SellerID.String(),
		req.Amount.String(),
		req.AssetCode,
		req.ExpiresAt.Unix(),
	})
	if err != nil {
		s.logger.Error("Failed to build escrow invocation", map[string]any{
			"buyerId":  req.BuyerID.String(),
			"sellerId": req.SellerID.String(),
			"error":    err.Error(),
		})
		return nil, err
	}
	esc.InvocationPayload = payload

	if err := s.uow.GetEscrowRepository(ctx).Create(ctx, esc); err != nil {
		s.logger.Error("Failed to persist escrow", map[string]any{
			"escrowId": esc.ID.String(),
			"error":    err.Error(),
		})
		return nil, err
	}

	s.notifier.Publish(entity.EscrowCreated{
		EscrowID: esc.ID,
		BuyerID:  esc.BuyerID,
		SellerID: esc.SellerID,
	})

	s.logger.Info("Escrow created", map[string]any{
		"escrowId":  esc.ID.String(),
		"buyerId":   esc.BuyerID.String(),
		"sellerId":  esc.SellerID.String(),
		"amount":    esc.Amount.String(),
		"assetCode": esc.AssetCode,
	})

	return &usecase.CreateEscrowResult{
		Escrow:            esc,
		InvocationPayload: payload,
	}, nil
}

// ProcessEvent applies a status transition reported by the ledger oracle. An
// illegal transition is rejected, a self-loop is accepted without effect, and
// a lost race against another writer surfaces as a retry-able conflict.
func (s *Service) ProcessEvent(ctx context.Context, escrowID uuid.UUID, newStatus entity.EscrowStatus, txHash *string) (*entity.Escrow, error) {
	escrowRepo := s.uow.GetEscrowRepository(ctx)

	esc, err := escrowRepo.GetByID(ctx, escrowID)
	if err != nil {
		return nil, err
	}

	if !esc.Status.CanTransitionTo(newStatus) {
		terr := errs.NewTransitionError(escrowID.String(), string(esc.Status), string(newStatus))
		s.logger.Warn("Escrow transition rejected", map[string]any{
			"escrowId": escrowID.String(),
			"from":     string(esc.Status),
			"to":       string(newStatus),
		})
		return nil, terr
	}

	if esc.Status == newStatus {
		return esc, nil
	}

	now := s.timeProvider.Now()
	affected, err := escrowRepo.UpdateStatusIf(ctx, escrowID, esc.Status, newStatus, txHash, now)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		s.logger.Warn("Escrow transition lost a concurrent race", map[string]any{
			"escrowId": escrowID.String(),
			"from":     string(esc.Status),
			"to":       string(newStatus),
		})
		return nil, errs.ErrConcurrentUpdate
	}

	esc.Status = newStatus
	if txHash != nil {
		esc.ExternalTxHash = txHash
	}
	esc.UpdatedAt = now

	s.notifier.Publish(entity.EscrowUpdated{
		EscrowID: esc.ID,
		Status:   newStatus,
	})

	s.logger.Info("Escrow status changed", map[string]any{
		"escrowId": escrowID.String(),
		"status":   string(newStatus),
	})
	return esc, nil
}

// Get retrieves a single escrow
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*entity.Escrow, error) {
	return s.uow.GetEscrowRepository(ctx).GetByID(ctx, id)
}

// List returns escrows matching the filter, newest first
func (s *Service) List(ctx context.Context, filter persistence.EscrowFilter) ([]entity.Escrow, error) {
	return s.uow.GetEscrowRepository(ctx).List(ctx, filter)
}

// TimeoutSweep expires every overdue ACTIVE escrow through the same
// conditional update as ProcessEvent, so a sweep racing a completion webhook
// can never clobber it. Failures on individual escrows are logged and the
// sweep continues.
func (s *Service) TimeoutSweep(ctx context.Context) (int, error) {
	escrowRepo := s.uow.GetEscrowRepository(ctx)
	now := s.timeProvider.Now()

	candidates, err := escrowRepo.ListExpiredActive(ctx, now)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, esc := range candidates {
		affected, err := escrowRepo.UpdateStatusIf(ctx, esc.ID, entity.EscrowActive, entity.EscrowExpired, nil, now)
		if err != nil {
			s.logger.Error("Failed to expire escrow", map[string]any{
				"escrowId": esc.ID.String(),
				"error":    err.Error(),
			})
			continue
		}
		if affected == 0 {
			// another writer moved it between the listing and the update
			continue
		}

		expired++
		s.notifier.Publish(entity.EscrowUpdated{
			EscrowID: esc.ID,
			Status:   entity.EscrowExpired,
		})
	}

	if expired > 0 {
		s.logger.Info("Timeout sweep expired escrows", map[string]any{
			"count": expired,
		})
	}
	return expired, nil
}
