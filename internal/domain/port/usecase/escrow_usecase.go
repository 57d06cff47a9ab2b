package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stellovault/backend/internal/domain/entity"
	"github.com/stellovault/backend/internal/domain/port/persistence"
)

// CreateEscrowRequest carries the inputs for escrow creation
type CreateEscrowRequest struct {
	BuyerID   uuid.UUID
	SellerID  uuid.UUID
	Amount    decimal.Decimal
	AssetCode string
	ExpiresAt time.Time
}

// CreateEscrowResult pairs the persisted escrow with the invocation payload
// the caller submits to the external ledger
type CreateEscrowResult struct {
	Escrow            *entity.Escrow
	InvocationPayload string
}

// EscrowUseCase manages the escrow lifecycle under the allowed-transition table
type EscrowUseCase interface {
	// Create validates both parties, builds the invocation payload and persists
	// the escrow in PENDING
	Create(ctx context.Context, req CreateEscrowRequest) (*CreateEscrowResult, error)

	// ProcessEvent applies an oracle/webhook-driven status transition using an
	// optimistic conditional update; a racing writer surfaces as a retry-able
	// validation failure, and a self-loop is a silent no-op
	ProcessEvent(ctx context.Context, escrowID uuid.UUID, newStatus entity.EscrowStatus, txHash *string) (*entity.Escrow, error)

	// Get retrieves a single escrow
	Get(ctx context.Context, id uuid.UUID) (*entity.Escrow, error)

	// List returns escrows matching the filter, newest first
	List(ctx context.Context, filter persistence.EscrowFilter) ([]entity.Escrow, error)

	// TimeoutSweep expires overdue ACTIVE escrows through the same optimistic
	// path as ProcessEvent and returns how many were flipped
	TimeoutSweep(ctx context.Context) (int, error)
}
