package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/stellovault/backend/internal/domain/entity"
)

// EscrowFilter narrows and paginates escrow listings
type EscrowFilter struct {
	Status   *entity.EscrowStatus
	BuyerID  *uuid.UUID
	SellerID *uuid.UUID
	Page     int
	Limit    int
}

// EscrowRepository defines persistence operations for escrows
type EscrowRepository interface {
	// Create persists a new escrow
	Create(ctx context.Context, escrow *entity.Escrow) error

	// GetByID retrieves an escrow by id, or ErrEscrowNotFound
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Escrow, error)

	// List returns escrows matching the filter, newest first. Pagination is
	// stable because ordering is by creation time descending.
	List(ctx context.Context, filter EscrowFilter) ([]entity.Escrow, error)

	// UpdateStatusIf performs the optimistic conditional update
	//
	//   SET status = to [, external_tx_hash = txHash]
	//   WHERE id = ? AND status = from
	//
	// and returns the affected-row count. Zero rows means another writer moved
	// the status first; callers surface that as a retry-able conflict instead
	// of silently overwriting.
	UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to entity.EscrowStatus, txHash *string, now time.Time) (int64, error)

	// ListExpiredActive returns ACTIVE escrows whose expiry has passed, for the
	// timeout sweep
	ListExpiredActive(ctx context.Context, now time.Time) ([]entity.Escrow, error)
}
