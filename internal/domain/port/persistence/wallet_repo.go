package persistence

import (
	"context"

	"github.com/google/uuid"

	"github.com/stellovault/backend/internal/domain/entity"
)

// WalletRepository defines persistence operations for wallets
type WalletRepository interface {
	// Create persists a new wallet
	//
	// Possible errors:
	// - ErrWalletAlreadyLinked: on the address-unique constraint; the database
	//   constraint is the final authority under racing link attempts
	// - ErrDatabaseConnection
	Create(ctx context.Context, wallet *entity.Wallet) error

	// GetByID retrieves a wallet by id, or ErrWalletNotFound
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Wallet, error)

	// GetByAddress retrieves a wallet by its globally unique address, or
	// ErrWalletNotFound
	GetByAddress(ctx context.Context, address string) (*entity.Wallet, error)

	// ListByUser returns all wallets for a user, primary first then oldest first
	ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.Wallet, error)

	// Delete removes a wallet row
	Delete(ctx context.Context, id uuid.UUID) error

	// ClearPrimary unsets is_primary on all of a user's wallets
	ClearPrimary(ctx context.Context, userID uuid.UUID) error

	// MarkPrimary sets is_primary on a single wallet
	MarkPrimary(ctx context.Context, id uuid.UUID) error

	// UpdateLabel rewrites a wallet's label
	UpdateLabel(ctx context.Context, id uuid.UUID, label string) error
}
