package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/stellovault/backend/internal/domain/entity"
)

// LinkWalletRequest carries the inputs for linking a wallet to an account
type LinkWalletRequest struct {
	UserID    uuid.UUID
	Address   string
	Nonce     string
	Signature string
	Label     string
}

// WalletUseCase manages the wallets linked to an account under the
// exactly-one-primary invariant
type WalletUseCase interface {
	// LinkWallet consumes a LINK_WALLET challenge and attaches the wallet to
	// the user; the user's first wallet becomes primary
	LinkWallet(ctx context.Context, req LinkWalletRequest) (*entity.Wallet, error)

	// UnlinkWallet removes a wallet; removing the sole wallet is rejected, and
	// removing the primary promotes a replacement inside the same transaction
	UnlinkWallet(ctx context.Context, userID, walletID uuid.UUID) error

	// SetPrimaryWallet makes the given wallet the user's canonical identity
	SetPrimaryWallet(ctx context.Context, userID, walletID uuid.UUID) (*entity.Wallet, error)

	// GetWallets lists the user's wallets, primary first
	GetWallets(ctx context.Context, userID uuid.UUID) ([]entity.Wallet, error)

	// UpdateLabel renames a wallet owned by the user
	UpdateLabel(ctx context.Context, userID, walletID uuid.UUID, label string) (*entity.Wallet, error)
}
