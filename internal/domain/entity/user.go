package entity

import (
	"time"

	"github.com/google/uuid"

	coreport "github.com/stellovault/backend/internal/domain/port/core"
)

// User is the identity anchor. PrimaryWalletAddress is denormalized from the
// wallet set and must always equal the address of the wallet flagged primary;
// it is only ever updated inside the same transaction as an is_primary flip.
type User struct {
	ID                   uuid.UUID
	PrimaryWalletAddress string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// NewUser creates a user anchored to its first (primary) wallet address
func NewUser(primaryAddress string, timeProvider coreport.TimeProvider) *User {
	now := timeProvider.Now()
	return &User{
		ID:                   uuid.New(),
		PrimaryWalletAddress: primaryAddress,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}

// Wallet is owned by exactly one user. For a given user exactly one wallet has
// IsPrimary set whenever the user has at least one wallet; a user with zero
// wallets is an invalid end state.
type Wallet struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Address   string
	IsPrimary bool
	Label     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewWallet creates a wallet for a user. The first wallet a user links is
// created primary.
func NewWallet(userID uuid.UUID, address, label string, isPrimary bool, timeProvider coreport.TimeProvider) *Wallet {
	now := timeProvider.Now()
	return &Wallet{
		ID:        uuid.New(),
		UserID:    userID,
		Address:   address,
		IsPrimary: isPrimary,
		Label:     label,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
