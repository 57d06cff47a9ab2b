package dto

import (
	"time"

	"github.com/stellovault/backend/internal/domain/entity"
)

// LinkWalletRequest represents the API request for linking a wallet
type LinkWalletRequest struct {
	Address   string `json:"address" binding:"required"`
	Nonce     string `json:"nonce" binding:"required"`
	Signature string `json:"signature" binding:"required"`
	Label     string `json:"label" binding:"max=255"`
}

// UpdateLabelRequest represents the API request for renaming a wallet
type UpdateLabelRequest struct {
	Label string `json:"label" binding:"required,max=255"`
}

// WalletResponse represents a linked wallet in API responses
type WalletResponse struct {
	ID        string    `json:"id"`
	Address   string    `json:"address"`
	IsPrimary bool      `json:"isPrimary"`
	Label     string    `json:"label,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// WalletListResponse wraps a user's wallets, primary first
type WalletListResponse struct {
	Wallets []WalletResponse `json:"wallets"`
}

// NewWalletResponse maps a wallet entity to its API shape
func NewWalletResponse(w *entity.Wallet) WalletResponse {
	return WalletResponse{
		ID:        w.ID.String(),
		Address:   w.Address,
		IsPrimary: w.IsPrimary,
		Label:     w.Label,
		CreatedAt: w.CreatedAt,
	}
}

// NewWalletListResponse maps a wallet slice to its API shape
func NewWalletListResponse(wallets []entity.Wallet) WalletListResponse {
	out := make([]WalletResponse, 0, len(wallets))
	for i := range wallets {
		out = append(out, NewWalletResponse(&wallets[i]))
	}
	return WalletListResponse{Wallets: out}
}
