package dto

import (
	"time"

	"github.com/stellovault/backend/internal/domain/entity"
)

// CreateEscrowRequest represents the API request for creating an escrow.
// Amounts cross the API as strings to avoid float rounding.
type CreateEscrowRequest struct {
	BuyerID   string    `json:"buyerId" binding:"required,uuid"`
	SellerID  string    `json:"sellerId" binding:"required,uuid"`
	Amount    string    `json:"amount" binding:"required"`
	AssetCode string    `json:"assetCode" binding:"required,max=12"`
	ExpiresAt time.Time `json:"expiresAt" binding:"required"`
}

// EscrowResponse represents an escrow in API responses
type EscrowResponse struct {
	ID             string    `json:"id"`
	BuyerID        string    `json:"buyerId"`
	SellerID       string    `json:"sellerId"`
	Amount         string    `json:"amount"`
	AssetCode      string    `json:"assetCode"`
	Status         string    `json:"status"`
	ExpiresAt      time.Time `json:"expiresAt"`
	ExternalTxHash *string   `json:"externalTxHash,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// CreateEscrowResponse pairs the persisted escrow with the invocation payload
// the client signs and submits to the ledger
type CreateEscrowResponse struct {
	Escrow            EscrowResponse `json:"escrow"`
	InvocationPayload string         `json:"invocationPayload"`
}

// EscrowListResponse wraps a page of escrows
type EscrowListResponse struct {
	Escrows []EscrowResponse `json:"escrows"`
	Page    int              `json:"page"`
	Limit   int              `json:"limit"`
}

// NewEscrowResponse maps an escrow entity to its API shape
func NewEscrowResponse(e *entity.Escrow) EscrowResponse {
	return EscrowResponse{
		ID:             e.ID.String(),
		BuyerID:        e.BuyerID.String(),
		SellerID:       e.SellerID.String(),
		Amount:         e.Amount.String(),
		AssetCode:      e.AssetCode,
		Status:         string(e.Status),
		ExpiresAt:      e.ExpiresAt,
		ExternalTxHash: e.ExternalTxHash,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}
