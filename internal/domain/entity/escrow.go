package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	errs "github.com/stellovault/backend/internal/domain/error"
)

// EscrowStatus is the lifecycle state of an escrow
type EscrowStatus string

const (
	EscrowPending   EscrowStatus = "PENDING"
	EscrowActive    EscrowStatus = "ACTIVE"
	EscrowCompleted EscrowStatus = "COMPLETED"
	EscrowDisputed  EscrowStatus = "DISPUTED"
	EscrowExpired   EscrowStatus = "EXPIRED"
)

// escrowTransitions is the allowed-transition table. Self-loops mean a
// repeated notification of the same status is accepted as a no-op. COMPLETED
// and EXPIRED are terminal.
var escrowTransitions = map[EscrowStatus][]EscrowStatus{
	EscrowPending:   {EscrowPending, EscrowActive, EscrowCompleted, EscrowDisputed, EscrowExpired},
	EscrowActive:    {EscrowActive, EscrowCompleted, EscrowDisputed, EscrowExpired},
	EscrowDisputed:  {EscrowDisputed, EscrowActive, EscrowCompleted, EscrowExpired},
	EscrowCompleted: {EscrowCompleted},
	EscrowExpired:   {EscrowExpired},
}

// ParseEscrowStatus validates a status string
func ParseEscrowStatus(s string) (EscrowStatus, error) {
	switch EscrowStatus(s) {
	case EscrowPending, EscrowActive, EscrowCompleted, EscrowDisputed, EscrowExpired:
		return EscrowStatus(s), nil
	default:
		return "", fmt.Errorf("%w: unknown escrow status %q", errs.ErrValidation, s)
	}
}

// CanTransitionTo reports whether the transition table allows moving from s to next
func (s EscrowStatus) CanTransitionTo(next EscrowStatus) bool {
	for _, allowed := range escrowTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether the status only allows its self-loop
func (s EscrowStatus) Terminal() bool {
	return s == EscrowCompleted || s == EscrowExpired
}

// Escrow tracks the off-chain view of an escrow whose true settlement happens
// on the external ledger. Status moves only through the transition table.
type Escrow struct {
	ID                uuid.UUID
	BuyerID           uuid.UUID
	SellerID          uuid.UUID
	Amount            decimal.Decimal
	AssetCode         string
	Status            EscrowStatus
	ExpiresAt         time.Time
	ExternalTxHash    *string
	InvocationPayload string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewEscrow validates inputs and creates an escrow in PENDING
func NewEscrow(buyerID, sellerID uuid.UUID, amount decimal.Decimal, assetCode string, expiresAt, now time.Time) (*Escrow, error) {
	if buyerID == sellerID {
		return nil, fmt.Errorf("%w: buyer and seller must be different", errs.ErrValidation)
	}
	amount, err := ValidateAmount(amount)
	if err != nil {
		return nil, err
	}
	if assetCode == "" {
		return nil, fmt.Errorf("%w: asset code is required", errs.ErrValidation)
	}
	if !expiresAt.After(now) {
		return nil, fmt.Errorf("%w: expiry must be in the future", errs.ErrValidation)
	}

	return &Escrow{
		ID:        uuid.New(),
		BuyerID:   buyerID,
		SellerID:  sellerID,
		Amount:    amount,
		AssetCode: assetCode,
		Status:    EscrowPending,
		ExpiresAt: expiresAt,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
