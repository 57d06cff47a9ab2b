package entity

import "github.com/google/uuid"

// Event is a change notification published to the notification sink after a
// state change commits. Publishing is fire-and-forget and never fails the
// originating transaction.
type Event interface {
	// Name identifies the event type on the wire
	Name() string
}

// EscrowCreated is emitted once when an escrow is persisted
type EscrowCreated struct {
	EscrowID uuid.UUID `json:"escrowId"`
	BuyerID  uuid.UUID `json:"buyerId"`
	SellerID uuid.UUID `json:"sellerId"`
}

// Name implements Event
func (EscrowCreated) Name() string { return "escrow.created" }

// EscrowUpdated is emitted when an escrow's status actually changes; a
// self-loop transition produces no event
type EscrowUpdated struct {
	EscrowID uuid.UUID    `json:"escrowId"`
	Status   EscrowStatus `json:"status"`
}

// Name implements Event
func (EscrowUpdated) Name() string { return "escrow.updated" }

// LoanUpdated is emitted when a loan's derived status actually changes
type LoanUpdated struct {
	LoanID uuid.UUID  `json:"loanId"`
	Status LoanStatus `json:"status"`
}

// Name implements Event
func (LoanUpdated) Name() string { return "loan.updated" }
