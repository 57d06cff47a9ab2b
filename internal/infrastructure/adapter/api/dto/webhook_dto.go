package dto

// EscrowWebhookRequest represents an inbound escrow status event from the
// ledger-watching oracle
type EscrowWebhookRequest struct {
	EscrowID string  `json:"escrowId" binding:"required,uuid"`
	Status   string  `json:"status" binding:"required"`
	TxHash   *string `json:"txHash"`
}
