package dto

import (
	"time"

	"github.com/stellovault/backend/internal/domain/entity"
)

// IssueLoanRequest represents the API request for issuing a loan
type IssueLoanRequest struct {
	BorrowerID    string `json:"borrowerId" binding:"required,uuid"`
	LenderID      string `json:"lenderId" binding:"required,uuid"`
	Amount        string `json:"amount" binding:"required"`
	CollateralAmt string `json:"collateralAmount" binding:"required"`
	AssetCode     string `json:"assetCode" binding:"required,max=12"`
	EscrowAddress string `json:"escrowAddress"`
}

// RepaymentRequest represents the API request for recording a repayment.
// PaidAt is optional; absent, the server clock stamps the repayment.
type RepaymentRequest struct {
	Amount string     `json:"amount" binding:"required"`
	PaidAt *time.Time `json:"paidAt"`
}

// RepaymentResponse represents a single repayment record
type RepaymentResponse struct {
	ID     string    `json:"id"`
	Amount string    `json:"amount"`
	PaidAt time.Time `json:"paidAt"`
}

// LoanResponse represents a loan in API responses
type LoanResponse struct {
	ID               string              `json:"id"`
	BorrowerID       string              `json:"borrowerId"`
	LenderID         string              `json:"lenderId"`
	Amount           string              `json:"amount"`
	CollateralAmount string              `json:"collateralAmount"`
	AssetCode        string              `json:"assetCode"`
	Status           string              `json:"status"`
	EscrowAddress    string              `json:"escrowAddress"`
	Outstanding      string              `json:"outstanding"`
	Repayments       []RepaymentResponse `json:"repayments,omitempty"`
	CreatedAt        time.Time           `json:"createdAt"`
	UpdatedAt        time.Time           `json:"updatedAt"`
}

// IssueLoanResponse pairs the persisted loan with its invocation payload
type IssueLoanResponse struct {
	Loan              LoanResponse `json:"loan"`
	InvocationPayload string       `json:"invocationPayload"`
}

// RecordRepaymentResponse reports the balance movement caused by a repayment
type RecordRepaymentResponse struct {
	Loan              LoanResponse      `json:"loan"`
	Repayment         RepaymentResponse `json:"repayment"`
	OutstandingBefore string            `json:"outstandingBefore"`
	OutstandingAfter  string            `json:"outstandingAfter"`
	FullyRepaid       bool              `json:"fullyRepaid"`
}

// LoanListResponse wraps a loan listing
type LoanListResponse struct {
	Loans []LoanResponse `json:"loans"`
}

// NewRepaymentResponse maps a repayment entity to its API shape
func NewRepaymentResponse(r *entity.Repayment) RepaymentResponse {
	return RepaymentResponse{
		ID:     r.ID.String(),
		Amount: r.Amount.String(),
		PaidAt: r.PaidAt,
	}
}

// NewLoanResponse maps a loan entity to its API shape
func NewLoanResponse(l *entity.Loan) LoanResponse {
	repayments := make([]RepaymentResponse, 0, len(l.Repayments))
	for i := range l.Repayments {
		repayments = append(repayments, NewRepaymentResponse(&l.Repayments[i]))
	}
	return LoanResponse{
		ID:               l.ID.String(),
		BorrowerID:       l.BorrowerID.String(),
		LenderID:         l.LenderID.String(),
		Amount:           l.Amount.String(),
		CollateralAmount: l.CollateralAmt.String(),
		AssetCode:        l.AssetCode,
		Status:           string(l.Status),
		EscrowAddress:    l.EscrowAddress,
		Outstanding:      l.Outstanding().String(),
		Repayments:       repayments,
		CreatedAt:        l.CreatedAt,
		UpdatedAt:        l.UpdatedAt,
	}
}
