package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/stellovault/backend/internal/domain/entity"
	errs "github.com/stellovault/backend/internal/domain/error"
	coreport "github.com/stellovault/backend/internal/domain/port/core"
	"github.com/stellovault/backend/internal/domain/port/persistence"
	"github.com/stellovault/backend/internal/domain/port/usecase"
	"github.com/stellovault/backend/internal/infrastructure/adapter/api/dto"
)

// LoanHandler handles loan HTTP requests
type LoanHandler struct {
	loanUseCase usecase.LoanUseCase
	logger      coreport.Logger
}

// NewLoanHandler creates a new loan handler instance
func NewLoanHandler(loanUseCase usecase.LoanUseCase, logger coreport.Logger) *LoanHandler {
	return &LoanHandler{
		loanUseCase: loanUseCase,
		logger:      logger,
	}
}

// Issue handles the POST /loans endpoint
func (h *LoanHandler) Issue(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.IssueLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	borrowerID, err := uuid.Parse(req.BorrowerID)
	if err != nil {
		respondBadRequest(c, "Invalid borrowerId format")
		return
	}
	lenderID, err := uuid.Parse(req.LenderID)
	if err != nil {
		respondBadRequest(c, "Invalid lenderId format")
		return
	}

	amount, err := entity.ParseAmount(req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	collateral, err := entity.ParseAmount(req.CollateralAmt)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.loanUseCase.IssueLoan(c.Request.Context(), usecase.IssueLoanRequest{
		RequesterID:   userID,
		BorrowerID:    borrowerID,
		LenderID:      lenderID,
		Amount:        amount,
		CollateralAmt: collateral,
		AssetCode:     req.AssetCode,
		EscrowAddress: req.EscrowAddress,
	})
	if err != nil {
		h.logger.Warn("Failed to issue loan", map[string]any{
			"borrowerId": borrowerID.String(),
			"lenderId":   lenderID.String(),
			"error":      err.Error(),
		})
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.IssueLoanResponse{
		Loan:              dto.NewLoanResponse(result.Loan),
		InvocationPayload: result.InvocationPayload,
	})
}

// Get handles the GET /loans/:id endpoint. Only the two parties may view a
// loan.
func (h *LoanHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	loan, err := h.loanUseCase.GetLoan(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !loan.IsParty(userID) {
		respondError(c, errs.ErrLoanNotFound)
		return
	}

	c.JSON(http.StatusOK, dto.NewLoanResponse(loan))
}

// List handles the GET /loans endpoint, scoped to the authenticated user's role
func (h *LoanHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var filter persistence.LoanFilter
	switch c.DefaultQuery("role", "borrower") {
	case "borrower":
		filter.BorrowerID = &userID
	case "lender":
		filter.LenderID = &userID
	default:
		respondBadRequest(c, "role must be borrower or lender")
		return
	}

	if statusParam := c.Query("status"); statusParam != "" {
		status, err := entity.ParseLoanStatus(statusParam)
		if err != nil {
			respondError(c, err)
			return
		}
		filter.Status = &status
	}

	loans, err := h.loanUseCase.ListLoans(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]dto.LoanResponse, 0, len(loans))
	for i := range loans {
		out = append(out, dto.NewLoanResponse(&loans[i]))
	}
	c.JSON(http.StatusOK, dto.LoanListResponse{Loans: out})
}

// Repay handles the POST /loans/:id/repayments endpoint
func (h *LoanHandler) Repay(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req dto.RepaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	amount, err := entity.ParseAmount(req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.loanUseCase.RecordRepayment(c.Request.Context(), usecase.RecordRepaymentRequest{
		RequesterID: userID,
		LoanID:      id,
		Amount:      amount,
		PaidAt:      req.PaidAt,
	})
	if err != nil {
		h.logger.Warn("Failed to record repayment", map[string]any{
			"loanId": id.String(),
			"error":  err.Error(),
		})
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.RecordRepaymentResponse{
		Loan:              dto.NewLoanResponse(result.Loan),
		Repayment:         dto.NewRepaymentResponse(result.Repayment),
		OutstandingBefore: result.OutstandingBefore.String(),
		OutstandingAfter:  result.OutstandingAfter.String(),
		FullyRepaid:       result.FullyRepaid,
	})
}
