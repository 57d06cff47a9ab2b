package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/stellovault/backend/internal/domain/entity"
	coreport "github.com/stellovault/backend/internal/domain/port/core"
	"github.com/stellovault/backend/internal/domain/port/persistence"
	"github.com/stellovault/backend/internal/domain/port/usecase"
	"github.com/stellovault/backend/internal/infrastructure/adapter/api/dto"
)

// EscrowHandler handles escrow HTTP requests
type EscrowHandler struct {
	escrowUseCase usecase.EscrowUseCase
	logger        coreport.Logger
}

// NewEscrowHandler creates a new escrow handler instance
func NewEscrowHandler(escrowUseCase usecase.EscrowUseCase, logger coreport.Logger) *EscrowHandler {
	return &EscrowHandler{
		escrowUseCase: escrowUseCase,
		logger:        logger,
	}
}

// Create handles the POST /escrows endpoint. The authenticated user must be
// the buyer.
func (h *EscrowHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.CreateEscrowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	buyerID, err := uuid.Parse(req.BuyerID)
	if err != nil {
		respondBadRequest(c, "Invalid buyerId format")
		return
	}
	sellerID, err := uuid.Parse(req.SellerID)
	if err != nil {
		respondBadRequest(c, "Invalid sellerId format")
		return
	}
	if buyerID != userID {
		respondBadRequest(c, "Authenticated user must be the buyer")
		return
	}

	amount, err := entity.ParseAmount(req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.escrowUseCase.Create(c.Request.Context(), usecase.CreateEscrowRequest{
		BuyerID:   buyerID,
		SellerID:  sellerID,
		Amount:    amount,
		AssetCode: req.AssetCode,
		ExpiresAt: req.ExpiresAt,
	})
	if err != nil {
		h.logger.Warn("Failed to create escrow", map[string]any{
			"buyerId":  buyerID.String(),
			"sellerId": sellerID.String(),
			"error":    err.Error(),
		})
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.CreateEscrowResponse{
		Escrow:            dto.NewEscrowResponse(result.Escrow),
		InvocationPayload: result.InvocationPayload,
	})
}

// Get handles the GET /escrows/:id endpoint
func (h *EscrowHandler) Get(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	escrow, err := h.escrowUseCase.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewEscrowResponse(escrow))
}

// List handles the GET /escrows endpoint. Results are scoped to escrows the
// authenticated user participates in via the role query parameter.
func (h *EscrowHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	filter := persistence.EscrowFilter{
		Page:  queryInt(c, "page", 1),
		Limit: queryInt(c, "limit", 20),
	}

	switch c.DefaultQuery("role", "buyer") {
	case "buyer":
		filter.BuyerID = &userID
	case "seller":
		filter.SellerID = &userID
	default:
		respondBadRequest(c, "role must be buyer or seller")
		return
	}

	if statusParam := c.Query("status"); statusParam != "" {
		status, err := entity.ParseEscrowStatus(statusParam)
		if err != nil {
			respondError(c, err)
			return
		}
		filter.Status = &status
	}

	escrows, err := h.escrowUseCase.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]dto.EscrowResponse, 0, len(escrows))
	for i := range escrows {
		out = append(out, dto.NewEscrowResponse(&escrows[i]))
	}
	c.JSON(http.StatusOK, dto.EscrowListResponse{
		Escrows: out,
		Page:    filter.Page,
		Limit:   filter.Limit,
	})
}

// queryInt parses an integer query parameter with a fallback
func queryInt(c *gin.Context, name string, fallback int) int {
	value, err := strconv.Atoi(c.DefaultQuery(name, strconv.Itoa(fallback)))
	if err != nil || value < 1 {
		return fallback
	}
	return value
}
