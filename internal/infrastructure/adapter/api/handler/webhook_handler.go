package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/stellovault/backend/internal/domain/entity"
	coreport "github.com/stellovault/backend/internal/domain/port/core"
	"github.com/stellovault/backend/internal/domain/port/usecase"
	"github.com/stellovault/backend/internal/infrastructure/adapter/api/dto"
)

// WebhookHandler handles inbound ledger events
type WebhookHandler struct {
	escrowUseCase usecase.EscrowUseCase
	logger        coreport.Logger
}

// NewWebhookHandler creates a new webhook handler instance
func NewWebhookHandler(escrowUseCase usecase.EscrowUseCase, logger coreport.Logger) *WebhookHandler {
	return &WebhookHandler{
		escrowUseCase: escrowUseCase,
		logger:        logger,
	}
}

// EscrowEvent handles the POST /webhooks/escrow endpoint. The shared-secret
// check runs in middleware before this handler.
func (h *WebhookHandler) EscrowEvent(c *gin.Context) {
	var req dto.EscrowWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	escrowID, err := uuid.Parse(req.EscrowID)
	if err != nil {
		respondBadRequest(c, "Invalid escrowId format")
		return
	}

	status, err := entity.ParseEscrowStatus(req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	escrow, err := h.escrowUseCase.ProcessEvent(c.Request.Context(), escrowID, status, req.TxHash)
	if err != nil {
		h.logger.Warn("Failed to process escrow event", map[string]any{
			"escrowId": escrowID.String(),
			"status":   req.Status,
			"error":    err.Error(),
		})
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewEscrowResponse(escrow))
}
