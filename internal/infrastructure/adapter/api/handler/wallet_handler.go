package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	coreport "github.com/stellovault/backend/internal/domain/port/core"
	"github.com/stellovault/backend/internal/domain/port/usecase"
	"github.com/stellovault/backend/internal/infrastructure/adapter/api/dto"
)

// WalletHandler handles wallet-management HTTP requests
type WalletHandler struct {
	walletUseCase usecase.WalletUseCase
	logger        coreport.Logger
}

// NewWalletHandler creates a new wallet handler instance
func NewWalletHandler(walletUseCase usecase.WalletUseCase, logger coreport.Logger) *WalletHandler {
	return &WalletHandler{
		walletUseCase: walletUseCase,
		logger:        logger,
	}
}

// List handles the GET /wallets endpoint
func (h *WalletHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	wallets, err := h.walletUseCase.GetWallets(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewWalletListResponse(wallets))
}

// Link handles the POST /wallets/link endpoint
func (h *WalletHandler) Link(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.LinkWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	wallet, err := h.walletUseCase.LinkWallet(c.Request.Context(), usecase.LinkWalletRequest{
		UserID:    userID,
		Address:   req.Address,
		Nonce:     req.Nonce,
		Signature: req.Signature,
		Label:     req.Label,
	})
	if err != nil {
		h.logger.Warn("Failed to link wallet", map[string]any{
			"userId":  userID.String(),
			"address": req.Address,
			"error":   err.Error(),
		})
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewWalletResponse(wallet))
}

// Unlink handles the DELETE /wallets/:walletId endpoint
func (h *WalletHandler) Unlink(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	walletID, ok := pathUUID(c, "walletId")
	if !ok {
		return
	}

	if err := h.walletUseCase.UnlinkWallet(c.Request.Context(), userID, walletID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// SetPrimary handles the PUT /wallets/:walletId/primary endpoint
func (h *WalletHandler) SetPrimary(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	walletID, ok := pathUUID(c, "walletId")
	if !ok {
		return
	}

	wallet, err := h.walletUseCase.SetPrimaryWallet(c.Request.Context(), userID, walletID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewWalletResponse(wallet))
}

// UpdateLabel handles the PUT /wallets/:walletId/label endpoint
func (h *WalletHandler) UpdateLabel(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	walletID, ok := pathUUID(c, "walletId")
	if !ok {
		return
	}

	var req dto.UpdateLabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	wallet, err := h.walletUseCase.UpdateLabel(c.Request.Context(), userID, walletID, req.Label)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewWalletResponse(wallet))
}
