package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stellovault/backend/internal/domain/entity"
	coreport "github.com/stellovault/backend/internal/domain/port/core"
	"github.com/stellovault/backend/internal/domain/port/usecase"
	"github.com/stellovault/backend/internal/infrastructure/adapter/api/dto"
)

// AuthHandler handles authentication HTTP requests
type AuthHandler struct {
	authUseCase usecase.AuthUseCase
	logger      coreport.Logger
}

// NewAuthHandler creates a new auth handler instance
func NewAuthHandler(authUseCase usecase.AuthUseCase, logger coreport.Logger) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
		logger:      logger,
	}
}

// Challenge handles the POST /auth/challenge endpoint
func (h *AuthHandler) Challenge(c *gin.Context) {
	var req dto.ChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	purpose, err := entity.ParseChallengePurpose(req.Purpose)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.authUseCase.Issue(c.Request.Context(), req.Address, purpose, nil)
	if err != nil {
		h.logger.Warn("Failed to issue challenge", map[string]any{
			"address": req.Address,
			"purpose": req.Purpose,
			"error":   err.Error(),
		})
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ChallengeResponse{
		Nonce:     result.Nonce,
		Message:   result.Message,
		ExpiresAt: result.ExpiresAt,
	})
}

// LinkChallenge handles the POST /wallets/link/challenge endpoint. It issues
// a LINK_WALLET challenge bound to the authenticated user, which the link
// endpoint later consumes.
func (h *AuthHandler) LinkChallenge(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.LinkChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.authUseCase.Issue(c.Request.Context(), req.Address, entity.PurposeLinkWallet, &userID)
	if err != nil {
		h.logger.Warn("Failed to issue link challenge", map[string]any{
			"userId":  userID.String(),
			"address": req.Address,
			"error":   err.Error(),
		})
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ChallengeResponse{
		Nonce:     result.Nonce,
		Message:   result.Message,
		ExpiresAt: result.ExpiresAt,
	})
}

// Verify handles the POST /auth/verify endpoint
func (h *AuthHandler) Verify(c *gin.Context) {
	var req dto.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.authUseCase.Login(c.Request.Context(), req.Address, req.Nonce, req.Signature)
	if err != nil {
		h.logger.Warn("Login failed", map[string]any{
			"address": req.Address,
			"error":   err.Error(),
		})
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User: dto.UserResponse{
			ID:                   result.User.ID.String(),
			PrimaryWalletAddress: result.User.PrimaryWalletAddress,
			CreatedAt:            result.User.CreatedAt,
		},
		NewAccount: result.NewAccount,
	})
}
