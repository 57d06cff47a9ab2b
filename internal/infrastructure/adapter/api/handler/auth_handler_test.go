package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/stellovault/backend/internal/domain/entity"
	errs "github.com/stellovault/backend/internal/domain/error"
	"github.com/stellovault/backend/internal/domain/port/usecase"
	"github.com/stellovault/backend/internal/infrastructure/adapter/api/dto"
	"github.com/stellovault/backend/internal/infrastructure/adapter/api/middleware"
	coremocks "github.com/stellovault/backend/mocks/port/core"
	usecasemocks "github.com/stellovault/backend/mocks/port/usecase"
)

const handlerTestAddress = "GAAZI4TCR3TY5OJHCTJC2A4QSY6CJWJH5IAJTGKIN2ER7LBNVKOCCWN7"

func authTestRouter(auth *usecasemocks.MockAuthUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewAuthHandler(auth, coremocks.NewMockLogger())
	router.POST("/auth/challenge", h.Challenge)
	router.POST("/auth/verify", h.Verify)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestChallengeEndpoint(t *testing.T) {
	t.Run("issues challenge", func(t *testing.T) {
		auth := usecasemocks.NewMockAuthUseCase()
		expiresAt := time.Date(2025, 6, 1, 12, 10, 0, 0, time.UTC)
		auth.On("Issue", mock.Anything, handlerTestAddress, entity.PurposeLogin, (*uuid.UUID)(nil)).
			Return(&usecase.ChallengeResult{
				Nonce:     "abc123",
				Message:   entity.ChallengeMessage(entity.PurposeLogin, "abc123"),
				ExpiresAt: expiresAt,
			}, nil)

		rec := postJSON(t, authTestRouter(auth), "/auth/challenge", dto.ChallengeRequest{
			Address: handlerTestAddress,
			Purpose: "LOGIN",
		})

		require.Equal(t, http.StatusCreated, rec.Code)
		var resp dto.ChallengeResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "abc123", resp.Nonce)
		assert.Contains(t, resp.Message, "Nonce: abc123")
	})

	t.Run("rejects unknown purpose at binding", func(t *testing.T) {
		auth := usecasemocks.NewMockAuthUseCase()

		rec := postJSON(t, authTestRouter(auth), "/auth/challenge", map[string]string{
			"address": handlerTestAddress,
			"purpose": "ADMIN",
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		auth.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("maps invalid address to 400", func(t *testing.T) {
		auth := usecasemocks.NewMockAuthUseCase()
		auth.On("Issue", mock.Anything, "bogus", entity.PurposeLogin, (*uuid.UUID)(nil)).
			Return(nil, errs.ErrInvalidAddress)

		rec := postJSON(t, authTestRouter(auth), "/auth/challenge", dto.ChallengeRequest{
			Address: "bogus",
			Purpose: "LOGIN",
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLinkChallengeEndpoint(t *testing.T) {
	linkRouter := func(auth *usecasemocks.MockAuthUseCase, userID *uuid.UUID) *gin.Engine {
		gin.SetMode(gin.TestMode)
		router := gin.New()
		h := NewAuthHandler(auth, coremocks.NewMockLogger())
		router.POST("/wallets/link/challenge", func(c *gin.Context) {
			if userID != nil {
				c.Set(middleware.ContextUserIDKey, *userID)
			}
			c.Next()
		}, h.LinkChallenge)
		return router
	}

	t.Run("issues challenge bound to the bearer user", func(t *testing.T) {
		auth := usecasemocks.NewMockAuthUseCase()
		userID := uuid.New()
		expiresAt := time.Date(2025, 6, 1, 12, 10, 0, 0, time.UTC)
		auth.On("Issue", mock.Anything, handlerTestAddress, entity.PurposeLinkWallet,
			mock.MatchedBy(func(id *uuid.UUID) bool { return id != nil && *id == userID })).
			Return(&usecase.ChallengeResult{
				Nonce:     "def456",
				Message:   entity.ChallengeMessage(entity.PurposeLinkWallet, "def456"),
				ExpiresAt: expiresAt,
			}, nil)

		rec := postJSON(t, linkRouter(auth, &userID), "/wallets/link/challenge", dto.LinkChallengeRequest{
			Address: handlerTestAddress,
		})

		require.Equal(t, http.StatusCreated, rec.Code)
		var resp dto.ChallengeResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "def456", resp.Nonce)
		auth.AssertExpectations(t)
	})

	t.Run("rejects without an authenticated user", func(t *testing.T) {
		auth := usecasemocks.NewMockAuthUseCase()

		rec := postJSON(t, linkRouter(auth, nil), "/wallets/link/challenge", dto.LinkChallengeRequest{
			Address: handlerTestAddress,
		})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		auth.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestVerifyEndpoint(t *testing.T) {
	t.Run("returns token on login", func(t *testing.T) {
		auth := usecasemocks.NewMockAuthUseCase()
		user := &entity.User{ID: uuid.New(), PrimaryWalletAddress: handlerTestAddress}
		auth.On("Login", mock.Anything, handlerTestAddress, "abc123", "sig").
			Return(&usecase.LoginResult{
				User:       user,
				Token:      "jwt-token",
				ExpiresAt:  time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC),
				NewAccount: true,
			}, nil)

		rec := postJSON(t, authTestRouter(auth), "/auth/verify", dto.VerifyRequest{
			Address:   handlerTestAddress,
			Nonce:     "abc123",
			Signature: "sig",
		})

		require.Equal(t, http.StatusOK, rec.Code)
		var resp dto.LoginResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "jwt-token", resp.Token)
		assert.Equal(t, user.ID.String(), resp.User.ID)
		assert.True(t, resp.NewAccount)
	})

	t.Run("maps consumed challenge to 401", func(t *testing.T) {
		auth := usecasemocks.NewMockAuthUseCase()
		auth.On("Login", mock.Anything, handlerTestAddress, "stale", "sig").
			Return(nil, errs.ErrChallengeInvalid)

		rec := postJSON(t, authTestRouter(auth), "/auth/verify", dto.VerifyRequest{
			Address:   handlerTestAddress,
			Nonce:     "stale",
			Signature: "sig",
		})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects missing fields at binding", func(t *testing.T) {
		auth := usecasemocks.NewMockAuthUseCase()

		rec := postJSON(t, authTestRouter(auth), "/auth/verify", map[string]string{
			"address": handlerTestAddress,
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		auth.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
