package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/stellovault/backend/internal/domain/entity"
	errs "github.com/stellovault/backend/internal/domain/error"
	"github.com/stellovault/backend/internal/infrastructure/adapter/api/dto"
	coremocks "github.com/stellovault/backend/mocks/port/core"
	usecasemocks "github.com/stellovault/backend/mocks/port/usecase"
)

func webhookTestRouter(escrows *usecasemocks.MockEscrowUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewWebhookHandler(escrows, coremocks.NewMockLogger())
	router.POST("/webhooks/escrow", h.EscrowEvent)
	return router
}

func testEscrow(id uuid.UUID, status entity.EscrowStatus) *entity.Escrow {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return &entity.Escrow{
		ID:        id,
		BuyerID:   uuid.New(),
		SellerID:  uuid.New(),
		Amount:    decimal.RequireFromString("250.50"),
		AssetCode: "USDC",
		Status:    status,
		ExpiresAt: now.Add(24 * time.Hour),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestEscrowEventEndpoint(t *testing.T) {
	t.Run("applies status transition", func(t *testing.T) {
		escrows := usecasemocks.NewMockEscrowUseCase()
		escrowID := uuid.New()
		txHash := "deadbeef"
		escrows.On("ProcessEvent", mock.Anything, escrowID, entity.EscrowActive, &txHash).
			Return(testEscrow(escrowID, entity.EscrowActive), nil)

		rec := postJSON(t, webhookTestRouter(escrows), "/webhooks/escrow", dto.EscrowWebhookRequest{
			EscrowID: escrowID.String(),
			Status:   "ACTIVE",
			TxHash:   &txHash,
		})

		require.Equal(t, http.StatusOK, rec.Code)
		var resp dto.EscrowResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, escrowID.String(), resp.ID)
		assert.Equal(t, "ACTIVE", resp.Status)
		escrows.AssertExpectations(t)
	})

	t.Run("rejects malformed escrow id", func(t *testing.T) {
		escrows := usecasemocks.NewMockEscrowUseCase()

		rec := postJSON(t, webhookTestRouter(escrows), "/webhooks/escrow", map[string]string{
			"escrowId": "not-a-uuid",
			"status":   "ACTIVE",
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		escrows.AssertNotCalled(t, "ProcessEvent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		escrows := usecasemocks.NewMockEscrowUseCase()

		rec := postJSON(t, webhookTestRouter(escrows), "/webhooks/escrow", map[string]string{
			"escrowId": uuid.NewString(),
			"status":   "SETTLED",
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		escrows.AssertNotCalled(t, "ProcessEvent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("maps illegal transition to 400", func(t *testing.T) {
		escrows := usecasemocks.NewMockEscrowUseCase()
		escrowID := uuid.New()
		escrows.On("ProcessEvent", mock.Anything, escrowID, entity.EscrowActive, (*string)(nil)).
			Return(nil, errs.ErrIllegalTransition)

		rec := postJSON(t, webhookTestRouter(escrows), "/webhooks/escrow", dto.EscrowWebhookRequest{
			EscrowID: escrowID.String(),
			Status:   "ACTIVE",
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("maps unknown escrow to 404", func(t *testing.T) {
		escrows := usecasemocks.NewMockEscrowUseCase()
		escrowID := uuid.New()
		escrows.On("ProcessEvent", mock.Anything, escrowID, entity.EscrowCompleted, (*string)(nil)).
			Return(nil, errs.ErrEscrowNotFound)

		rec := postJSON(t, webhookTestRouter(escrows), "/webhooks/escrow", dto.EscrowWebhookRequest{
			EscrowID: escrowID.String(),
			Status:   "COMPLETED",
		})

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
