package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/stellovault/backend/internal/domain/error"
)

func TestEscrowTransitions(t *testing.T) {
	all := []EscrowStatus{EscrowPending, EscrowActive, EscrowCompleted, EscrowDisputed, EscrowExpired}

	allowed := map[EscrowStatus]map[EscrowStatus]bool{
		EscrowPending:   {EscrowPending: true, EscrowActive: true, EscrowCompleted: true, EscrowDisputed: true, EscrowExpired: true},
		EscrowActive:    {EscrowActive: true, EscrowCompleted: true, EscrowDisputed: true, EscrowExpired: true},
		EscrowDisputed:  {EscrowDisputed: true, EscrowActive: true, EscrowCompleted: true, EscrowExpired: true},
		EscrowCompleted: {EscrowCompleted: true},
		EscrowExpired:   {EscrowExpired: true},
	}

	for _, from := range all {
		for _, to := range all {
			got := from.CanTransitionTo(to)
			assert.Equal(t, allowed[from][to], got, "%s -> %s", from, to)
		}
	}
}

func TestEscrowStatusTerminal(t *testing.T) {
	assert.True(t, EscrowCompleted.Terminal())
	assert.True(t, EscrowExpired.Terminal())
	assert.False(t, EscrowPending.Terminal())
	assert.False(t, EscrowActive.Terminal())
	assert.False(t, EscrowDisputed.Terminal())
}

func TestParseEscrowStatus(t *testing.T) {
	status, err := ParseEscrowStatus("DISPUTED")
	require.NoError(t, err)
	assert.Equal(t, EscrowDisputed, status)

	_, err = ParseEscrowStatus("RELEASED")
	assert.True(t, errs.IsValidationError(err))

	// lowercase is not accepted
	_, err = ParseEscrowStatus("active")
	assert.Error(t, err)
}

func TestNewEscrow(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	buyer, seller := uuid.New(), uuid.New()
	amount := decimal.RequireFromString("100.50")

	t.Run("starts pending", func(t *testing.T) {
		esc, err := NewEscrow(buyer, seller, amount, "USDC", now.Add(time.Hour), now)
		require.NoError(t, err)
		assert.Equal(t, EscrowPending, esc.Status)
		assert.Nil(t, esc.ExternalTxHash)
	})

	t.Run("rejects buyer equal to seller", func(t *testing.T) {
		_, err := NewEscrow(buyer, buyer, amount, "USDC", now.Add(time.Hour), now)
		assert.True(t, errs.IsValidationError(err))
	})

	t.Run("rejects a past expiry", func(t *testing.T) {
		_, err := NewEscrow(buyer, seller, amount, "USDC", now.Add(-time.Minute), now)
		assert.True(t, errs.IsValidationError(err))
	})

	t.Run("rejects a missing asset code", func(t *testing.T) {
		_, err := NewEscrow(buyer, seller, amount, "", now.Add(time.Hour), now)
		assert.True(t, errs.IsValidationError(err))
	})

	t.Run("rejects a non-positive amount", func(t *testing.T) {
		_, err := NewEscrow(buyer, seller, decimal.Zero, "USDC", now.Add(time.Hour), now)
		assert.ErrorIs(t, err, errs.ErrInvalidAmount)
	})
}
