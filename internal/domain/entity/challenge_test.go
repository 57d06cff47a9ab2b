package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/stellovault/backend/internal/domain/error"
)

func TestChallengeMessage(t *testing.T) {
	msg := ChallengeMessage(PurposeLogin, "deadbeef")
	assert.Equal(t, "Sign this message to authenticate with StelloVault:\n\nPurpose: LOGIN\nNonce: deadbeef", msg)

	// purpose is baked into the message, so a LINK_WALLET signature can never
	// satisfy a LOGIN challenge for the same nonce
	assert.NotEqual(t, msg, ChallengeMessage(PurposeLinkWallet, "deadbeef"))
}

func TestParseChallengePurpose(t *testing.T) {
	purpose, err := ParseChallengePurpose("LINK_WALLET")
	require.NoError(t, err)
	assert.Equal(t, PurposeLinkWallet, purpose)

	_, err = ParseChallengePurpose("login")
	assert.True(t, errs.IsValidationError(err))
}

func TestChallengeExpiry(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	challenge := &Challenge{ExpiresAt: now.Add(ChallengeTTL)}

	assert.False(t, challenge.Expired(now))
	assert.False(t, challenge.Expired(now.Add(ChallengeTTL-time.Second)))
	assert.True(t, challenge.Expired(now.Add(ChallengeTTL)))
	assert.True(t, challenge.Expired(now.Add(ChallengeTTL+time.Second)))
}

func TestChallengeConsumed(t *testing.T) {
	challenge := &Challenge{}
	assert.False(t, challenge.Consumed())

	used := time.Now()
	challenge.UsedAt = &used
	assert.True(t, challenge.Consumed())
}
