package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	errs "github.com/stellovault/backend/internal/domain/error"
)

// ChallengePurpose binds a nonce to the operation it proves freshness for
type ChallengePurpose string

const (
	// PurposeLogin authenticates an existing or new account
	PurposeLogin ChallengePurpose = "LOGIN"
	// PurposeLinkWallet links an additional wallet to an existing account
	PurposeLinkWallet ChallengePurpose = "LINK_WALLET"
)

// ParseChallengePurpose validates a purpose string
func ParseChallengePurpose(s string) (ChallengePurpose, error) {
	switch ChallengePurpose(s) {
	case PurposeLogin, PurposeLinkWallet:
		return ChallengePurpose(s), nil
	default:
		return "", fmt.Errorf("%w: unknown challenge purpose %q", errs.ErrValidation, s)
	}
}

// ChallengeTTL is how long an issued nonce stays valid
const ChallengeTTL = 10 * time.Minute

// Challenge is an ephemeral single-use nonce bound to a wallet address and a
// purpose. It transitions from unused to used exactly once via an atomic
// conditional update; expired rows may be garbage-collected.
type Challenge struct {
	ID            uuid.UUID
	WalletAddress string
	Nonce         string
	Purpose       ChallengePurpose
	UserID        *uuid.UUID
	Message       string
	ExpiresAt     time.Time
	UsedAt        *time.Time
	CreatedAt     time.Time
}

// ChallengeMessage builds the canonical message a wallet signs. It is
// deterministic in (purpose, nonce) so verification can recompute it without
// trusting client input.
func ChallengeMessage(purpose ChallengePurpose, nonce string) string {
	return fmt.Sprintf("Sign this message to authenticate with StelloVault:\n\nPurpose: %s\nNonce: %s", purpose, nonce)
}

// Expired reports whether the challenge is past its TTL at the given instant
func (c *Challenge) Expired(now time.Time) bool {
	return !c.ExpiresAt.After(now)
}

// Consumed reports whether the challenge has already been used
func (c *Challenge) Consumed() bool {
	return c.UsedAt != nil
}
