package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/stellovault/backend/internal/domain/entity"
)

// ChallengeRepository defines persistence operations for authentication challenges
type ChallengeRepository interface {
	// Create persists a freshly issued challenge with used_at null
	Create(ctx context.Context, challenge *entity.Challenge) error

	// Consume performs the single conditional update that flips used_at:
	//
	//   SET used_at = now
	//   WHERE wallet_address = ? AND nonce = ? AND purpose = ?
	//     AND used_at IS NULL AND expires_at > now
	//     [AND user_id = ? when userID is non-nil]
	//
	// and returns the affected-row count. This conditional update is the sole
	// concurrency guard for nonce consumption: two racing attempts hit the same
	// row predicate and only one can flip used_at, so callers require exactly
	// one affected row.
	Consume(ctx context.Context, address, nonce string, purpose entity.ChallengePurpose, userID *uuid.UUID, now time.Time) (int64, error)

	// DeleteExpired garbage-collects challenges past their TTL and returns the
	// number of rows removed
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
