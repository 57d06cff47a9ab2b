package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/stellovault/backend/internal/domain/entity"
)

// ChallengeResult is returned from Issue
type ChallengeResult struct {
	Nonce     string
	Message   string
	ExpiresAt time.Time
}

// VerifyChallengeRequest carries the inputs for challenge consumption
type VerifyChallengeRequest struct {
	Address   string
	Nonce     string
	Signature string
	Purpose   entity.ChallengePurpose
	UserID    *uuid.UUID
}

// LoginResult is returned from Login after a LOGIN challenge verifies
type LoginResult struct {
	User       *entity.User
	Token      string
	ExpiresAt  time.Time
	NewAccount bool
}

// AuthUseCase issues and consumes wallet challenges and performs login
type AuthUseCase interface {
	// Issue generates a time-boxed single-use challenge for the address
	Issue(ctx context.Context, address string, purpose entity.ChallengePurpose, userID *uuid.UUID) (*ChallengeResult, error)

	// VerifyAndConsume verifies the signature over the canonical message and
	// atomically consumes the challenge; at most one call per nonce succeeds
	VerifyAndConsume(ctx context.Context, req VerifyChallengeRequest) error

	// Login verifies a LOGIN challenge, gets or creates the user anchored to
	// the address, and mints an access token
	Login(ctx context.Context, address, nonce, signature string) (*LoginResult, error)
}
