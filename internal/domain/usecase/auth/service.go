package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/stellovault/backend/internal/domain/entity"
	errs "github.com/stellovault/backend/internal/domain/error"
	coreport "github.com/stellovault/backend/internal/domain/port/core"
	"github.com/stellovault/backend/internal/domain/port/external"
	"github.com/stellovault/backend/internal/domain/port/persistence"
	"github.com/stellovault/backend/internal/domain/port/usecase"
)

// nonceBytes is the entropy of an issued nonce before hex encoding
const nonceBytes = 32

// Service handles challenge issuance, verification and login
type Service struct {
	uow          persistence.UnitOfWork
	verifier     external.SignatureVerifier
	tokens       external.TokenIssuer
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewService creates a new auth Service
func NewService(
	uow persistence.UnitOfWork,
	verifier external.SignatureVerifier,
	tokens external.TokenIssuer,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Service {
	return &Service{
		uow:          uow,
		verifier:     verifier,
		tokens:       tokens,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Issue generates a single-use challenge for the address. The nonce carries
// 32 bytes of entropy and the challenge expires after the fixed TTL.
func (s *Service) Issue(ctx context.Context, address string, purpose entity.ChallengePurpose, userID *uuid.UUID) (*usecase.ChallengeResult, error) {
	if err := s.verifier.ValidateAddress(address); err != nil {
		return nil, err
	}
	if purpose == entity.PurposeLinkWallet && userID == nil {
		return nil, fmt.Errorf("%w: LINK_WALLET challenges require an authenticated user", errs.ErrValidation)
	}

	nonce, err := generateNonce()
	if err != nil {
		s.logger.Error("Failed to generate nonce", map[string]any{
			"error": err.Error(),
		})
		return nil, errs.ErrInternalServer
	}

	now := s.timeProvider.Now()
	challenge := &entity.Challenge{
		ID:            uuid.New(),
		WalletAddress: address,
		Nonce:         nonce,
		Purpose:       purpose,
		UserID:        userID,
		Message:       entity.ChallengeMessage(purpose, nonce),
		ExpiresAt:     now.Add(entity.ChallengeTTL),
		CreatedAt:     now,
	}

	if err := s.uow.GetChallengeRepository(ctx).Create(ctx, challenge); err != nil {
		s.logger.Error("Failed to persist challenge", map[string]any{
			"address": address,
			"purpose": string(purpose),
			"error":   err.Error(),
		})
		return nil, err
	}

	s.logger.Info("Challenge issued", map[string]any{
		"address": address,
		"purpose": string(purpose),
	})

	return &usecase.ChallengeResult{
		Nonce:     challenge.Nonce,
		Message:   challenge.Message,
		ExpiresAt: challenge.ExpiresAt,
	}, nil
}

// VerifyAndConsume recomputes the canonical message, checks the signature and
// consumes the challenge atomically. The conditional update on the challenge
// row is what makes the nonce single-use under concurrency: of two racing
// calls only one sees an affected row.
func (s *Service) VerifyAndConsume(ctx context.Context, req usecase.VerifyChallengeRequest) error {
	message := entity.ChallengeMessage(req.Purpose, req.Nonce)
	if err := s.verifier.Verify(req.Address, message, req.Signature); err != nil {
		s.logger.Warn("Challenge signature rejected", map[string]any{
			"address": req.Address,
			"purpose": string(req.Purpose),
		})
		return err
	}

	affected, err := s.uow.GetChallengeRepository(ctx).Consume(ctx, req.Address, req.Nonce, req.Purpose, req.UserID, s.timeProvider.Now())
	if err != nil {
		return err
	}
	if affected != 1 {
		s.logger.Warn("Challenge consumption found no live row", map[string]any{
			"address": req.Address,
			"purpose": string(req.Purpose),
		})
		return errs.ErrChallengeInvalid
	}

	return nil
}

// Login verifies a LOGIN challenge, fetches or creates the account anchored to
// the address and mints an access token. A first-time address gets a new user
// whose first wallet is primary.
func (s *Service) Login(ctx context.Context, address, nonce, signature string) (*usecase.LoginResult, error) {
	if err := s.VerifyAndConsume(ctx, usecase.VerifyChallengeRequest{
		Address:   address,
		Nonce:     nonce,
		Signature: signature,
		Purpose:   entity.PurposeLogin,
	}); err != nil {
		return nil, err
	}

	user, created, err := s.getOrCreateUser(ctx, address)
	if err != nil {
		return nil, err
	}

	token, tokenExpiry, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.logger.Error("Failed to issue access token", map[string]any{
			"userId": user.ID.String(),
			"error":  err.Error(),
		})
		return nil, fmt.Errorf("%w: token issuance failed", errs.ErrInternalServer)
	}

	s.logger.Info("Login succeeded", map[string]any{
		"userId":     user.ID.String(),
		"address":    address,
		"newAccount": created,
	})

	return &usecase.LoginResult{
		User:       user,
		Token:      token,
		ExpiresAt:  tokenExpiry,
		NewAccount: created,
	}, nil
}

// getOrCreateUser resolves the account owning the wallet address, creating a
// fresh user with the address as primary wallet on first login
func (s *Service) getOrCreateUser(ctx context.Context, address string) (*entity.User, bool, error) {
	txCtx, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, false, err
	}

	userRepo := s.uow.GetUserRepository(txCtx)
	walletRepo := s.uow.GetWalletRepository(txCtx)

	wallet, err := walletRepo.GetByAddress(txCtx, address)
	if err == nil {
		user, getErr := userRepo.GetByID(txCtx, wallet.UserID)
		if getErr != nil {
			_ = s.uow.Rollback(txCtx)
			return nil, false, getErr
		}
		if err := s.uow.Commit(txCtx); err != nil {
			return nil, false, err
		}
		return user, false, nil
	}
	if !errors.Is(err, errs.ErrWalletNotFound) {
		_ = s.uow.Rollback(txCtx)
		return nil, false, err
	}

	user := entity.NewUser(address, s.timeProvider)
	if err := userRepo.Create(txCtx, user); err != nil {
		_ = s.uow.Rollback(txCtx)
		return nil, false, err
	}

	wallet = entity.NewWallet(user.ID, address, "", true, s.timeProvider)
	if err := walletRepo.Create(txCtx, wallet); err != nil {
		_ = s.uow.Rollback(txCtx)
		return nil, false, err
	}

	if err := s.uow.Commit(txCtx); err != nil {
		return nil, false, err
	}

	s.logger.Info("Account created on first login", map[string]any{
		"userId":  user.ID.String(),
		"address": address,
	})
	return user, true, nil
}

// generateNonce returns a hex-encoded random nonce
func generateNonce() (string, error) {
	buf := make([]byte, nonceBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
