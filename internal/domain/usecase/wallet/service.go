package wallet

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/stellovault/backend/internal/domain/entity"
	errs "github.com/stellovault/backend/internal/domain/error"
	coreport "github.com/stellovault/backend/internal/domain/port/core"
	"github.com/stellovault/backend/internal/domain/port/persistence"
	"github.com/stellovault/backend/internal/domain/port/usecase"
)

// Service manages the wallets linked to an account. Every mutating operation
// begins by locking the owner's user row, which serializes concurrent wallet
// mutations for the same account and keeps the exactly-one-primary invariant.
type Service struct {
	uow          persistence.UnitOfWork
	auth         usecase.AuthUseCase
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewService creates a new wallet Service
func NewService(
	uow persistence.UnitOfWork,
	auth usecase.AuthUseCase,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Service {
	return &Service{
		uow:          uow,
		auth:         auth,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// LinkWallet consumes a LINK_WALLET challenge and attaches the address to the
// user. The challenge is consumed inside the same transaction that holds the
// user-row lock, and the unique constraint on wallet addresses remains the
// final authority when two accounts race for the same address.
func (s *Service) LinkWallet(ctx context.Context, req usecase.LinkWalletRequest) (*entity.Wallet, error) {
	txCtx, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}

	userRepo := s.uow.GetUserRepository(txCtx)
	walletRepo := s.uow.GetWalletRepository(txCtx)

	if _, err := userRepo.GetByIDForUpdate(txCtx, req.UserID); err != nil {
		_ = s.uow.Rollback(txCtx)
		return nil, err
	}

	if err := s.auth.VerifyAndConsume(txCtx, usecase.VerifyChallengeRequest{
		Address:   req.Address,
		Nonce:     req.Nonce,
		Signature: req.Signature,
		Purpose:   entity.PurposeLinkWallet,
		UserID:    &req.UserID,
	}); err != nil {
		_ = s.uow.Rollback(txCtx)
		return nil, err
	}

	if _, err := walletRepo.GetByAddress(txCtx, req.Address); err == nil {
		_ = s.uow.Rollback(txCtx)
		return nil, errs.ErrWalletAlreadyLinked
	} else if !errors.Is(err, errs.ErrWalletNotFound) {
		_ = s.uow.Rollback(txCtx)
		return nil, err
	}

	existing, err := walletRepo.ListByUser(txCtx, req.UserID)
	if err != nil {
		_ = s.uow.Rollback(txCtx)
		return nil, err
	}
	isPrimary := len(existing) == 0

	wallet := entity.NewWallet(req.UserID, req.Address, req.Label, isPrimary, s.timeProvider)
	if err := walletRepo.Create(txCtx, wallet); err != nil {
		_ = s.uow.Rollback(txCtx)
		return nil, err
	}

	if isPrimary {
		if err := userRepo.UpdatePrimaryAddress(txCtx, req.UserID, req.Address); err != nil {
			_ = s.uow.Rollback(txCtx)
			return nil, err
		}
	}

	if err := s.uow.Commit(txCtx); err != nil {
		return nil, err
	}

	s.logger.Info("Wallet linked", map[string]any{
		"userId":    req.UserID.String(),
		"walletId":  wallet.ID.String(),
		"address":   req.Address,
		"isPrimary": isPrimary,
	})
	return wallet, nil
}

// UnlinkWallet removes a wallet. The sole remaining wallet can never be
// removed, and removing the primary promotes the oldest remaining wallet in
// the same transaction so the account never lacks a primary.
func (s *Service) UnlinkWallet(ctx context.Context, userID, walletID uuid.UUID) error {
	txCtx, err := s.uow.Begin(ctx)
	if err != nil {
		return err
	}

	userRepo := s.uow.GetUserRepository(txCtx)
	walletRepo := s.uow.GetWalletRepository(txCtx)

	if _, err := userRepo.GetByIDForUpdate(txCtx, userID); err != nil {
		_ = s.uow.Rollback(txCtx)
		return err
	}

	wallets, err := walletRepo.ListByUser(txCtx, userID)
	if err != nil {
		_ = s.uow.Rollback(txCtx)
		return err
	}

	var target *entity.Wallet
	for i := range wallets {
		if wallets[i].ID == walletID {
			target = &wallets[i]
			break
		}
	}
	if target == nil {
		_ = s.uow.Rollback(txCtx)
		return errs.ErrWalletNotFound
	}
	if len(wallets) == 1 {
		_ = s.uow.Rollback(txCtx)
		return errs.ErrLastWallet
	}

	if target.IsPrimary {
		// wallets are ordered primary first then oldest, so the first
		// non-target entry is the oldest replacement
		var replacement *entity.Wallet
		for i := range wallets {
			if wallets[i].ID != walletID {
				replacement = &wallets[i]
				break
			}
		}
		if err := walletRepo.MarkPrimary(txCtx, replacement.ID); err != nil {
			_ = s.uow.Rollback(txCtx)
			return err
		}
		if err := userRepo.UpdatePrimaryAddress(txCtx, userID, replacement.Address); err != nil {
			_ = s.uow.Rollback(txCtx)
			return err
		}
	}

	if err := walletRepo.Delete(txCtx, target.ID); err != nil {
		_ = s.uow.Rollback(txCtx)
		return err
	}

	if err := s.uow.Commit(txCtx); err != nil {
		return err
	}

	s.logger.Info("Wallet unlinked", map[string]any{
		"userId":     userID.String(),
		"walletId":   walletID.String(),
		"wasPrimary": target.IsPrimary,
	})
	return nil
}

// SetPrimaryWallet flips the primary flag to the given wallet and rewrites the
// user's denormalized primary address in the same transaction
func (s *Service) SetPrimaryWallet(ctx context.Context, userID, walletID uuid.UUID) (*entity.Wallet, error) {
	txCtx, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}

	userRepo := s.uow.GetUserRepository(txCtx)
	walletRepo := s.uow.GetWalletRepository(txCtx)

	if _, err := userRepo.GetByIDForUpdate(txCtx, userID); err != nil {
		_ = s.uow.Rollback(txCtx)
		return nil, err
	}

	target, err := walletRepo.GetByID(txCtx, walletID)
	if err != nil {
		_ = s.uow.Rollback(txCtx)
		return nil, err
	}
	if target.UserID != userID {
		_ = s.uow.Rollback(txCtx)
		return nil, errs.ErrWalletNotFound
	}

	if target.IsPrimary {
		_ = s.uow.Rollback(txCtx)
		return target, nil
	}

	if err := walletRepo.ClearPrimary(txCtx, userID); err != nil {
		_ = s.uow.Rollback(txCtx)
		return nil, err
	}
	if err := walletRepo.MarkPrimary(txCtx, target.ID); err != nil {
		_ = s.uow.Rollback(txCtx)
		return nil, err
	}
	if err := userRepo.UpdatePrimaryAddress(txCtx, userID, target.Address); err != nil {
		_ = s.uow.Rollback(txCtx)
		return nil, err
	}

	if err := s.uow.Commit(txCtx); err != nil {
		return nil, err
	}

	target.IsPrimary = true
	s.logger.Info("Primary wallet changed", map[string]any{
		"userId":   userID.String(),
		"walletId": walletID.String(),
		"address":  target.Address,
	})
	return target, nil
}

// GetWallets lists the user's wallets, primary first then oldest first
func (s *Service) GetWallets(ctx context.Context, userID uuid.UUID) ([]entity.Wallet, error) {
	userRepo := s.uow.GetUserRepository(ctx)
	exists, err := userRepo.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errs.ErrUserNotFound
	}
	return s.uow.GetWalletRepository(ctx).ListByUser(ctx, userID)
}

// UpdateLabel renames a wallet. Labels never affect the primary invariant so
// no user-row lock is taken.
func (s *Service) UpdateLabel(ctx context.Context, userID, walletID uuid.UUID, label string) (*entity.Wallet, error) {
	walletRepo := s.uow.GetWalletRepository(ctx)

	target, err := walletRepo.GetByID(ctx, walletID)
	if err != nil {
		return nil, err
	}
	if target.UserID != userID {
		return nil, errs.ErrWalletNotFound
	}

	if err := walletRepo.UpdateLabel(ctx, walletID, label); err != nil {
		return nil, err
	}

	target.Label = label
	target.UpdatedAt = s.timeProvider.Now()
	return target, nil
}
