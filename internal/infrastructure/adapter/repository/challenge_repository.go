package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stellovault/backend/internal/domain/entity"
	errs "github.com/stellovault/backend/internal/domain/error"
	coreport "github.com/stellovault/backend/internal/domain/port/core"
	"github.com/stellovault/backend/internal/infrastructure/adapter/model"
)

// ChallengeRepository implements persistence.ChallengeRepository using GORM
type ChallengeRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewChallengeRepository creates a new ChallengeRepository instance
func NewChallengeRepository(db *gorm.DB, logger coreport.Logger) *ChallengeRepository {
	return &ChallengeRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func challengeEntityToModel(c *entity.Challenge) *model.Challenge {
	return &model.Challenge{
		ID:            c.ID,
		WalletAddress: c.WalletAddress,
		Nonce:         c.Nonce,
		Purpose:       string(c.Purpose),
		UserID:        c.UserID,
		Message:       c.Message,
		ExpiresAt:     c.ExpiresAt,
		UsedAt:        c.UsedAt,
		CreatedAt:     c.CreatedAt,
	}
}

// Create persists a freshly issued challenge
func (r *ChallengeRepository) Create(ctx context.Context, challenge *entity.Challenge) error {
	result := r.db.WithContext(ctx).Create(challengeEntityToModel(challenge))
	if result.Error != nil {
		if r.errorClassifier.IsDuplicateKeyError(result.Error) {
			// nonce collision, treat as invalid so the caller re-issues
			return errs.ErrChallengeInvalid
		}
		r.logger.Error("Database error when creating challenge", map[string]any{
			"walletAddress": challenge.WalletAddress,
			"error":         result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}
	return nil
}

// Consume flips used_at with a single conditional update and returns the
// affected-row count. Only one of any number of racing attempts can match the
// used_at IS NULL predicate.
func (r *ChallengeRepository) Consume(ctx context.Context, address, nonce string, purpose entity.ChallengePurpose, userID *uuid.UUID, now time.Time) (int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Challenge{}).
		Where("wallet_address = ? AND nonce = ? AND purpose = ?", address, nonce, string(purpose)).
		Where("used_at IS NULL AND expires_at > ?", now)
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}

	result := query.Update("used_at", now)
	if result.Error != nil {
		r.logger.Error("Database error when consuming challenge", map[string]any{
			"walletAddress": address,
			"purpose":       string(purpose),
			"error":         result.Error.Error(),
		})
		return 0, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}
	return result.RowsAffected, nil
}

// DeleteExpired garbage-collects challenges past their TTL
func (r *ChallengeRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at <= ?", now).
		Delete(&model.Challenge{})
	if result.Error != nil {
		return 0, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}
	return result.RowsAffected, nil
}
