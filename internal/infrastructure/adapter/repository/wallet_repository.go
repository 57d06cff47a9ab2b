package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stellovault/backend/internal/domain/entity"
	errs "github.com/stellovault/backend/internal/domain/error"
	coreport "github.com/stellovault/backend/internal/domain/port/core"
	"github.com/stellovault/backend/internal/infrastructure/adapter/model"
)

// WalletRepository implements persistence.WalletRepository using GORM
type WalletRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewWalletRepository creates a new WalletRepository instance
func NewWalletRepository(db *gorm.DB, logger coreport.Logger) *WalletRepository {
	return &WalletRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func walletModelToEntity(m *model.Wallet) *entity.Wallet {
	return &entity.Wallet{
		ID:        m.ID,
		UserID:    m.UserID,
		Address:   m.Address,
		IsPrimary: m.IsPrimary,
		Label:     m.Label,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func walletEntityToModel(w *entity.Wallet) *model.Wallet {
	return &model.Wallet{
		ID:        w.ID,
		UserID:    w.UserID,
		Address:   w.Address,
		IsPrimary: w.IsPrimary,
		Label:     w.Label,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

// Create persists a new wallet. The unique index on address is the final
// authority under racing link attempts, so a duplicate-key error maps straight
// to ErrWalletAlreadyLinked.
func (r *WalletRepository) Create(ctx context.Context, wallet *entity.Wallet) error {
	result := r.db.WithContext(ctx).Create(walletEntityToModel(wallet))
	if result.Error != nil {
		if r.errorClassifier.IsDuplicateKeyError(result.Error) {
			return errs.ErrWalletAlreadyLinked
		}
		r.logger.Error("Database error when creating wallet", map[string]any{
			"walletId": wallet.ID.String(),
			"address":  wallet.Address,
			"error":    result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}
	return nil
}

// GetByID retrieves a wallet by id
func (r *WalletRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Wallet, error) {
	var m model.Wallet
	result := r.db.WithContext(ctx).First(&m, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrWalletNotFound
		}
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}
	return walletModelToEntity(&m), nil
}

// GetByAddress retrieves a wallet by its globally unique address
func (r *WalletRepository) GetByAddress(ctx context.Context, address string) (*entity.Wallet, error) {
	var m model.Wallet
	result := r.db.WithContext(ctx).First(&m, "address = ?", address)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrWalletNotFound
		}
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}
	return walletModelToEntity(&m), nil
}

// ListByUser returns all wallets for a user, primary first then oldest first
func (r *WalletRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.Wallet, error) {
	var ms []model.Wallet
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_primary DESC, created_at ASC").
		Find(&ms)
	if result.Error != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	wallets := make([]entity.Wallet, 0, len(ms))
	for i := range ms {
		wallets = append(wallets, *walletModelToEntity(&ms[i]))
	}
	return wallets, nil
}

// Delete removes a wallet row
func (r *WalletRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.Wallet{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}
	if result.RowsAffected == 0 {
		return errs.ErrWalletNotFound
	}
	return nil
}

// ClearPrimary unsets is_primary on all of a user's wallets
func (r *WalletRepository) ClearPrimary(ctx context.Context, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&model.Wallet{}).
		Where("user_id = ?", userID).
		Update("is_primary", false)
	if result.Error != nil {
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}
	return nil
}

// MarkPrimary sets is_primary on a single wallet
func (r *WalletRepository) MarkPrimary(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&model.Wallet{}).
		Where("id = ?", id).
		Update("is_primary", true)
	if result.Error != nil {
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}
	if result.RowsAffected == 0 {
		return errs.ErrWalletNotFound
	}
	return nil
}

// UpdateLabel rewrites a wallet's label
func (r *WalletRepository) UpdateLabel(ctx context.Context, id uuid.UUID, label string) error {
	result := r.db.WithContext(ctx).Model(&model.Wallet{}).
		Where("id = ?", id).
		Update("label", label)
	if result.Error != nil {
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}
	if result.RowsAffected == 0 {
		return errs.ErrWalletNotFound
	}
	return nil
}
