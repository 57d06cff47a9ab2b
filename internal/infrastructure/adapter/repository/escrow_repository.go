package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stellovault/backend/internal/domain/entity"
	errs "github.com/stellovault/backend/internal/domain/error"
	coreport "github.com/stellovault/backend/internal/domain/port/core"
	"github.com/stellovault/backend/internal/domain/port/persistence"
	"github.com/stellovault/backend/internal/infrastructure/adapter/model"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// EscrowRepository implements persistence.EscrowRepository using GORM
type EscrowRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewEscrowRepository creates a new EscrowRepository instance
func NewEscrowRepository(db *gorm.DB, logger coreport.Logger) *EscrowRepository {
	return &EscrowRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func escrowModelToEntity(m *model.Escrow) *entity.Escrow {
	return &entity.Escrow{
		ID:                m.ID,
		BuyerID:           m.BuyerID,
		SellerID:          m.SellerID,
		Amount:            m.Amount,
		AssetCode:         m.AssetCode,
		Status:            entity.EscrowStatus(m.Status),
		ExpiresAt:         m.ExpiresAt,
		ExternalTxHash:    m.ExternalTxHash,
		InvocationPayload: m.InvocationPayload,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func escrowEntityToModel(e *entity.Escrow) *model.Escrow {
	return &model.Escrow{
		ID:                e.ID,
		BuyerID:           e.BuyerID,
		SellerID:          e.SellerID,
		Amount:            e.Amount,
		AssetCode:         e.AssetCode,
		Status:            string(e.Status),
		ExpiresAt:         e.ExpiresAt,
		ExternalTxHash:    e.ExternalTxHash,
		InvocationPayload: e.InvocationPayload,
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}
}

// Create persists a new escrow
func (r *EscrowRepository) Create(ctx context.Context, escrow *entity.Escrow) error {
	result := r.db.WithContext(ctx).Create(escrowEntityToModel(escrow))
	if result.Error != nil {
		r.logger.Error("Database error when creating escrow", map[string]any{
			"escrowId": escrow.ID.String(),
			"error":    result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}
	return nil
}

// GetByID retrieves an escrow by id
func (r *EscrowRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Escrow, error) {
	var m model.Escrow
	result := r.db.WithContext(ctx).First(&m, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrEscrowNotFound
		}
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}
	return escrowModelToEntity(&m), nil
}

// escrowListQuery applies the filter, the pagination clamp and the ordering.
// The id column breaks created_at ties so pages never overlap.
func escrowListQuery(db *gorm.DB, filter persistence.EscrowFilter) *gorm.DB {
	query := db.Model(&model.Escrow{})
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if filter.BuyerID != nil {
		query = query.Where("buyer_id = ?", *filter.BuyerID)
	}
	if filter.SellerID != nil {
		query = query.Where("seller_id = ?", *filter.SellerID)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	return query.
		Order("created_at DESC, id DESC").
		Offset((page - 1) * limit).
		Limit(limit)
}

// List returns escrows matching the filter, newest first
func (r *EscrowRepository) List(ctx context.Context, filter persistence.EscrowFilter) ([]entity.Escrow, error) {
	var ms []model.Escrow
	result := escrowListQuery(r.db.WithContext(ctx), filter).Find(&ms)
	if result.Error != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	escrows := make([]entity.Escrow, 0, len(ms))
	for i := range ms {
		escrows = append(escrows, *escrowModelToEntity(&ms[i]))
	}
	return escrows, nil
}

// UpdateStatusIf moves the status only when the current value still matches
// from, returning the affected-row count. Zero rows means another writer got
// there first.
func (r *EscrowRepository) UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to entity.EscrowStatus, txHash *string, now time.Time) (int64, error) {
	updates := map[string]any{
		"status":     string(to),
		"updated_at": now,
	}
	if txHash != nil {
		updates["external_tx_hash"] = *txHash
	}

	result := r.db.WithContext(ctx).Model(&model.Escrow{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(updates)
	if result.Error != nil {
		r.logger.Error("Database error when updating escrow status", map[string]any{
			"escrowId": id.String(),
			"from":     string(from),
			"to":       string(to),
			"error":    result.Error.Error(),
		})
		return 0, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}
	return result.RowsAffected, nil
}

// ListExpiredActive returns ACTIVE escrows whose expiry has passed
func (r *EscrowRepository) ListExpiredActive(ctx context.Context, now time.Time) ([]entity.Escrow, error) {
	var ms []model.Escrow
	result := r.db.WithContext(ctx).
		Where("status = ? AND expires_at <= ?", string(entity.EscrowActive), now).
		Order("expires_at ASC").
		Find(&ms)
	if result.Error != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	escrows := make([]entity.Escrow, 0, len(ms))
	for i := range ms {
		escrows = append(escrows, *escrowModelToEntity(&ms[i]))
	}
	return escrows, nil
}
