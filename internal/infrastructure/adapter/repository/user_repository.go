package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stellovault/backend/internal/domain/entity"
	errs "github.com/stellovault/backend/internal/domain/error"
	coreport "github.com/stellovault/backend/internal/domain/port/core"
	"github.com/stellovault/backend/internal/infrastructure/adapter/model"
)

// UserRepository implements persistence.UserRepository using GORM
type UserRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewUserRepository creates a new UserRepository instance
func NewUserRepository(db *gorm.DB, logger coreport.Logger) *UserRepository {
	return &UserRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func userModelToEntity(m *model.User) *entity.User {
	return &entity.User{
		ID:                   m.ID,
		PrimaryWalletAddress: m.PrimaryWalletAddress,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
}

func userEntityToModel(u *entity.User) *model.User {
	return &model.User{
		ID:                   u.ID,
		PrimaryWalletAddress: u.PrimaryWalletAddress,
		CreatedAt:            u.CreatedAt,
		UpdatedAt:            u.UpdatedAt,
	}
}

// handleDatabaseError standardizes database error handling
func (r *UserRepository) handleDatabaseError(operation string, err error, userID uuid.UUID) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.ErrUserNotFound
	}

	r.logger.Error(fmt.Sprintf("Database error when %s", operation), map[string]any{
		"userId": userID.String(),
		"error":  err.Error(),
	})

	if r.errorClassifier.IsDuplicateKeyError(err) {
		return errs.ErrConflict
	}
	return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
}

// Create persists a new user
func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	result := r.db.WithContext(ctx).Create(userEntityToModel(user))
	if result.Error != nil {
		return r.handleDatabaseError("creating user", result.Error, user.ID)
	}
	return nil
}

// GetByID retrieves a user by id
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var m model.User
	result := r.db.WithContext(ctx).First(&m, "id = ?", id)
	if result.Error != nil {
		return nil, r.handleDatabaseError("getting user", result.Error, id)
	}
	return userModelToEntity(&m), nil
}

// GetByIDForUpdate retrieves a user holding an exclusive row lock until the
// surrounding transaction ends. All wallet mutations for a user serialize on
// this lock.
func (r *UserRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var m model.User
	result := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&m, "id = ?", id)
	if result.Error != nil {
		return nil, r.handleDatabaseError("locking user", result.Error, id)
	}
	return userModelToEntity(&m), nil
}

// GetByPrimaryAddress retrieves the user whose denormalized primary address matches
func (r *UserRepository) GetByPrimaryAddress(ctx context.Context, address string) (*entity.User, error) {
	var m model.User
	result := r.db.WithContext(ctx).First(&m, "primary_wallet_address = ?", address)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}
	return userModelToEntity(&m), nil
}

// Exists reports whether a user with the given id exists
func (r *UserRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Count(&count)
	if result.Error != nil {
		return false, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}
	return count > 0, nil
}

// UpdatePrimaryAddress rewrites the denormalized primary wallet address
func (r *UserRepository) UpdatePrimaryAddress(ctx context.Context, id uuid.UUID, address string) error {
	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("primary_wallet_address", address)
	if result.Error != nil {
		return r.handleDatabaseError("updating primary address", result.Error, id)
	}
	if result.RowsAffected == 0 {
		return errs.ErrUserNotFound
	}
	return nil
}
