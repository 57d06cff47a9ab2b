package persistence

import (
	"context"

	"github.com/google/uuid"

	"github.com/stellovault/backend/internal/domain/entity"
)

// UserRepository defines persistence operations for users
type UserRepository interface {
	// Create persists a new user
	//
	// Possible errors:
	// - ErrConflict: if a user with the same primary address already exists
	// - ErrDatabaseConnection: if the database is unreachable
	Create(ctx context.Context, user *entity.User) error

	// GetByID retrieves a user by id
	//
	// Possible errors:
	// - ErrUserNotFound
	// - ErrDatabaseConnection
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// GetByIDForUpdate retrieves a user by id holding an exclusive row lock for
	// the duration of the surrounding transaction. The user row is the lock
	// boundary for every wallet-mutating operation on that user.
	//
	// Possible errors:
	// - ErrUserNotFound
	// - ErrDatabaseConnection
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// GetByPrimaryAddress retrieves the user whose denormalized primary address
	// matches, or ErrUserNotFound
	GetByPrimaryAddress(ctx context.Context, address string) (*entity.User, error)

	// Exists reports whether a user with the given id exists
	Exists(ctx context.Context, id uuid.UUID) (bool, error)

	// UpdatePrimaryAddress rewrites the denormalized primary wallet address.
	// Callers must only invoke this inside the transaction that flips the
	// corresponding wallet's is_primary flag.
	UpdatePrimaryAddress(ctx context.Context, id uuid.UUID, address string) error
}
