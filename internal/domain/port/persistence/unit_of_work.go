package persistence

import (
	"context"
)

// UnitOfWork coordinates multi-repository writes inside a single database
// transaction. Begin returns a transactional context; repositories obtained
// through the getters with that context are bound to the transaction. Once a
// transaction begins it runs to commit or rollback, never half-applies.
type UnitOfWork interface {
	// Begin starts a transaction at the store's default isolation level
	Begin(ctx context.Context) (context.Context, error)

	// BeginSerializable starts a transaction at serializable isolation, used
	// where a read-check-write sequence must be atomic against concurrent
	// writers on the same row set (loan repayments)
	BeginSerializable(ctx context.Context) (context.Context, error)

	// Commit commits the transaction in the given context
	Commit(ctx context.Context) error

	// Rollback rolls back the transaction in the given context
	Rollback(ctx context.Context) error

	// GetUserRepository returns a user repository bound to the current transaction
	GetUserRepository(ctx context.Context) UserRepository

	// GetWalletRepository returns a wallet repository bound to the current transaction
	GetWalletRepository(ctx context.Context) WalletRepository

	// GetChallengeRepository returns a challenge repository bound to the current transaction
	GetChallengeRepository(ctx context.Context) ChallengeRepository

	// GetEscrowRepository returns an escrow repository bound to the current transaction
	GetEscrowRepository(ctx context.Context) EscrowRepository

	// GetLoanRepository returns a loan repository bound to the current transaction
	GetLoanRepository(ctx context.Context) LoanRepository
}
