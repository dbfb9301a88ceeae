package storage

import (
	"context"

	"github.com/rewardly/admin-ledger/pkg/models"
)

// AccountReader defines the interface for reading account snapshots.
type AccountReader interface {
	// GetAccount retrieves an account by its ID.
	GetAccount(ctx context.Context, accountID string) (*models.Account, error)
}

// AccountMutator defines the single write path for account balances.
type AccountMutator interface {
	// CompareAndSetBalance sets the account balance to newBalance only if the
	// stored balance still equals expectedBalance. A lost race returns
	// ErrBalanceConflict and leaves the account untouched.
	CompareAndSetBalance(ctx context.Context, accountID string, expectedBalance, newBalance int64) error
}

// AccountStore combines account reads with the balance write path.
type AccountStore interface {
	AccountReader
	AccountMutator
}
