package storage

import (
	"context"
	"time"

	"github.com/rewardly/admin-ledger/pkg/models"
)

// LedgerAppender defines the interface for adding audit records. Entries are
// append-only; nothing in the data layer removes them.
type LedgerAppender interface {
	// AppendLedgerEntry persists a new ledger entry. The entry ID must be
	// fresh; appending an existing ID fails.
	AppendLedgerEntry(ctx context.Context, entry *models.LedgerEntry) error
}

// LedgerReader defines the interface for reading ledger data.
type LedgerReader interface {
	// GetLedgerEntry retrieves a single entry, or ErrNotFound.
	GetLedgerEntry(ctx context.Context, entryID string) (*models.LedgerEntry, error)

	// ListLedgerEntries retrieves all ledger entries, newest first.
	ListLedgerEntries(ctx context.Context) ([]models.LedgerEntry, error)

	// ListLedgerEntriesByAccount retrieves the entries for one account, newest first.
	ListLedgerEntriesByAccount(ctx context.Context, accountID string) ([]models.LedgerEntry, error)
}

// LedgerStatusUpdater defines the sole mutation path for existing entries.
type LedgerStatusUpdater interface {
	// UpdateLedgerEntryStatus moves an entry between pending and a terminal
	// status and returns the updated entry. Moving a terminal entry back to
	// pending fails with ErrInvalidStatusTransition; an unknown entry ID
	// fails with ErrNotFound.
	UpdateLedgerEntryStatus(ctx context.Context, entryID string, status models.LedgerStatus) (*models.LedgerEntry, error)
}

// LedgerStore combines all ledger operations.
type LedgerStore interface {
	LedgerAppender
	LedgerReader
	LedgerStatusUpdater
}

// ReconcilerStore is the privileged interface used by the scheduled
// reconciliation sweep. It should only be exposed to that component.
type ReconcilerStore interface {
	// ListStalePendingEntries retrieves ledger entries that have sat in the
	// pending status for longer than maxAge.
	ListStalePendingEntries(ctx context.Context, maxAge time.Duration) ([]models.LedgerEntry, error)
}
