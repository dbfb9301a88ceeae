// Package reconcile resolves ledger entries whose balance mutation had
// an unknown outcome. An entry stuck in pending is settled by comparing
// the account's authoritative balance against what the entry recorded.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rewardly/admin-ledger/pkg/models"
	"github.com/rewardly/admin-ledger/pkg/storage"
)

// Reconciler settles pending entries against account balances.
type Reconciler struct {
	store storage.Storage
}

// NewReconciler creates a new Reconciler.
func NewReconciler(store storage.Storage) *Reconciler {
	return &Reconciler{store: store}
}

// ResolveEntry settles one pending entry. When the account balance
// matches the entry's recorded balance-after, the mutation applied and
// the entry completes; when it matches balance-before, it did not and
// the entry fails. Any other balance means later transfers moved the
// account and the entry is left for an operator to decide.
func (r *Reconciler) ResolveEntry(ctx context.Context, entryID string) error {
	entry, err := r.store.GetLedgerEntry(ctx, entryID)
	if err != nil {
		return fmt.Errorf("failed to load entry %s: %w", entryID, err)
	}

	if entry.Status.Terminal() {
		return nil
	}

	account, err := r.store.GetAccount(ctx, entry.AccountID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return r.settle(ctx, entry, models.LedgerFailed)
		}
		return fmt.Errorf("failed to load account %s: %w", entry.AccountID, err)
	}

	switch account.Balance {
	case entry.BalanceAfter:
		return r.settle(ctx, entry, models.LedgerCompleted)
	case entry.BalanceBefore:
		return r.settle(ctx, entry, models.LedgerFailed)
	default:
		slog.Warn("Cannot settle entry automatically, balance moved since the transfer",
			"entry_id", entry.EntryID,
			"account_id", entry.AccountID,
			"balance", account.Balance,
			"balance_before", entry.BalanceBefore,
			"balance_after", entry.BalanceAfter,
		)
		return nil
	}
}

// SweepStale settles every entry that has sat in pending for longer
// than maxAge. One failed entry does not stop the batch.
func (r *Reconciler) SweepStale(ctx context.Context, maxAge time.Duration) (int, error) {
	stale, err := r.store.ListStalePendingEntries(ctx, maxAge)
	if err != nil {
		return 0, fmt.Errorf("failed to list stale pending entries: %w", err)
	}

	settled := 0
	for _, entry := range stale {
		if err := r.ResolveEntry(ctx, entry.EntryID); err != nil {
			slog.Error("Failed to resolve stale entry", "entry_id", entry.EntryID, "error", err)
			continue
		}
		settled++
	}
	return settled, nil
}

func (r *Reconciler) settle(ctx context.Context, entry *models.LedgerEntry, status models.LedgerStatus) error {
	_, err := r.store.UpdateLedgerEntryStatus(ctx, entry.EntryID, status)
	if err != nil {
		// Another resolver won the race; the entry is already settled.
		if errors.Is(err, storage.ErrInvalidStatusTransition) {
			return nil
		}
		return fmt.Errorf("failed to settle entry %s: %w", entry.EntryID, err)
	}

	slog.Info("Settled pending ledger entry", "entry_id", entry.EntryID, "status", status)
	return nil
}
