package transfer

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rewardly/admin-ledger/pkg/approval"
	"github.com/rewardly/admin-ledger/pkg/events"
	"github.com/rewardly/admin-ledger/pkg/models"
	"github.com/rewardly/admin-ledger/pkg/permissions"
	"github.com/rewardly/admin-ledger/pkg/scheduler"
	"github.com/rewardly/admin-ledger/pkg/storage"
)

const (
	// MaxTransferAmount caps a single transfer, in coins.
	MaxTransferAmount = 10000

	// MinReasonLength is the minimum length of a trimmed transfer reason.
	MinReasonLength = 5
)

// Result is the outcome of a successful transfer. Account carries the
// authoritative post-transfer snapshot from the reconciliation read, or nil
// if that read failed; Warning explains why without failing the transfer.
type Result struct {
	Entry   *models.LedgerEntry
	Account *models.Account
	Warning string
}

// Executor defines the interface for executing a balance transfer.
type Executor interface {
	Execute(ctx context.Context, actor models.Actor, accountID string, amount int64, reason string, approvalState *approval.Summary) (*Result, error)
}

// Engine validates and executes balance mutations, producing one ledger entry
// per successful call. It never retries internally: a retry is the caller's
// explicit decision and produces a new transaction ID.
type Engine struct {
	accounts  storage.AccountStore
	ledger    storage.LedgerAppender
	publisher events.Publisher
	scheduler scheduler.Scheduler

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewEngine creates a new Engine. publisher and sched may be nil; console
// notifications and unknown-outcome reconciliation are then skipped.
func NewEngine(accounts storage.AccountStore, ledger storage.LedgerAppender, publisher events.Publisher, sched scheduler.Scheduler) *Engine {
	return &Engine{
		accounts:  accounts,
		ledger:    ledger,
		publisher: publisher,
		scheduler: sched,
		locks:     make(map[string]*sync.Mutex),
	}
}

// Make sure we conform to the interface
var _ Executor = (*Engine)(nil)

// Execute runs the precondition chain and, if it passes, applies exactly one
// balance mutation and appends exactly one ledger entry.
//
// Preconditions are checked in a fixed order, short-circuiting on the first
// failure: actor permission, approval completeness, identity reference,
// amount bounds, reason length. Mutations against the same account are
// serialized through a per-account lock so a concurrent transfer cannot read
// a stale balance; the compare-and-set in the store backs this up across
// processes.
func (e *Engine) Execute(ctx context.Context, actor models.Actor, accountID string, amount int64, reason string, approvalState *approval.Summary) (*Result, error) {
	if !permissions.IsAllowed(actor.Role, models.ActionTransfer) {
		return nil, permissions.ErrDenied
	}

	if approvalState != nil && !approvalState.AllApproved {
		return nil, ErrApprovalIncomplete
	}

	lock := e.accountLock(accountID)
	lock.Lock()
	defer lock.Unlock()

	account, err := e.accounts.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if account.ExternalIdentityRef == "" {
		return nil, ErrMissingIdentityRef
	}

	if amount <= 0 || amount > MaxTransferAmount {
		return nil, ErrInvalidAmount
	}

	if len(strings.TrimSpace(reason)) < MinReasonLength {
		return nil, ErrInvalidReason
	}

	balanceBefore := account.Balance
	balanceAfter := balanceBefore + amount

	now := time.Now()
	entry := &models.LedgerEntry{
		EntryID:         uuid.New().String(),
		TransactionID:   uuid.New().String(),
		AccountID:       account.AccountID,
		AccountName:     account.DisplayName,
		AccountEmail:    account.Email,
		Amount:          amount,
		Reason:          strings.TrimSpace(reason),
		BalanceBefore:   balanceBefore,
		BalanceAfter:    balanceAfter,
		PerformedByID:   actor.ID,
		PerformedByName: actor.DisplayName,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := e.accounts.CompareAndSetBalance(ctx, accountID, balanceBefore, balanceAfter); err != nil {
		mutErr := &RemoteMutationError{Cause: err, UnknownOutcome: isUnknownOutcome(err)}
		if mutErr.UnknownOutcome {
			// The mutation may have applied. Record the attempt as a pending
			// entry and hand it to the reconciler; the operator is told to
			// check history before retrying.
			entry.Status = models.LedgerPending
			if appendErr := e.ledger.AppendLedgerEntry(ctx, entry); appendErr != nil {
				slog.Error("CRITICAL: unknown-outcome transfer could not be recorded", "transactionId", entry.TransactionID, "error", appendErr)
			} else if e.scheduler != nil {
				task := scheduler.ReconcileTask{
					EntryID:       entry.EntryID,
					TransactionID: entry.TransactionID,
					AccountID:     accountID,
					Reason:        entry.Reason,
					EnqueuedAt:    now,
				}
				if schedErr := e.scheduler.EnqueueReconciliation(ctx, task); schedErr != nil {
					slog.Error("CRITICAL: failed to enqueue reconciliation task", "transactionId", entry.TransactionID, "error", schedErr)
				}
			}
		}
		return nil, mutErr
	}

	entry.Status = models.LedgerCompleted
	if err := e.ledger.AppendLedgerEntry(ctx, entry); err != nil {
		// The balance is already updated; surfacing this as an error keeps
		// the missing audit record from going unnoticed.
		slog.Error("CRITICAL: balance updated but ledger append failed", "transactionId", entry.TransactionID, "accountId", accountID, "error", err)
		return nil, err
	}

	result := &Result{Entry: entry}

	// Reconciliation read: best effort correction of the optimistic numbers.
	// The transfer already succeeded, so a failure here is only a warning.
	reconciled, err := e.accounts.GetAccount(ctx, accountID)
	if err != nil {
		slog.Warn("reconciliation read failed after transfer", "accountId", accountID, "error", err)
		result.Warning = "transfer applied, but the account could not be re-read to confirm the new balance"
	} else {
		result.Account = reconciled
	}

	if e.publisher != nil {
		msg := events.Message{
			Type: events.MessageTypeBalanceUpdate,
			Payload: events.BalanceUpdatePayload{
				AccountID:     accountID,
				TransactionID: entry.TransactionID,
				Change:        amount,
				NewBalance:    balanceAfter,
			},
		}
		if err := e.publisher.Publish(ctx, msg); err != nil {
			slog.Error("failed to publish balance update", "accountId", accountID, "error", err)
		}
	}

	return result, nil
}

// accountLock returns the mutex serializing mutations for one account.
// Locks are kept for the life of the engine, one per distinct account ever
// transferred to; the store's compare-and-set remains the correctness
// backstop if this map were ever evicted.
func (e *Engine) accountLock(accountID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()

	lock, ok := e.locks[accountID]
	if !ok {
		lock = &sync.Mutex{}
		e.locks[accountID] = lock
	}
	return lock
}

// isUnknownOutcome reports whether the failed mutation may still have applied
// server-side. Timeouts and cancellations leave the outcome in doubt; a
// definite rejection such as a balance conflict does not.
func isUnknownOutcome(err error) bool {
	if errors.Is(err, storage.ErrBalanceConflict) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
