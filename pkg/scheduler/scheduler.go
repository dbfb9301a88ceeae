package scheduler

import (
	"context"
	"time"
)

// ReconcileTask describes one transfer whose outcome must be verified against
// the authoritative account state. Tasks are produced when a balance mutation
// times out with an unknown outcome, and consumed by the reconciler.
type ReconcileTask struct {
	EntryID       string    `json:"entry_id"`
	TransactionID string    `json:"transaction_id"`
	AccountID     string    `json:"account_id"`
	Reason        string    `json:"reason"`
	EnqueuedAt    time.Time `json:"enqueued_at"`
}

// Scheduler defines the interface for a component that enqueues a
// reconciliation task for asynchronous processing.
type Scheduler interface {
	// EnqueueReconciliation enqueues a task for the reconciler.
	EnqueueReconciliation(ctx context.Context, task ReconcileTask) error
}
