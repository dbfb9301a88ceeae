package storage

import (
	"context"

	"github.com/rewardly/admin-ledger/pkg/models"
)

// WithdrawalStore defines the interface for the withdrawal request queue.
// Requests are created by the end-user-facing system; the admin core only
// reads them and records terminal decisions.
type WithdrawalStore interface {
	// GetWithdrawalRequest retrieves a withdrawal request by its ID.
	GetWithdrawalRequest(ctx context.Context, requestID string) (*models.WithdrawalRequest, error)

	// ListWithdrawalRequests retrieves withdrawal requests, newest first,
	// optionally filtered by status.
	ListWithdrawalRequests(ctx context.Context, status *models.WithdrawalStatus) ([]models.WithdrawalRequest, error)

	// TransitionWithdrawalRequest moves a pending request to the given
	// terminal status and returns the updated request. A request that is no
	// longer pending fails with ErrAlreadyTerminal; an unknown request ID
	// fails with ErrNotFound.
	TransitionWithdrawalRequest(ctx context.Context, requestID string, to models.WithdrawalStatus, decidedBy models.Actor) (*models.WithdrawalRequest, error)
}
