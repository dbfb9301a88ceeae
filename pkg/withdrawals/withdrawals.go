// Package withdrawals drives the review workflow for account withdrawal
// requests. Operators move a pending request to exactly one terminal
// state; the store enforces that the transition happens at most once.
package withdrawals

import (
	"context"
	"errors"
	"log/slog"

	"github.com/rewardly/admin-ledger/pkg/events"
	"github.com/rewardly/admin-ledger/pkg/models"
	"github.com/rewardly/admin-ledger/pkg/permissions"
	"github.com/rewardly/admin-ledger/pkg/storage"
)

// ErrInvalidTargetStatus is returned when a transition names a status
// that is not one of the terminal outcomes.
var ErrInvalidTargetStatus = errors.New("withdrawal target status must be completed, failed, or rejected")

type Service struct {
	store     storage.WithdrawalStore
	publisher events.Publisher
}

// NewService builds a withdrawal review service. The publisher may be
// nil when no console push is configured.
func NewService(store storage.WithdrawalStore, publisher events.Publisher) *Service {
	return &Service{store: store, publisher: publisher}
}

// List returns withdrawal requests, optionally narrowed to one status.
func (s *Service) List(ctx context.Context, actor models.Actor, status *models.WithdrawalStatus) ([]models.WithdrawalRequest, error) {
	if !permissions.IsAllowed(actor.Role, models.ActionView) {
		return nil, permissions.ErrDenied
	}
	if status != nil && !status.Valid() {
		return nil, ErrInvalidTargetStatus
	}
	return s.store.ListWithdrawalRequests(ctx, status)
}

// Get returns a single withdrawal request.
func (s *Service) Get(ctx context.Context, actor models.Actor, requestID string) (*models.WithdrawalRequest, error) {
	if !permissions.IsAllowed(actor.Role, models.ActionView) {
		return nil, permissions.ErrDenied
	}
	return s.store.GetWithdrawalRequest(ctx, requestID)
}

// Transition moves a pending request to a terminal status and records
// which operator decided it. A request that already reached a terminal
// status stays there; the store reports storage.ErrAlreadyTerminal.
func (s *Service) Transition(ctx context.Context, actor models.Actor, requestID string, to models.WithdrawalStatus) (*models.WithdrawalRequest, error) {
	if !permissions.IsAllowed(actor.Role, models.ActionTransfer) {
		return nil, permissions.ErrDenied
	}
	if !to.Valid() || !to.Terminal() {
		return nil, ErrInvalidTargetStatus
	}

	updated, err := s.store.TransitionWithdrawalRequest(ctx, requestID, to, actor)
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		payload := events.WithdrawalDecisionPayload{
			RequestID: updated.RequestID,
			AccountID: updated.AccountID,
			Status:    string(updated.Status),
		}
		if err := s.publisher.Publish(ctx, events.Message{Type: events.MessageTypeWithdrawalDecision, Payload: payload}); err != nil {
			slog.Warn("Failed to publish withdrawal decision", "request_id", updated.RequestID, "error", err)
		}
	}

	return updated, nil
}
