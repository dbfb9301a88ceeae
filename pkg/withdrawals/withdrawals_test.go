package withdrawals_test

import (
	"context"
	"testing"
	"time"

	"github.com/rewardly/admin-ledger/pkg/events"
	"github.com/rewardly/admin-ledger/pkg/models"
	"github.com/rewardly/admin-ledger/pkg/permissions"
	"github.com/rewardly/admin-ledger/pkg/storage"
	"github.com/rewardly/admin-ledger/pkg/storage/mocks"
	"github.com/rewardly/admin-ledger/pkg/withdrawals"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var (
	editor = models.Actor{ID: "op-1", DisplayName: "Edna Editor", Role: models.RoleEditor}
	viewer = models.Actor{ID: "op-2", DisplayName: "Vic Viewer", Role: models.RoleViewer}
)

func pendingRequest() *models.WithdrawalRequest {
	return &models.WithdrawalRequest{
		RequestID:     "wd-1",
		AccountID:     "acct-1",
		Amount:        500,
		WalletAddress: "0xabc",
		Status:        models.WithdrawalPending,
		CreatedAt:     time.Now().Add(-time.Hour),
	}
}

func TestTransition(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		store := new(mocks.Storage)
		decided := pendingRequest()
		decided.Status = models.WithdrawalCompleted
		decided.DecidedByID = editor.ID
		decided.DecidedByName = editor.DisplayName
		store.On("TransitionWithdrawalRequest", mock.Anything, "wd-1", models.WithdrawalCompleted, editor).Return(decided, nil)

		svc := withdrawals.NewService(store, &events.NoOpPublisher{})
		updated, err := svc.Transition(ctx, editor, "wd-1", models.WithdrawalCompleted)

		assert.NoError(t, err)
		assert.Equal(t, models.WithdrawalCompleted, updated.Status)
		assert.Equal(t, "op-1", updated.DecidedByID)
		store.AssertExpectations(t)
	})

	t.Run("Rejection Is A Valid Outcome", func(t *testing.T) {
		store := new(mocks.Storage)
		decided := pendingRequest()
		decided.Status = models.WithdrawalRejected
		store.On("TransitionWithdrawalRequest", mock.Anything, "wd-1", models.WithdrawalRejected, editor).Return(decided, nil)

		svc := withdrawals.NewService(store, nil)
		updated, err := svc.Transition(ctx, editor, "wd-1", models.WithdrawalRejected)

		assert.NoError(t, err)
		assert.Equal(t, models.WithdrawalRejected, updated.Status)
	})

	t.Run("Viewer Cannot Decide", func(t *testing.T) {
		store := new(mocks.Storage)

		svc := withdrawals.NewService(store, nil)
		_, err := svc.Transition(ctx, viewer, "wd-1", models.WithdrawalCompleted)

		assert.ErrorIs(t, err, permissions.ErrDenied)
		store.AssertNotCalled(t, "TransitionWithdrawalRequest")
	})

	t.Run("Pending Is Not A Valid Target", func(t *testing.T) {
		store := new(mocks.Storage)

		svc := withdrawals.NewService(store, nil)
		_, err := svc.Transition(ctx, editor, "wd-1", models.WithdrawalPending)

		assert.ErrorIs(t, err, withdrawals.ErrInvalidTargetStatus)
		store.AssertNotCalled(t, "TransitionWithdrawalRequest")
	})

	t.Run("Unknown Status Is Rejected", func(t *testing.T) {
		store := new(mocks.Storage)

		svc := withdrawals.NewService(store, nil)
		_, err := svc.Transition(ctx, editor, "wd-1", models.WithdrawalStatus("frozen"))

		assert.ErrorIs(t, err, withdrawals.ErrInvalidTargetStatus)
	})

	t.Run("Already Decided Request Stays Decided", func(t *testing.T) {
		store := new(mocks.Storage)
		store.On("TransitionWithdrawalRequest", mock.Anything, "wd-1", models.WithdrawalFailed, editor).Return(nil, storage.ErrAlreadyTerminal)

		svc := withdrawals.NewService(store, nil)
		_, err := svc.Transition(ctx, editor, "wd-1", models.WithdrawalFailed)

		assert.ErrorIs(t, err, storage.ErrAlreadyTerminal)
	})

	t.Run("Unknown Request", func(t *testing.T) {
		store := new(mocks.Storage)
		store.On("TransitionWithdrawalRequest", mock.Anything, "missing", models.WithdrawalCompleted, editor).Return(nil, storage.ErrNotFound)

		svc := withdrawals.NewService(store, nil)
		_, err := svc.Transition(ctx, editor, "missing", models.WithdrawalCompleted)

		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestList(t *testing.T) {
	ctx := context.Background()

	t.Run("All Requests", func(t *testing.T) {
		store := new(mocks.Storage)
		store.On("ListWithdrawalRequests", mock.Anything, (*models.WithdrawalStatus)(nil)).Return([]models.WithdrawalRequest{*pendingRequest()}, nil)

		svc := withdrawals.NewService(store, nil)
		requests, err := svc.List(ctx, viewer, nil)

		assert.NoError(t, err)
		assert.Len(t, requests, 1)
	})

	t.Run("Filtered By Status", func(t *testing.T) {
		store := new(mocks.Storage)
		status := models.WithdrawalPending
		store.On("ListWithdrawalRequests", mock.Anything, &status).Return([]models.WithdrawalRequest{*pendingRequest()}, nil)

		svc := withdrawals.NewService(store, nil)
		requests, err := svc.List(ctx, viewer, &status)

		assert.NoError(t, err)
		assert.Len(t, requests, 1)
	})

	t.Run("Bad Status Filter", func(t *testing.T) {
		store := new(mocks.Storage)
		status := models.WithdrawalStatus("frozen")

		svc := withdrawals.NewService(store, nil)
		_, err := svc.List(ctx, viewer, &status)

		assert.ErrorIs(t, err, withdrawals.ErrInvalidTargetStatus)
	})
}

func TestGet(t *testing.T) {
	store := new(mocks.Storage)
	store.On("GetWithdrawalRequest", mock.Anything, "wd-1").Return(pendingRequest(), nil)

	svc := withdrawals.NewService(store, nil)
	request, err := svc.Get(context.Background(), viewer, "wd-1")

	assert.NoError(t, err)
	assert.Equal(t, "wd-1", request.RequestID)
}
