package transfers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rewardly/admin-ledger/pkg/api"
	"github.com/rewardly/admin-ledger/pkg/approval"
	"github.com/rewardly/admin-ledger/pkg/middleware"
	"github.com/rewardly/admin-ledger/pkg/models"
	"github.com/rewardly/admin-ledger/pkg/permissions"
	"github.com/rewardly/admin-ledger/pkg/storage"
	"github.com/rewardly/admin-ledger/pkg/transfer"
	transfer_mocks "github.com/rewardly/admin-ledger/pkg/transfer/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var editor = models.Actor{ID: "op-1", DisplayName: "Edna Editor", Role: models.RoleEditor}

func newTransferRequest(t *testing.T, actor models.Actor, body interface{}) *http.Request {
	t.Helper()

	raw, err := json.Marshal(body)
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/accounts/acct-1/transfers", bytes.NewReader(raw))
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("accountId", "acct-1")
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	return req.WithContext(middleware.ContextWithActor(ctx, actor))
}

func TestCreateTransfer(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockEngine := new(transfer_mocks.Executor)
		handler := NewTransfersHandler(mockEngine)

		result := &transfer.Result{
			Entry: &models.LedgerEntry{
				EntryID:       "e1",
				TransactionID: "TXN-1",
				AccountID:     "acct-1",
				Amount:        50,
				Status:        models.LedgerCompleted,
				CreatedAt:     time.Now(),
			},
			Account: &models.Account{AccountID: "acct-1", Balance: 150},
		}
		mockEngine.On("Execute", mock.Anything, editor, "acct-1", int64(50), "Monthly bonus", (*approval.Summary)(nil)).Return(result, nil)

		rr := httptest.NewRecorder()
		handler.CreateTransfer(rr, newTransferRequest(t, editor, api.NewTransfer{Amount: 50, Reason: "Monthly bonus"}))

		assert.Equal(t, http.StatusCreated, rr.Code)
		var envelope api.Envelope
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &envelope))
		assert.True(t, envelope.Success)
		mockEngine.AssertExpectations(t)
	})

	t.Run("Approval Items Are Evaluated Before Executing", func(t *testing.T) {
		mockEngine := new(transfer_mocks.Executor)
		handler := NewTransfersHandler(mockEngine)

		result := &transfer.Result{Entry: &models.LedgerEntry{EntryID: "e1"}}
		mockEngine.On("Execute", mock.Anything, editor, "acct-1", int64(30), "Quest reward", mock.MatchedBy(func(summary *approval.Summary) bool {
			return summary != nil && summary.AllApproved && summary.TotalReward == 30
		})).Return(result, nil)

		body := api.NewTransfer{
			Amount: 30,
			Reason: "Quest reward",
			ApprovalItems: []api.ApprovalItem{
				{ItemID: "i1", RewardAmount: 30, Approved: true},
			},
		}
		rr := httptest.NewRecorder()
		handler.CreateTransfer(rr, newTransferRequest(t, editor, body))

		assert.Equal(t, http.StatusCreated, rr.Code)
		mockEngine.AssertExpectations(t)
	})

	t.Run("Malformed Body", func(t *testing.T) {
		mockEngine := new(transfer_mocks.Executor)
		handler := NewTransfersHandler(mockEngine)

		req := httptest.NewRequest(http.MethodPost, "/accounts/acct-1/transfers", bytes.NewReader([]byte(`{"amount": "lots"}`)))
		req = req.WithContext(middleware.ContextWithActor(req.Context(), editor))
		rr := httptest.NewRecorder()
		handler.CreateTransfer(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockEngine.AssertNotCalled(t, "Execute")
	})

	t.Run("Error Mapping", func(t *testing.T) {
		cases := []struct {
			name   string
			err    error
			status int
		}{
			{"Permission Denied", permissions.ErrDenied, http.StatusForbidden},
			{"Approval Incomplete", transfer.ErrApprovalIncomplete, http.StatusUnprocessableEntity},
			{"Missing Identity Reference", transfer.ErrMissingIdentityRef, http.StatusUnprocessableEntity},
			{"Invalid Amount", transfer.ErrInvalidAmount, http.StatusBadRequest},
			{"Invalid Reason", transfer.ErrInvalidReason, http.StatusBadRequest},
			{"Account Not Found", storage.ErrNotFound, http.StatusNotFound},
			{"Balance Conflict", &transfer.RemoteMutationError{Cause: storage.ErrBalanceConflict}, http.StatusConflict},
			{"Unknown Outcome", &transfer.RemoteMutationError{Cause: context.DeadlineExceeded, UnknownOutcome: true}, http.StatusBadGateway},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				mockEngine := new(transfer_mocks.Executor)
				handler := NewTransfersHandler(mockEngine)
				mockEngine.On("Execute", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, tc.err)

				rr := httptest.NewRecorder()
				handler.CreateTransfer(rr, newTransferRequest(t, editor, api.NewTransfer{Amount: 50, Reason: "Monthly bonus"}))

				assert.Equal(t, tc.status, rr.Code)
				var envelope api.Envelope
				assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &envelope))
				assert.False(t, envelope.Success)
				assert.NotEmpty(t, envelope.Message)
			})
		}
	})

	t.Run("Reconciliation Warning Is Passed Through", func(t *testing.T) {
		mockEngine := new(transfer_mocks.Executor)
		handler := NewTransfersHandler(mockEngine)

		result := &transfer.Result{
			Entry:   &models.LedgerEntry{EntryID: "e1", Status: models.LedgerCompleted},
			Warning: "transfer applied, but the account could not be re-read to confirm the new balance",
		}
		mockEngine.On("Execute", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(result, nil)

		rr := httptest.NewRecorder()
		handler.CreateTransfer(rr, newTransferRequest(t, editor, api.NewTransfer{Amount: 50, Reason: "Monthly bonus"}))

		assert.Equal(t, http.StatusCreated, rr.Code)
		var envelope struct {
			Success bool               `json:"success"`
			Data    api.TransferResult `json:"data"`
		}
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &envelope))
		assert.NotEmpty(t, envelope.Data.Warning)
		assert.Nil(t, envelope.Data.Account)
	})
}
