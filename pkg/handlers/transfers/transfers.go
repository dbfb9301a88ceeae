// Package transfers exposes the balance transfer endpoint.
package transfers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rewardly/admin-ledger/pkg/api"
	"github.com/rewardly/admin-ledger/pkg/approval"
	"github.com/rewardly/admin-ledger/pkg/mapping"
	"github.com/rewardly/admin-ledger/pkg/middleware"
	"github.com/rewardly/admin-ledger/pkg/permissions"
	"github.com/rewardly/admin-ledger/pkg/storage"
	"github.com/rewardly/admin-ledger/pkg/transfer"
)

// TransfersHandler holds the dependencies for transfer endpoints.
type TransfersHandler struct {
	Engine transfer.Executor
}

// NewTransfersHandler creates a new TransfersHandler.
func NewTransfersHandler(engine transfer.Executor) *TransfersHandler {
	return &TransfersHandler{Engine: engine}
}

// CreateTransfer credits an account and records the audit ledger entry.
func (h *TransfersHandler) CreateTransfer(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountId")
	actor := middleware.ActorFromContext(r.Context())

	var newTransfer api.NewTransfer
	if err := json.NewDecoder(r.Body).Decode(&newTransfer); err != nil {
		api.WriteError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	var approvalState *approval.Summary
	if newTransfer.ApprovalItems != nil {
		summary := approval.Evaluate(mapping.ToDomainApprovalItems(newTransfer.ApprovalItems))
		approvalState = &summary
	}

	result, err := h.Engine.Execute(r.Context(), actor, accountID, newTransfer.Amount, newTransfer.Reason, approvalState)
	if err != nil {
		writeTransferError(w, accountID, err)
		return
	}

	payload := api.TransferResult{
		Entry:   mapping.ToApiLedgerEntry(result.Entry),
		Warning: result.Warning,
	}
	if result.Account != nil {
		payload.Account = mapping.ToApiAccount(result.Account)
	}
	api.WriteJSON(w, http.StatusCreated, payload)
}

func writeTransferError(w http.ResponseWriter, accountID string, err error) {
	var remote *transfer.RemoteMutationError

	switch {
	case errors.Is(err, permissions.ErrDenied):
		api.WriteError(w, http.StatusForbidden, "You do not have permission to transfer coins")
	case errors.Is(err, transfer.ErrApprovalIncomplete):
		api.WriteError(w, http.StatusUnprocessableEntity, "All items must be approved before transferring")
	case errors.Is(err, transfer.ErrMissingIdentityRef):
		api.WriteError(w, http.StatusUnprocessableEntity, "Account is missing its external identity reference")
	case errors.Is(err, transfer.ErrInvalidAmount), errors.Is(err, transfer.ErrInvalidReason):
		api.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, storage.ErrNotFound):
		api.WriteError(w, http.StatusNotFound, "Account not found")
	case errors.Is(err, storage.ErrBalanceConflict):
		api.WriteError(w, http.StatusConflict, "Account balance changed during the transfer, no coins were moved")
	case errors.As(err, &remote) && remote.UnknownOutcome:
		slog.Error("CRITICAL: transfer outcome unknown", "account_id", accountID, "error", err)
		api.WriteError(w, http.StatusBadGateway, "Transfer status is unknown, check the ledger history before retrying")
	default:
		slog.Error("Failed to execute transfer", "account_id", accountID, "error", err)
		api.WriteError(w, http.StatusInternalServerError, "Failed to execute transfer")
	}
}
