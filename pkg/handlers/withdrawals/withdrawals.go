// Package withdrawals exposes the withdrawal review endpoints.
package withdrawals

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rewardly/admin-ledger/pkg/api"
	"github.com/rewardly/admin-ledger/pkg/mapping"
	"github.com/rewardly/admin-ledger/pkg/middleware"
	"github.com/rewardly/admin-ledger/pkg/models"
	"github.com/rewardly/admin-ledger/pkg/permissions"
	"github.com/rewardly/admin-ledger/pkg/storage"
	"github.com/rewardly/admin-ledger/pkg/withdrawals"
)

// WithdrawalsHandler holds the dependencies for withdrawal endpoints.
type WithdrawalsHandler struct {
	Service *withdrawals.Service
}

// NewWithdrawalsHandler creates a new WithdrawalsHandler.
func NewWithdrawalsHandler(svc *withdrawals.Service) *WithdrawalsHandler {
	return &WithdrawalsHandler{Service: svc}
}

// ListRequests returns withdrawal requests, optionally filtered by status.
func (h *WithdrawalsHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())

	var status *models.WithdrawalStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := models.WithdrawalStatus(raw)
		status = &s
	}

	requests, err := h.Service.List(r.Context(), actor, status)
	if err != nil {
		writeWithdrawalError(w, err)
		return
	}

	payload := make([]*api.WithdrawalRequest, len(requests))
	for i := range requests {
		payload[i] = mapping.ToApiWithdrawalRequest(&requests[i])
	}
	api.WriteJSON(w, http.StatusOK, payload)
}

// DecideRequest moves a pending withdrawal request to a terminal status.
func (h *WithdrawalsHandler) DecideRequest(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "requestId")
	actor := middleware.ActorFromContext(r.Context())

	var update api.StatusUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		api.WriteError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	updated, err := h.Service.Transition(r.Context(), actor, requestID, models.WithdrawalStatus(update.Status))
	if err != nil {
		writeWithdrawalError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, mapping.ToApiWithdrawalRequest(updated))
}

func writeWithdrawalError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, permissions.ErrDenied):
		api.WriteError(w, http.StatusForbidden, "You do not have permission to decide withdrawal requests")
	case errors.Is(err, withdrawals.ErrInvalidTargetStatus):
		api.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, storage.ErrNotFound):
		api.WriteError(w, http.StatusNotFound, "Withdrawal request not found")
	case errors.Is(err, storage.ErrAlreadyTerminal):
		api.WriteError(w, http.StatusConflict, "Withdrawal request has already been decided")
	default:
		slog.Error("Failed to serve withdrawal request", "error", err)
		api.WriteError(w, http.StatusInternalServerError, "Failed to process withdrawal request")
	}
}
