// Package ledger exposes the audit history endpoints.
package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rewardly/admin-ledger/pkg/api"
	"github.com/rewardly/admin-ledger/pkg/history"
	"github.com/rewardly/admin-ledger/pkg/mapping"
	"github.com/rewardly/admin-ledger/pkg/middleware"
	"github.com/rewardly/admin-ledger/pkg/models"
	"github.com/rewardly/admin-ledger/pkg/permissions"
	"github.com/rewardly/admin-ledger/pkg/storage"
)

// LedgerHandler holds the dependencies for history endpoints.
type LedgerHandler struct {
	History *history.Service
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(svc *history.Service) *LedgerHandler {
	return &LedgerHandler{History: svc}
}

// ListEntries returns one page of ledger history.
func (h *LedgerHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())
	filter := filterFromQuery(r)

	page, err := h.History.Query(r.Context(), actor, filter)
	if err != nil {
		writeHistoryError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, mapping.ToApiLedgerPage(page))
}

// GetStats returns aggregate statistics for the filtered history.
func (h *LedgerHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())
	filter := filterFromQuery(r)

	stats, err := h.History.Stats(r.Context(), actor, filter)
	if err != nil {
		writeHistoryError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, mapping.ToApiLedgerStats(stats))
}

// UpdateEntryStatus moves a pending ledger entry to a terminal status.
func (h *LedgerHandler) UpdateEntryStatus(w http.ResponseWriter, r *http.Request) {
	entryID := chi.URLParam(r, "entryId")
	actor := middleware.ActorFromContext(r.Context())

	var update api.StatusUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		api.WriteError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	status := models.LedgerStatus(update.Status)
	if !status.Valid() {
		api.WriteError(w, http.StatusBadRequest, fmt.Sprintf("Unknown ledger status %q", update.Status))
		return
	}

	entry, err := h.History.UpdateEntryStatus(r.Context(), actor, entryID, status)
	if err != nil {
		writeHistoryError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, mapping.ToApiLedgerEntry(entry))
}

func filterFromQuery(r *http.Request) history.Filter {
	query := r.URL.Query()

	filter := history.Filter{
		AccountID: query.Get("account_id"),
		Search:    query.Get("search"),
		Status:    models.LedgerStatus(query.Get("status")),
		DateRange: history.DateRange(query.Get("date_range")),
	}
	if page, err := strconv.Atoi(query.Get("page")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(query.Get("limit")); err == nil {
		filter.Limit = limit
	}
	return filter
}

func writeHistoryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, permissions.ErrDenied):
		api.WriteError(w, http.StatusForbidden, "You do not have permission for this ledger operation")
	case errors.Is(err, storage.ErrNotFound):
		api.WriteError(w, http.StatusNotFound, "Ledger entry not found")
	case errors.Is(err, storage.ErrInvalidStatusTransition):
		api.WriteError(w, http.StatusConflict, "Ledger entry status can no longer change")
	default:
		slog.Error("Failed to serve ledger history", "error", err)
		api.WriteError(w, http.StatusInternalServerError, "Failed to retrieve ledger history")
	}
}
