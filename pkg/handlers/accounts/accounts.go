// Package accounts exposes the account lookup endpoint.
package accounts

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rewardly/admin-ledger/pkg/api"
	"github.com/rewardly/admin-ledger/pkg/mapping"
	"github.com/rewardly/admin-ledger/pkg/middleware"
	"github.com/rewardly/admin-ledger/pkg/models"
	"github.com/rewardly/admin-ledger/pkg/permissions"
	"github.com/rewardly/admin-ledger/pkg/storage"
)

// AccountsHandler holds the dependencies for account endpoints.
type AccountsHandler struct {
	Store storage.AccountReader
}

// NewAccountsHandler creates a new AccountsHandler.
func NewAccountsHandler(store storage.AccountReader) *AccountsHandler {
	return &AccountsHandler{Store: store}
}

// GetAccount returns one rewards account.
func (h *AccountsHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountId")
	actor := middleware.ActorFromContext(r.Context())

	if !permissions.IsAllowed(actor.Role, models.ActionView) {
		api.WriteError(w, http.StatusForbidden, "You do not have permission to view account details")
		return
	}

	account, err := h.Store.GetAccount(r.Context(), accountID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			api.WriteError(w, http.StatusNotFound, "Account not found")
			return
		}
		slog.Error("Failed to retrieve account", "account_id", accountID, "error", err)
		api.WriteError(w, http.StatusInternalServerError, "Failed to retrieve account")
		return
	}

	api.WriteJSON(w, http.StatusOK, mapping.ToApiAccount(account))
}
