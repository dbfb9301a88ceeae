// Package handlers assembles the HTTP surface of the admin console API.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rewardly/admin-ledger/pkg/handlers/accounts"
	"github.com/rewardly/admin-ledger/pkg/handlers/approvals"
	"github.com/rewardly/admin-ledger/pkg/handlers/console"
	"github.com/rewardly/admin-ledger/pkg/handlers/ledger"
	"github.com/rewardly/admin-ledger/pkg/handlers/transfers"
	"github.com/rewardly/admin-ledger/pkg/handlers/withdrawals"
	"github.com/rewardly/admin-ledger/pkg/history"
	"github.com/rewardly/admin-ledger/pkg/middleware"
	"github.com/rewardly/admin-ledger/pkg/storage"
	"github.com/rewardly/admin-ledger/pkg/transfer"
	withdrawalsvc "github.com/rewardly/admin-ledger/pkg/withdrawals"
)

// Dependencies collects everything the router needs. ConsoleConnections is
// optional; when set, a local websocket endpoint is mounted at /ws.
type Dependencies struct {
	Store              storage.ApiStore
	Engine             transfer.Executor
	History            *history.Service
	Withdrawals        *withdrawalsvc.Service
	ConsoleConnections storage.ConsoleConnectionManager
	Logger             *slog.Logger
}

// NewRouter builds the chi router with all admin console routes mounted
// behind the logging and operator identity middleware.
func NewRouter(deps Dependencies) http.Handler {
	transfersHandler := transfers.NewTransfersHandler(deps.Engine)
	ledgerHandler := ledger.NewLedgerHandler(deps.History)
	withdrawalsHandler := withdrawals.NewWithdrawalsHandler(deps.Withdrawals)
	approvalsHandler := approvals.NewApprovalsHandler()
	accountsHandler := accounts.NewAccountsHandler(deps.Store)

	router := chi.NewRouter()
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.NewStructuredLogger(deps.Logger))

	// The websocket upgrade carries no operator headers, so it sits outside
	// the actor middleware.
	if deps.ConsoleConnections != nil {
		consoleHandler := console.NewHandler(deps.ConsoleConnections)
		router.Get("/ws", consoleHandler.ServeHTTP)
	}

	router.Group(func(r chi.Router) {
		r.Use(middleware.WithActor)

		r.Post("/accounts/{accountId}/transfers", transfersHandler.CreateTransfer)
		r.Get("/accounts/{accountId}", accountsHandler.GetAccount)

		r.Get("/ledger", ledgerHandler.ListEntries)
		r.Get("/ledger/stats", ledgerHandler.GetStats)
		r.Patch("/ledger/{entryId}/status", ledgerHandler.UpdateEntryStatus)

		r.Get("/withdrawals", withdrawalsHandler.ListRequests)
		r.Patch("/withdrawals/{requestId}", withdrawalsHandler.DecideRequest)

		r.Post("/approvals/evaluate", approvalsHandler.EvaluateChecklist)
	})

	return router
}
