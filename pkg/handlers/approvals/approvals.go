// Package approvals exposes the checklist evaluation endpoint.
package approvals

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rewardly/admin-ledger/pkg/api"
	"github.com/rewardly/admin-ledger/pkg/approval"
	"github.com/rewardly/admin-ledger/pkg/mapping"
	"github.com/rewardly/admin-ledger/pkg/middleware"
	"github.com/rewardly/admin-ledger/pkg/models"
	"github.com/rewardly/admin-ledger/pkg/permissions"
)

// ApprovalsHandler evaluates approval checklists for the console.
type ApprovalsHandler struct{}

// NewApprovalsHandler creates a new ApprovalsHandler.
func NewApprovalsHandler() *ApprovalsHandler {
	return &ApprovalsHandler{}
}

// EvaluateChecklist reports whether a checklist clears the transfer gate.
func (h *ApprovalsHandler) EvaluateChecklist(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())
	if !permissions.IsAllowed(actor.Role, models.ActionView) {
		api.WriteError(w, http.StatusForbidden, "You do not have permission to view approvals")
		return
	}

	var evaluation api.ApprovalEvaluation
	if err := json.NewDecoder(r.Body).Decode(&evaluation); err != nil {
		api.WriteError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	summary := approval.Evaluate(mapping.ToDomainApprovalItems(evaluation.Items))
	api.WriteJSON(w, http.StatusOK, mapping.ToApiApprovalSummary(summary))
}
