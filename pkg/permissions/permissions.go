package permissions

import (
	"errors"

	"github.com/rewardly/admin-ledger/pkg/models"
)

// ErrDenied is returned by callers when IsAllowed reports false. IsAllowed
// itself never fails; the sentinel exists so services can surface a
// permission failure through errors.Is.
var ErrDenied = errors.New("permission denied")

// capabilities maps each role to its closed set of allowed actions. A role or
// action missing from the table is denied.
var capabilities = map[models.Role]map[models.Action]struct{}{
	models.RoleSuperadmin: actionSet(
		models.ActionView,
		models.ActionCreate,
		models.ActionEdit,
		models.ActionDelete,
		models.ActionTransfer,
		models.ActionViewHistory,
		models.ActionViewScreenshots,
		models.ActionEditTransfer,
		models.ActionBanUser,
		models.ActionUpdateProfile,
		models.ActionViewSensitiveData,
		models.ActionViewProfile,
	),
	models.RoleEditor: actionSet(
		models.ActionView,
		models.ActionCreate,
		models.ActionEdit,
		models.ActionTransfer,
		models.ActionViewHistory,
		models.ActionViewScreenshots,
		models.ActionEditTransfer,
		models.ActionViewDetails,
	),
	models.RoleViewer: actionSet(
		models.ActionView,
		models.ActionViewHistory,
		models.ActionViewScreenshots,
		models.ActionViewDetails,
	),
}

func actionSet(actions ...models.Action) map[models.Action]struct{} {
	set := make(map[models.Action]struct{}, len(actions))
	for _, a := range actions {
		set[a] = struct{}{}
	}
	return set
}

// IsAllowed reports whether the given role may perform the given action.
// It is a pure, total function: unknown roles and unknown actions are denied.
func IsAllowed(role models.Role, action models.Action) bool {
	set, ok := capabilities[role]
	if !ok {
		return false
	}
	_, ok = set[action]
	return ok
}
