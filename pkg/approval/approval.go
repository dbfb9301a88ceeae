package approval

import (
	"github.com/rewardly/admin-ledger/pkg/models"
)

// Summary is the derived view over one transfer's proof items. It is
// recomputed on every call; toggling an individual item is the caller's job.
type Summary struct {
	AllApproved   bool  `json:"all_approved"`
	ApprovedCount int   `json:"approved_count"`
	TotalReward   int64 `json:"total_reward"`
}

// Evaluate reduces a set of approval items to a Summary.
//
// AllApproved is true only for a non-empty set where every item is approved;
// an empty set is never fully approved. TotalReward sums the reward amounts
// of approved items only, so a partially approved set reports the in-progress
// total.
func Evaluate(items []models.ApprovalItem) Summary {
	summary := Summary{AllApproved: len(items) > 0}
	for _, item := range items {
		if !item.Approved {
			summary.AllApproved = false
			continue
		}
		summary.ApprovedCount++
		summary.TotalReward += item.RewardAmount
	}
	return summary
}
