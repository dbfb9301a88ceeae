// Package mapping converts between domain models and API wire types.
package mapping

import (
	"github.com/rewardly/admin-ledger/pkg/api"
	"github.com/rewardly/admin-ledger/pkg/approval"
	"github.com/rewardly/admin-ledger/pkg/history"
	"github.com/rewardly/admin-ledger/pkg/models"
)

// ToApiAccount converts a domain Account to its API shape. The external
// identity reference is deliberately not exposed.
func ToApiAccount(account *models.Account) *api.Account {
	return &api.Account{
		AccountID:   account.AccountID,
		DisplayName: account.DisplayName,
		Email:       account.Email,
		Balance:     account.Balance,
		IsActive:    account.IsActive,
	}
}

// ToApiLedgerEntry converts a domain LedgerEntry to its API shape.
func ToApiLedgerEntry(entry *models.LedgerEntry) api.LedgerEntry {
	return api.LedgerEntry{
		EntryID:         entry.EntryID,
		TransactionID:   entry.TransactionID,
		AccountID:       entry.AccountID,
		AccountName:     entry.AccountName,
		AccountEmail:    entry.AccountEmail,
		Amount:          entry.Amount,
		Reason:          entry.Reason,
		Status:          string(entry.Status),
		BalanceBefore:   entry.BalanceBefore,
		BalanceAfter:    entry.BalanceAfter,
		PerformedByID:   entry.PerformedByID,
		PerformedByName: entry.PerformedByName,
		CreatedAt:       entry.CreatedAt,
		UpdatedAt:       entry.UpdatedAt,
	}
}

// ToApiLedgerPage converts a history page to its API shape.
func ToApiLedgerPage(page *history.Page) *api.LedgerPage {
	entries := make([]api.LedgerEntry, len(page.Entries))
	for i := range page.Entries {
		entries[i] = ToApiLedgerEntry(&page.Entries[i])
	}
	return &api.LedgerPage{
		Entries:     entries,
		Total:       page.Total,
		TotalPages:  page.TotalPages,
		CurrentPage: page.CurrentPage,
	}
}

// ToApiLedgerStats converts aggregate statistics to their API shape.
func ToApiLedgerStats(stats *history.Stats) *api.LedgerStats {
	return &api.LedgerStats{
		TotalTransfers:     stats.TotalTransfers,
		TotalAmount:        stats.TotalAmount,
		CompletedTransfers: stats.CompletedTransfers,
		AverageAmount:      stats.AverageAmount,
	}
}

// ToApiApprovalSummary converts a gate decision to its API shape.
func ToApiApprovalSummary(summary approval.Summary) *api.ApprovalSummary {
	return &api.ApprovalSummary{
		AllApproved:   summary.AllApproved,
		ApprovedCount: summary.ApprovedCount,
		TotalReward:   summary.TotalReward,
	}
}

// ToApiWithdrawalRequest converts a domain WithdrawalRequest to its API shape.
func ToApiWithdrawalRequest(request *models.WithdrawalRequest) *api.WithdrawalRequest {
	return &api.WithdrawalRequest{
		RequestID:     request.RequestID,
		AccountID:     request.AccountID,
		Amount:        request.Amount,
		WalletAddress: request.WalletAddress,
		Status:        string(request.Status),
		DecidedByID:   request.DecidedByID,
		DecidedByName: request.DecidedByName,
		CreatedAt:     request.CreatedAt,
		UpdatedAt:     request.UpdatedAt,
	}
}

// ToDomainApprovalItems converts API checklist items to domain models.
func ToDomainApprovalItems(items []api.ApprovalItem) []models.ApprovalItem {
	domain := make([]models.ApprovalItem, len(items))
	for i, item := range items {
		domain[i] = models.ApprovalItem{
			ItemID:       item.ItemID,
			RewardAmount: item.RewardAmount,
			Approved:     item.Approved,
		}
	}
	return domain
}
