// Package api holds the wire types for the admin console HTTP surface.
package api

import "time"

// Envelope is the uniform response wrapper. Success responses carry
// Data; error responses carry a human-readable Message.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// NewTransfer is the request body for crediting an account.
type NewTransfer struct {
	Amount        int64          `json:"amount"`
	Reason        string         `json:"reason"`
	ApprovalItems []ApprovalItem `json:"approval_items,omitempty"`
}

// ApprovalItem mirrors one reviewable item in an approval checklist.
type ApprovalItem struct {
	ItemID       string `json:"item_id"`
	RewardAmount int64  `json:"reward_amount"`
	Approved     bool   `json:"approved"`
}

// ApprovalEvaluation is the request body for evaluating a checklist.
type ApprovalEvaluation struct {
	Items []ApprovalItem `json:"items"`
}

// ApprovalSummary reports the gate decision for a checklist.
type ApprovalSummary struct {
	AllApproved   bool  `json:"all_approved"`
	ApprovedCount int   `json:"approved_count"`
	TotalReward   int64 `json:"total_reward"`
}

// Account is the wire shape of a rewards account.
type Account struct {
	AccountID   string `json:"account_id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Balance     int64  `json:"balance"`
	IsActive    bool   `json:"is_active"`
}

// LedgerEntry is the wire shape of one audit ledger record.
type LedgerEntry struct {
	EntryID         string    `json:"entry_id"`
	TransactionID   string    `json:"transaction_id"`
	AccountID       string    `json:"account_id"`
	AccountName     string    `json:"account_name"`
	AccountEmail    string    `json:"account_email"`
	Amount          int64     `json:"amount"`
	Reason          string    `json:"reason"`
	Status          string    `json:"status"`
	BalanceBefore   int64     `json:"balance_before"`
	BalanceAfter    int64     `json:"balance_after"`
	PerformedByID   string    `json:"performed_by_id"`
	PerformedByName string    `json:"performed_by_name"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TransferResult is the success payload for a transfer. Warning is set
// when the transfer applied but the confirming balance read failed.
type TransferResult struct {
	Entry   LedgerEntry `json:"entry"`
	Account *Account    `json:"account,omitempty"`
	Warning string      `json:"warning,omitempty"`
}

// LedgerPage is one page of ledger history.
type LedgerPage struct {
	Entries     []LedgerEntry `json:"entries"`
	Total       int           `json:"total"`
	TotalPages  int           `json:"total_pages"`
	CurrentPage int           `json:"current_page"`
}

// LedgerStats summarizes a filtered slice of the ledger.
type LedgerStats struct {
	TotalTransfers     int     `json:"total_transfers"`
	TotalAmount        int64   `json:"total_amount"`
	CompletedTransfers int     `json:"completed_transfers"`
	AverageAmount      float64 `json:"average_amount"`
}

// StatusUpdate is the request body for moving a ledger entry or a
// withdrawal request to a new status.
type StatusUpdate struct {
	Status string `json:"status"`
}

// WithdrawalRequest is the wire shape of a withdrawal under review.
type WithdrawalRequest struct {
	RequestID     string    `json:"request_id"`
	AccountID     string    `json:"account_id"`
	Amount        int64     `json:"amount"`
	WalletAddress string    `json:"wallet_address"`
	Status        string    `json:"status"`
	DecidedByID   string    `json:"decided_by_id,omitempty"`
	DecidedByName string    `json:"decided_by_name,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
