package models

import (
	"time"
)

// Role identifies the capability set of an authenticated operator.
type Role string

const (
	RoleSuperadmin Role = "superadmin"
	RoleEditor     Role = "editor"
	RoleViewer     Role = "viewer"
)

// Action is a named operation an operator may attempt.
type Action string

const (
	ActionView              Action = "view"
	ActionCreate            Action = "create"
	ActionEdit              Action = "edit"
	ActionDelete            Action = "delete"
	ActionTransfer          Action = "transfer"
	ActionViewHistory       Action = "viewHistory"
	ActionViewScreenshots   Action = "viewScreenshots"
	ActionEditTransfer      Action = "editTransfer"
	ActionBanUser           Action = "banUser"
	ActionUpdateProfile     Action = "updateProfile"
	ActionViewSensitiveData Action = "viewSensitiveData"
	ActionViewProfile       Action = "viewProfile"
	ActionViewDetails       Action = "viewDetails"
)

// Actor is the authenticated operator performing a request. The session
// gateway owns its lifecycle; the core only ever reads it.
type Actor struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email,omitempty"`
	Role        Role   `json:"role"`
}

// Account is the entity whose coin balance is mutated by transfers.
// Accounts are deactivated, never deleted.
type Account struct {
	AccountID           string    `dynamodbav:"account_id"`
	DisplayName         string    `dynamodbav:"display_name"`
	Email               string    `dynamodbav:"email"`
	Balance             int64     `dynamodbav:"balance"`
	ExternalIdentityRef string    `dynamodbav:"external_identity_ref"`
	IsActive            bool      `dynamodbav:"is_active"`
	Version             int64     `dynamodbav:"version"`
	CreatedAt           time.Time `dynamodbav:"created_at"`
}

// LedgerStatus defines the possible states of a ledger entry.
type LedgerStatus string

const (
	LedgerPending   LedgerStatus = "pending"
	LedgerCompleted LedgerStatus = "completed"
	LedgerFailed    LedgerStatus = "failed"
)

// Terminal reports whether no further status transition is permitted.
func (s LedgerStatus) Terminal() bool {
	return s == LedgerCompleted || s == LedgerFailed
}

// Valid reports whether s is one of the known ledger statuses.
func (s LedgerStatus) Valid() bool {
	return s == LedgerPending || s == LedgerCompleted || s == LedgerFailed
}

// LedgerEntry is the immutable audit record of one balance mutation.
// Only Status may change after creation, and only between pending and a
// terminal value. Account display fields are denormalized at append time so
// history searches do not fan out to the accounts table.
type LedgerEntry struct {
	EntryID         string       `dynamodbav:"entry_id"`
	TransactionID   string       `dynamodbav:"transaction_id"`
	AccountID       string       `dynamodbav:"account_id"`
	AccountName     string       `dynamodbav:"account_name"`
	AccountEmail    string       `dynamodbav:"account_email"`
	Amount          int64        `dynamodbav:"amount"`
	Reason          string       `dynamodbav:"reason"`
	Status          LedgerStatus `dynamodbav:"status"`
	BalanceBefore   int64        `dynamodbav:"balance_before"`
	BalanceAfter    int64        `dynamodbav:"balance_after"`
	PerformedByID   string       `dynamodbav:"performed_by_id"`
	PerformedByName string       `dynamodbav:"performed_by_name"`
	CreatedAt       time.Time    `dynamodbav:"created_at"`
	UpdatedAt       time.Time    `dynamodbav:"updated_at"`
	GSI1PK          string       `dynamodbav:"gsi1pk"`
}

// ApprovalItem is one submitted proof item in a pending transfer context.
type ApprovalItem struct {
	ItemID       string `json:"item_id"`
	RewardAmount int64  `json:"reward_amount"`
	Approved     bool   `json:"approved"`
}

// WithdrawalStatus defines the possible states of a withdrawal request.
type WithdrawalStatus string

const (
	WithdrawalPending   WithdrawalStatus = "pending"
	WithdrawalCompleted WithdrawalStatus = "completed"
	WithdrawalFailed    WithdrawalStatus = "failed"
	WithdrawalRejected  WithdrawalStatus = "rejected"
)

// Terminal reports whether the request can no longer be transitioned.
func (s WithdrawalStatus) Terminal() bool {
	return s == WithdrawalCompleted || s == WithdrawalFailed || s == WithdrawalRejected
}

// Valid reports whether the value is a known withdrawal status.
func (s WithdrawalStatus) Valid() bool {
	return s == WithdrawalPending || s.Terminal()
}

// WithdrawalRequest is an end-user request to move coins off the platform.
// Created outside the core; the core only records the administrative decision
// on it. The coin deduction happened at request-creation time.
type WithdrawalRequest struct {
	RequestID     string           `dynamodbav:"request_id"`
	AccountID     string           `dynamodbav:"account_id"`
	Amount        int64            `dynamodbav:"amount"`
	WalletAddress string           `dynamodbav:"wallet_address"`
	Status        WithdrawalStatus `dynamodbav:"status"`
	DecidedByID   string           `dynamodbav:"decided_by_id,omitempty"`
	DecidedByName string           `dynamodbav:"decided_by_name,omitempty"`
	CreatedAt     time.Time        `dynamodbav:"created_at"`
	UpdatedAt     time.Time        `dynamodbav:"updated_at"`
}
