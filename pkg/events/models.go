package events

// MessageType defines the type of a console push message.
type MessageType string

const (
	// MessageTypeBalanceUpdate is for messages that update account balances
	// in connected admin consoles.
	MessageTypeBalanceUpdate MessageType = "balanceUpdate"

	// MessageTypeWithdrawalDecision is for messages that announce a
	// withdrawal request decision.
	MessageTypeWithdrawalDecision MessageType = "withdrawalDecision"
)

// Message represents a generic console push message.
type Message struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload"`
}

// BalanceUpdatePayload is the payload for a balanceUpdate message.
type BalanceUpdatePayload struct {
	AccountID     string `json:"account_id"`
	TransactionID string `json:"transaction_id"`
	Change        int64  `json:"change"`
	NewBalance    int64  `json:"new_balance"`
}

// WithdrawalDecisionPayload is the payload for a withdrawalDecision message.
type WithdrawalDecisionPayload struct {
	RequestID string `json:"request_id"`
	AccountID string `json:"account_id"`
	Status    string `json:"status"`
}
