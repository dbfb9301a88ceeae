package transfer

import (
	"errors"
	"fmt"
)

// ErrApprovalIncomplete is returned when a transfer is attempted while its
// proof items are not all approved.
var ErrApprovalIncomplete = errors.New("screenshot approval incomplete")

// ErrMissingIdentityRef is returned when the target account has no external
// identity reference. A transfer must never execute without one.
var ErrMissingIdentityRef = errors.New("account has no external identity reference")

// ErrInvalidAmount is returned when the amount is not a positive integer
// within the per-transfer limit.
var ErrInvalidAmount = errors.New("amount must be between 1 and 10000 coins")

// ErrInvalidReason is returned when the trimmed reason is shorter than the
// required minimum.
var ErrInvalidReason = errors.New("reason must be at least 5 characters")

// RemoteMutationError wraps a failed balance mutation. When the remote call
// timed out the outcome is unknown: the mutation may or may not have applied,
// and the operator must check history before retrying.
type RemoteMutationError struct {
	Cause          error
	UnknownOutcome bool
}

func (e *RemoteMutationError) Error() string {
	if e.UnknownOutcome {
		return fmt.Sprintf("balance mutation outcome unknown: %v", e.Cause)
	}
	return fmt.Sprintf("balance mutation failed: %v", e.Cause)
}

func (e *RemoteMutationError) Unwrap() error {
	return e.Cause
}
