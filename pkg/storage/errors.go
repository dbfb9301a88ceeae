package storage

import "errors"

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrBalanceConflict is returned when a compare-and-set balance write loses a
// race: the stored balance no longer matches the value the caller read.
var ErrBalanceConflict = errors.New("account balance changed concurrently")

// ErrInvalidStatusTransition is returned when a ledger entry status update
// would move a terminal status back to pending, or targets an unknown status.
var ErrInvalidStatusTransition = errors.New("invalid ledger status transition")

// ErrAlreadyTerminal is returned when a withdrawal request is transitioned
// after it has already reached a terminal status.
var ErrAlreadyTerminal = errors.New("withdrawal request already in a terminal state")
