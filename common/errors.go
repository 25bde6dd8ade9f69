package common

import "errors"

// Failure taxonomy. Every error returned by the ledger wraps exactly one of
// these, none of them is transient: the caller must correct the request and
// resubmit it.
var (
	// ErrAuthorization is returned when a required signature is missing.
	ErrAuthorization = errors.New("authorization failure")
	// ErrNotFound is returned when a balance row, deposit, holder or
	// inheritance member is missing.
	ErrNotFound = errors.New("not found")
	// ErrInvalidAmount is returned for non-positive amounts, precision or kind
	// mismatch and amounts below the minimum increment.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInvariant is returned when a request breaks share sums, heir
	// uniqueness, timer ranges or other stored invariants.
	ErrInvariant = errors.New("invariant violation")
	// ErrInsufficientBalance is returned when a debit would overdraw a row.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrInsufficientLot is returned when a paired deposit is below one lot.
	ErrInsufficientLot = errors.New("insufficient lot amount")
	// ErrNoPrice is returned when there is no pool for the deposited pair.
	ErrNoPrice = errors.New("no price found")
	// ErrInvalidDeposit is returned for malformed paired deposits.
	ErrInvalidDeposit = errors.New("invalid deposit shape")
	// ErrInvalidIntent is returned for unknown redemption memo.
	ErrInvalidIntent = errors.New("invalid intent")
)
