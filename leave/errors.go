package leave

import "errors"

// Sentinel errors, matched with errors.Is at the API edge.
var (
	// ErrUnauthorized is returned when the actor's role or gender forbids
	// the operation.
	ErrUnauthorized = errors.New("leave: operation not permitted for actor")

	// ErrRequestNotFound is returned when a request id does not resolve.
	ErrRequestNotFound = errors.New("leave: request not found")

	// ErrBalanceNotFound is returned when a request has no balance ledger.
	ErrBalanceNotFound = errors.New("leave: balance not found")

	// ErrDateRangeInvalid is returned when the end date precedes the start date.
	ErrDateRangeInvalid = errors.New("leave: end date before start date")

	// ErrBalanceExceeded is returned when the requested span exceeds the
	// applicable balance or fixed cap, or when a debit would go negative.
	ErrBalanceExceeded = errors.New("leave: requested span exceeds remaining balance")

	// ErrUnknownType is returned when an unrecognized leave type reaches
	// balance logic. Defensive: unreachable through the public workflow.
	ErrUnknownType = errors.New("leave: unknown leave type")

	// ErrAlreadyResolved is returned when approving or rejecting a request
	// that already reached a terminal state.
	ErrAlreadyResolved = errors.New("leave: request already resolved")
)
