package ledger

import "errors"

// Operation failures are sentinel errors so the command layer can
// branch with errors.Is. Every one of these is rejected before any
// state mutation; a failed operation leaves the portfolio untouched.
var (
	// ErrQuoteUnavailable means every price provider was exhausted
	// without resolving a SOL price for the token.
	ErrQuoteUnavailable = errors.New("quote unavailable")

	// ErrInsufficientBalance rejects a buy larger than the cash balance.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrInsufficientHoldings rejects a sell larger than the position.
	ErrInsufficientHoldings = errors.New("insufficient holdings")

	// ErrInvalidAmount rejects non-positive amounts and fund requests
	// above the per-call cap.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrNoSuchPosition rejects a sell on a token the user does not hold.
	ErrNoSuchPosition = errors.New("no such position")
)
