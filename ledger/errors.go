package ledger

import "errors"

var (
	// ErrInvalidOrder rejects malformed input: a non-positive quantity, a
	// negative price or commission, or an empty symbol.
	ErrInvalidOrder = errors.New("invalid order")

	// ErrInsufficientFunds means the order would drive the cash balance
	// negative.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInsufficientShares means a sell asked for more shares than the
	// position holds.
	ErrInsufficientShares = errors.New("insufficient shares")

	// ErrNoSuchPosition means the account holds no position in the symbol.
	ErrNoSuchPosition = errors.New("no such position")
)
