package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderType labels how an order was priced.
type OrderType string

const (
	Market OrderType = "market"
	Limit  OrderType = "limit"
)

// Transaction is the immutable record of one executed order. Records are
// appended to the ledger's log and never mutated or deleted.
//
// Quantity is signed: positive for buys, negative for sells. TotalValue is
// Quantity * Price, so it carries the same sign.
type Transaction struct {
	// SequenceID starts at 1 and increases by one per executed order,
	// defining the total order of account history.
	SequenceID int64

	Time       time.Time
	Symbol     string
	Quantity   int64
	Price      decimal.Decimal
	Type       OrderType
	TotalValue decimal.Decimal
	Commission decimal.Decimal
}
