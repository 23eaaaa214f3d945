// Package broker turns trade intents into ledger mutations and exposes
// read-only projections over the account state.
package broker

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"papertrade/ledger"
)

// ErrPriceUnavailable is returned (usually wrapped) when a price source
// cannot supply a usable quote for a symbol. There is deliberately no
// fallback price: fabricating market data would mask real errors.
var ErrPriceUnavailable = errors.New("price unavailable")

// PriceSource supplies current reference prices. Lookups may block on I/O;
// the executor always calls them outside the account lock.
type PriceSource interface {
	GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
}

// OrderRequest is a trade intent. Quantity is signed: positive buys,
// negative sells. Price, when set, overrides the price source.
type OrderRequest struct {
	Symbol   string
	Quantity int64
	Type     ledger.OrderType
	Price    *decimal.Decimal
}

// Receipt confirms a successfully executed order. Failed orders return an
// error instead, with the account left untouched.
type Receipt struct {
	OrderID    string
	SequenceID int64
	Symbol     string
	Quantity   int64
	Price      decimal.Decimal
	Type       ledger.OrderType
	Commission decimal.Decimal
	Time       time.Time
}

// Commission is the per-order fee model: Flat plus Rate times the order
// notional (|quantity| * price). Both components default to zero.
type Commission struct {
	Rate decimal.Decimal
	Flat decimal.Decimal
}

// For returns the commission charged on an order of the given size.
func (c Commission) For(quantity int64, price decimal.Decimal) decimal.Decimal {
	notional := price.Mul(decimal.NewFromInt(quantity))
	return c.Flat.Add(notional.Mul(c.Rate))
}
