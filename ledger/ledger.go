// Package ledger holds the authoritative state of a paper-trading account:
// cash balance, open positions, and the append-only transaction log.
//
// The ledger is not safe for concurrent use; callers (the broker executor)
// serialize access. Every mutation either applies in full or leaves the
// ledger untouched.
package ledger

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Position is the aggregate holding of one symbol. Quantity is never zero
// for a stored position; selling a position down to zero removes it.
type Position struct {
	Symbol   string
	Quantity int64
	// AvgPrice is the quantity-weighted average entry price. Sells leave it
	// unchanged.
	AvgPrice decimal.Decimal
}

// CostBasis returns Quantity * AvgPrice.
func (p Position) CostBasis() decimal.Decimal {
	return p.AvgPrice.Mul(decimal.NewFromInt(p.Quantity))
}

// Ledger owns the account state. All amounts use decimal arithmetic so the
// weighted-average cost and cash balance stay exact.
type Ledger struct {
	cash         decimal.Decimal
	positions    map[string]*Position
	transactions []Transaction
}

func New(initialBalance decimal.Decimal) *Ledger {
	return &Ledger{
		cash:      initialBalance,
		positions: make(map[string]*Position),
	}
}

// Cash returns the current cash balance.
func (l *Ledger) Cash() decimal.Decimal { return l.cash }

// Position returns a copy of the position for symbol, if held.
func (l *Ledger) Position(symbol string) (Position, bool) {
	p, ok := l.positions[symbol]
	if !ok {
		return Position{}, false
	}
	return *p, true
}

// Positions returns copies of all open positions, sorted by symbol.
func (l *Ledger) Positions() []Position {
	out := make([]Position, 0, len(l.positions))
	for _, p := range l.positions {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// Transactions returns a copy of the transaction log, oldest first.
func (l *Ledger) Transactions() []Transaction {
	return append([]Transaction(nil), l.transactions...)
}

// ApplyBuy debits quantity*price + commission from cash and folds the lot
// into the position at the quantity-weighted average price:
//
//	newAvg = (oldQty*oldAvg + qty*price) / (oldQty + qty)
//
// It fails with ErrInsufficientFunds when the cash balance cannot cover the
// order, leaving the ledger unchanged.
func (l *Ledger) ApplyBuy(symbol string, quantity int64, price, commission decimal.Decimal, at time.Time, typ OrderType) (Transaction, error) {
	if err := validateOrder(symbol, quantity, price, commission); err != nil {
		return Transaction{}, err
	}

	qty := decimal.NewFromInt(quantity)
	cost := price.Mul(qty).Add(commission)
	if cost.GreaterThan(l.cash) {
		return Transaction{}, fmt.Errorf("%w: order costs %s, cash balance is %s",
			ErrInsufficientFunds, cost, l.cash)
	}

	l.cash = l.cash.Sub(cost)

	if pos, ok := l.positions[symbol]; ok {
		oldQty := decimal.NewFromInt(pos.Quantity)
		pos.AvgPrice = pos.AvgPrice.Mul(oldQty).Add(price.Mul(qty)).Div(oldQty.Add(qty))
		pos.Quantity += quantity
	} else {
		l.positions[symbol] = &Position{Symbol: symbol, Quantity: quantity, AvgPrice: price}
	}

	return l.appendTransaction(symbol, quantity, price, commission, at, typ), nil
}

// ApplySell credits quantity*price - commission to cash and reduces the
// position, removing it when the remaining quantity is exactly zero. The
// average price is left as is; realized P&L stays derivable from the log.
//
// It fails with ErrNoSuchPosition when the symbol is not held and with
// ErrInsufficientShares when the position is smaller than quantity.
func (l *Ledger) ApplySell(symbol string, quantity int64, price, commission decimal.Decimal, at time.Time, typ OrderType) (Transaction, error) {
	if err := validateOrder(symbol, quantity, price, commission); err != nil {
		return Transaction{}, err
	}

	pos, ok := l.positions[symbol]
	if !ok {
		return Transaction{}, fmt.Errorf("%w: %s", ErrNoSuchPosition, symbol)
	}
	if quantity > pos.Quantity {
		return Transaction{}, fmt.Errorf("%w: selling %d, holding %d shares of %s",
			ErrInsufficientShares, quantity, pos.Quantity, symbol)
	}

	proceeds := price.Mul(decimal.NewFromInt(quantity)).Sub(commission)
	newCash := l.cash.Add(proceeds)
	if newCash.IsNegative() {
		return Transaction{}, fmt.Errorf("%w: commission %s exceeds proceeds and cash balance",
			ErrInsufficientFunds, commission)
	}

	l.cash = newCash
	pos.Quantity -= quantity
	if pos.Quantity == 0 {
		delete(l.positions, symbol)
	}

	return l.appendTransaction(symbol, -quantity, price, commission, at, typ), nil
}

// Reset clears positions and the transaction log and sets the cash balance
// to initialBalance. It always succeeds.
func (l *Ledger) Reset(initialBalance decimal.Decimal) {
	l.cash = initialBalance
	l.positions = make(map[string]*Position)
	l.transactions = nil
}

func (l *Ledger) appendTransaction(symbol string, signedQty int64, price, commission decimal.Decimal, at time.Time, typ OrderType) Transaction {
	tx := Transaction{
		SequenceID: int64(len(l.transactions)) + 1,
		Time:       at,
		Symbol:     symbol,
		Quantity:   signedQty,
		Price:      price,
		Type:       typ,
		TotalValue: price.Mul(decimal.NewFromInt(signedQty)),
		Commission: commission,
	}
	l.transactions = append(l.transactions, tx)
	return tx
}

func validateOrder(symbol string, quantity int64, price, commission decimal.Decimal) error {
	switch {
	case symbol == "":
		return fmt.Errorf("%w: empty symbol", ErrInvalidOrder)
	case quantity <= 0:
		return fmt.Errorf("%w: quantity must be positive, got %d", ErrInvalidOrder, quantity)
	case price.IsNegative():
		return fmt.Errorf("%w: negative price %s", ErrInvalidOrder, price)
	case commission.IsNegative():
		return fmt.Errorf("%w: negative commission %s", ErrInvalidOrder, commission)
	}
	return nil
}
