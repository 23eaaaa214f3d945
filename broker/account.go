package broker

import (
	"context"

	"github.com/shopspring/decimal"

	"papertrade/ledger"
)

// AccountView computes derived projections over a ledger snapshot. It holds
// no state of its own: every call snapshots the account under the read lock
// and recomputes, so views are always consistent with some execution point.
type AccountView struct {
	ex *Executor
}

// OpenPosition is one held symbol with its market valuation. Unpriced is set
// when neither the live source nor the advisory cache could price the
// symbol; the valuation fields are then zero.
type OpenPosition struct {
	Symbol              string
	Quantity            int64
	AvgPrice            decimal.Decimal
	CurrentPrice        decimal.Decimal
	MarketValue         decimal.Decimal
	UnrealizedPL        decimal.Decimal
	UnrealizedPLPercent *decimal.Decimal // nil when the cost basis is zero
	Unpriced            bool
}

// Valuation is a portfolio sum plus the symbols excluded from it because no
// price was available.
type Valuation struct {
	Value    decimal.Decimal
	Unpriced []string
}

// Balances is the account summary triple.
type Balances struct {
	Cash           decimal.Decimal
	PortfolioValue decimal.Decimal
	TotalValue     decimal.Decimal
	Unpriced       []string
}

type accountSnapshot struct {
	cash      decimal.Decimal
	positions []ledger.Position
	cached    map[string]decimal.Decimal
}

func (v AccountView) snapshot() accountSnapshot {
	v.ex.mu.RLock()
	defer v.ex.mu.RUnlock()

	cached := make(map[string]decimal.Decimal, len(v.ex.priceCache))
	for sym, p := range v.ex.priceCache {
		cached[sym] = p
	}
	return accountSnapshot{
		cash:      v.ex.book.Cash(),
		positions: v.ex.book.Positions(),
		cached:    cached,
	}
}

// currentPrice resolves a price for valuation: live source first, advisory
// cache second. Called outside the account lock.
func (v AccountView) currentPrice(ctx context.Context, symbol string, snap accountSnapshot) (decimal.Decimal, bool) {
	if p, err := v.ex.prices.GetPrice(ctx, symbol); err == nil {
		return p, true
	}
	if p, ok := snap.cached[symbol]; ok {
		return p, true
	}
	return decimal.Decimal{}, false
}

// Positions returns the open positions without pricing them, sorted by
// symbol.
func (v AccountView) Positions() []ledger.Position {
	v.ex.mu.RLock()
	defer v.ex.mu.RUnlock()
	return v.ex.book.Positions()
}

// Cash returns the current cash balance.
func (v AccountView) Cash() decimal.Decimal {
	v.ex.mu.RLock()
	defer v.ex.mu.RUnlock()
	return v.ex.book.Cash()
}

// PortfolioValue sums quantity * current price over all open positions.
func (v AccountView) PortfolioValue(ctx context.Context) Valuation {
	return v.valuePositions(ctx, v.snapshot())
}

// TotalValue is cash plus portfolio value.
func (v AccountView) TotalValue(ctx context.Context) Valuation {
	snap := v.snapshot()
	val := v.valuePositions(ctx, snap)
	val.Value = val.Value.Add(snap.cash)
	return val
}

// Balances returns cash, portfolio value and their total in one consistent
// snapshot.
func (v AccountView) Balances(ctx context.Context) Balances {
	snap := v.snapshot()
	val := v.valuePositions(ctx, snap)
	return Balances{
		Cash:           snap.cash,
		PortfolioValue: val.Value,
		TotalValue:     snap.cash.Add(val.Value),
		Unpriced:       val.Unpriced,
	}
}

// OpenPositions returns every held position with its current valuation,
// sorted by symbol.
func (v AccountView) OpenPositions(ctx context.Context) []OpenPosition {
	snap := v.snapshot()

	out := make([]OpenPosition, 0, len(snap.positions))
	for _, pos := range snap.positions {
		op := OpenPosition{
			Symbol:   pos.Symbol,
			Quantity: pos.Quantity,
			AvgPrice: pos.AvgPrice,
		}

		price, ok := v.currentPrice(ctx, pos.Symbol, snap)
		if !ok {
			op.Unpriced = true
			out = append(out, op)
			continue
		}

		op.CurrentPrice = price
		op.MarketValue = price.Mul(decimal.NewFromInt(pos.Quantity))
		basis := pos.CostBasis()
		op.UnrealizedPL = op.MarketValue.Sub(basis)
		if !basis.IsZero() {
			pct := op.UnrealizedPL.Div(basis).Mul(decimal.NewFromInt(100))
			op.UnrealizedPLPercent = &pct
		}
		out = append(out, op)
	}
	return out
}

// TransactionHistory returns a copy of the transaction log, oldest first.
func (v AccountView) TransactionHistory() []ledger.Transaction {
	v.ex.mu.RLock()
	defer v.ex.mu.RUnlock()
	return v.ex.book.Transactions()
}

func (v AccountView) valuePositions(ctx context.Context, snap accountSnapshot) Valuation {
	var val Valuation
	for _, pos := range snap.positions {
		price, ok := v.currentPrice(ctx, pos.Symbol, snap)
		if !ok {
			val.Unpriced = append(val.Unpriced, pos.Symbol)
			continue
		}
		val.Value = val.Value.Add(price.Mul(decimal.NewFromInt(pos.Quantity)))
	}
	return val
}
