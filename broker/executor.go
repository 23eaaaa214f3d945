package broker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"papertrade/internal/id"
	"papertrade/ledger"
)

// Executor is the single entry point for mutating an account. It serializes
// order execution behind a write lock so every validate-then-mutate sequence
// is atomic; price lookups happen before the lock is taken so a slow source
// never holds the account.
type Executor struct {
	mu     sync.RWMutex
	book   *ledger.Ledger
	prices PriceSource

	// priceCache remembers the last price used per symbol. It is advisory:
	// views fall back to it when a live lookup fails, but it never feeds
	// order validation on its own.
	priceCache map[string]decimal.Decimal

	commission Commission
	now        func() time.Time
}

func NewExecutor(initialBalance decimal.Decimal, prices PriceSource, commission Commission) *Executor {
	return &Executor{
		book:       ledger.New(initialBalance),
		prices:     prices,
		priceCache: make(map[string]decimal.Decimal),
		commission: commission,
		now:        time.Now,
	}
}

// Execute validates the request, resolves a price, and applies the order to
// the ledger. Either the full mutation (balance, position, transaction
// append) happens or none of it does.
func (e *Executor) Execute(ctx context.Context, req OrderRequest) (Receipt, error) {
	if req.Quantity == 0 {
		return Receipt{}, fmt.Errorf("%w: quantity must be non-zero", ledger.ErrInvalidOrder)
	}
	typ := req.Type
	if typ == "" {
		typ = ledger.Market
	}

	var price decimal.Decimal
	if req.Price != nil {
		price = *req.Price
	} else {
		p, err := e.prices.GetPrice(ctx, req.Symbol)
		if err != nil {
			return Receipt{}, fmt.Errorf("get price for %s: %w", req.Symbol, err)
		}
		price = p
	}

	commission := e.commission.For(abs(req.Quantity), price)
	at := e.now()

	e.mu.Lock()
	defer e.mu.Unlock()

	var (
		tx  ledger.Transaction
		err error
	)
	if req.Quantity > 0 {
		tx, err = e.book.ApplyBuy(req.Symbol, req.Quantity, price, commission, at, typ)
	} else {
		tx, err = e.book.ApplySell(req.Symbol, -req.Quantity, price, commission, at, typ)
	}
	if err != nil {
		return Receipt{}, err
	}

	e.priceCache[req.Symbol] = price

	return Receipt{
		OrderID:    id.New(),
		SequenceID: tx.SequenceID,
		Symbol:     req.Symbol,
		Quantity:   req.Quantity,
		Price:      price,
		Type:       typ,
		Commission: commission,
		Time:       at,
	}, nil
}

// ClosePosition sells the entire held quantity of symbol at market. The
// quantity is resolved under the write lock, after the price lookup, so the
// sell covers exactly what is held at execution time even if other orders
// land during the lookup.
func (e *Executor) ClosePosition(ctx context.Context, symbol string) (Receipt, error) {
	e.mu.RLock()
	_, held := e.book.Position(symbol)
	e.mu.RUnlock()
	if !held {
		return Receipt{}, fmt.Errorf("%w: %s", ledger.ErrNoSuchPosition, symbol)
	}

	price, err := e.prices.GetPrice(ctx, symbol)
	if err != nil {
		return Receipt{}, fmt.Errorf("get price for %s: %w", symbol, err)
	}
	at := e.now()

	e.mu.Lock()
	defer e.mu.Unlock()

	pos, ok := e.book.Position(symbol)
	if !ok {
		return Receipt{}, fmt.Errorf("%w: %s", ledger.ErrNoSuchPosition, symbol)
	}

	commission := e.commission.For(pos.Quantity, price)
	tx, err := e.book.ApplySell(symbol, pos.Quantity, price, commission, at, ledger.Market)
	if err != nil {
		return Receipt{}, err
	}

	e.priceCache[symbol] = price

	return Receipt{
		OrderID:    id.New(),
		SequenceID: tx.SequenceID,
		Symbol:     symbol,
		Quantity:   -pos.Quantity,
		Price:      price,
		Type:       ledger.Market,
		Commission: commission,
		Time:       at,
	}, nil
}

// Reset restores the account to a fresh state with the given balance,
// clearing positions, the transaction log, and the advisory price cache.
func (e *Executor) Reset(initialBalance decimal.Decimal) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.book.Reset(initialBalance)
	e.priceCache = make(map[string]decimal.Decimal)
}

// View returns read-only projections over this account.
func (e *Executor) View() AccountView {
	return AccountView{ex: e}
}

func abs(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}
