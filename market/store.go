// Package market provides price sources for the broker: an in-memory quote
// store and a replayable candle feed for simulated sessions.
package market

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"papertrade/broker"
)

// Quote is the last known price for a symbol.
type Quote struct {
	Symbol string
	Price  decimal.Decimal
	Time   time.Time
}

// Store is a concurrency-safe quote board. It implements broker.PriceSource;
// a missing or too-old quote fails the lookup with broker.ErrPriceUnavailable.
type Store struct {
	mu     sync.RWMutex
	quotes map[string]Quote

	// maxAge bounds quote staleness. Zero means quotes never expire.
	maxAge time.Duration
	now    func() time.Time
}

func NewStore() *Store {
	return &Store{
		quotes: make(map[string]Quote),
		now:    time.Now,
	}
}

// SetMaxAge makes lookups fail for quotes older than d. Zero disables the
// check.
func (s *Store) SetMaxAge(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maxAge = d
}

// Set records the latest price for symbol.
func (s *Store) Set(symbol string, price decimal.Decimal, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quotes[symbol] = Quote{Symbol: symbol, Price: price, Time: at}
}

// Quote returns the stored quote for symbol, if any, ignoring staleness.
func (s *Store) Quote(symbol string) (Quote, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.quotes[symbol]
	return q, ok
}

// GetPrice implements broker.PriceSource.
func (s *Store) GetPrice(_ context.Context, symbol string) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q, ok := s.quotes[symbol]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("%w: no quote for %s", broker.ErrPriceUnavailable, symbol)
	}
	if s.maxAge > 0 {
		if age := s.now().Sub(q.Time); age > s.maxAge {
			return decimal.Decimal{}, fmt.Errorf("%w: quote for %s is %s old",
				broker.ErrPriceUnavailable, symbol, age.Round(time.Second))
		}
	}
	return q.Price, nil
}
