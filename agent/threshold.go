package agent

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Threshold buys when the price drops below the minimum of the recent
// window and sells when it rises above the maximum. Until the window is
// full it always holds.
type Threshold struct {
	window int
	prices []decimal.Decimal
}

func NewThreshold(window int) (*Threshold, error) {
	if window <= 0 {
		return nil, fmt.Errorf("threshold window must be positive, got %d", window)
	}
	return &Threshold{window: window}, nil
}

func (t *Threshold) Decide(obs Observation) Action {
	action := Hold
	if len(t.prices) == t.window {
		lo, hi := bounds(t.prices)
		switch {
		case obs.Price.LessThan(lo):
			action = Buy
		case obs.Price.GreaterThan(hi):
			action = Sell
		}
	}

	t.prices = append(t.prices, obs.Price)
	if len(t.prices) > t.window {
		t.prices = t.prices[1:]
	}
	return action
}

func bounds(prices []decimal.Decimal) (lo, hi decimal.Decimal) {
	lo, hi = prices[0], prices[0]
	for _, p := range prices[1:] {
		if p.LessThan(lo) {
			lo = p
		}
		if p.GreaterThan(hi) {
			hi = p
		}
	}
	return lo, hi
}
