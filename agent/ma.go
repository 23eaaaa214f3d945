package agent

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SMA returns the simple moving average of the trailing period prices.
func SMA(prices []decimal.Decimal, period int) (decimal.Decimal, error) {
	if period <= 0 {
		return decimal.Decimal{}, fmt.Errorf("period must be positive, got %d", period)
	}
	if len(prices) < period {
		return decimal.Decimal{}, fmt.Errorf("not enough prices: need %d, got %d", period, len(prices))
	}

	sum := decimal.Zero
	for _, p := range prices[len(prices)-period:] {
		sum = sum.Add(p)
	}
	return sum.Div(decimal.NewFromInt(int64(period))), nil
}

// EMA returns the exponential moving average over the full series, seeded
// with the SMA of the first period prices.
func EMA(prices []decimal.Decimal, period int) (decimal.Decimal, error) {
	if period <= 0 {
		return decimal.Decimal{}, fmt.Errorf("period must be positive, got %d", period)
	}
	if len(prices) < period {
		return decimal.Decimal{}, fmt.Errorf("not enough prices: need %d, got %d", period, len(prices))
	}

	multiplier := decimal.NewFromInt(2).Div(decimal.NewFromInt(int64(period + 1)))

	ema, err := SMA(prices[:period], period)
	if err != nil {
		return decimal.Decimal{}, err
	}
	for _, p := range prices[period:] {
		ema = p.Sub(ema).Mul(multiplier).Add(ema)
	}
	return ema, nil
}

// SMACross buys when the fast moving average crosses above the slow one and
// sells when it crosses back below. It holds until both averages are
// computable and on every step without a crossing.
type SMACross struct {
	fast, slow int
	prices     []decimal.Decimal

	// fastAbove tracks which side of the slow average the fast one was on
	// at the previous step; nil until the first comparison.
	fastAbove *bool
}

func NewSMACross(fast, slow int) (*SMACross, error) {
	if fast <= 0 || slow <= 0 {
		return nil, fmt.Errorf("sma-cross periods must be positive, got fast=%d slow=%d", fast, slow)
	}
	if fast >= slow {
		return nil, fmt.Errorf("sma-cross fast period %d must be shorter than slow period %d", fast, slow)
	}
	return &SMACross{fast: fast, slow: slow}, nil
}

func (s *SMACross) Decide(obs Observation) Action {
	s.prices = append(s.prices, obs.Price)
	if len(s.prices) > s.slow {
		s.prices = s.prices[1:]
	}
	if len(s.prices) < s.slow {
		return Hold
	}

	fast, err := SMA(s.prices, s.fast)
	if err != nil {
		return Hold
	}
	slow, err := SMA(s.prices, s.slow)
	if err != nil {
		return Hold
	}

	above := fast.GreaterThan(slow)
	prev := s.fastAbove
	s.fastAbove = &above

	if prev == nil || *prev == above {
		return Hold
	}
	if above {
		return Buy
	}
	return Sell
}
