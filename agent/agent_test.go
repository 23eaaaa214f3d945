package agent

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func obs(price string) Observation {
	return Observation{Symbol: "X", Price: decimal.RequireFromString(price)}
}

func TestByName(t *testing.T) {
	t.Parallel()

	a, err := ByName("hold", Params{})
	require.NoError(t, err)
	assert.IsType(t, HoldAgent{}, a)

	a, err = ByName(" Threshold ", Params{Window: 5})
	require.NoError(t, err)
	assert.IsType(t, &Threshold{}, a)

	a, err = ByName("sma-cross", Params{Fast: 5, Slow: 20})
	require.NoError(t, err)
	assert.IsType(t, &SMACross{}, a)

	_, err = ByName("deep-rl", Params{})
	assert.Error(t, err)
}

func TestHoldAgent(t *testing.T) {
	t.Parallel()

	a := HoldAgent{}
	for _, p := range []string{"1", "100", "0.5"} {
		assert.Equal(t, Hold, a.Decide(obs(p)))
	}
}

func TestThresholdAgent(t *testing.T) {
	t.Parallel()

	a, err := NewThreshold(3)
	require.NoError(t, err)

	// Warm-up: the window is not full yet.
	assert.Equal(t, Hold, a.Decide(obs("10")))
	assert.Equal(t, Hold, a.Decide(obs("12")))
	assert.Equal(t, Hold, a.Decide(obs("11")))

	// 9 undercuts min(10,12,11).
	assert.Equal(t, Buy, a.Decide(obs("9")))

	// 13 exceeds max(12,11,9).
	assert.Equal(t, Sell, a.Decide(obs("13")))

	// 11 sits inside (11,9,13).
	assert.Equal(t, Hold, a.Decide(obs("11")))
}

func TestThresholdRejectsBadWindow(t *testing.T) {
	t.Parallel()

	_, err := NewThreshold(0)
	assert.Error(t, err)
	_, err = NewThreshold(-5)
	assert.Error(t, err)
}

func TestSMA(t *testing.T) {
	t.Parallel()

	prices := []decimal.Decimal{
		decimal.RequireFromString("1"),
		decimal.RequireFromString("2"),
		decimal.RequireFromString("3"),
		decimal.RequireFromString("4"),
	}

	got, err := SMA(prices, 2)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("3.5")), "sma = %s", got)

	got, err = SMA(prices, 4)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("2.5")), "sma = %s", got)

	_, err = SMA(prices, 5)
	assert.Error(t, err)
	_, err = SMA(prices, 0)
	assert.Error(t, err)
}

func TestEMA(t *testing.T) {
	t.Parallel()

	prices := []decimal.Decimal{
		decimal.RequireFromString("1"),
		decimal.RequireFromString("2"),
		decimal.RequireFromString("3"),
		decimal.RequireFromString("4"),
	}

	// Period 3: multiplier 1/2, seed SMA(1,2,3) = 2, then (4-2)/2 + 2 = 3.
	got, err := EMA(prices, 3)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("3")), "ema = %s", got)

	_, err = EMA(prices[:2], 3)
	assert.Error(t, err)
}

func TestSMACrossAgent(t *testing.T) {
	t.Parallel()

	a, err := NewSMACross(2, 3)
	require.NoError(t, err)

	// Warm-up until the slow window fills; flat prices give no cross.
	assert.Equal(t, Hold, a.Decide(obs("10")))
	assert.Equal(t, Hold, a.Decide(obs("10")))
	assert.Equal(t, Hold, a.Decide(obs("10")))

	// Fast average jumps above the slow one.
	assert.Equal(t, Buy, a.Decide(obs("13")))

	// Still above: no new signal.
	assert.Equal(t, Hold, a.Decide(obs("13")))

	// Collapse drags the fast average back below.
	assert.Equal(t, Sell, a.Decide(obs("7")))
}

func TestSMACrossRejectsBadPeriods(t *testing.T) {
	t.Parallel()

	_, err := NewSMACross(0, 3)
	assert.Error(t, err)
	_, err = NewSMACross(3, 3)
	assert.Error(t, err)
	_, err = NewSMACross(5, 2)
	assert.Error(t, err)
}
