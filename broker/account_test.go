package broker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPortfolioValueLivePrices(t *testing.T) {
	t.Parallel()

	ex, src := newTestExecutor(t, "10000")
	ctx := context.Background()

	src.set("AAPL", "50")
	src.set("MSFT", "20")
	_, err := ex.Execute(ctx, OrderRequest{Symbol: "AAPL", Quantity: 10})
	require.NoError(t, err)
	_, err = ex.Execute(ctx, OrderRequest{Symbol: "MSFT", Quantity: 5})
	require.NoError(t, err)

	// Prices move after execution; views must use the live quotes.
	src.set("AAPL", "60")
	src.set("MSFT", "10")

	val := ex.View().PortfolioValue(ctx)
	assert.True(t, val.Value.Equal(d("650")), "value = %s", val.Value)
	assert.Empty(t, val.Unpriced)

	bal := ex.View().Balances(ctx)
	assert.True(t, bal.Cash.Equal(d("9400")))
	assert.True(t, bal.PortfolioValue.Equal(d("650")))
	assert.True(t, bal.TotalValue.Equal(d("10050")))
}

func TestPortfolioValueFallsBackToCachedPrice(t *testing.T) {
	t.Parallel()

	ex, src := newTestExecutor(t, "10000")
	ctx := context.Background()

	src.set("AAPL", "50")
	_, err := ex.Execute(ctx, OrderRequest{Symbol: "AAPL", Quantity: 10})
	require.NoError(t, err)

	// Live source goes dark; the advisory cache still holds the executed
	// price.
	delete(src.prices, "AAPL")

	val := ex.View().PortfolioValue(ctx)
	assert.True(t, val.Value.Equal(d("500")), "value = %s", val.Value)
	assert.Empty(t, val.Unpriced)
}

func TestPortfolioValueFlagsUnpricedPositions(t *testing.T) {
	t.Parallel()

	ex, src := newTestExecutor(t, "10000")
	ctx := context.Background()

	src.set("AAPL", "50")
	src.set("MSFT", "20")
	_, err := ex.Execute(ctx, OrderRequest{Symbol: "AAPL", Quantity: 10})
	require.NoError(t, err)
	_, err = ex.Execute(ctx, OrderRequest{Symbol: "MSFT", Quantity: 5})
	require.NoError(t, err)

	// Kill both the live quote and the cached one for MSFT: the position is
	// excluded from the sum and reported instead.
	delete(src.prices, "MSFT")
	ex.mu.Lock()
	delete(ex.priceCache, "MSFT")
	ex.mu.Unlock()

	val := ex.View().PortfolioValue(ctx)
	assert.True(t, val.Value.Equal(d("500")), "value = %s", val.Value)
	assert.Equal(t, []string{"MSFT"}, val.Unpriced)

	positions := ex.View().OpenPositions(ctx)
	require.Len(t, positions, 2)
	assert.False(t, positions[0].Unpriced) // AAPL
	assert.True(t, positions[1].Unpriced)  // MSFT
	assert.True(t, positions[1].MarketValue.IsZero())
	assert.Nil(t, positions[1].UnrealizedPLPercent)
}

func TestOpenPositionsValuation(t *testing.T) {
	t.Parallel()

	ex, src := newTestExecutor(t, "10000")
	ctx := context.Background()

	src.set("AAPL", "50")
	_, err := ex.Execute(ctx, OrderRequest{Symbol: "AAPL", Quantity: 10})
	require.NoError(t, err)

	src.set("AAPL", "55")

	positions := ex.View().OpenPositions(ctx)
	require.Len(t, positions, 1)
	pos := positions[0]

	assert.Equal(t, "AAPL", pos.Symbol)
	assert.Equal(t, int64(10), pos.Quantity)
	assert.True(t, pos.AvgPrice.Equal(d("50")))
	assert.True(t, pos.CurrentPrice.Equal(d("55")))
	assert.True(t, pos.MarketValue.Equal(d("550")))
	assert.True(t, pos.UnrealizedPL.Equal(d("50")))
	require.NotNil(t, pos.UnrealizedPLPercent)
	assert.True(t, pos.UnrealizedPLPercent.Equal(d("10")), "pct = %s", pos.UnrealizedPLPercent)
}

func TestOpenPositionsZeroCostBasis(t *testing.T) {
	t.Parallel()

	ex, _ := newTestExecutor(t, "10000")
	ctx := context.Background()

	// A grant at price zero has no cost basis; the percent form is
	// undefined rather than a division failure.
	_, err := ex.Execute(ctx, OrderRequest{Symbol: "RSU", Quantity: 100, Price: dp("0")})
	require.NoError(t, err)

	positions := ex.View().OpenPositions(ctx)
	require.Len(t, positions, 1)
	assert.True(t, positions[0].MarketValue.IsZero())
	assert.Nil(t, positions[0].UnrealizedPLPercent)
}

func TestTransactionHistoryIsACopy(t *testing.T) {
	t.Parallel()

	ex, src := newTestExecutor(t, "10000")
	ctx := context.Background()

	src.set("AAPL", "50")
	_, err := ex.Execute(ctx, OrderRequest{Symbol: "AAPL", Quantity: 1})
	require.NoError(t, err)
	_, err = ex.Execute(ctx, OrderRequest{Symbol: "AAPL", Quantity: 2})
	require.NoError(t, err)

	history := ex.View().TransactionHistory()
	require.Len(t, history, 2)
	assert.Equal(t, int64(1), history[0].SequenceID)
	assert.Equal(t, int64(2), history[1].SequenceID)

	// Mutating the returned slice must not touch the ledger's log.
	history[0].Symbol = "HACKED"
	fresh := ex.View().TransactionHistory()
	assert.Equal(t, "AAPL", fresh[0].Symbol)
}
