package journal

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) (*SQLite, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	j, err := NewSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })

	return j, path
}

func testRecord(orderID string, seq int64, symbol string, qty int64, price string) TransactionRecord {
	p := decimal.RequireFromString(price)
	return TransactionRecord{
		OrderID:    orderID,
		SequenceID: seq,
		Time:       time.Date(2026, 3, 2, 14, 30, 0, 0, time.UTC).Add(time.Duration(seq) * time.Minute),
		Symbol:     symbol,
		Quantity:   qty,
		Price:      p,
		Type:       "market",
		TotalValue: p.Mul(decimal.NewFromInt(qty)),
		Commission: decimal.RequireFromString("0.50"),
	}
}

func TestSQLiteSchemaCreated(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)
	require.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table' AND name IN ('transactions','equity')`)
	require.NoError(t, err)
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		found[name] = true
	}
	require.NoError(t, rows.Err())

	assert.True(t, found["transactions"])
	assert.True(t, found["equity"])
}

func TestSQLiteTransactionRoundTrip(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)

	rec := testRecord("01JF8B9M2P", 1, "AAPL", 10, "187.4523")
	require.NoError(t, j.RecordTransaction(rec))

	got, err := j.GetTransaction("01JF8B9M2P")
	require.NoError(t, err)

	assert.Equal(t, rec.OrderID, got.OrderID)
	assert.Equal(t, rec.SequenceID, got.SequenceID)
	assert.Equal(t, rec.Symbol, got.Symbol)
	assert.Equal(t, rec.Quantity, got.Quantity)
	assert.True(t, got.Price.Equal(rec.Price), "price = %s", got.Price)
	assert.True(t, got.TotalValue.Equal(rec.TotalValue))
	assert.True(t, got.Commission.Equal(rec.Commission))
	assert.True(t, got.Time.Equal(rec.Time))
}

func TestSQLiteGetTransactionMissing(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)

	_, err := j.GetTransaction("nope")
	assert.ErrorContains(t, err, "not found")
}

func TestSQLiteListTransactions(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)

	require.NoError(t, j.RecordTransaction(testRecord("ord-b", 2, "MSFT", 5, "400")))
	require.NoError(t, j.RecordTransaction(testRecord("ord-a", 1, "AAPL", 10, "187")))
	require.NoError(t, j.RecordTransaction(testRecord("ord-c", 3, "AAPL", -4, "190")))

	all, err := j.ListTransactions()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int64{1, 2, 3}, []int64{all[0].SequenceID, all[1].SequenceID, all[2].SequenceID})

	aapl, err := j.ListTransactionsBySymbol("AAPL")
	require.NoError(t, err)
	require.Len(t, aapl, 2)
	assert.Equal(t, int64(10), aapl[0].Quantity)
	assert.Equal(t, int64(-4), aapl[1].Quantity)
}

func TestSQLiteEquity(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)

	t0 := time.Date(2026, 3, 2, 14, 30, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, j.RecordEquity(EquitySnapshot{
			Time:           t0.Add(time.Duration(i) * time.Minute),
			Cash:           decimal.NewFromInt(int64(9000 + i)),
			PortfolioValue: decimal.NewFromInt(1000),
			TotalValue:     decimal.NewFromInt(int64(10000 + i)),
		}))
	}

	snaps, err := j.ListEquityBetween(t0, t0.Add(2*time.Minute))
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	assert.True(t, snaps[0].Cash.Equal(decimal.NewFromInt(9000)))
	assert.True(t, snaps[1].TotalValue.Equal(decimal.NewFromInt(10001)))
}
