package market

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Candle is one bar of historical prices.
type Candle struct {
	Time  time.Time
	Open  decimal.Decimal
	High  decimal.Decimal
	Low   decimal.Decimal
	Close decimal.Decimal
}

// Feed replays a candle series for one symbol, one bar per step. It is the
// simulated session's source of market data; the runner publishes each close
// into a Store as the session advances.
type Feed struct {
	Symbol  string
	candles []Candle
	next    int
}

func NewFeed(symbol string, candles []Candle) *Feed {
	return &Feed{Symbol: symbol, candles: candles}
}

// Next returns the next candle, or false at the end of the series.
func (f *Feed) Next() (Candle, bool) {
	if f.next >= len(f.candles) {
		return Candle{}, false
	}
	c := f.candles[f.next]
	f.next++
	return c, true
}

// Reset rewinds the feed to the first candle.
func (f *Feed) Reset() { f.next = 0 }

// Len returns the total number of candles in the series.
func (f *Feed) Len() int { return len(f.candles) }

// LoadCandlesCSV reads a candle series from a CSV file with the header
// time,open,high,low,close. Times are RFC3339. Rows must be in
// chronological order.
func LoadCandlesCSV(path string) ([]Candle, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open candles: %w", err)
	}
	defer fd.Close()

	r := csv.NewReader(fd)
	r.FieldsPerRecord = 5

	// Header row.
	if _, err := r.Read(); err != nil {
		return nil, fmt.Errorf("read candles header: %w", err)
	}

	var out []Candle
	for line := 2; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read candles: %w", err)
		}

		c, err := parseCandleRow(row)
		if err != nil {
			return nil, fmt.Errorf("candles line %d: %w", line, err)
		}
		if len(out) > 0 && c.Time.Before(out[len(out)-1].Time) {
			return nil, fmt.Errorf("candles line %d: out of order at %s", line, c.Time)
		}
		out = append(out, c)
	}
	return out, nil
}

func parseCandleRow(row []string) (Candle, error) {
	ts, err := time.Parse(time.RFC3339, strings.TrimSpace(row[0]))
	if err != nil {
		return Candle{}, fmt.Errorf("bad time %q: %w", row[0], err)
	}

	var prices [4]decimal.Decimal
	for i, field := range row[1:] {
		p, err := decimal.NewFromString(strings.TrimSpace(field))
		if err != nil {
			return Candle{}, fmt.Errorf("bad price %q: %w", field, err)
		}
		if p.IsNegative() {
			return Candle{}, fmt.Errorf("negative price %q", field)
		}
		prices[i] = p
	}

	return Candle{Time: ts, Open: prices[0], High: prices[1], Low: prices[2], Close: prices[3]}, nil
}
