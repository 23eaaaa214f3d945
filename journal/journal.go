// Package journal persists executed transactions and equity snapshots from a
// simulated trading session, with SQLite and CSV backends.
package journal

import (
	"time"

	"github.com/shopspring/decimal"

	"papertrade/broker"
)

// TransactionRecord is one executed order as written to the journal. It
// mirrors ledger.Transaction plus the order id from the receipt.
type TransactionRecord struct {
	OrderID    string
	SequenceID int64
	Time       time.Time
	Symbol     string
	Quantity   int64 // signed: positive buys, negative sells
	Price      decimal.Decimal
	Type       string
	TotalValue decimal.Decimal
	Commission decimal.Decimal
}

// FromReceipt converts an execution receipt to a journal record.
func FromReceipt(rcpt broker.Receipt) TransactionRecord {
	return TransactionRecord{
		OrderID:    rcpt.OrderID,
		SequenceID: rcpt.SequenceID,
		Time:       rcpt.Time,
		Symbol:     rcpt.Symbol,
		Quantity:   rcpt.Quantity,
		Price:      rcpt.Price,
		Type:       string(rcpt.Type),
		TotalValue: rcpt.Price.Mul(decimal.NewFromInt(rcpt.Quantity)),
		Commission: rcpt.Commission,
	}
}

// EquitySnapshot is the account summary at one point of a session.
type EquitySnapshot struct {
	Time           time.Time
	Cash           decimal.Decimal
	PortfolioValue decimal.Decimal
	TotalValue     decimal.Decimal
}

type Journal interface {
	RecordTransaction(TransactionRecord) error
	RecordEquity(EquitySnapshot) error
	Close() error
}

// Discard is a Journal that drops everything. Used when journaling is
// disabled in the configuration.
type Discard struct{}

func (Discard) RecordTransaction(TransactionRecord) error { return nil }
func (Discard) RecordEquity(EquitySnapshot) error         { return nil }
func (Discard) Close() error                              { return nil }
