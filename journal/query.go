package journal

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const transactionColumns = `order_id, sequence_id, time, symbol, quantity, price, order_type, total_value, commission`

// GetTransaction returns a single journaled transaction by order id.
func (j *SQLite) GetTransaction(orderID string) (TransactionRecord, error) {
	row := j.db.QueryRow(`
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE order_id = ?`, orderID)

	rec, err := scanTransaction(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return TransactionRecord{}, fmt.Errorf("transaction %q not found", orderID)
		}
		return TransactionRecord{}, err
	}
	return rec, nil
}

// ListTransactions returns the whole journaled log in execution order.
func (j *SQLite) ListTransactions() ([]TransactionRecord, error) {
	return j.listTransactions(`
		SELECT ` + transactionColumns + `
		FROM transactions
		ORDER BY sequence_id ASC`)
}

// ListTransactionsBySymbol returns the journaled transactions for one
// symbol, in execution order.
func (j *SQLite) ListTransactionsBySymbol(symbol string) ([]TransactionRecord, error) {
	return j.listTransactions(`
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE symbol = ?
		ORDER BY sequence_id ASC`, symbol)
}

// ListEquityBetween returns equity snapshots with time in [start, end).
func (j *SQLite) ListEquityBetween(start, end time.Time) ([]EquitySnapshot, error) {
	rows, err := j.db.Query(`
		SELECT time, cash, portfolio_value, total_value
		FROM equity
		WHERE time >= ? AND time < ?
		ORDER BY time ASC`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EquitySnapshot
	for rows.Next() {
		var (
			snap  EquitySnapshot
			cash  string
			pv    string
			total string
		)
		if err := rows.Scan(&snap.Time, &cash, &pv, &total); err != nil {
			return nil, err
		}
		if snap.Cash, err = decimal.NewFromString(cash); err != nil {
			return nil, fmt.Errorf("bad cash value %q: %w", cash, err)
		}
		if snap.PortfolioValue, err = decimal.NewFromString(pv); err != nil {
			return nil, fmt.Errorf("bad portfolio value %q: %w", pv, err)
		}
		if snap.TotalValue, err = decimal.NewFromString(total); err != nil {
			return nil, fmt.Errorf("bad total value %q: %w", total, err)
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

func (j *SQLite) listTransactions(query string, args ...any) ([]TransactionRecord, error) {
	rows, err := j.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TransactionRecord
	for rows.Next() {
		rec, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(s scanner) (TransactionRecord, error) {
	var (
		rec        TransactionRecord
		price      string
		totalValue string
		commission string
	)
	err := s.Scan(
		&rec.OrderID,
		&rec.SequenceID,
		&rec.Time,
		&rec.Symbol,
		&rec.Quantity,
		&price,
		&rec.Type,
		&totalValue,
		&commission,
	)
	if err != nil {
		return TransactionRecord{}, err
	}

	if rec.Price, err = decimal.NewFromString(price); err != nil {
		return TransactionRecord{}, fmt.Errorf("bad price %q: %w", price, err)
	}
	if rec.TotalValue, err = decimal.NewFromString(totalValue); err != nil {
		return TransactionRecord{}, fmt.Errorf("bad total value %q: %w", totalValue, err)
	}
	if rec.Commission, err = decimal.NewFromString(commission); err != nil {
		return TransactionRecord{}, fmt.Errorf("bad commission %q: %w", commission, err)
	}
	return rec, nil
}
