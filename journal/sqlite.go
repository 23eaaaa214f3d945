package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordTransaction(rec TransactionRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO transactions
		(order_id, sequence_id, time, symbol, quantity, price, order_type, total_value, commission)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.OrderID, rec.SequenceID, rec.Time, rec.Symbol, rec.Quantity,
		rec.Price.String(), rec.Type, rec.TotalValue.String(), rec.Commission.String(),
	)
	return err
}

func (j *SQLite) RecordEquity(snap EquitySnapshot) error {
	_, err := j.db.Exec(`
		INSERT INTO equity
		(time, cash, portfolio_value, total_value)
		VALUES (?, ?, ?, ?)`,
		snap.Time, snap.Cash.String(), snap.PortfolioValue.String(), snap.TotalValue.String(),
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
