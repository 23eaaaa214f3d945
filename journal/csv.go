package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

type CSV struct {
	transactions *csv.Writer
	equity       *csv.Writer
	tf, ef       *os.File
}

func NewCSV(transactionsPath, equityPath string) (*CSV, error) {
	tf, err := os.Create(transactionsPath)
	if err != nil {
		return nil, err
	}
	ef, err := os.Create(equityPath)
	if err != nil {
		tf.Close()
		return nil, err
	}

	j := &CSV{transactions: csv.NewWriter(tf), equity: csv.NewWriter(ef), tf: tf, ef: ef}
	if err := j.writeHeaders(); err != nil {
		tf.Close()
		ef.Close()
		return nil, err
	}
	return j, nil
}

func (j *CSV) writeHeaders() error {
	if err := j.transactions.Write([]string{"order_id", "sequence_id", "time", "symbol", "quantity", "price", "order_type", "total_value", "commission"}); err != nil {
		return err
	}
	if err := j.equity.Write([]string{"time", "cash", "portfolio_value", "total_value"}); err != nil {
		return err
	}

	j.transactions.Flush()
	if err := j.transactions.Error(); err != nil {
		return err
	}
	j.equity.Flush()
	return j.equity.Error()
}

func (j *CSV) RecordTransaction(rec TransactionRecord) error {
	err := j.transactions.Write([]string{
		rec.OrderID,
		strconv.FormatInt(rec.SequenceID, 10),
		rec.Time.Format(time.RFC3339),
		rec.Symbol,
		strconv.FormatInt(rec.Quantity, 10),
		rec.Price.String(),
		rec.Type,
		rec.TotalValue.String(),
		rec.Commission.String(),
	})
	if err != nil {
		return err
	}
	j.transactions.Flush()
	return j.transactions.Error()
}

func (j *CSV) RecordEquity(snap EquitySnapshot) error {
	err := j.equity.Write([]string{
		snap.Time.Format(time.RFC3339),
		snap.Cash.String(),
		snap.PortfolioValue.String(),
		snap.TotalValue.String(),
	})
	if err != nil {
		return err
	}
	j.equity.Flush()
	return j.equity.Error()
}

func (j *CSV) Close() error {
	j.transactions.Flush()
	if err := j.transactions.Error(); err != nil {
		return err
	}
	j.equity.Flush()
	if err := j.equity.Error(); err != nil {
		return err
	}

	if err := j.tf.Close(); err != nil {
		return err
	}
	return j.ef.Close()
}
