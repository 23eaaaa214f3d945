package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"papertrade/journal"
)

func newJournalCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Inspect a journaled session",
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", "papertrade.db", "path to the journal database")

	tx := &cobra.Command{
		Use:   "tx <order-id>",
		Short: "Show one journaled transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := journal.NewSQLite(dbPath)
			if err != nil {
				return err
			}
			defer j.Close()

			rec, err := j.GetTransaction(args[0])
			if err != nil {
				return err
			}
			printTransaction(rec)
			return nil
		},
	}

	var symbol string
	history := &cobra.Command{
		Use:   "history",
		Short: "List journaled transactions in execution order",
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := journal.NewSQLite(dbPath)
			if err != nil {
				return err
			}
			defer j.Close()

			var recs []journal.TransactionRecord
			if symbol != "" {
				recs, err = j.ListTransactionsBySymbol(symbol)
			} else {
				recs, err = j.ListTransactions()
			}
			if err != nil {
				return err
			}
			for _, rec := range recs {
				printTransaction(rec)
			}
			return nil
		},
	}
	history.Flags().StringVar(&symbol, "symbol", "", "restrict to one symbol")

	cmd.AddCommand(tx, history)
	return cmd
}

func printTransaction(rec journal.TransactionRecord) {
	side := "buy"
	qty := rec.Quantity
	if qty < 0 {
		side = "sell"
		qty = -qty
	}
	fmt.Printf("%4d  %s  %-4s %6d %-8s @ %s  total %s  commission %s  (%s)\n",
		rec.SequenceID,
		rec.Time.Format("2006-01-02 15:04:05"),
		side, qty, rec.Symbol,
		rec.Price.StringFixed(2),
		rec.TotalValue.StringFixed(2),
		rec.Commission.StringFixed(2),
		rec.OrderID)
}
