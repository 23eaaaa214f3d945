package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"papertrade/agent"
	"papertrade/broker"
	"papertrade/config"
	"papertrade/journal"
	"papertrade/market"
	"papertrade/sim"
)

func newInitCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Default().SaveToFile(out); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "papertrade.yaml", "output path")
	return cmd
}

func newRunCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Replay a candle file through an agent and the simulated broker",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFromFile(configPath)
			if err != nil {
				return err
			}
			if cfg.Simulation.CandlesFile == "" {
				return fmt.Errorf("simulation.candles_file is required to run a session")
			}

			candles, err := market.LoadCandlesCSV(cfg.Simulation.CandlesFile)
			if err != nil {
				return err
			}

			quotes := market.NewStore()
			if age, _ := cfg.Simulation.ParseMaxQuoteAge(); age > 0 {
				quotes.SetMaxAge(age)
			}

			ag, err := agent.ByName(cfg.Agent.Name, agent.Params{
				Window: cfg.Agent.Window,
				Fast:   cfg.Agent.Fast,
				Slow:   cfg.Agent.Slow,
			})
			if err != nil {
				return err
			}

			j, err := openJournal(cfg.Journal)
			if err != nil {
				return err
			}
			defer j.Close()

			ex := broker.NewExecutor(cfg.Account.Balance(), quotes, cfg.Account.Commission())
			feed := market.NewFeed(cfg.Simulation.Symbol, candles)

			runner := sim.NewRunner(ex, quotes, feed, ag, j, cfg.Simulation.TradeSize)
			runner.Progress = cfg.Simulation.Progress

			res, err := runner.Run(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Printf("\nSession complete: %d steps, %d orders executed, %d rejected\n",
				res.Steps, res.Executed, res.Rejected)
			fmt.Printf("Cash: %s %s\n", res.FinalCash.StringFixed(2), cfg.Account.Currency)
			fmt.Printf("Equity: %s %s\n", res.FinalEquity.StringFixed(2), cfg.Account.Currency)
			for _, sym := range res.Unpriced {
				fmt.Printf("warning: no price for %s, excluded from equity\n", sym)
			}

			positions := ex.View().OpenPositions(cmd.Context())
			if len(positions) > 0 {
				fmt.Println("\nOpen positions:")
				for _, pos := range positions {
					line := fmt.Sprintf("  %-8s %6d @ %s", pos.Symbol, pos.Quantity, pos.AvgPrice.StringFixed(2))
					if pos.Unpriced {
						fmt.Printf("%s (unpriced)\n", line)
						continue
					}
					fmt.Printf("%s  now %s  P&L %s\n", line,
						pos.CurrentPrice.StringFixed(2), pos.UnrealizedPL.StringFixed(2))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "papertrade.yaml", "path to config file")
	return cmd
}

func openJournal(cfg config.JournalConfig) (journal.Journal, error) {
	switch cfg.Type {
	case "sqlite":
		return journal.NewSQLite(cfg.DBPath)
	case "csv":
		return journal.NewCSV(cfg.TransactionsFile, cfg.EquityFile)
	default:
		return journal.Discard{}, nil
	}
}
