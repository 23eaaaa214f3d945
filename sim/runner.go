// Package sim replays a candle feed through a trading agent and the broker,
// journaling every execution and an equity snapshot per step.
package sim

import (
	"context"
	"errors"
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/shopspring/decimal"

	"papertrade/agent"
	"papertrade/broker"
	"papertrade/journal"
	"papertrade/ledger"
	"papertrade/market"
)

// Runner drives one simulated session: one symbol, one agent, one account.
type Runner struct {
	ex      *broker.Executor
	quotes  *market.Store
	feed    *market.Feed
	agent   agent.Agent
	journal journal.Journal

	// tradeSize is the number of shares per buy order. Sells close at most
	// the held quantity, so a partial fill of the trade size is possible.
	tradeSize int64

	// Progress shows a terminal progress bar while the session replays.
	Progress bool
}

// Result summarizes a finished session.
type Result struct {
	Steps    int
	Executed int
	// Rejected counts orders refused by the broker (insufficient funds or
	// shares). Rejections leave the account untouched and the session
	// continues.
	Rejected int

	FinalCash   decimal.Decimal
	FinalEquity decimal.Decimal
	// Unpriced lists symbols excluded from the final equity because no
	// price was available.
	Unpriced []string
}

func NewRunner(ex *broker.Executor, quotes *market.Store, feed *market.Feed, ag agent.Agent, j journal.Journal, tradeSize int64) *Runner {
	return &Runner{
		ex:        ex,
		quotes:    quotes,
		feed:      feed,
		agent:     ag,
		journal:   j,
		tradeSize: tradeSize,
	}
}

// Run replays the feed to exhaustion. Each step publishes the candle close
// as the live quote, asks the agent for a decision, and executes the
// resulting order. The loop stops early only on context cancellation or a
// journaling failure.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	if r.tradeSize <= 0 {
		return Result{}, fmt.Errorf("trade size must be positive, got %d", r.tradeSize)
	}

	var bar *progressbar.ProgressBar
	if r.Progress {
		bar = newProgressBar(r.feed.Len())
	}

	var res Result
	view := r.ex.View()

	for {
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		default:
		}

		candle, ok := r.feed.Next()
		if !ok {
			break
		}
		res.Steps++

		r.quotes.Set(r.feed.Symbol, candle.Close, candle.Time)

		action := r.agent.Decide(agent.Observation{
			Symbol: r.feed.Symbol,
			Price:  candle.Close,
			Time:   candle.Time,
		})

		if err := r.execute(ctx, action, &res); err != nil {
			return res, err
		}

		bal := view.Balances(ctx)
		if err := r.journal.RecordEquity(journal.EquitySnapshot{
			Time:           candle.Time,
			Cash:           bal.Cash,
			PortfolioValue: bal.PortfolioValue,
			TotalValue:     bal.TotalValue,
		}); err != nil {
			return res, fmt.Errorf("record equity: %w", err)
		}

		if bar != nil {
			_ = bar.Add(1)
		}
	}

	bal := view.Balances(ctx)
	res.FinalCash = bal.Cash
	res.FinalEquity = bal.TotalValue
	res.Unpriced = bal.Unpriced
	return res, nil
}

func (r *Runner) execute(ctx context.Context, action agent.Action, res *Result) error {
	quantity, ok := r.orderQuantity(action)
	if !ok {
		return nil
	}

	rcpt, err := r.ex.Execute(ctx, broker.OrderRequest{Symbol: r.feed.Symbol, Quantity: quantity})
	switch {
	case err == nil:
		res.Executed++
		if err := r.journal.RecordTransaction(journal.FromReceipt(rcpt)); err != nil {
			return fmt.Errorf("record transaction: %w", err)
		}
		return nil

	case errors.Is(err, ledger.ErrInsufficientFunds),
		errors.Is(err, ledger.ErrInsufficientShares),
		errors.Is(err, ledger.ErrNoSuchPosition):
		res.Rejected++
		return nil

	default:
		return fmt.Errorf("execute %s: %w", action, err)
	}
}

// orderQuantity maps an agent decision to a signed order size against the
// current position. Sells are capped at the held quantity; a sell with no
// position is a hold, mirroring how the account would reject it anyway.
func (r *Runner) orderQuantity(action agent.Action) (int64, bool) {
	switch action {
	case agent.Buy:
		return r.tradeSize, true

	case agent.Sell:
		var held int64
		for _, pos := range r.ex.View().Positions() {
			if pos.Symbol == r.feed.Symbol {
				held = pos.Quantity
				break
			}
		}
		if held == 0 {
			return 0, false
		}
		if held < r.tradeSize {
			return -held, true
		}
		return -r.tradeSize, true

	default:
		return 0, false
	}
}

func newProgressBar(steps int) *progressbar.ProgressBar {
	return progressbar.NewOptions(steps,
		progressbar.OptionSetDescription("Replaying session..."),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionShowCount(),
	)
}
