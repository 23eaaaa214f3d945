// Package agent defines the trade-decision collaborator that drives the
// broker: given an observation of the market, an agent answers buy, sell, or
// hold. The ledger and executor stay independently testable because nothing
// in them depends on how decisions are made.
package agent

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Action is a trade intent.
type Action int

const (
	Hold Action = iota
	Buy
	Sell
)

func (a Action) String() string {
	switch a {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	default:
		return "hold"
	}
}

// Observation is one step of market state shown to an agent. Agents that
// need history accumulate it themselves.
type Observation struct {
	Symbol string
	Price  decimal.Decimal
	Time   time.Time
}

// Agent decides what to do with each observation. Implementations may keep
// internal state and are not safe for concurrent use.
type Agent interface {
	Decide(obs Observation) Action
}

// Params configures the built-in agents.
type Params struct {
	// Window is the threshold agent's lookback, in observations.
	Window int
	// Fast and Slow are the SMA-cross periods.
	Fast int
	Slow int
}

// ByName builds one of the built-in agents.
func ByName(name string, p Params) (Agent, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "hold", "noop", "":
		return HoldAgent{}, nil

	case "threshold":
		return NewThreshold(p.Window)

	case "sma-cross", "smacross":
		return NewSMACross(p.Fast, p.Slow)

	default:
		return nil, fmt.Errorf("unknown agent %q (supported: hold, threshold, sma-cross)", name)
	}
}

// HoldAgent never trades.
type HoldAgent struct{}

func (HoldAgent) Decide(Observation) Action { return Hold }
