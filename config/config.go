// Package config loads and validates simulation configuration from YAML or
// JSON files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"papertrade/broker"
)

// Config is the complete configuration for a paper-trading session.
type Config struct {
	Account    AccountConfig    `json:"account" yaml:"account"`
	Agent      AgentConfig      `json:"agent" yaml:"agent"`
	Simulation SimulationConfig `json:"simulation" yaml:"simulation"`
	Journal    JournalConfig    `json:"journal" yaml:"journal"`
}

// AccountConfig contains account initialization parameters. Monetary values
// are strings so they parse to exact decimals in either YAML or JSON.
type AccountConfig struct {
	ID             string `json:"id" yaml:"id"`
	Currency       string `json:"currency" yaml:"currency"`
	InitialBalance string `json:"initial_balance" yaml:"initial_balance"`

	// Per-order commission: flat fee plus rate * notional. Both optional.
	CommissionRate string `json:"commission_rate,omitempty" yaml:"commission_rate,omitempty"`
	CommissionFlat string `json:"commission_flat,omitempty" yaml:"commission_flat,omitempty"`
}

// Balance returns the initial balance as a decimal. Call Validate first.
func (a AccountConfig) Balance() decimal.Decimal {
	d, _ := decimal.NewFromString(a.InitialBalance)
	return d
}

// Commission returns the configured commission model.
func (a AccountConfig) Commission() broker.Commission {
	var c broker.Commission
	if a.CommissionRate != "" {
		c.Rate, _ = decimal.NewFromString(a.CommissionRate)
	}
	if a.CommissionFlat != "" {
		c.Flat, _ = decimal.NewFromString(a.CommissionFlat)
	}
	return c
}

// AgentConfig selects and parameterizes the trading agent.
type AgentConfig struct {
	Name   string `json:"name" yaml:"name"`
	Window int    `json:"window,omitempty" yaml:"window,omitempty"`
	Fast   int    `json:"fast,omitempty" yaml:"fast,omitempty"`
	Slow   int    `json:"slow,omitempty" yaml:"slow,omitempty"`
}

// SimulationConfig drives the session runner.
type SimulationConfig struct {
	Symbol      string `json:"symbol" yaml:"symbol"`
	CandlesFile string `json:"candles_file" yaml:"candles_file"`
	TradeSize   int64  `json:"trade_size" yaml:"trade_size"`

	// MaxQuoteAge bounds quote staleness during the session, e.g. "1m".
	// Empty disables the check.
	MaxQuoteAge string `json:"max_quote_age,omitempty" yaml:"max_quote_age,omitempty"`

	Progress bool `json:"progress,omitempty" yaml:"progress,omitempty"`
}

// ParseMaxQuoteAge converts MaxQuoteAge to a duration; empty means zero.
func (s SimulationConfig) ParseMaxQuoteAge() (time.Duration, error) {
	if s.MaxQuoteAge == "" {
		return 0, nil
	}
	return time.ParseDuration(s.MaxQuoteAge)
}

// JournalConfig contains journaling parameters.
type JournalConfig struct {
	Type             string `json:"type" yaml:"type"` // "csv", "sqlite" or "none"
	TransactionsFile string `json:"transactions_file,omitempty" yaml:"transactions_file,omitempty"`
	EquityFile       string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath           string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LoadFromFile loads configuration from a YAML or JSON file (YAML is tried
// first) and validates it.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile writes the configuration as YAML (for .yaml/.yml paths) or
// indented JSON.
func (c *Config) SaveToFile(path string) error {
	var (
		data []byte
		err  error
	)
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks the configuration for structural problems. Agent names
// are resolved later by agent.ByName, which knows the full set.
func (c *Config) Validate() error {
	bal, err := decimal.NewFromString(c.Account.InitialBalance)
	if err != nil {
		return fmt.Errorf("account.initial_balance %q is not a decimal", c.Account.InitialBalance)
	}
	if bal.IsNegative() {
		return fmt.Errorf("account.initial_balance must be non-negative, got %s", bal)
	}
	for name, v := range map[string]string{
		"account.commission_rate": c.Account.CommissionRate,
		"account.commission_flat": c.Account.CommissionFlat,
	} {
		if v == "" {
			continue
		}
		d, err := decimal.NewFromString(v)
		if err != nil {
			return fmt.Errorf("%s %q is not a decimal", name, v)
		}
		if d.IsNegative() {
			return fmt.Errorf("%s must be non-negative, got %s", name, d)
		}
	}

	if c.Simulation.Symbol == "" {
		return fmt.Errorf("simulation.symbol is required")
	}
	if c.Simulation.TradeSize <= 0 {
		return fmt.Errorf("simulation.trade_size must be positive, got %d", c.Simulation.TradeSize)
	}
	if _, err := c.Simulation.ParseMaxQuoteAge(); err != nil {
		return fmt.Errorf("simulation.max_quote_age: %w", err)
	}

	switch c.Journal.Type {
	case "csv":
		if c.Journal.TransactionsFile == "" || c.Journal.EquityFile == "" {
			return fmt.Errorf("journal transactions_file and equity_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	case "none":
	default:
		return fmt.Errorf("journal.type must be 'csv', 'sqlite' or 'none'")
	}
	return nil
}

// Default returns a configuration with sensible defaults: a 10000 balance,
// no commission, the threshold agent, and no journaling.
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			ID:             "PAPER-001",
			Currency:       "USD",
			InitialBalance: "10000",
		},
		Agent: AgentConfig{
			Name:   "threshold",
			Window: 20,
		},
		Simulation: SimulationConfig{
			Symbol:    "AAPL",
			TradeSize: 100,
			Progress:  true,
		},
		Journal: JournalConfig{
			Type: "none",
		},
	}
}
