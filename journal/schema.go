package journal

// Decimal columns are stored as TEXT so amounts round-trip exactly.
const Schema = `
CREATE TABLE IF NOT EXISTS transactions (
	order_id TEXT PRIMARY KEY,
	sequence_id INTEGER NOT NULL,
	time DATETIME NOT NULL,
	symbol TEXT NOT NULL,
	quantity INTEGER NOT NULL,
	price TEXT NOT NULL,
	order_type TEXT NOT NULL,
	total_value TEXT NOT NULL,
	commission TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transactions_symbol ON transactions(symbol);
CREATE INDEX IF NOT EXISTS idx_transactions_time ON transactions(time);

CREATE TABLE IF NOT EXISTS equity (
	time DATETIME NOT NULL,
	cash TEXT NOT NULL,
	portfolio_value TEXT NOT NULL,
	total_value TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_equity_time ON equity(time);
`
