// journal/schema.go
package journal

const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	created DATETIME NOT NULL,
	strategy TEXT NOT NULL,
	start DATETIME NOT NULL,
	end DATETIME NOT NULL,
	sessions INTEGER NOT NULL,
	trades INTEGER NOT NULL,
	gains INTEGER NOT NULL,
	start_cash REAL NOT NULL,
	end_cash REAL NOT NULL,
	realized_gain REAL NOT NULL,
	commissions REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS trades (
	run_id TEXT NOT NULL,
	symbol TEXT NOT NULL,
	trade_id INTEGER NOT NULL,
	size REAL NOT NULL,
	price REAL NOT NULL,
	time DATETIME NOT NULL,
	meta TEXT NOT NULL,
	PRIMARY KEY (run_id, symbol, trade_id)
);

CREATE TABLE IF NOT EXISTS commissions (
	run_id TEXT NOT NULL,
	symbol TEXT NOT NULL,
	trade_id INTEGER NOT NULL,
	price REAL NOT NULL,
	size REAL NOT NULL,
	time DATETIME NOT NULL,
	amount REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS capital_gains (
	run_id TEXT NOT NULL,
	symbol TEXT NOT NULL,
	size REAL NOT NULL,
	open_trade_id INTEGER NOT NULL,
	open_price REAL NOT NULL,
	open_time DATETIME NOT NULL,
	open_meta TEXT NOT NULL,
	close_trade_id INTEGER NOT NULL,
	close_price REAL NOT NULL,
	close_time DATETIME NOT NULL,
	close_meta TEXT NOT NULL,
	long_term BOOLEAN NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_run ON trades(run_id);
CREATE INDEX IF NOT EXISTS idx_commissions_run ON commissions(run_id);
CREATE INDEX IF NOT EXISTS idx_gains_run ON capital_gains(run_id);
`
