// journal/schema.go
package journal

const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	created TEXT NOT NULL,
	system TEXT NOT NULL,
	universe TEXT NOT NULL,
	time_frame TEXT NOT NULL,
	instruments INTEGER NOT NULL,
	skipped INTEGER NOT NULL,
	start_date TEXT NOT NULL,
	end_date TEXT NOT NULL,
	trades INTEGER NOT NULL,
	wins INTEGER NOT NULL,
	losses INTEGER NOT NULL,
	running INTEGER NOT NULL,
	profit REAL NOT NULL,
	win_rate REAL,
	profit_factor REAL,
	budget REAL NOT NULL,
	annual_return REAL,
	max_drawdown REAL NOT NULL,
	max_market_drawdown REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS trades (
	run_id TEXT NOT NULL REFERENCES runs(run_id),
	seq INTEGER NOT NULL,
	code TEXT NOT NULL,
	short INTEGER NOT NULL,
	open_date TEXT NOT NULL,
	close_date TEXT NOT NULL,
	holding_days INTEGER NOT NULL,
	buy_notional REAL NOT NULL,
	sell_notional REAL NOT NULL,
	profit REAL NOT NULL,
	ratio REAL,
	daily_market REAL NOT NULL,
	daily_book REAL NOT NULL,
	PRIMARY KEY (run_id, seq)
);

CREATE TABLE IF NOT EXISTS curve (
	run_id TEXT NOT NULL REFERENCES runs(run_id),
	date TEXT NOT NULL,
	market REAL NOT NULL,
	book REAL NOT NULL,
	PRIMARY KEY (run_id, date)
);

CREATE INDEX IF NOT EXISTS idx_trades_close ON trades(run_id, close_date);
`
