package journal

const schema = `
CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	user_id INTEGER NOT NULL,
	kind TEXT NOT NULL,
	token TEXT NOT NULL,
	symbol TEXT NOT NULL,
	amount REAL NOT NULL,
	exec_price REAL NOT NULL,
	value_sol REAL NOT NULL,
	realized_pl REAL NOT NULL,
	dex TEXT NOT NULL,
	time DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_user ON trades(user_id);

CREATE TABLE IF NOT EXISTS equity (
	user_id INTEGER NOT NULL,
	time DATETIME NOT NULL,
	balance REAL NOT NULL,
	equity REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_equity_user_time ON equity(user_id, time);
`
