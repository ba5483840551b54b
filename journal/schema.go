package journal

const Schema = `
CREATE TABLE IF NOT EXISTS fills (
	fill_id TEXT PRIMARY KEY,
	side TEXT NOT NULL,
	quantity REAL NOT NULL,
	price REAL NOT NULL,
	time DATETIME NOT NULL,
	cash REAL NOT NULL,
	position REAL NOT NULL,
	reason TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS equity (
	time DATETIME NOT NULL,
	cash REAL NOT NULL,
	position REAL NOT NULL,
	equity REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_fills_time ON fills(time);
CREATE INDEX IF NOT EXISTS idx_equity_time ON equity(time);
`
