package journal

const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	created_at DATETIME NOT NULL,
	gridlog_name TEXT NOT NULL,
	summary_name TEXT NOT NULL,
	min_users INTEGER NOT NULL,
	output_name TEXT NOT NULL,
	event_rows INTEGER NOT NULL,
	qualified INTEGER NOT NULL,
	fully_completed INTEGER NOT NULL,
	results INTEGER NOT NULL,
	warnings TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS results (
	run_id TEXT NOT NULL REFERENCES runs(run_id),
	portfolio TEXT NOT NULL,
	reason TEXT NOT NULL,
	time TEXT NOT NULL,
	breach_value TEXT,
	PRIMARY KEY (run_id, portfolio)
);

CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
`
