package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS runs (
    run_id              TEXT PRIMARY KEY,
    started_at          TEXT NOT NULL,
    finished_at         TEXT NOT NULL,
    outcome             TEXT NOT NULL,
    dry_run             INTEGER NOT NULL DEFAULT 0,
    item_url            TEXT NOT NULL,
    item_price          REAL NOT NULL,
    daily_remaining     REAL,
    monthly_remaining   REAL,
    block_reason        TEXT,
    shortfall           REAL,
    stage               TEXT,
    cause               TEXT,
    confirmation_id     TEXT,
    screenshot_path     TEXT,
    document_path       TEXT
);

CREATE TABLE IF NOT EXISTS run_lock (
    id                  INTEGER PRIMARY KEY CHECK (id = 1),
    pid                 INTEGER NOT NULL,
    acquired_at_ns      INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
CREATE INDEX IF NOT EXISTS idx_runs_outcome ON runs(outcome);
`
