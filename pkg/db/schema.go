package db

const schema = `
-- Performance and reliability settings
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;
PRAGMA temp_store = MEMORY;

-- Sites: the single configured base URL
CREATE TABLE IF NOT EXISTS sites (
    site_id INTEGER PRIMARY KEY CHECK (site_id = 1),
    base_url TEXT NOT NULL,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

-- Pages: the registry, position keeps display order (newest first)
CREATE TABLE IF NOT EXISTS pages (
    id TEXT PRIMARY KEY,
    position INTEGER NOT NULL,
    page_name TEXT NOT NULL DEFAULT '',
    page_url TEXT NOT NULL UNIQUE,
    title TEXT NOT NULL DEFAULT '',
    meta_name TEXT NOT NULL DEFAULT '',
    meta_description TEXT NOT NULL DEFAULT '',
    last_modified TEXT,
    change_frequency TEXT,
    priority REAL
);

CREATE INDEX IF NOT EXISTS idx_pages_position ON pages(position);

-- Discovery runs: one row per discover invocation
CREATE TABLE IF NOT EXISTS discovery_runs (
    run_id INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    base_url TEXT NOT NULL,
    outcome TEXT NOT NULL,
    source TEXT,
    pages_found INTEGER DEFAULT 0,
    pages_added INTEGER DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_runs_created ON discovery_runs(created_at DESC);

-- Discovery attempts: every fetch tried during a run
CREATE TABLE IF NOT EXISTS discovery_attempts (
    attempt_id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL,
    source TEXT NOT NULL,
    url TEXT NOT NULL,
    is_index BOOLEAN DEFAULT 0,
    found INTEGER DEFAULT 0,
    error TEXT,
    FOREIGN KEY (run_id) REFERENCES discovery_runs(run_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_attempts_run ON discovery_attempts(run_id);
`
