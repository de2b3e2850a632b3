package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS samples (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    metric     TEXT NOT NULL,
    day        TEXT NOT NULL,
    value      REAL NOT NULL,
    logged_at  TEXT NOT NULL,
    source     TEXT NOT NULL DEFAULT 'manual'
);

CREATE TABLE IF NOT EXISTS snapshots (
    reference_date TEXT PRIMARY KEY,
    estimate       TEXT NOT NULL,
    created_at     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS file_tracker (
    file_path   TEXT PRIMARY KEY,
    mtime_ns    INTEGER NOT NULL,
    size_bytes  INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_samples_metric_day ON samples(metric, day);
CREATE INDEX IF NOT EXISTS idx_samples_logged ON samples(logged_at);
`
