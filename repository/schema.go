package repository

const schemaSQL = `
CREATE TABLE IF NOT EXISTS estimates (
    id            TEXT PRIMARY KEY,
    created_at    TEXT NOT NULL,
    mode          TEXT NOT NULL,
    jurisdiction  TEXT NOT NULL,
    base          TEXT NOT NULL,
    total_tax     TEXT NOT NULL,
    input_json    TEXT NOT NULL,
    result_json   TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_estimates_created ON estimates(created_at);
`
