package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"tax-estimator/domain"

	_ "modernc.org/sqlite" // register sqlite driver
)

// createdAtLayout sorts lexicographically in the same order as time.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z"

// SQLiteHistory keeps estimate history in a SQLite database.
type SQLiteHistory struct {
	db *sql.DB
}

// OpenSQLiteHistory opens or creates the history database at dbPath.
func OpenSQLiteHistory(dbPath string) (*SQLiteHistory, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, errors.Wrap(err, "creating history dir")
		}
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, errors.Wrap(err, "opening history db")
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "creating schema")
	}

	return &SQLiteHistory{db: db}, nil
}

func (h *SQLiteHistory) Close() error {
	return h.db.Close()
}

func (h *SQLiteHistory) Save(ctx context.Context, entry domain.HistoryEntry) error {
	input, err := json.Marshal(entry.Input)
	if err != nil {
		return errors.Wrap(err, "encoding input")
	}
	result, err := json.Marshal(entry.Result)
	if err != nil {
		return errors.Wrap(err, "encoding result")
	}

	_, err = h.db.ExecContext(ctx, `INSERT INTO estimates
		(id, created_at, mode, jurisdiction, base, total_tax, input_json, result_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.CreatedAt.UTC().Format(createdAtLayout),
		string(entry.Input.Mode),
		string(domain.ParseJurisdiction(entry.Input.Jurisdiction)),
		entry.Result.Base.String(),
		entry.Result.TotalTax.String(),
		string(input),
		string(result),
	)
	return errors.Wrapf(err, "saving estimate %s", entry.ID)
}

func (h *SQLiteHistory) Recent(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	if limit <= 0 {
		limit = -1 // sqlite: no limit
	}
	rows, err := h.db.QueryContext(ctx, `SELECT id, created_at, input_json, result_json
		FROM estimates ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "querying estimates")
	}
	defer func() { _ = rows.Close() }()

	var out []domain.HistoryEntry
	for rows.Next() {
		var e domain.HistoryEntry
		var createdAt, inputJSON, resultJSON string
		if err := rows.Scan(&e.ID, &createdAt, &inputJSON, &resultJSON); err != nil {
			return nil, errors.Wrap(err, "scanning estimate")
		}
		if e.CreatedAt, err = time.Parse(createdAtLayout, createdAt); err != nil {
			return nil, errors.Wrapf(err, "parsing created_at of %s", e.ID)
		}
		if err := json.Unmarshal([]byte(inputJSON), &e.Input); err != nil {
			return nil, errors.Wrapf(err, "decoding input of %s", e.ID)
		}
		if err := json.Unmarshal([]byte(resultJSON), &e.Result); err != nil {
			return nil, errors.Wrapf(err, "decoding result of %s", e.ID)
		}
		out = append(out, e)
	}
	return out, errors.Wrap(rows.Err(), "iterating estimates")
}
