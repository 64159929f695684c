// Package store archives composed report summaries in SQLite.
//
// Each summary is kept as a JSON blob next to a few indexed columns
// (settlement date, creation time, headline figures) so listings do not
// have to decode every row.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"imbalance-report/internal/report"
)

// ErrNotFound is returned by Get for an unknown id.
var ErrNotFound = errors.New("report not found")

const schema = `
CREATE TABLE IF NOT EXISTS reports (
	id              TEXT PRIMARY KEY,
	settlement_date TEXT NOT NULL,
	created_at      TEXT NOT NULL,
	total_cost      TEXT NOT NULL,
	unit_rate       TEXT NOT NULL,
	peak_hour       INTEGER NOT NULL,
	summary         TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_reports_created_at ON reports (created_at);
CREATE INDEX IF NOT EXISTS idx_reports_settlement_date ON reports (settlement_date);
`

// Record is one archived report.
type Record struct {
	ID             string          `json:"id"`
	SettlementDate string          `json:"settlement_date"`
	CreatedAt      time.Time       `json:"created_at"`
	Summary        *report.Summary `json:"summary"`
}

// Store is safe for concurrent use; database/sql serialises access to the single connection.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the archive at path and applies the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("store path is empty")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows a single writer; one connection also keeps :memory: databases shared.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save archives summary under settlementDate. A summary without an ID is given
// a fresh uuid, written back onto the summary.
func (s *Store) Save(ctx context.Context, settlementDate string, summary *report.Summary) (string, error) {
	if summary == nil {
		return "", errors.New("summary is nil")
	}
	if summary.ID == "" {
		summary.ID = uuid.NewString()
	}
	blob, err := json.Marshal(summary)
	if err != nil {
		return "", fmt.Errorf("failed to encode summary: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO reports (id, settlement_date, created_at, total_cost, unit_rate, peak_hour, summary)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		summary.ID,
		settlementDate,
		s.now().UTC().Format(time.RFC3339Nano),
		summary.TotalCost.String(),
		summary.UnitRate.String(),
		summary.PeakHour,
		string(blob),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert report %s: %w", summary.ID, err)
	}
	return summary.ID, nil
}

// Get loads one archived report. Unknown ids give ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, settlement_date, created_at, summary
FROM reports
WHERE id = ?`, id)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// List returns up to limit records, newest first. limit <= 0 means 50.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, settlement_date, created_at, summary
FROM reports
ORDER BY created_at DESC, rowid DESC
LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (*Record, error) {
	var (
		rec       Record
		createdAt string
		blob      string
	)
	if err := sc.Scan(&rec.ID, &rec.SettlementDate, &createdAt, &blob); err != nil {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("report %s: bad created_at %q: %w", rec.ID, createdAt, err)
	}
	rec.CreatedAt = t

	var summary report.Summary
	if err := json.Unmarshal([]byte(blob), &summary); err != nil {
		return nil, fmt.Errorf("report %s: failed to decode summary: %w", rec.ID, err)
	}
	rec.Summary = &summary
	return &rec, nil
}
