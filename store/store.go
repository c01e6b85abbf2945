// Package store persists run reports to Postgres, so a long-running
// server can answer "what did we find in this bundle last time" without
// re-scanning it.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq" // database/sql driver registration

	"github.com/apkguard/apkguard/report"
)

// Store wraps a Postgres connection pool holding apkguard's run history.
type Store struct {
	db *sql.DB
}

// Open connects to Postgres via dsn (a libpq-style connection string) and
// ensures the run_reports table exists.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: opening connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: pinging database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS run_reports (
	run_id TEXT PRIMARY KEY,
	filename TEXT NOT NULL,
	md5 TEXT NOT NULL,
	weighted_score DOUBLE PRECISION NOT NULL,
	report JSONB NOT NULL,
	scanned_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS run_reports_md5_idx ON run_reports (md5);
`
	_, err := s.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("store: running migration: %w", err)
	}
	return nil
}

// Save inserts one run's report, keyed by its RunID.
func (s *Store) Save(ctx context.Context, rr report.RunReport) error {
	raw, err := json.Marshal(rr)
	if err != nil {
		return fmt.Errorf("store: marshaling report: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO run_reports (run_id, filename, md5, weighted_score, report) VALUES ($1, $2, $3, $4, $5)`,
		rr.RunID, rr.Filename, rr.MD5, rr.WeightedScore, raw,
	)
	if err != nil {
		return fmt.Errorf("store: inserting report %s: %w", rr.RunID, err)
	}
	return nil
}

// ByMD5 returns every stored report for bundles sharing an MD5, most
// recent first — the common "have we seen this exact bundle before" query.
func (s *Store) ByMD5(ctx context.Context, md5 string) ([]report.RunReport, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT report FROM run_reports WHERE md5 = $1 ORDER BY scanned_at DESC`, md5)
	if err != nil {
		return nil, fmt.Errorf("store: querying by md5: %w", err)
	}
	defer rows.Close()

	var out []report.RunReport
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("store: scanning row: %w", err)
		}
		var rr report.RunReport
		if err := json.Unmarshal(raw, &rr); err != nil {
			return nil, fmt.Errorf("store: decoding stored report: %w", err)
		}
		out = append(out, rr)
	}
	return out, rows.Err()
}

// ByRunID returns one run's stored report.
func (s *Store) ByRunID(ctx context.Context, runID string) (report.RunReport, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx, `SELECT report FROM run_reports WHERE run_id = $1`, runID).Scan(&raw)
	if err != nil {
		return report.RunReport{}, fmt.Errorf("store: fetching run %s: %w", runID, err)
	}
	var rr report.RunReport
	if err := json.Unmarshal(raw, &rr); err != nil {
		return report.RunReport{}, fmt.Errorf("store: decoding stored report: %w", err)
	}
	return rr, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}
