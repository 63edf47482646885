package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"spreadscan/internal/domain"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// Compile-time interface check.
var _ ScanLog = (*SQLiteScanLog)(nil)

// SQLiteScanLog implements ScanLog backed by a SQLite database. The default
// path is ":memory:", so the log lives and dies with the session unless the
// user configures a file.
type SQLiteScanLog struct {
	db *sql.DB
}

const scansDDL = `
CREATE TABLE IF NOT EXISTS scans (
	scan_id          TEXT PRIMARY KEY,
	scan_time        TEXT NOT NULL,
	result_count     INTEGER NOT NULL,
	candidates       INTEGER NOT NULL,
	duration_seconds REAL NOT NULL,
	result_json      TEXT NOT NULL
);`

// NewSQLiteScanLog opens (or creates) the scan log at dbPath and ensures the
// schema exists.
func NewSQLiteScanLog(dbPath string) (*SQLiteScanLog, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening scan log: %w", err)
	}
	if _, err := db.Exec(scansDDL); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating scans table: %w", err)
	}
	return &SQLiteScanLog{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteScanLog) Close() error {
	return s.db.Close()
}

// LogScan records a completed scan. The full result set is stored as JSON in
// the same row; summaries stay queryable without decoding it.
func (s *SQLiteScanLog) LogScan(ctx context.Context, result *domain.ScannerResult) error {
	blob, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encoding scan %s: %w", result.ScanID, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO scans
		 (scan_id, scan_time, result_count, candidates, duration_seconds, result_json)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		result.ScanID,
		result.ScanTime,
		len(result.Results),
		result.TotalCandidatesEvaluated,
		result.ScanDurationSeconds,
		string(blob),
	)
	if err != nil {
		return fmt.Errorf("logging scan %s: %w", result.ScanID, err)
	}
	return nil
}

// ListScans returns the most recent scan summaries, newest first.
func (s *SQLiteScanLog) ListScans(ctx context.Context, limit int) ([]ScanRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT scan_id, scan_time, result_count, candidates, duration_seconds
		 FROM scans ORDER BY scan_time DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing scans: %w", err)
	}
	defer rows.Close()

	var records []ScanRecord
	for rows.Next() {
		var r ScanRecord
		if err := rows.Scan(&r.ScanID, &r.ScanTime, &r.ResultCount, &r.Candidates, &r.DurationSeconds); err != nil {
			return nil, fmt.Errorf("scanning scan row: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// GetResult retrieves a logged scan's full result set.
func (s *SQLiteScanLog) GetResult(ctx context.Context, scanID string) (*domain.ScannerResult, error) {
	var blob string
	err := s.db.QueryRowContext(ctx,
		`SELECT result_json FROM scans WHERE scan_id = ?`, scanID).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("scan %s not found", scanID)
	}
	if err != nil {
		return nil, fmt.Errorf("reading scan %s: %w", scanID, err)
	}

	var result domain.ScannerResult
	if err := json.Unmarshal([]byte(blob), &result); err != nil {
		return nil, fmt.Errorf("decoding scan %s: %w", scanID, err)
	}
	return &result, nil
}
