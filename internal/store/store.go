// Package store persists the session's scan activity and exports result
// sets for offline analysis.
package store

import (
	"context"

	"spreadscan/internal/domain"
)

// ScanRecord is a summary row of the scan log, cheap enough to list in the
// history pane without decoding full result sets.
type ScanRecord struct {
	ScanID          string
	ScanTime        string
	ResultCount     int
	Candidates      int
	DurationSeconds float64
}

// ScanLog records completed scans and recalls them later in the session.
type ScanLog interface {
	// LogScan records a completed scan, full result set included.
	LogScan(ctx context.Context, result *domain.ScannerResult) error

	// ListScans returns the most recent scan summaries, newest first,
	// up to limit.
	ListScans(ctx context.Context, limit int) ([]ScanRecord, error)

	// GetResult retrieves a logged scan's full result set by scan ID.
	GetResult(ctx context.Context, scanID string) (*domain.ScannerResult, error)

	// Close releases the underlying storage.
	Close() error
}

// ResultExporter writes a scan's result set to a file and returns its path.
type ResultExporter interface {
	Export(result *domain.ScannerResult) (string, error)
}
