package store

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"spreadscan/internal/domain"
)

func sampleResult(scanID, scanTime string, n int) *domain.ScannerResult {
	short := domain.OptionQuote{Strike: 105, OptionType: domain.Call}
	results := make([]domain.RankedSpread, n)
	for i := range results {
		results[i] = domain.RankedSpread{
			Rank: i + 1,
			Spread: domain.SpreadCandidate{
				Underlying:  fmt.Sprintf("SYM%d", i),
				SpreadType:  domain.BullCall,
				Expiration:  "2026-12-18",
				DTE:         109,
				LongLeg:     domain.OptionQuote{Strike: 100, OptionType: domain.Call},
				ShortLeg:    &short,
				NetDebit:    1.85,
				MaxProfit:   3.15,
				SpreadWidth: 5,
			},
			RiskScore: domain.RiskScore{CompositeScore: 72.5},
		}
	}
	return &domain.ScannerResult{
		ScanID:                   scanID,
		ScanTime:                 scanTime,
		TotalCandidatesEvaluated: n * 10,
		Results:                  results,
		ScanDurationSeconds:      4.2,
	}
}

func TestScanLogRoundTrip(t *testing.T) {
	log, err := NewSQLiteScanLog(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteScanLog: %v", err)
	}
	defer log.Close()
	ctx := context.Background()

	want := sampleResult("scan-1", "2026-08-31T10:00:00Z", 3)
	if err := log.LogScan(ctx, want); err != nil {
		t.Fatalf("LogScan: %v", err)
	}

	got, err := log.GetResult(ctx, "scan-1")
	if err != nil {
		t.Fatalf("GetResult: %v", err)
	}
	if got.ScanID != want.ScanID {
		t.Errorf("ScanID = %q, want %q", got.ScanID, want.ScanID)
	}
	if len(got.Results) != 3 {
		t.Fatalf("len(Results) = %d, want 3", len(got.Results))
	}
	if got.Results[0].Spread.ShortLeg == nil || got.Results[0].Spread.ShortLeg.Strike != 105 {
		t.Error("short leg should survive the round trip")
	}
	if got.TotalCandidatesEvaluated != 30 {
		t.Errorf("TotalCandidatesEvaluated = %d, want 30", got.TotalCandidatesEvaluated)
	}
}

func TestScanLogListNewestFirst(t *testing.T) {
	log, err := NewSQLiteScanLog(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteScanLog: %v", err)
	}
	defer log.Close()
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		r := sampleResult(fmt.Sprintf("scan-%d", i), fmt.Sprintf("2026-08-31T10:0%d:00Z", i), i)
		if err := log.LogScan(ctx, r); err != nil {
			t.Fatalf("LogScan: %v", err)
		}
	}

	records, err := log.ListScans(ctx, 3)
	if err != nil {
		t.Fatalf("ListScans: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("len(records) = %d, want 3 (limit)", len(records))
	}
	if records[0].ScanID != "scan-5" {
		t.Errorf("records[0].ScanID = %q, want scan-5 (newest first)", records[0].ScanID)
	}
	if records[0].ResultCount != 5 {
		t.Errorf("records[0].ResultCount = %d, want 5", records[0].ResultCount)
	}
}

func TestScanLogGetResultMissing(t *testing.T) {
	log, err := NewSQLiteScanLog(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteScanLog: %v", err)
	}
	defer log.Close()

	if _, err := log.GetResult(context.Background(), "nope"); err == nil {
		t.Error("GetResult for an unknown scan should fail")
	}
}

func TestParquetExport(t *testing.T) {
	dir := t.TempDir()
	ex := NewParquetExporter(dir)

	result := sampleResult("scan-abc", "2026-08-31T10:00:00Z", 2)
	path, err := ex.Export(result)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if !strings.HasSuffix(path, filepath.Join("exports", "scan-abc.parquet")) {
		t.Errorf("export path = %q, want exports/scan-abc.parquet suffix", path)
	}

	records, err := readParquetFile[SpreadRecord](path)
	if err != nil {
		t.Fatalf("reading export back: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	if records[0].Underlying != "SYM0" || records[0].ShortStrike != 105 {
		t.Errorf("first record = %+v, want SYM0 with short strike 105", records[0])
	}
}

func TestParquetExportEmpty(t *testing.T) {
	ex := NewParquetExporter(t.TempDir())
	if _, err := ex.Export(&domain.ScannerResult{ScanID: "empty"}); err == nil {
		t.Error("exporting an empty result set should fail")
	}
}
