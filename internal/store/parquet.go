package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"

	"spreadscan/internal/domain"
)

// Compile-time interface check.
var _ ResultExporter = (*ParquetExporter)(nil)

// ParquetExporter implements ResultExporter using Parquet files on disk.
// Export is an explicit user action; nothing is written unless asked.
type ParquetExporter struct {
	DataDir string
}

// NewParquetExporter creates an exporter rooted at the given data directory.
func NewParquetExporter(dataDir string) *ParquetExporter {
	return &ParquetExporter{DataDir: dataDir}
}

// ---------------------------------------------------------------------------
// Parquet record type (on-disk schema)
// ---------------------------------------------------------------------------

// SpreadRecord is the Parquet schema for one ranked row, flattened so the
// file is directly usable from pandas/duckdb. Single-leg LEAPS rows carry a
// zero short strike and spread width.
type SpreadRecord struct {
	Rank                int     `parquet:"rank"`
	Underlying          string  `parquet:"underlying"`
	SpreadType          string  `parquet:"spread_type"`
	Expiration          string  `parquet:"expiration"`
	DTE                 int32   `parquet:"dte"`
	LongStrike          float64 `parquet:"long_strike"`
	ShortStrike         float64 `parquet:"short_strike"`
	NetDebit            float64 `parquet:"net_debit"`
	MaxProfit           float64 `parquet:"max_profit"`
	MaxLoss             float64 `parquet:"max_loss"`
	Breakeven           float64 `parquet:"breakeven"`
	ProbabilityOfProfit float64 `parquet:"probability_of_profit"`
	IVRank              float64 `parquet:"iv_rank"`
	SpreadWidth         float64 `parquet:"spread_width"`
	CompositeScore      float64 `parquet:"composite_score"`
	MLQualityScore      float64 `parquet:"ml_quality_score"`
	SentimentScore      float64 `parquet:"sentiment_score"`
}

// Export writes the result set to <DataDir>/exports/<scan_id>.parquet and
// returns the written path.
func (e *ParquetExporter) Export(result *domain.ScannerResult) (string, error) {
	if result == nil || len(result.Results) == 0 {
		return "", fmt.Errorf("nothing to export")
	}

	records := make([]SpreadRecord, 0, len(result.Results))
	for _, r := range result.Results {
		rec := SpreadRecord{
			Rank:                r.Rank,
			Underlying:          r.Spread.Underlying,
			SpreadType:          string(r.Spread.SpreadType),
			Expiration:          r.Spread.Expiration,
			DTE:                 int32(r.Spread.DTE),
			LongStrike:          r.Spread.LongLeg.Strike,
			NetDebit:            r.Spread.NetDebit,
			MaxProfit:           r.Spread.MaxProfit,
			MaxLoss:             r.Spread.MaxLoss,
			Breakeven:           r.Spread.Breakeven,
			ProbabilityOfProfit: r.Spread.ProbabilityOfProfit,
			IVRank:              r.Spread.IVRank,
			SpreadWidth:         r.Spread.SpreadWidth,
			CompositeScore:      r.RiskScore.CompositeScore,
			MLQualityScore:      r.MLPrediction.SpreadQualityScore,
			SentimentScore:      r.Sentiment.SentimentScore,
		}
		if r.Spread.ShortLeg != nil {
			rec.ShortStrike = r.Spread.ShortLeg.Strike
		}
		records = append(records, rec)
	}

	path := e.exportPath(result.ScanID)
	if err := writeParquetFile(path, records); err != nil {
		return "", fmt.Errorf("exporting scan %s: %w", result.ScanID, err)
	}
	return path, nil
}

// exportPath builds the export file path for a scan ID, sanitized for the
// filesystem.
func (e *ParquetExporter) exportPath(scanID string) string {
	name := strings.ReplaceAll(scanID, string(filepath.Separator), "-")
	if name == "" {
		name = "scan"
	}
	return filepath.Join(e.DataDir, "exports", name+".parquet")
}

// ---------------------------------------------------------------------------
// Generic Parquet helpers
// ---------------------------------------------------------------------------

func writeParquetFile[T any](path string, records []T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return parquet.WriteFile(path, records)
}

func readParquetFile[T any](path string) ([]T, error) {
	rows, err := parquet.ReadFile[T](path)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
