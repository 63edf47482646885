// Package results composes a completed scan's ranked rows into the sortable,
// selectable table the dashboard renders. Sorting is UI-local: it never
// mutates the ScannerResult, whose ordering belongs to the scan engine.
package results

import (
	"sort"

	"spreadscan/internal/domain"
)

// Column identifies a sortable results column.
type Column int

const (
	ColSymbol Column = iota
	ColStrategy
	ColDTE
	ColDebit
	ColMaxProfit
	ColPoP
	ColIVRank
	ColQuality
	ColRisk
	ColumnCount
)

// Title returns the column header label.
func (c Column) Title() string {
	switch c {
	case ColSymbol:
		return "Symbol"
	case ColStrategy:
		return "Strategy"
	case ColDTE:
		return "DTE"
	case ColDebit:
		return "Debit"
	case ColMaxProfit:
		return "MaxPft"
	case ColPoP:
		return "PoP"
	case ColIVRank:
		return "IVR"
	case ColQuality:
		return "ML"
	case ColRisk:
		return "Risk"
	}
	return "?"
}

// Direction is the per-column sort direction. Repeated toggles on one column
// cycle Ascending → Descending → Unsorted.
type Direction int

const (
	Unsorted Direction = iota
	Ascending
	Descending
)

// Indicator returns the header marker for the direction.
func (d Direction) Indicator() string {
	switch d {
	case Ascending:
		return "▲"
	case Descending:
		return "▼"
	}
	return ""
}

// RowKey is the identity of a result row for selection and highlighting.
// Rank is deliberately excluded: it is unique only within one result set,
// and identity must not spuriously carry a highlight across scans.
type RowKey struct {
	Underlying string
	Expiration string
	Strategy   domain.SpreadType
}

// KeyOf returns the selection identity of a row.
func KeyOf(r *domain.RankedSpread) RowKey {
	return RowKey{
		Underlying: r.Spread.Underlying,
		Expiration: r.Spread.Expiration,
		Strategy:   r.Spread.SpreadType,
	}
}

// Table is the UI-local view over one result set. The original order (the
// engine's rank order) is kept and is what Unsorted shows.
type Table struct {
	original []domain.RankedSpread
	sortCol  Column
	dir      Direction
}

// NewTable builds a table over the given rows. The slice is copied; the
// caller's ScannerResult is never reordered.
func NewTable(rows []domain.RankedSpread) *Table {
	t := &Table{}
	t.SetRows(rows)
	return t
}

// SetRows replaces the rows (a new scan result). The sort state is kept so a
// re-scan lands in the same view the user had configured.
func (t *Table) SetRows(rows []domain.RankedSpread) {
	t.original = make([]domain.RankedSpread, len(rows))
	copy(t.original, rows)
}

// Len returns the row count.
func (t *Table) Len() int { return len(t.original) }

// SortState returns the sorted column and its direction. The column value is
// meaningless while the direction is Unsorted.
func (t *Table) SortState() (Column, Direction) { return t.sortCol, t.dir }

// Toggle advances the sort state for a column: a fresh column starts
// Ascending, a repeated toggle cycles Ascending → Descending → Unsorted.
// Only one column is sorted at a time; toggling a new column resets the old
// one.
func (t *Table) Toggle(col Column) {
	if t.dir == Unsorted || t.sortCol != col {
		t.sortCol = col
		t.dir = Ascending
		return
	}
	switch t.dir {
	case Ascending:
		t.dir = Descending
	case Descending:
		t.dir = Unsorted
	}
}

// Rows returns the rows in display order: the engine's rank order when
// unsorted, otherwise a stable sort over the toggled column (ties keep rank
// order). The returned slice is a copy.
func (t *Table) Rows() []domain.RankedSpread {
	out := make([]domain.RankedSpread, len(t.original))
	copy(out, t.original)
	if t.dir == Unsorted {
		return out
	}

	less := columnLess(t.sortCol)
	sort.SliceStable(out, func(i, j int) bool {
		if t.dir == Descending {
			return less(&out[j], &out[i])
		}
		return less(&out[i], &out[j])
	})
	return out
}

// IndexOf returns the display index of the row with the given key, or -1.
func (t *Table) IndexOf(key RowKey) int {
	for i, r := range t.Rows() {
		if KeyOf(&r) == key {
			return i
		}
	}
	return -1
}

// columnLess returns the ascending comparator for a column. Strict
// inequality only: equal keys report false both ways so SliceStable
// preserves rank order for ties.
func columnLess(col Column) func(a, b *domain.RankedSpread) bool {
	switch col {
	case ColSymbol:
		return func(a, b *domain.RankedSpread) bool {
			return a.Spread.Underlying < b.Spread.Underlying
		}
	case ColStrategy:
		return func(a, b *domain.RankedSpread) bool {
			return a.Spread.SpreadType < b.Spread.SpreadType
		}
	case ColDTE:
		return func(a, b *domain.RankedSpread) bool {
			return a.Spread.DTE < b.Spread.DTE
		}
	case ColDebit:
		return func(a, b *domain.RankedSpread) bool {
			return a.Spread.NetDebit < b.Spread.NetDebit
		}
	case ColMaxProfit:
		return func(a, b *domain.RankedSpread) bool {
			return a.Spread.MaxProfit < b.Spread.MaxProfit
		}
	case ColPoP:
		return func(a, b *domain.RankedSpread) bool {
			return a.Spread.ProbabilityOfProfit < b.Spread.ProbabilityOfProfit
		}
	case ColIVRank:
		return func(a, b *domain.RankedSpread) bool {
			return a.Spread.IVRank < b.Spread.IVRank
		}
	case ColQuality:
		return func(a, b *domain.RankedSpread) bool {
			return a.MLPrediction.SpreadQualityScore < b.MLPrediction.SpreadQualityScore
		}
	case ColRisk:
		return func(a, b *domain.RankedSpread) bool {
			return a.RiskScore.CompositeScore < b.RiskScore.CompositeScore
		}
	}
	return func(a, b *domain.RankedSpread) bool { return false }
}
