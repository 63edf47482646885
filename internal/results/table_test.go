package results

import (
	"testing"

	"spreadscan/internal/domain"
)

func row(rank int, sym string, dte int, debit float64) domain.RankedSpread {
	return domain.RankedSpread{
		Rank: rank,
		Spread: domain.SpreadCandidate{
			Underlying: sym,
			SpreadType: domain.BullCall,
			Expiration: "2026-10-16",
			DTE:        dte,
			NetDebit:   debit,
		},
	}
}

func symbols(rows []domain.RankedSpread) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Spread.Underlying
	}
	return out
}

func TestTripleToggleReturnsToOriginalOrder(t *testing.T) {
	tbl := NewTable([]domain.RankedSpread{
		row(1, "NVDA", 45, 3.0),
		row(2, "AAPL", 60, 1.5),
		row(3, "MSFT", 30, 2.0),
	})

	original := symbols(tbl.Rows())

	tbl.Toggle(ColSymbol) // ascending
	tbl.Toggle(ColSymbol) // descending
	tbl.Toggle(ColSymbol) // back to unsorted

	if _, dir := tbl.SortState(); dir != Unsorted {
		t.Errorf("direction after three toggles = %v, want Unsorted", dir)
	}
	got := symbols(tbl.Rows())
	for i := range original {
		if got[i] != original[i] {
			t.Fatalf("order after three toggles = %v, want original %v", got, original)
		}
	}
}

func TestToggleCycle(t *testing.T) {
	tbl := NewTable([]domain.RankedSpread{
		row(1, "NVDA", 45, 3.0),
		row(2, "AAPL", 60, 1.5),
		row(3, "MSFT", 30, 2.0),
	})

	tbl.Toggle(ColSymbol)
	got := symbols(tbl.Rows())
	want := []string{"AAPL", "MSFT", "NVDA"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ascending order = %v, want %v", got, want)
		}
	}

	tbl.Toggle(ColSymbol)
	got = symbols(tbl.Rows())
	want = []string{"NVDA", "MSFT", "AAPL"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("descending order = %v, want %v", got, want)
		}
	}
}

func TestSortStableOnTies(t *testing.T) {
	// Equal DTE everywhere: sorting by DTE must preserve rank order.
	tbl := NewTable([]domain.RankedSpread{
		row(1, "NVDA", 45, 3.0),
		row(2, "AAPL", 45, 1.5),
		row(3, "MSFT", 45, 2.0),
	})

	tbl.Toggle(ColDTE)
	got := symbols(tbl.Rows())
	want := []string{"NVDA", "AAPL", "MSFT"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("tied sort order = %v, want rank order %v", got, want)
		}
	}

	tbl.Toggle(ColDTE) // descending over all-equal keys: still rank order
	got = symbols(tbl.Rows())
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("tied descending order = %v, want rank order %v", got, want)
		}
	}
}

func TestToggleNewColumnResetsOld(t *testing.T) {
	tbl := NewTable([]domain.RankedSpread{
		row(1, "NVDA", 45, 3.0),
		row(2, "AAPL", 60, 1.5),
	})

	tbl.Toggle(ColSymbol)
	tbl.Toggle(ColDTE)

	col, dir := tbl.SortState()
	if col != ColDTE || dir != Ascending {
		t.Errorf("SortState = (%v, %v), want (ColDTE, Ascending)", col, dir)
	}
}

func TestSortDoesNotMutateOriginal(t *testing.T) {
	rows := []domain.RankedSpread{
		row(1, "NVDA", 45, 3.0),
		row(2, "AAPL", 60, 1.5),
	}
	tbl := NewTable(rows)
	tbl.Toggle(ColSymbol)
	tbl.Rows()

	if rows[0].Spread.Underlying != "NVDA" {
		t.Error("caller's slice was reordered")
	}
	tbl.Toggle(ColSymbol)
	tbl.Toggle(ColSymbol)
	got := symbols(tbl.Rows())
	if got[0] != "NVDA" || got[1] != "AAPL" {
		t.Errorf("unsorted order = %v, want original", got)
	}
}

func TestRowKeyIdentity(t *testing.T) {
	a := row(1, "AAPL", 45, 3.0)
	b := row(9, "AAPL", 45, 1.0) // different rank, same identity triple
	if KeyOf(&a) != KeyOf(&b) {
		t.Error("rows with equal (underlying, expiration, strategy) should share identity")
	}

	c := row(1, "AAPL", 45, 3.0)
	c.Spread.Expiration = "2027-01-15"
	if KeyOf(&a) == KeyOf(&c) {
		t.Error("rows with different expirations should not share identity")
	}
}

func TestIndexOf(t *testing.T) {
	tbl := NewTable([]domain.RankedSpread{
		row(1, "NVDA", 45, 3.0),
		row(2, "AAPL", 60, 1.5),
	})
	a := row(2, "AAPL", 60, 1.5)
	if got := tbl.IndexOf(KeyOf(&a)); got != 1 {
		t.Errorf("IndexOf = %d, want 1", got)
	}
	missing := row(1, "TSLA", 30, 1.0)
	if got := tbl.IndexOf(KeyOf(&missing)); got != -1 {
		t.Errorf("IndexOf(missing) = %d, want -1", got)
	}
}
