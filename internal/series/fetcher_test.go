package series

import (
	"testing"

	"spreadscan/internal/domain"
)

func bars(closes ...float64) []domain.Bar {
	out := make([]domain.Bar, len(closes))
	for i, c := range closes {
		out[i] = domain.Bar{Close: c}
	}
	return out
}

func TestStartAndApply(t *testing.T) {
	f := New()
	gen := f.Start("AAPL", "3mo")

	if !f.Loading() {
		t.Error("Loading should be true while a fetch is outstanding")
	}

	if !f.Apply(gen, bars(101, 102), "") {
		t.Fatal("current-generation outcome should apply")
	}
	if f.Loading() {
		t.Error("Loading should be false after Apply")
	}
	if len(f.Bars()) != 2 {
		t.Errorf("len(Bars) = %d, want 2", len(f.Bars()))
	}
}

func TestSupersededResponseIgnored(t *testing.T) {
	f := New()
	gen3mo := f.Start("AAPL", "3mo")
	gen1y := f.Start("AAPL", "1y") // supersedes before the first resolves

	// The superseded response arrives first and must be dropped.
	if f.Apply(gen3mo, bars(1, 2, 3), "") {
		t.Error("superseded response should be dropped")
	}
	if len(f.Bars()) != 0 {
		t.Error("superseded response should not touch the displayed series")
	}

	if !f.Apply(gen1y, bars(9, 9, 9, 9), "") {
		t.Fatal("current response should apply")
	}
	if len(f.Bars()) != 4 {
		t.Errorf("len(Bars) = %d, want the 1y series", len(f.Bars()))
	}
}

func TestSupersededResponseIgnoredAnyArrivalOrder(t *testing.T) {
	f := New()
	gen3mo := f.Start("AAPL", "3mo")
	gen1y := f.Start("AAPL", "1y")

	// Current response first, stale one later: display must still be 1y.
	f.Apply(gen1y, bars(9, 9, 9, 9), "")
	if f.Apply(gen3mo, bars(1, 2, 3), "") {
		t.Error("stale response arriving late should be dropped")
	}
	if len(f.Bars()) != 4 {
		t.Errorf("len(Bars) = %d, want the 1y series", len(f.Bars()))
	}
}

func TestFailureKeepsPriorData(t *testing.T) {
	f := New()
	gen := f.Start("AAPL", "3mo")
	f.Apply(gen, bars(100, 101), "")

	gen = f.Start("AAPL", "1y")
	f.Apply(gen, nil, "Request timed out")

	if f.Err() != "Request timed out" {
		t.Errorf("Err = %q, want the failure message", f.Err())
	}
	if len(f.Bars()) != 2 {
		t.Error("prior series should survive a failed fetch")
	}
}

func TestStartClearsError(t *testing.T) {
	f := New()
	gen := f.Start("AAPL", "3mo")
	f.Apply(gen, nil, "boom")

	f.Start("AAPL", "6mo")
	if f.Err() != "" {
		t.Errorf("Err = %q, want cleared on Start", f.Err())
	}
}

func TestSymbolSwitchSupersedes(t *testing.T) {
	f := New()
	genAAPL := f.Start("AAPL", "1y")
	f.Start("MSFT", "1y")

	if f.Apply(genAAPL, bars(1), "") {
		t.Error("response for the old symbol should be dropped")
	}
	if f.Symbol() != "MSFT" {
		t.Errorf("Symbol = %q, want MSFT", f.Symbol())
	}
}

func TestReset(t *testing.T) {
	f := New()
	gen := f.Start("AAPL", "1y")
	f.Reset()

	if f.Apply(gen, bars(1), "") {
		t.Error("response after Reset should be dropped")
	}
	if f.Loading() || len(f.Bars()) != 0 || f.Symbol() != "" {
		t.Error("Reset should clear all state")
	}
}
