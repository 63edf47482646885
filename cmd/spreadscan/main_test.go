package main

import (
	"io"
	"reflect"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"spreadscan/internal/config"
	"spreadscan/internal/domain"
	"spreadscan/internal/store"
	"spreadscan/internal/util"
	"spreadscan/pkg/scanapi"
)

// newTestModel builds a ready model without running Init, so no command
// fires a real request.
func newTestModel(t *testing.T) model {
	t.Helper()
	scanLog, err := store.NewSQLiteScanLog(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteScanLog: %v", err)
	}
	t.Cleanup(func() { scanLog.Close() })

	client := scanapi.NewClient("http://localhost:0", time.Second, time.Second, nil)
	logger := util.NewLogger(io.Discard, "error", "text")
	m := initialModel(config.Default(), logger, client, scanLog, store.NewParquetExporter(t.TempDir()))
	m.width, m.height = 100, 30
	m.viewport = viewport.New(100, 28)
	m.ready = true
	return m
}

func chainOf(expiration string, strikes ...float64) *domain.OptionsChain {
	calls := make([]domain.OptionQuote, len(strikes))
	for i, s := range strikes {
		calls[i] = domain.OptionQuote{Strike: s, OptionType: domain.Call}
	}
	return &domain.OptionsChain{
		SpotPrice:   100,
		Expirations: []string{expiration},
		Calls:       calls,
	}
}

func TestChainSupersededResponseIgnored(t *testing.T) {
	m := newTestModel(t)

	// Open the chain, then reopen at another expiration before the first
	// request resolves.
	mdl, _ := m.openChain("AAPL", "2026-01-16")
	m = mdl.(model)
	staleGen := m.chainGen
	mdl, _ = m.openChain("AAPL", "2027-01-15")
	m = mdl.(model)
	freshGen := m.chainGen

	// Fresh response arrives first.
	mdl, _ = m.Update(chainMsg{gen: freshGen, chain: chainOf("2027-01-15", 110)})
	m = mdl.(model)
	if m.chainExp != "2027-01-15" {
		t.Fatalf("chainExp = %q, want 2027-01-15", m.chainExp)
	}

	// The superseded response arrives late and must not clobber it.
	mdl, _ = m.Update(chainMsg{gen: staleGen, chain: chainOf("2026-01-16", 90)})
	m = mdl.(model)
	if m.chainExp != "2027-01-15" {
		t.Errorf("chainExp = %q, want the fresh expiration kept", m.chainExp)
	}
	if len(m.chainRows) != 1 || m.chainRows[0].Strike != 110 {
		t.Errorf("chainRows = %+v, want the fresh chain's single 110 strike", m.chainRows)
	}
	if m.chainLoading {
		t.Error("chainLoading should be false once the current response landed")
	}
}

func TestChainSupersededResponseIgnoredAnyArrivalOrder(t *testing.T) {
	m := newTestModel(t)

	mdl, _ := m.openChain("AAPL", "2026-01-16")
	m = mdl.(model)
	staleGen := m.chainGen
	mdl, _ = m.openChain("AAPL", "2027-01-15")
	m = mdl.(model)
	freshGen := m.chainGen

	// Stale response first: it must be dropped and the view stays loading.
	mdl, _ = m.Update(chainMsg{gen: staleGen, chain: chainOf("2026-01-16", 90)})
	m = mdl.(model)
	if !m.chainLoading {
		t.Error("stale response should leave the view loading")
	}
	if len(m.chainRows) != 0 {
		t.Errorf("chainRows = %+v, want none before the current response", m.chainRows)
	}

	mdl, _ = m.Update(chainMsg{gen: freshGen, chain: chainOf("2027-01-15", 110)})
	m = mdl.(model)
	if m.chainExp != "2027-01-15" || len(m.chainRows) != 1 {
		t.Errorf("chainExp = %q with %d rows, want the fresh chain applied", m.chainExp, len(m.chainRows))
	}
}

func TestChainStaleErrorIgnored(t *testing.T) {
	m := newTestModel(t)

	mdl, _ := m.openChain("AAPL", "2026-01-16")
	m = mdl.(model)
	staleGen := m.chainGen
	mdl, _ = m.openChain("AAPL", "2027-01-15")
	m = mdl.(model)

	mdl, _ = m.Update(chainMsg{gen: staleGen, errMsg: "Request timed out"})
	m = mdl.(model)
	if m.chainErr != "" {
		t.Errorf("chainErr = %q, want a superseded failure dropped", m.chainErr)
	}
}

func TestExpirationPagingBumpsGeneration(t *testing.T) {
	m := newTestModel(t)

	mdl, _ := m.openChain("AAPL", "2026-01-16")
	m = mdl.(model)
	firstGen := m.chainGen
	mdl, _ = m.Update(chainMsg{gen: firstGen, chain: &domain.OptionsChain{
		SpotPrice:   100,
		Expirations: []string{"2026-01-16", "2026-02-20"},
		Calls:       []domain.OptionQuote{{Strike: 100, OptionType: domain.Call}},
	}})
	m = mdl.(model)

	mdl, _ = m.handleChainKey(tea.KeyMsg{Type: tea.KeyRight})
	m = mdl.(model)
	if m.chainGen != firstGen+1 {
		t.Errorf("chainGen = %d, want %d (paging supersedes the prior request)", m.chainGen, firstGen+1)
	}
	if m.chainExp != "2026-02-20" {
		t.Errorf("chainExp = %q, want 2026-02-20", m.chainExp)
	}
}

func TestSymbolCompletionFromUniverse(t *testing.T) {
	m := newTestModel(t)
	m.universe = []string{"AAPL", "AMD", "AMZN", "MSFT"}
	m.typing = true
	m.symInput.Focus()
	m.symInput.SetValue("aa")

	mdl, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyTab})
	m = mdl.(model)
	if m.symInput.Value() != "AAPL" {
		t.Fatalf("symInput = %q, want completion to AAPL", m.symInput.Value())
	}

	mdl, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	m = mdl.(model)
	if got := m.filterStore.Current().Symbols; !reflect.DeepEqual(got, []string{"AAPL"}) {
		t.Errorf("Symbols = %v, want [AAPL]", got)
	}
	if m.typing {
		t.Error("typing mode should end on enter")
	}
}

func TestUniverseMatches(t *testing.T) {
	m := newTestModel(t)
	m.universe = []string{"AAPL", "AMD", "AMZN", "MSFT"}

	if got := m.universeMatches("A", 5); !reflect.DeepEqual(got, []string{"AAPL", "AMD", "AMZN"}) {
		t.Errorf("universeMatches(A) = %v", got)
	}
	if got := m.universeMatches("A", 2); len(got) != 2 {
		t.Errorf("universeMatches(A, 2) returned %d matches, want capped at 2", len(got))
	}
	if got := m.universeMatches("", 5); got != nil {
		t.Errorf("universeMatches(empty) = %v, want none", got)
	}
	if got := m.universeMatches("ZZZ", 5); got != nil {
		t.Errorf("universeMatches(ZZZ) = %v, want none", got)
	}
}
