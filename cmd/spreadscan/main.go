package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"spreadscan/internal/chain"
	"spreadscan/internal/config"
	"spreadscan/internal/domain"
	"spreadscan/internal/filters"
	"spreadscan/internal/results"
	"spreadscan/internal/scan"
	"spreadscan/internal/series"
	"spreadscan/internal/store"
	"spreadscan/internal/util"
	"spreadscan/pkg/scanapi"
)

// Styles.
var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("4"))
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("8"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	okStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	symbolStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	colHeaderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	priceStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	panelTitle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("6"))
	focusedField   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("11"))
	atmStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("3"))
	historyBar     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("3"))
	highlightBG    = lipgloss.Color("236")
)

// hlStyle returns a copy of s with the highlight background applied when hl is true.
func hlStyle(s lipgloss.Style, hl bool) lipgloss.Style {
	if hl {
		return s.Background(highlightBG)
	}
	return s
}

func strategyStyle(st domain.SpreadType) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(st.Color()))
}

// View modes.
type viewMode int

const (
	viewScanner viewMode = iota
	viewChain
	viewDetail
	viewHistory
	viewML
)

// Chart periods selectable in the detail view, in key order 1-5.
var chartPeriods = []string{"1mo", "3mo", "6mo", "1y", "2y"}

// Messages.
type tickMsg time.Time

type defaultsMsg struct {
	filters *domain.ScannerFilters
	err     error
}

type universeMsg struct {
	symbols []string
	err     error
}

type scanDoneMsg struct {
	gen    uint64
	result *domain.ScannerResult
	errMsg string
}

type scanLoggedMsg struct {
	scanID string
	err    error
}

type chainMsg struct {
	gen    uint64
	chain  *domain.OptionsChain
	errMsg string
}

type quoteMsg struct {
	symbol string
	quote  *domain.Quote
	err    error
}

type ohlcMsg struct {
	gen    uint64
	bars   []domain.Bar
	errMsg string
}

type sentimentMsg struct {
	symbol string
	data   *domain.TickerSentiment
	err    error
}

type fundamentalsMsg struct {
	symbol string
	data   *domain.FundamentalData
	err    error
}

type mlStatusMsg struct {
	status      *domain.MLStatus
	importances map[string]float64
	err         error
}

type historyMsg struct {
	records []store.ScanRecord
	err     error
}

type recallMsg struct {
	result *domain.ScannerResult
	errMsg string
}

type exportMsg struct {
	path string
	err  error
}

func tickCmd(every time.Duration) tea.Cmd {
	return tea.Tick(every, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Filter panel fields, in render order.
type filterField int

const (
	fSymbols filterField = iota
	fStrategies
	fMinDTE
	fMaxDTE
	fLeapsMinDTE
	fLeapsMaxDTE
	fMinIVRank
	fMaxIVRank
	fMinVolume
	fMinOpenInterest
	fMaxBidAsk
	fMinFundamental
	fMinSentiment
	fMinPoP
	fMinML
	fMaxResults
	filterFieldCount
)

func (f filterField) label() string {
	switch f {
	case fSymbols:
		return "Symbols"
	case fStrategies:
		return "Strategies"
	case fMinDTE:
		return "Min DTE"
	case fMaxDTE:
		return "Max DTE"
	case fLeapsMinDTE:
		return "LEAPS min DTE"
	case fLeapsMaxDTE:
		return "LEAPS max DTE"
	case fMinIVRank:
		return "Min IV rank"
	case fMaxIVRank:
		return "Max IV rank"
	case fMinVolume:
		return "Min volume"
	case fMinOpenInterest:
		return "Min open int"
	case fMaxBidAsk:
		return "Max bid/ask %"
	case fMinFundamental:
		return "Min fundamental"
	case fMinSentiment:
		return "Min sentiment"
	case fMinPoP:
		return "Min PoP"
	case fMinML:
		return "Min ML score"
	case fMaxResults:
		return "Max results"
	}
	return "?"
}

// Model.
type model struct {
	cfg    *config.Config
	logger *slog.Logger
	client *scanapi.Client

	filterStore *filters.Store
	orch        *scan.Orchestrator
	table       *results.Table
	fetcher     *series.Fetcher
	scanLog     store.ScanLog
	exporter    store.ResultExporter

	mode          viewMode
	viewport      viewport.Model
	ready         bool
	width, height int

	// Scanner view.
	focusFilters bool
	filterIdx    filterField
	symInput     textinput.Model
	typing       bool
	universe     []string
	viewResult   *domain.ScannerResult // displayed result: latest scan or a recalled one
	recalled     bool
	selKey       results.RowKey
	hasSel       bool
	scanStart    time.Time
	notice       string // one-line flash in the footer

	// Chain view. Requests are generation-stamped like series fetches;
	// a response from a superseded request is dropped on arrival.
	chainGen     uint64
	chainSymbol  string
	chainExp     string
	chainSpot    float64
	chainTime    string
	chainExps    []string
	chainRows    []chain.Row
	chainLoading bool
	chainErr     string

	// Detail view.
	detailRow    *domain.RankedSpread
	periodIdx    int
	quote        *domain.Quote
	sentiment    *domain.TickerSentiment
	fundamentals *domain.FundamentalData

	// ML view.
	mlStatus    *domain.MLStatus
	importances map[string]float64

	// History view.
	histRecords []store.ScanRecord
	histIdx     int
	histLoading bool
}

func initialModel(cfg *config.Config, logger *slog.Logger, client *scanapi.Client, scanLog store.ScanLog, exporter store.ResultExporter) model {
	ti := textinput.New()
	ti.Placeholder = "symbol"
	ti.CharLimit = 8
	ti.Width = 10

	return model{
		cfg:          cfg,
		logger:       logger,
		client:       client,
		filterStore:  filters.NewStore(),
		orch:         scan.New(),
		table:        results.NewTable(nil),
		fetcher:      series.New(),
		scanLog:      scanLog,
		exporter:     exporter,
		focusFilters: true,
		symInput:     ti,
		periodIdx:    1, // 3mo
	}
}

func (m model) Init() tea.Cmd {
	client := m.client
	return tea.Batch(
		tickCmd(m.tickEvery()),
		func() tea.Msg {
			f, err := client.DefaultFilters(context.Background())
			return defaultsMsg{filters: f, err: err}
		},
		func() tea.Msg {
			syms, err := client.Universe(context.Background())
			return universeMsg{symbols: syms, err: err}
		},
		func() tea.Msg {
			st, err := client.MLStatus(context.Background())
			if err != nil {
				return mlStatusMsg{err: err}
			}
			imp, _ := client.FeatureImportance(context.Background())
			return mlStatusMsg{status: st, importances: imp}
		},
	)
}

func (m *model) tickEvery() time.Duration {
	secs := m.cfg.Client.QuoteRefreshSecs
	if secs <= 0 {
		secs = 5
	}
	return time.Duration(secs) * time.Second
}

// ---------------------------------------------------------------------------
// Commands
// ---------------------------------------------------------------------------

func (m *model) runScanCmd() tea.Cmd {
	if !m.filterStore.CanScan() {
		m.notice = "enable at least one strategy before scanning"
		return nil
	}
	gen := m.orch.Start()
	m.hasSel = false
	m.scanStart = time.Now()
	m.notice = ""
	snapshot := m.filterStore.Current()
	client := m.client
	m.logger.Info("scan submitted", "generation", gen,
		"strategies", len(snapshot.Strategies), "symbols", len(snapshot.Symbols))
	return func() tea.Msg {
		res, err := client.RunScan(context.Background(), snapshot)
		if err != nil {
			return scanDoneMsg{gen: gen, errMsg: scanapi.Normalize(err)}
		}
		return scanDoneMsg{gen: gen, result: res}
	}
}

func (m *model) logScanCmd(result *domain.ScannerResult) tea.Cmd {
	log := m.scanLog
	return func() tea.Msg {
		err := log.LogScan(context.Background(), result)
		return scanLoggedMsg{scanID: result.ScanID, err: err}
	}
}

func (m *model) loadChainCmd(gen uint64, symbol, expiration string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ch, err := client.Chain(context.Background(), symbol, expiration)
		if err != nil {
			return chainMsg{gen: gen, errMsg: scanapi.Normalize(err)}
		}
		return chainMsg{gen: gen, chain: ch}
	}
}

func (m *model) loadQuoteCmd(symbol string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		q, err := client.GetQuote(context.Background(), symbol)
		return quoteMsg{symbol: symbol, quote: q, err: err}
	}
}

func (m *model) loadSeriesCmd(symbol, period string) tea.Cmd {
	gen := m.fetcher.Start(symbol, period)
	client := m.client
	return func() tea.Msg {
		bars, err := client.OHLC(context.Background(), symbol, period)
		if err != nil {
			return ohlcMsg{gen: gen, errMsg: scanapi.Normalize(err)}
		}
		return ohlcMsg{gen: gen, bars: bars}
	}
}

func (m *model) loadEnrichmentCmds(symbol string) []tea.Cmd {
	client := m.client
	return []tea.Cmd{
		func() tea.Msg {
			s, err := client.Sentiment(context.Background(), symbol)
			return sentimentMsg{symbol: symbol, data: s, err: err}
		},
		func() tea.Msg {
			f, err := client.Fundamentals(context.Background(), symbol)
			return fundamentalsMsg{symbol: symbol, data: f, err: err}
		},
	}
}

func (m *model) loadHistoryCmd() tea.Cmd {
	log := m.scanLog
	return func() tea.Msg {
		records, err := log.ListScans(context.Background(), 50)
		return historyMsg{records: records, err: err}
	}
}

func (m *model) recallCmd(scanID string) tea.Cmd {
	log := m.scanLog
	return func() tea.Msg {
		res, err := log.GetResult(context.Background(), scanID)
		if err != nil {
			return recallMsg{errMsg: err.Error()}
		}
		return recallMsg{result: res}
	}
}

func (m *model) exportCmd() tea.Cmd {
	if m.viewResult == nil || len(m.viewResult.Results) == 0 {
		m.notice = "no results to export"
		return nil
	}
	exporter := m.exporter
	result := m.viewResult
	return func() tea.Msg {
		path, err := exporter.Export(result)
		return exportMsg{path: path, err: err}
	}
}

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		vpHeight := m.height - 2 // header + footer
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.MouseWheelEnabled = true
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}
		m.refresh()
		return m, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd(m.tickEvery())}
		if m.mode == viewDetail && m.detailRow != nil {
			cmds = append(cmds, m.loadQuoteCmd(m.detailRow.Spread.Underlying))
		}
		if m.orch.Scanning() {
			m.refresh()
		}
		return m, tea.Batch(cmds...)

	case defaultsMsg:
		if msg.err != nil {
			m.logger.Warn("loading engine filter defaults", "error", msg.err)
		} else if msg.filters != nil {
			m.filterStore.SetDefaults(*msg.filters)
			m.logger.Info("engine filter defaults loaded")
			m.refresh()
		}
		return m, nil

	case universeMsg:
		if msg.err != nil {
			m.logger.Warn("loading universe", "error", msg.err)
		} else {
			m.universe = msg.symbols
			m.refresh()
		}
		return m, nil

	case scanDoneMsg:
		if msg.errMsg != "" {
			if !m.orch.Fail(msg.gen, msg.errMsg) {
				m.logger.Info("stale scan failure dropped", "generation", msg.gen)
				return m, nil
			}
			m.logger.Error("scan failed", "generation", msg.gen, "error", msg.errMsg)
			m.refresh()
			return m, nil
		}
		if !m.orch.Complete(msg.gen, msg.result) {
			m.logger.Info("stale scan result dropped", "generation", msg.gen, "scan_id", msg.result.ScanID)
			return m, nil
		}
		m.viewResult = msg.result
		m.recalled = false
		m.table.SetRows(msg.result.Results)
		m.resetSelection()
		m.logger.Info("scan complete", "scan_id", msg.result.ScanID,
			"results", len(msg.result.Results),
			"candidates", msg.result.TotalCandidatesEvaluated,
			"duration_secs", msg.result.ScanDurationSeconds)
		m.refresh()
		return m, m.logScanCmd(msg.result)

	case scanLoggedMsg:
		if msg.err != nil {
			m.logger.Warn("logging scan", "scan_id", msg.scanID, "error", msg.err)
		}
		return m, nil

	case chainMsg:
		if msg.gen != m.chainGen {
			return m, nil // superseded by a newer chain request
		}
		m.chainLoading = false
		if msg.errMsg != "" {
			m.chainErr = msg.errMsg
			m.refresh()
			return m, nil
		}
		m.chainErr = ""
		m.chainExp = firstNonEmpty(msgChainExpiration(msg.chain), m.chainExp)
		m.chainSpot = msg.chain.SpotPrice
		m.chainTime = msg.chain.QuoteTime
		m.chainExps = msg.chain.Expirations
		m.chainRows = chain.Merge(msg.chain.Calls, msg.chain.Puts, msg.chain.SpotPrice)
		m.refresh()
		m.viewport.GotoTop()
		return m, nil

	case quoteMsg:
		if m.detailRow != nil && msg.symbol == m.detailRow.Spread.Underlying && msg.err == nil {
			m.quote = msg.quote
			m.refresh()
		}
		return m, nil

	case ohlcMsg:
		if m.fetcher.Apply(msg.gen, msg.bars, msg.errMsg) {
			m.refresh()
		}
		return m, nil

	case sentimentMsg:
		if m.detailRow != nil && msg.symbol == m.detailRow.Spread.Underlying && msg.err == nil {
			m.sentiment = msg.data
			m.refresh()
		}
		return m, nil

	case fundamentalsMsg:
		if m.detailRow != nil && msg.symbol == m.detailRow.Spread.Underlying && msg.err == nil {
			m.fundamentals = msg.data
			m.refresh()
		}
		return m, nil

	case mlStatusMsg:
		if msg.err != nil {
			m.logger.Warn("loading ml status", "error", msg.err)
		} else {
			m.mlStatus = msg.status
			m.importances = msg.importances
			m.refresh()
		}
		return m, nil

	case historyMsg:
		m.histLoading = false
		if msg.err != nil {
			m.notice = "history unavailable: " + msg.err.Error()
		} else {
			m.histRecords = msg.records
			if m.histIdx >= len(m.histRecords) {
				m.histIdx = 0
			}
		}
		m.refresh()
		return m, nil

	case recallMsg:
		if msg.errMsg != "" {
			m.notice = msg.errMsg
			m.refresh()
			return m, nil
		}
		m.viewResult = msg.result
		m.recalled = true
		m.table.SetRows(msg.result.Results)
		m.resetSelection()
		m.mode = viewScanner
		m.focusFilters = false
		m.refresh()
		m.viewport.GotoTop()
		return m, nil

	case exportMsg:
		if msg.err != nil {
			m.notice = "export failed: " + msg.err.Error()
			m.logger.Error("export failed", "error", msg.err)
		} else {
			m.notice = "exported " + msg.path
			m.logger.Info("results exported", "path", msg.path)
		}
		m.refresh()
		return m, nil
	}

	if m.ready {
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

// msgChainExpiration picks the chain's effective expiration: the engine
// reports the expirations list with the served one first.
func msgChainExpiration(ch *domain.OptionsChain) string {
	if len(ch.Expirations) > 0 {
		return ch.Expirations[0]
	}
	return ""
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Symbol entry swallows every key except enter/esc.
	if m.typing {
		switch msg.String() {
		case "enter":
			m.filterStore.AddSymbol(m.symInput.Value())
			m.symInput.SetValue("")
			m.symInput.Blur()
			m.typing = false
			m.refresh()
			return m, nil
		case "esc":
			m.symInput.SetValue("")
			m.symInput.Blur()
			m.typing = false
			m.refresh()
			return m, nil
		case "tab":
			if matches := m.universeMatches(m.symInput.Value(), 1); len(matches) == 1 {
				m.symInput.SetValue(matches[0])
				m.symInput.CursorEnd()
			}
			m.refresh()
			return m, nil
		default:
			var cmd tea.Cmd
			m.symInput, cmd = m.symInput.Update(msg)
			m.refresh()
			return m, cmd
		}
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	}

	switch m.mode {
	case viewScanner:
		return m.handleScannerKey(msg)
	case viewChain:
		return m.handleChainKey(msg)
	case viewDetail:
		return m.handleDetailKey(msg)
	case viewHistory:
		return m.handleHistoryKey(msg)
	case viewML:
		if msg.String() == "esc" || msg.String() == "m" {
			m.mode = viewScanner
			m.refresh()
		}
		return m, nil
	}
	return m, nil
}

func (m model) handleScannerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "s":
		cmd := m.runScanCmd()
		m.refresh()
		return m, cmd

	case "C":
		m.orch.ClearResults()
		m.viewResult = nil
		m.recalled = false
		m.table.SetRows(nil)
		m.hasSel = false
		m.refresh()
		return m, nil

	case "r":
		m.filterStore.Reset()
		m.refresh()
		return m, nil

	case "e":
		return m, m.exportCmd()

	case "h":
		m.mode = viewHistory
		m.histLoading = true
		m.refresh()
		return m, m.loadHistoryCmd()

	case "m":
		m.mode = viewML
		m.refresh()
		m.viewport.GotoTop()
		return m, nil

	case "tab":
		m.focusFilters = !m.focusFilters
		m.refresh()
		return m, nil

	case "a":
		if m.focusFilters {
			m.typing = true
			m.symInput.Focus()
			m.refresh()
			return m, textinput.Blink
		}

	case "x":
		if m.focusFilters {
			cur := m.filterStore.Current()
			if n := len(cur.Symbols); n > 0 {
				m.filterStore.RemoveSymbol(cur.Symbols[n-1])
				m.refresh()
			}
		}
		return m, nil

	case "up":
		if m.focusFilters {
			if m.filterIdx > 0 {
				m.filterIdx--
			}
		} else {
			m.moveSelection(-1)
		}
		m.refresh()
		return m, nil

	case "down":
		if m.focusFilters {
			if m.filterIdx < filterFieldCount-1 {
				m.filterIdx++
			}
		} else {
			m.moveSelection(1)
		}
		m.refresh()
		return m, nil

	case "left":
		if m.focusFilters {
			m.adjustFilter(-1)
			m.refresh()
		}
		return m, nil

	case "right":
		if m.focusFilters {
			m.adjustFilter(1)
			m.refresh()
		}
		return m, nil

	case "enter":
		if !m.focusFilters && m.hasSel {
			return m.openDetail()
		}
		return m, nil

	case "o":
		if row := m.selectedRow(); row != nil {
			return m.openChain(row.Spread.Underlying, row.Spread.Expiration)
		}
		return m, nil

	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		n := int(msg.String()[0] - '1')
		if m.focusFilters && m.filterIdx == fStrategies {
			if n < len(domain.AllSpreadTypes) {
				m.filterStore.ToggleStrategy(domain.AllSpreadTypes[n])
				m.refresh()
			}
			return m, nil
		}
		if results.Column(n) < results.ColumnCount {
			m.table.Toggle(results.Column(n))
			m.refresh()
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.ready {
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

func (m model) handleChainKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.detailRow != nil {
			m.mode = viewDetail
		} else {
			m.mode = viewScanner
		}
		m.refresh()
		return m, nil

	case "left", "right":
		if m.chainLoading || len(m.chainExps) == 0 {
			return m, nil
		}
		idx := 0
		for i, exp := range m.chainExps {
			if exp == m.chainExp {
				idx = i
				break
			}
		}
		if msg.String() == "left" {
			idx--
		} else {
			idx++
		}
		if idx < 0 || idx >= len(m.chainExps) {
			return m, nil
		}
		m.chainExp = m.chainExps[idx]
		m.chainGen++
		m.chainLoading = true
		m.refresh()
		return m, m.loadChainCmd(m.chainGen, m.chainSymbol, m.chainExp)
	}

	var cmd tea.Cmd
	if m.ready {
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

func (m model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = viewScanner
		m.fetcher.Reset()
		m.detailRow = nil
		m.quote = nil
		m.sentiment = nil
		m.fundamentals = nil
		m.refresh()
		return m, nil

	case "o":
		if m.detailRow != nil {
			return m.openChain(m.detailRow.Spread.Underlying, m.detailRow.Spread.Expiration)
		}
		return m, nil

	case "1", "2", "3", "4", "5":
		idx := int(msg.String()[0] - '1')
		if idx == m.periodIdx || m.detailRow == nil {
			return m, nil
		}
		m.periodIdx = idx
		cmd := m.loadSeriesCmd(m.detailRow.Spread.Underlying, chartPeriods[idx])
		m.refresh()
		return m, cmd
	}

	var cmd tea.Cmd
	if m.ready {
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

func (m model) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "h":
		m.mode = viewScanner
		m.refresh()
		return m, nil

	case "up":
		if m.histIdx > 0 {
			m.histIdx--
			m.refresh()
		}
		return m, nil

	case "down":
		if m.histIdx < len(m.histRecords)-1 {
			m.histIdx++
			m.refresh()
		}
		return m, nil

	case "enter":
		if m.histIdx < len(m.histRecords) {
			return m, m.recallCmd(m.histRecords[m.histIdx].ScanID)
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.ready {
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

func (m model) openDetail() (tea.Model, tea.Cmd) {
	row := m.selectedRow()
	if row == nil {
		return m, nil
	}
	m.detailRow = row
	m.orch.Select(row)
	m.mode = viewDetail
	m.quote = nil
	m.sentiment = nil
	m.fundamentals = nil

	symbol := row.Spread.Underlying
	cmds := []tea.Cmd{
		m.loadQuoteCmd(symbol),
		m.loadSeriesCmd(symbol, chartPeriods[m.periodIdx]),
	}
	cmds = append(cmds, m.loadEnrichmentCmds(symbol)...)
	m.refresh()
	m.viewport.GotoTop()
	return m, tea.Batch(cmds...)
}

func (m model) openChain(symbol, expiration string) (tea.Model, tea.Cmd) {
	m.mode = viewChain
	m.chainGen++
	m.chainSymbol = symbol
	m.chainExp = expiration
	m.chainRows = nil
	m.chainErr = ""
	m.chainLoading = true
	m.refresh()
	return m, m.loadChainCmd(m.chainGen, symbol, expiration)
}

// universeMatches returns up to max symbols from the loaded universe with the
// typed prefix. Entry is not restricted to matches; the engine accepts any
// symbol, the universe just makes the common ones one tab away.
func (m *model) universeMatches(prefix string, max int) []string {
	prefix = strings.ToUpper(strings.TrimSpace(prefix))
	if prefix == "" {
		return nil
	}
	var out []string
	for _, sym := range m.universe {
		if strings.HasPrefix(sym, prefix) {
			out = append(out, sym)
			if len(out) == max {
				break
			}
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Selection
// ---------------------------------------------------------------------------

func (m *model) resetSelection() {
	rows := m.table.Rows()
	if len(rows) == 0 {
		m.hasSel = false
		return
	}
	m.selKey = results.KeyOf(&rows[0])
	m.hasSel = true
}

func (m *model) moveSelection(delta int) {
	rows := m.table.Rows()
	if len(rows) == 0 {
		m.hasSel = false
		return
	}
	idx := 0
	if m.hasSel {
		if cur := m.table.IndexOf(m.selKey); cur >= 0 {
			idx = cur + delta
		}
	}
	if idx < 0 {
		idx = 0
	}
	if idx >= len(rows) {
		idx = len(rows) - 1
	}
	m.selKey = results.KeyOf(&rows[idx])
	m.hasSel = true
	m.ensureVisible(m.resultsTopLine() + idx)
}

// selectedRow returns the selected row out of the current display order, or nil.
func (m *model) selectedRow() *domain.RankedSpread {
	if !m.hasSel {
		return nil
	}
	rows := m.table.Rows()
	for i := range rows {
		if results.KeyOf(&rows[i]) == m.selKey {
			return &rows[i]
		}
	}
	return nil
}

// resultsTopLine is the rendered line number of the first result row in the
// scanner view: status block + panel title + column header.
func (m *model) resultsTopLine() int {
	return 4
}

func (m *model) ensureVisible(line int) {
	if !m.ready || line < 0 {
		return
	}
	yOff := m.viewport.YOffset
	vpH := m.viewport.Height
	if line < yOff {
		m.viewport.SetYOffset(line)
	} else if line >= yOff+vpH {
		m.viewport.SetYOffset(line - vpH + 1)
	}
}

func (m *model) refresh() {
	if m.ready {
		m.viewport.SetContent(m.renderContent())
	}
}

// ---------------------------------------------------------------------------
// View
// ---------------------------------------------------------------------------

func (m model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var headerText string
	switch m.mode {
	case viewChain:
		headerText = fmt.Sprintf(" Options Chain  %s  exp %s  spot %s ",
			m.chainSymbol, m.chainExp, results.FormatMoney(m.chainSpot))
	case viewDetail:
		sym := ""
		if m.detailRow != nil {
			sym = m.detailRow.Spread.Underlying
		}
		headerText = fmt.Sprintf(" Spread Detail  %s  period %s ", sym, chartPeriods[m.periodIdx])
	case viewHistory:
		headerText = fmt.Sprintf(" Scan History  %d scans this session ", len(m.histRecords))
	case viewML:
		headerText = " ML Model Status "
	default:
		headerText = m.scannerHeader()
	}

	bar := headerStyle
	if m.mode == viewHistory {
		bar = historyBar
	}
	header := bar.Render(padOrTrunc(headerText, m.width))

	pct := m.viewport.ScrollPercent() * 100
	footerLeft := m.footerHelp()
	if m.notice != "" {
		footerLeft = " " + m.notice
	}
	footerRight := fmt.Sprintf("%.0f%% ", pct)
	gap := m.width - len(footerLeft) - len(footerRight)
	if gap < 0 {
		gap = 0
	}
	footer := footerStyle.Render(padOrTrunc(footerLeft+strings.Repeat(" ", gap)+footerRight, m.width))

	return header + "\n" + m.viewport.View() + "\n" + footer
}

func (m model) scannerHeader() string {
	state := m.orch.State()
	var status string
	switch state {
	case scan.Scanning:
		status = fmt.Sprintf("scanning... %ds", int(time.Since(m.scanStart).Seconds()))
	case scan.Success:
		status = fmt.Sprintf("%d results in %s",
			m.table.Len(), results.FormatDuration(m.orch.Duration()))
	case scan.Failed:
		status = "scan failed"
	default:
		status = "idle"
	}
	recallTag := ""
	if m.recalled && m.viewResult != nil {
		recallTag = "  [recalled " + m.viewResult.ScanID + "]"
	}
	return fmt.Sprintf(" Spread Scanner  %s  %s%s ", m.cfg.API.BaseURL, status, recallTag)
}

func (m model) footerHelp() string {
	switch m.mode {
	case viewChain:
		return " esc back  left/right expiration  pgup/dn scroll"
	case viewDetail:
		return " esc back  o chain  1-5 period  pgup/dn scroll"
	case viewHistory:
		return " esc back  up/dn select  enter recall"
	case viewML:
		return " esc back"
	}
	if m.typing {
		return " enter add symbol  tab complete  esc cancel"
	}
	if m.focusFilters {
		return " s scan  tab results  up/dn field  left/right adjust  a add sym  x del sym  r reset  h history  m ml  q quit"
	}
	return " s scan  tab filters  up/dn select  enter detail  o chain  1-9 sort  e export  C clear  h history  q quit"
}

func (m model) renderContent() string {
	switch m.mode {
	case viewChain:
		return m.renderChain()
	case viewDetail:
		return m.renderDetail()
	case viewHistory:
		return m.renderHistory()
	case viewML:
		return m.renderML()
	}
	return m.renderScanner()
}

func (m model) renderScanner() string {
	var status strings.Builder
	switch m.orch.State() {
	case scan.Scanning:
		status.WriteString(warnStyle.Render(fmt.Sprintf("  Scanning... %ds elapsed", int(time.Since(m.scanStart).Seconds()))))
	case scan.Failed:
		status.WriteString(errStyle.Render("  Scan failed"))
	case scan.Success:
		if m.viewResult != nil {
			status.WriteString(okStyle.Render(fmt.Sprintf("  Scan %s: %s candidates evaluated, %d shown",
				m.viewResult.ScanID,
				results.FormatInt(m.viewResult.TotalCandidatesEvaluated),
				len(m.viewResult.Results))))
		}
	default:
		status.WriteString(dimStyle.Render("  No scan yet. Press s to run one."))
	}
	status.WriteString("\n\n")

	left := m.renderFilterPanel()
	right := m.renderResultsPanel()
	// A failed scan replaces the results area; the previous result is kept
	// in state and comes back once a scan succeeds again.
	if m.orch.State() == scan.Failed {
		var e strings.Builder
		e.WriteString(panelTitle.Render(" Results "))
		e.WriteString("\n\n")
		e.WriteString(errStyle.Render("  " + m.orch.Err()))
		e.WriteString("\n\n")
		e.WriteString(dimStyle.Render("  Press s to scan again."))
		e.WriteString("\n")
		right = e.String()
	}
	return status.String() + lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (m model) renderFilterPanel() string {
	cur := m.filterStore.Current()
	var b strings.Builder

	title := " Filters "
	if m.focusFilters {
		title = " Filters* "
	}
	b.WriteString(panelTitle.Render(title))
	b.WriteString("\n")
	b.WriteString("\n") // aligns with the results column header line

	line := func(f filterField, value string) {
		label := fmt.Sprintf(" %-15s %s", f.label(), value)
		if m.focusFilters && m.filterIdx == f {
			b.WriteString(focusedField.Render(label))
		} else {
			b.WriteString(label)
		}
		b.WriteString("\n")
	}

	symVal := "all (universe)"
	if cur.Symbols != nil {
		symVal = strings.Join(cur.Symbols, ",")
	}
	if m.typing {
		symVal += " +" + m.symInput.View()
	}
	line(fSymbols, symVal)
	if m.typing {
		if matches := m.universeMatches(m.symInput.Value(), 5); len(matches) > 0 {
			b.WriteString(dimStyle.Render("   ↳ " + strings.Join(matches, " ") + "  (tab completes)"))
			b.WriteString("\n")
		}
	}

	var tags []string
	for i, st := range domain.AllSpreadTypes {
		mark := " "
		if m.filterStore.HasStrategy(st) {
			mark = "x"
		}
		tags = append(tags, fmt.Sprintf("%d[%s]%s", i+1, mark, st.Label()))
	}
	line(fStrategies, strings.Join(tags, " "))

	line(fMinDTE, fmt.Sprintf("%d", cur.MinDTE))
	line(fMaxDTE, fmt.Sprintf("%d", cur.MaxDTE))
	line(fLeapsMinDTE, fmt.Sprintf("%d", cur.LeapsMinDTE))
	line(fLeapsMaxDTE, fmt.Sprintf("%d", cur.LeapsMaxDTE))
	line(fMinIVRank, results.FormatScore(cur.MinIVRank))
	line(fMaxIVRank, results.FormatScore(cur.MaxIVRank))
	line(fMinVolume, fmt.Sprintf("%d", cur.MinVolume))
	line(fMinOpenInterest, fmt.Sprintf("%d", cur.MinOpenInterest))
	line(fMaxBidAsk, results.FormatPct(cur.MaxBidAskSpreadPct))
	line(fMinFundamental, results.FormatScore(cur.MinFundamentalScore))
	line(fMinSentiment, results.FormatScore(cur.MinSentimentScore))
	line(fMinPoP, results.FormatPct(cur.MinProbabilityOfProfit))
	line(fMinML, results.FormatScore(cur.MinMLQualityScore))
	line(fMaxResults, fmt.Sprintf("%d", cur.MaxResults))

	if len(m.universe) > 0 {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(fmt.Sprintf(" universe: %d symbols", len(m.universe))))
		b.WriteString("\n")
	}

	return lipgloss.NewStyle().Width(42).Render(b.String())
}

func (m model) renderResultsPanel() string {
	var b strings.Builder

	title := " Results "
	if !m.focusFilters {
		title = " Results* "
	}
	b.WriteString(panelTitle.Render(title))
	b.WriteString("\n")

	rows := m.table.Rows()
	if len(rows) == 0 {
		b.WriteString(dimStyle.Render("  (no results)"))
		b.WriteString("\n")
		return b.String()
	}

	sortCol, dir := m.table.SortState()
	headers := make([]string, 0, int(results.ColumnCount)+1)
	headers = append(headers, fmt.Sprintf("%4s", "#"))
	for c := results.Column(0); c < results.ColumnCount; c++ {
		label := c.Title()
		if dir != results.Unsorted && c == sortCol {
			label += dir.Indicator()
		}
		headers = append(headers, fmt.Sprintf("%-9s", label))
	}
	b.WriteString(colHeaderStyle.Render(" " + strings.Join(headers, " ")))
	b.WriteString("\n")

	for i := range rows {
		r := &rows[i]
		hl := m.hasSel && results.KeyOf(r) == m.selKey

		b.WriteString(hlStyle(dimStyle, hl).Render(fmt.Sprintf(" %4d", r.Rank)))
		sp := hlStyle(lipgloss.NewStyle(), hl).Render(" ")
		b.WriteString(sp)
		b.WriteString(hlStyle(symbolStyle, hl).Render(fmt.Sprintf("%-9s", r.Spread.Underlying)))
		b.WriteString(sp)
		b.WriteString(hlStyle(strategyStyle(r.Spread.SpreadType), hl).Render(fmt.Sprintf("%-9s", r.Spread.SpreadType.Label())))
		b.WriteString(sp)
		cells := []string{
			fmt.Sprintf("%-9s", results.FormatDTE(r.Spread.DTE)),
			fmt.Sprintf("%-9s", results.FormatMoney(r.Spread.NetDebit)),
			fmt.Sprintf("%-9s", results.FormatMaxProfit(r.Spread.MaxProfit)),
			fmt.Sprintf("%-9s", results.FormatPct(r.Spread.ProbabilityOfProfit)),
			fmt.Sprintf("%-9s", results.FormatScore(r.Spread.IVRank)),
			fmt.Sprintf("%-9s", results.FormatScore(r.MLPrediction.SpreadQualityScore)),
			fmt.Sprintf("%-9s", results.FormatScore(r.RiskScore.CompositeScore)),
		}
		b.WriteString(hlStyle(priceStyle, hl).Render(strings.Join(cells, " ")))
		b.WriteString("\n")
	}
	return b.String()
}

func (m model) renderChain() string {
	var b strings.Builder
	if m.chainLoading {
		b.WriteString(dimStyle.Render("  Loading chain..."))
		b.WriteString("\n")
		return b.String()
	}
	if m.chainErr != "" {
		b.WriteString(errStyle.Render("  " + m.chainErr))
		b.WriteString("\n")
		return b.String()
	}
	if len(m.chainRows) == 0 {
		b.WriteString(dimStyle.Render("  (empty chain)"))
		b.WriteString("\n")
		return b.String()
	}

	if m.chainTime != "" {
		b.WriteString(dimStyle.Render("  quotes as of " + m.chainTime))
		b.WriteString("\n")
	}

	side := "%7s %7s %7s %7s %6s"
	colLine := fmt.Sprintf("  "+side+"  %8s  "+side,
		"Bid", "Ask", "Vol", "OI", "Delta",
		"Strike",
		"Bid", "Ask", "Vol", "OI", "Delta")
	b.WriteString(colHeaderStyle.Render(fmt.Sprintf("  %-37s  %8s  %s", "CALLS", "", "PUTS")))
	b.WriteString("\n")
	b.WriteString(colHeaderStyle.Render(colLine))
	b.WriteString("\n")

	for _, row := range m.chainRows {
		b.WriteString("  ")
		b.WriteString(renderSide(row.Call))
		strike := fmt.Sprintf("  %8.2f  ", row.Strike)
		if row.ATM {
			b.WriteString(atmStyle.Render(strike))
		} else {
			b.WriteString(priceStyle.Render(strike))
		}
		b.WriteString(renderSide(row.Put))
		b.WriteString("\n")
	}
	return b.String()
}

// renderSide renders one side's quote columns, or explicit no-data markers
// when the side has no contract at this strike.
func renderSide(q *domain.OptionQuote) string {
	if q == nil {
		return dimStyle.Render(fmt.Sprintf("%7s %7s %7s %7s %6s", "—", "—", "—", "—", "—"))
	}
	return priceStyle.Render(fmt.Sprintf("%7.2f %7.2f %7s %7s %6.2f",
		q.Bid, q.Ask,
		results.FormatInt(int(q.Volume)),
		results.FormatInt(int(q.OpenInterest)),
		q.Delta))
}

func (m model) renderDetail() string {
	var b strings.Builder
	row := m.detailRow
	if row == nil {
		return dimStyle.Render("  (no selection)")
	}
	sp := &row.Spread

	// Quote line.
	if m.quote != nil {
		delta := m.quote.Price - m.quote.PreviousClose
		deltaStr := fmt.Sprintf("%+.2f", delta)
		style := okStyle
		if delta < 0 {
			style = errStyle
		}
		b.WriteString(fmt.Sprintf("  %s  %s  ",
			symbolStyle.Render(sp.Underlying),
			priceStyle.Render(results.FormatMoney(m.quote.Price))))
		b.WriteString(style.Render(deltaStr))
		b.WriteString(dimStyle.Render(fmt.Sprintf("   52wk %s – %s",
			results.FormatMoney(m.quote.FiftyTwoWeekLow),
			results.FormatMoney(m.quote.FiftyTwoWeekHigh))))
	} else {
		b.WriteString("  " + symbolStyle.Render(sp.Underlying) + dimStyle.Render("  quote loading..."))
	}
	b.WriteString("\n\n")

	// Spread block.
	b.WriteString(panelTitle.Render(" " + sp.SpreadType.Label() + "  " + sp.Expiration + "  " + results.FormatDTE(sp.DTE) + " "))
	b.WriteString("\n")
	long := fmt.Sprintf("  long  %s %.2f @ %s", sp.LongLeg.OptionType.Label(), sp.LongLeg.Strike, results.FormatMoney(sp.LongLeg.Mid))
	b.WriteString(priceStyle.Render(long))
	b.WriteString("\n")
	if sp.ShortLeg != nil {
		short := fmt.Sprintf("  short %s %.2f @ %s", sp.ShortLeg.OptionType.Label(), sp.ShortLeg.Strike, results.FormatMoney(sp.ShortLeg.Mid))
		b.WriteString(priceStyle.Render(short))
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("  debit %s   max profit %s   max loss %s   breakeven %s\n",
		results.FormatMoney(sp.NetDebit),
		results.FormatMaxProfit(sp.MaxProfit),
		results.FormatMoney(sp.MaxLoss),
		results.FormatMoney(sp.Breakeven)))
	b.WriteString(fmt.Sprintf("  PoP %s   IV rank %s   liquidity %s\n",
		results.FormatPct(sp.ProbabilityOfProfit),
		results.FormatScore(sp.IVRank),
		results.FormatScore(sp.BidAskQualityScore*100)))
	b.WriteString("\n")

	// Risk score breakdown.
	rs := &row.RiskScore
	b.WriteString(panelTitle.Render(fmt.Sprintf(" Risk score %s ", results.FormatScore(rs.CompositeScore))))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  iv %s  bid/ask %s  fundamental %s  sentiment %s  liquidity %s\n",
		results.FormatScore(rs.IVRankComponent),
		results.FormatScore(rs.BidAskComponent),
		results.FormatScore(rs.FundamentalComponent),
		results.FormatScore(rs.SentimentComponent),
		results.FormatScore(rs.LiquidityComponent)))
	if row.MLPrediction.IsPlaceholder {
		b.WriteString(warnStyle.Render("  ml: placeholder model, scores are heuristic"))
		b.WriteString("\n")
	} else {
		b.WriteString(fmt.Sprintf("  ml quality %s  expected return %s  confidence %s\n",
			results.FormatScore(row.MLPrediction.SpreadQualityScore),
			results.FormatPct(row.MLPrediction.ExpectedReturnPct),
			results.FormatPct(row.MLPrediction.Confidence)))
	}
	b.WriteString("\n")

	// Price history.
	b.WriteString(panelTitle.Render(" Price history " + chartPeriods[m.periodIdx] + " "))
	b.WriteString("\n")
	switch {
	case m.fetcher.Loading() && len(m.fetcher.Bars()) == 0:
		b.WriteString(dimStyle.Render("  loading..."))
		b.WriteString("\n")
	case m.fetcher.Err() != "" && len(m.fetcher.Bars()) == 0:
		b.WriteString(errStyle.Render("  " + m.fetcher.Err()))
		b.WriteString("\n")
	default:
		if m.fetcher.Err() != "" {
			b.WriteString(warnStyle.Render("  " + m.fetcher.Err() + " (showing previous series)"))
			b.WriteString("\n")
		}
		b.WriteString(renderSparkline(m.fetcher.Bars(), m.width-6))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	// Sentiment.
	if m.sentiment != nil {
		s := m.sentiment
		b.WriteString(panelTitle.Render(fmt.Sprintf(" Sentiment %s (%s, %d articles) ",
			results.FormatScore(s.SentimentScore), s.SentimentLabel, s.ArticlesAnalyzed)))
		b.WriteString("\n")
		for i, h := range s.TopHeadlines {
			if i >= 3 {
				break
			}
			b.WriteString(dimStyle.Render("  • " + h))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	// Fundamentals.
	if m.fundamentals != nil {
		f := m.fundamentals
		score := "—"
		if f.FundamentalScore != nil {
			score = results.FormatScore(*f.FundamentalScore)
		}
		b.WriteString(panelTitle.Render(fmt.Sprintf(" Fundamentals %s  %s ", f.CompanyName, score)))
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("  %s / %s   mkt cap %s\n", f.Sector, f.Industry, results.FormatMoney(f.MarketCap)))
		b.WriteString(fmt.Sprintf("  P/E %s  fwd P/E %s  PEG %s  D/E %s  ROE %s\n",
			fmtRatio(f.PERatio), fmtRatio(f.ForwardPE), fmtRatio(f.PEGRatio),
			fmtRatio(f.DebtToEquity), fmtRatioPct(f.ReturnOnEquity)))
		if f.DaysToEarnings != nil {
			note := fmt.Sprintf("  earnings in %d days", *f.DaysToEarnings)
			if *f.DaysToEarnings <= sp.DTE {
				b.WriteString(warnStyle.Render(note + " (inside this spread's window)"))
			} else {
				b.WriteString(dimStyle.Render(note))
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}

func fmtRatio(p *float64) string {
	if p == nil {
		return "—"
	}
	return fmt.Sprintf("%.1f", *p)
}

func fmtRatioPct(p *float64) string {
	if p == nil {
		return "—"
	}
	return results.FormatPct(*p)
}

// renderSparkline draws the close series as a one-line block sparkline plus a
// min/max legend. Bars are downsampled to fit the width.
func renderSparkline(bars []domain.Bar, width int) string {
	if len(bars) == 0 {
		return dimStyle.Render("  (no data)")
	}
	if width < 10 {
		width = 10
	}

	closes := make([]float64, len(bars))
	minC, maxC := bars[0].Close, bars[0].Close
	for i, bar := range bars {
		closes[i] = bar.Close
		if bar.Close < minC {
			minC = bar.Close
		}
		if bar.Close > maxC {
			maxC = bar.Close
		}
	}

	// Downsample to width points by taking the last close of each bucket.
	points := closes
	if len(closes) > width {
		points = make([]float64, width)
		for i := 0; i < width; i++ {
			points[i] = closes[(i+1)*len(closes)/width-1]
		}
	}

	ramp := []rune("▁▂▃▄▅▆▇█")
	span := maxC - minC
	var line strings.Builder
	line.WriteString("  ")
	for _, v := range points {
		idx := 0
		if span > 0 {
			idx = int((v - minC) / span * float64(len(ramp)-1))
		}
		line.WriteRune(ramp[idx])
	}

	last := closes[len(closes)-1]
	style := okStyle
	if last < closes[0] {
		style = errStyle
	}
	legend := fmt.Sprintf("  %s → %s  (lo %s, hi %s, %d bars)",
		results.FormatMoney(closes[0]), results.FormatMoney(last),
		results.FormatMoney(minC), results.FormatMoney(maxC), len(bars))
	return style.Render(line.String()) + "\n" + dimStyle.Render(legend)
}

func (m model) renderHistory() string {
	var b strings.Builder
	if m.histLoading {
		b.WriteString(dimStyle.Render("  Loading..."))
		b.WriteString("\n")
		return b.String()
	}
	if len(m.histRecords) == 0 {
		b.WriteString(dimStyle.Render("  (no scans this session)"))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(colHeaderStyle.Render(fmt.Sprintf("  %-28s %-22s %8s %12s %10s",
		"Scan", "Time", "Results", "Candidates", "Duration")))
	b.WriteString("\n")
	for i, r := range m.histRecords {
		hl := i == m.histIdx
		line := fmt.Sprintf("  %-28s %-22s %8d %12s %10s",
			r.ScanID, r.ScanTime, r.ResultCount,
			results.FormatInt(r.Candidates),
			results.FormatDuration(r.DurationSeconds))
		b.WriteString(hlStyle(priceStyle, hl).Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

func (m model) renderML() string {
	var b strings.Builder
	if m.mlStatus == nil {
		b.WriteString(dimStyle.Render("  ML status unavailable"))
		b.WriteString("\n")
		return b.String()
	}

	st := m.mlStatus
	if st.IsTrained {
		b.WriteString(okStyle.Render(fmt.Sprintf("  trained model  mode=%s  path=%s", st.Mode, st.ModelPath)))
	} else {
		b.WriteString(warnStyle.Render(fmt.Sprintf("  placeholder mode  %s", st.Message)))
	}
	b.WriteString("\n\n")

	if len(m.importances) == 0 {
		return b.String()
	}

	type feat struct {
		name  string
		value float64
	}
	feats := make([]feat, 0, len(m.importances))
	var maxV float64
	for name, v := range m.importances {
		feats = append(feats, feat{name, v})
		if v > maxV {
			maxV = v
		}
	}
	sort.Slice(feats, func(i, j int) bool {
		if feats[i].value != feats[j].value {
			return feats[i].value > feats[j].value
		}
		return feats[i].name < feats[j].name
	})

	b.WriteString(panelTitle.Render(" Feature importance "))
	b.WriteString("\n")
	for _, f := range feats {
		barLen := 0
		if maxV > 0 {
			barLen = int(f.value / maxV * 30)
		}
		b.WriteString(fmt.Sprintf("  %-28s %6.3f %s\n", f.name, f.value,
			okStyle.Render(strings.Repeat("█", barLen))))
	}
	return b.String()
}

// padOrTrunc pads s with spaces to width, or truncates if longer.
func padOrTrunc(s string, width int) string {
	n := len(s)
	if n >= width {
		return s[:width]
	}
	return s + strings.Repeat(" ", width-n)
}

// ---------------------------------------------------------------------------
// Filter adjustment
// ---------------------------------------------------------------------------

// adjustFilter nudges the focused field by one step in the given direction.
// Everything goes through the store's patch path; no validation happens here,
// inverted ranges included.
func (m *model) adjustFilter(dir int) {
	cur := m.filterStore.Current()
	d := float64(dir)

	ip := func(v int) *int { return &v }
	i64p := func(v int64) *int64 { return &v }
	fp := func(v float64) *float64 { return &v }

	var p filters.Patch
	switch m.filterIdx {
	case fMinDTE:
		p.MinDTE = ip(cur.MinDTE + dir*5)
	case fMaxDTE:
		p.MaxDTE = ip(cur.MaxDTE + dir*5)
	case fLeapsMinDTE:
		p.LeapsMinDTE = ip(cur.LeapsMinDTE + dir*30)
	case fLeapsMaxDTE:
		p.LeapsMaxDTE = ip(cur.LeapsMaxDTE + dir*30)
	case fMinIVRank:
		p.MinIVRank = fp(cur.MinIVRank + d*5)
	case fMaxIVRank:
		p.MaxIVRank = fp(cur.MaxIVRank + d*5)
	case fMinVolume:
		p.MinVolume = i64p(cur.MinVolume + int64(dir)*50)
	case fMinOpenInterest:
		p.MinOpenInterest = i64p(cur.MinOpenInterest + int64(dir)*100)
	case fMaxBidAsk:
		p.MaxBidAskSpreadPct = fp(cur.MaxBidAskSpreadPct + d*0.05)
	case fMinFundamental:
		p.MinFundamentalScore = fp(cur.MinFundamentalScore + d*5)
	case fMinSentiment:
		p.MinSentimentScore = fp(cur.MinSentimentScore + d*5)
	case fMinPoP:
		p.MinProbabilityOfProfit = fp(cur.MinProbabilityOfProfit + d*0.05)
	case fMinML:
		p.MinMLQualityScore = fp(cur.MinMLQualityScore + d*5)
	case fMaxResults:
		p.MaxResults = ip(cur.MaxResults + dir*10)
	default:
		return
	}
	m.filterStore.Apply(p)
}

// ---------------------------------------------------------------------------
// Entrypoint
// ---------------------------------------------------------------------------

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
			os.Exit(1)
		}
	} else {
		cfg = config.Default()
	}

	logPath := fmt.Sprintf("/tmp/spreadscan-%s.log", time.Now().Format("2006-01-02"))
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	logger := util.NewLogger(logFile, cfg.Logging.Level, cfg.Logging.Format)
	util.SetDefault(logger)

	limiter := util.NewRateLimiter(cfg.Client.RateLimitPerMin)
	client := scanapi.NewClient(
		cfg.API.BaseURL,
		time.Duration(cfg.API.RequestTimeoutSecs)*time.Second,
		time.Duration(cfg.API.ScanTimeoutSecs)*time.Second,
		limiter,
	)

	// Wait for the engine before entering the alt screen, so a dead engine
	// fails fast with a readable message instead of an empty dashboard.
	fmt.Fprint(os.Stderr, "waiting for scan engine...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	err = util.Retry(ctx, 5, 500*time.Millisecond, func() error {
		probe, probeCancel := context.WithTimeout(ctx, 3*time.Second)
		defer probeCancel()
		return client.Health(probe)
	})
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "\nscan engine is unreachable at %s: %v\n", cfg.API.BaseURL, err)
		os.Exit(1)
	}
	fmt.Fprintln(os.Stderr, " ok")
	logger.Info("scan engine reachable", "base_url", cfg.API.BaseURL)

	scanLog, err := store.NewSQLiteScanLog(cfg.Storage.ScanLogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "opening scan log: %v\n", err)
		os.Exit(1)
	}
	defer scanLog.Close()

	exporter := store.NewParquetExporter(cfg.Storage.DataDir)

	p := tea.NewProgram(
		initialModel(cfg, logger, client, scanLog, exporter),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
