// Package series tracks the per-symbol OHLC fetch lifecycle for the
// price-history panel. Requests are never truly cancelled; each fetch is
// stamped with a generation and a response is dropped unless its generation
// is still current when it arrives.
package series

import "spreadscan/internal/domain"

// Fetcher holds the displayed series and the in-flight request's identity.
// It has a single logical owner (the dashboard event loop); results arrive
// as events and are applied via Apply.
type Fetcher struct {
	symbol     string
	period     string
	generation uint64
	loading    bool
	bars       []domain.Bar
	errMsg     string
}

// New returns an empty fetcher.
func New() *Fetcher {
	return &Fetcher{}
}

// Symbol returns the symbol the displayed (or loading) series belongs to.
func (f *Fetcher) Symbol() string { return f.symbol }

// Period returns the requested period ("1mo", "3mo", "6mo", "1y", "2y").
func (f *Fetcher) Period() string { return f.period }

// Loading reports whether a fetch is outstanding.
func (f *Fetcher) Loading() bool { return f.loading }

// Bars returns the displayed series. On failure the previous series stays
// in place, so this can be non-empty while Err is set.
func (f *Fetcher) Bars() []domain.Bar { return f.bars }

// Err returns the last fetch's normalized error message, or "".
func (f *Fetcher) Err() string { return f.errMsg }

// Start begins a new fetch lifecycle for (symbol, period) and returns its
// generation. Starting supersedes any outstanding fetch immediately — there
// is no queueing — and clears the previous error.
func (f *Fetcher) Start(symbol, period string) uint64 {
	f.generation++
	f.symbol = symbol
	f.period = period
	f.loading = true
	f.errMsg = ""
	return f.generation
}

// Apply delivers a fetch outcome. Outcomes from superseded generations are
// ignored regardless of arrival order. On success the series is replaced
// wholesale; on failure the message is recorded and prior bars are kept.
// The ok return reports whether the outcome was applied.
func (f *Fetcher) Apply(gen uint64, bars []domain.Bar, errMsg string) bool {
	if gen != f.generation {
		return false
	}
	f.loading = false
	if errMsg != "" {
		f.errMsg = errMsg
		return true
	}
	f.bars = bars
	f.errMsg = ""
	return true
}

// Reset clears the fetcher entirely (e.g. when the detail view closes). Any
// outstanding fetch is superseded.
func (f *Fetcher) Reset() {
	f.generation++
	f.symbol = ""
	f.period = ""
	f.loading = false
	f.bars = nil
	f.errMsg = ""
}
