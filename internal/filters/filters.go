// Package filters owns the scan request configuration for one dashboard
// session. The store is the single owner of the current filter state; the
// orchestrator reads immutable snapshots at submission time and never
// mutates them.
package filters

import (
	"strings"

	"spreadscan/internal/domain"
)

// Defaults returns the documented default filter configuration. The values
// mirror the scan engine's own defaults so a fresh session and an engine-side
// default scan agree. Symbols is nil, meaning the engine's full universe.
func Defaults() domain.ScannerFilters {
	return domain.ScannerFilters{
		Symbols:                nil,
		Strategies:             []domain.SpreadType{domain.LeapCall, domain.LeapsSpreadCall},
		MinDTE:                 30,
		MaxDTE:                 90,
		LeapsMinDTE:            365,
		LeapsMaxDTE:            730,
		MinIVRank:              10.0,
		MaxIVRank:              70.0,
		MinVolume:              100,
		MinOpenInterest:        500,
		MaxBidAskSpreadPct:     0.50,
		MinFundamentalScore:    40.0,
		MinSentimentScore:      35.0,
		MinProbabilityOfProfit: 0.45,
		MinMLQualityScore:      45.0,
		MaxResults:             50,
		TargetSpreadWidths:     []float64{},
		MaxDebitPctOfSpread:    1.0,
		MinLongDelta:           0.0,
		MaxLongDelta:           1.0,
	}
}

// Patch is a partial filter update. Nil fields are left untouched; set
// fields replace the current value wholesale (shallow merge). No field-level
// validation happens here — an inverted range is allowed through and is the
// scan engine's problem to reject.
type Patch struct {
	Symbols                *[]string
	Strategies             *[]domain.SpreadType
	MinDTE                 *int
	MaxDTE                 *int
	LeapsMinDTE            *int
	LeapsMaxDTE            *int
	MinIVRank              *float64
	MaxIVRank              *float64
	MinVolume              *int64
	MinOpenInterest        *int64
	MaxBidAskSpreadPct     *float64
	MinFundamentalScore    *float64
	MinSentimentScore      *float64
	MinProbabilityOfProfit *float64
	MinMLQualityScore      *float64
	MaxResults             *int
	TargetSpreadWidths     *[]float64
	MaxSpreadWidth         **float64
	MaxDebitPctOfSpread    *float64
	MaxNetDebit            **float64
	MinLongDelta           *float64
	MaxLongDelta           *float64
}

// Store holds the session's filter configuration. It has exactly one owner
// (the dashboard event loop), so no locking is needed.
type Store struct {
	current  domain.ScannerFilters
	defaults domain.ScannerFilters
}

// NewStore creates a store seeded with the built-in defaults.
func NewStore() *Store {
	return &Store{current: Defaults(), defaults: Defaults()}
}

// SetDefaults replaces the reset target, e.g. with the engine's own
// /scanner/filters/defaults response, and re-seeds the current state when it
// is still untouched-from-default.
func (s *Store) SetDefaults(d domain.ScannerFilters) {
	untouched := snapshotEqual(s.current, s.defaults)
	s.defaults = copyFilters(d)
	if untouched {
		s.current = copyFilters(d)
	}
}

// Current returns an immutable snapshot of the configuration. Slices are
// copied so a scan in flight can never observe later edits.
func (s *Store) Current() domain.ScannerFilters {
	return copyFilters(s.current)
}

// Reset restores the default snapshot.
func (s *Store) Reset() {
	s.current = copyFilters(s.defaults)
}

// CanScan reports whether the configuration is submittable: at least one
// strategy must be enabled.
func (s *Store) CanScan() bool {
	return len(s.current.Strategies) > 0
}

// Apply merges a partial update into the current configuration.
func (s *Store) Apply(p Patch) {
	if p.Symbols != nil {
		s.current.Symbols = copyStrings(*p.Symbols)
	}
	if p.Strategies != nil {
		s.current.Strategies = copySpreadTypes(*p.Strategies)
	}
	if p.MinDTE != nil {
		s.current.MinDTE = *p.MinDTE
	}
	if p.MaxDTE != nil {
		s.current.MaxDTE = *p.MaxDTE
	}
	if p.LeapsMinDTE != nil {
		s.current.LeapsMinDTE = *p.LeapsMinDTE
	}
	if p.LeapsMaxDTE != nil {
		s.current.LeapsMaxDTE = *p.LeapsMaxDTE
	}
	if p.MinIVRank != nil {
		s.current.MinIVRank = *p.MinIVRank
	}
	if p.MaxIVRank != nil {
		s.current.MaxIVRank = *p.MaxIVRank
	}
	if p.MinVolume != nil {
		s.current.MinVolume = *p.MinVolume
	}
	if p.MinOpenInterest != nil {
		s.current.MinOpenInterest = *p.MinOpenInterest
	}
	if p.MaxBidAskSpreadPct != nil {
		s.current.MaxBidAskSpreadPct = *p.MaxBidAskSpreadPct
	}
	if p.MinFundamentalScore != nil {
		s.current.MinFundamentalScore = *p.MinFundamentalScore
	}
	if p.MinSentimentScore != nil {
		s.current.MinSentimentScore = *p.MinSentimentScore
	}
	if p.MinProbabilityOfProfit != nil {
		s.current.MinProbabilityOfProfit = *p.MinProbabilityOfProfit
	}
	if p.MinMLQualityScore != nil {
		s.current.MinMLQualityScore = *p.MinMLQualityScore
	}
	if p.MaxResults != nil {
		s.current.MaxResults = *p.MaxResults
	}
	if p.TargetSpreadWidths != nil {
		s.current.TargetSpreadWidths = copyFloats(*p.TargetSpreadWidths)
	}
	if p.MaxSpreadWidth != nil {
		s.current.MaxSpreadWidth = copyFloatPtr(*p.MaxSpreadWidth)
	}
	if p.MaxDebitPctOfSpread != nil {
		s.current.MaxDebitPctOfSpread = *p.MaxDebitPctOfSpread
	}
	if p.MaxNetDebit != nil {
		s.current.MaxNetDebit = copyFloatPtr(*p.MaxNetDebit)
	}
	if p.MinLongDelta != nil {
		s.current.MinLongDelta = *p.MinLongDelta
	}
	if p.MaxLongDelta != nil {
		s.current.MaxLongDelta = *p.MaxLongDelta
	}
}

// AddSymbol adds a symbol to the allow-list. Adding a duplicate is a no-op.
// Symbols are normalised to upper case.
func (s *Store) AddSymbol(symbol string) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return
	}
	for _, existing := range s.current.Symbols {
		if existing == symbol {
			return
		}
	}
	s.current.Symbols = append(s.current.Symbols, symbol)
}

// RemoveSymbol removes a symbol from the allow-list. Removing the last entry
// restores the full-universe (nil) state rather than leaving an empty list.
func (s *Store) RemoveSymbol(symbol string) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	out := s.current.Symbols[:0]
	for _, existing := range s.current.Symbols {
		if existing != symbol {
			out = append(out, existing)
		}
	}
	if len(out) == 0 {
		s.current.Symbols = nil
		return
	}
	s.current.Symbols = out
}

// ToggleStrategy enables or disables a strategy. Disabling every strategy is
// allowed here; CanScan gates submission instead.
func (s *Store) ToggleStrategy(st domain.SpreadType) {
	for i, existing := range s.current.Strategies {
		if existing == st {
			s.current.Strategies = append(s.current.Strategies[:i], s.current.Strategies[i+1:]...)
			return
		}
	}
	s.current.Strategies = append(s.current.Strategies, st)
}

// HasStrategy reports whether a strategy is currently enabled.
func (s *Store) HasStrategy(st domain.SpreadType) bool {
	for _, existing := range s.current.Strategies {
		if existing == st {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Copy helpers
// ---------------------------------------------------------------------------

func copyFilters(f domain.ScannerFilters) domain.ScannerFilters {
	out := f
	out.Symbols = copyStrings(f.Symbols)
	out.Strategies = copySpreadTypes(f.Strategies)
	out.TargetSpreadWidths = copyFloats(f.TargetSpreadWidths)
	out.MaxSpreadWidth = copyFloatPtr(f.MaxSpreadWidth)
	out.MaxNetDebit = copyFloatPtr(f.MaxNetDebit)
	return out
}

// The copy helpers preserve nil-ness: nil means "full universe" for Symbols
// and must not become an empty list (or vice versa) on the way through.

func copyStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func copySpreadTypes(in []domain.SpreadType) []domain.SpreadType {
	if in == nil {
		return nil
	}
	out := make([]domain.SpreadType, len(in))
	copy(out, in)
	return out
}

func copyFloats(in []float64) []float64 {
	if in == nil {
		return nil
	}
	out := make([]float64, len(in))
	copy(out, in)
	return out
}

func copyFloatPtr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func snapshotEqual(a, b domain.ScannerFilters) bool {
	if len(a.Symbols) != len(b.Symbols) || len(a.Strategies) != len(b.Strategies) ||
		len(a.TargetSpreadWidths) != len(b.TargetSpreadWidths) {
		return false
	}
	for i := range a.Symbols {
		if a.Symbols[i] != b.Symbols[i] {
			return false
		}
	}
	for i := range a.Strategies {
		if a.Strategies[i] != b.Strategies[i] {
			return false
		}
	}
	for i := range a.TargetSpreadWidths {
		if a.TargetSpreadWidths[i] != b.TargetSpreadWidths[i] {
			return false
		}
	}
	if !floatPtrEqual(a.MaxSpreadWidth, b.MaxSpreadWidth) ||
		!floatPtrEqual(a.MaxNetDebit, b.MaxNetDebit) {
		return false
	}
	return a.MinDTE == b.MinDTE &&
		a.MaxDTE == b.MaxDTE &&
		a.LeapsMinDTE == b.LeapsMinDTE &&
		a.LeapsMaxDTE == b.LeapsMaxDTE &&
		a.MinIVRank == b.MinIVRank &&
		a.MaxIVRank == b.MaxIVRank &&
		a.MinVolume == b.MinVolume &&
		a.MinOpenInterest == b.MinOpenInterest &&
		a.MaxBidAskSpreadPct == b.MaxBidAskSpreadPct &&
		a.MinFundamentalScore == b.MinFundamentalScore &&
		a.MinSentimentScore == b.MinSentimentScore &&
		a.MinProbabilityOfProfit == b.MinProbabilityOfProfit &&
		a.MinMLQualityScore == b.MinMLQualityScore &&
		a.MaxResults == b.MaxResults &&
		a.MaxDebitPctOfSpread == b.MaxDebitPctOfSpread &&
		a.MinLongDelta == b.MinLongDelta &&
		a.MaxLongDelta == b.MaxLongDelta
}

func floatPtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
