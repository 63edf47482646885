// Package chain joins a chain's independently-sized call and put quote
// sequences into a single strike-indexed table for the chain view.
package chain

import (
	"math"
	"sort"

	"spreadscan/internal/domain"
)

// atmThreshold is the relative distance from spot below which a strike is
// highlighted as at-the-money. The comparison is strictly less-than: a
// strike exactly 2% away is not flagged.
const atmThreshold = 0.02

// Row is one strike of the merged table. A nil Call or Put means the side
// has no quote at this strike and renders as an explicit no-data marker.
type Row struct {
	Strike float64
	Call   *domain.OptionQuote
	Put    *domain.OptionQuote
	ATM    bool
}

// Merge builds the strike-union table for one underlying/expiration: every
// strike present on either side, ascending, with the call and put looked up
// independently. Lookups go through strike-keyed maps built in one pass, so
// the merge is linear in total quote count. If one side carries two quotes
// at the same strike, the later one wins; there is no aggregation.
func Merge(calls, puts []domain.OptionQuote, spot float64) []Row {
	callsAt := indexByStrike(calls)
	putsAt := indexByStrike(puts)

	strikes := make([]float64, 0, len(callsAt)+len(putsAt))
	seen := make(map[float64]bool, len(callsAt)+len(putsAt))
	for strike := range callsAt {
		if !seen[strike] {
			seen[strike] = true
			strikes = append(strikes, strike)
		}
	}
	for strike := range putsAt {
		if !seen[strike] {
			seen[strike] = true
			strikes = append(strikes, strike)
		}
	}
	sort.Float64s(strikes)

	rows := make([]Row, 0, len(strikes))
	for _, strike := range strikes {
		rows = append(rows, Row{
			Strike: strike,
			Call:   callsAt[strike],
			Put:    putsAt[strike],
			ATM:    IsATM(strike, spot),
		})
	}
	return rows
}

// IsATM reports whether a strike is within the at-the-money band around
// spot. Used purely for highlighting, never for filtering.
func IsATM(strike, spot float64) bool {
	if spot <= 0 {
		return false
	}
	return math.Abs(strike-spot)/spot < atmThreshold
}

// indexByStrike builds the strike-keyed lookup for one side. Later
// duplicates overwrite earlier ones.
func indexByStrike(quotes []domain.OptionQuote) map[float64]*domain.OptionQuote {
	m := make(map[float64]*domain.OptionQuote, len(quotes))
	for i := range quotes {
		m[quotes[i].Strike] = &quotes[i]
	}
	return m
}
