package results

import (
	"fmt"
	"math"
	"strings"
)

// UnlimitedProfit is the engine's sentinel for an uncapped max profit
// (single-leg LEAPS). Anything at or above it renders as "Unlimited".
const UnlimitedProfit = 9999.0

// FormatDTE renders days-to-expiration: short-dated in days, a year or more
// in whole months (days/30, rounded).
func FormatDTE(days int) string {
	if days >= 365 {
		return fmt.Sprintf("%dmo", int(math.Round(float64(days)/30.0)))
	}
	return fmt.Sprintf("%dd", days)
}

// FormatMaxProfit renders a max-profit figure, mapping the uncapped sentinel
// to "Unlimited".
func FormatMaxProfit(v float64) string {
	if v >= UnlimitedProfit {
		return "Unlimited"
	}
	return FormatMoney(v)
}

// FormatMoney formats a dollar value as $X.XX, with K/M suffixes for large
// magnitudes.
func FormatMoney(v float64) string {
	abs := math.Abs(v)
	switch {
	case abs >= 1e6:
		return fmt.Sprintf("$%.1fM", v/1e6)
	case abs >= 1e4:
		return fmt.Sprintf("$%.1fK", v/1e3)
	default:
		return fmt.Sprintf("$%.2f", v)
	}
}

// FormatPct renders a 0-1 probability as a whole percentage.
func FormatPct(v float64) string {
	return fmt.Sprintf("%.0f%%", v*100)
}

// FormatScore renders a 0-100 score with one decimal.
func FormatScore(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

// FormatInt formats an integer with comma separators.
func FormatInt(n int) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	start := len(s) % 3
	if start > 0 {
		b.WriteString(s[:start])
	}
	for i := start; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// FormatDuration renders a scan duration in seconds as "31.4s".
func FormatDuration(secs float64) string {
	return fmt.Sprintf("%.1fs", secs)
}
