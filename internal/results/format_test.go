package results

import "testing"

func TestFormatDTE(t *testing.T) {
	tests := []struct {
		days int
		want string
	}{
		{29, "29d"},
		{90, "90d"},
		{364, "364d"},
		{365, "12mo"},
		{730, "24mo"},
	}
	for _, tt := range tests {
		if got := FormatDTE(tt.days); got != tt.want {
			t.Errorf("FormatDTE(%d) = %q, want %q", tt.days, got, tt.want)
		}
	}
}

func TestFormatMaxProfit(t *testing.T) {
	if got := FormatMaxProfit(9999); got != "Unlimited" {
		t.Errorf("FormatMaxProfit(9999) = %q, want Unlimited", got)
	}
	if got := FormatMaxProfit(12000); got != "Unlimited" {
		t.Errorf("FormatMaxProfit(12000) = %q, want Unlimited", got)
	}
	if got := FormatMaxProfit(2.85); got != "$2.85" {
		t.Errorf("FormatMaxProfit(2.85) = %q, want $2.85", got)
	}
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{2.85, "$2.85"},
		{1500, "$1500.00"},
		{15000, "$15.0K"},
		{2500000, "$2.5M"},
	}
	for _, tt := range tests {
		if got := FormatMoney(tt.v); got != tt.want {
			t.Errorf("FormatMoney(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestFormatInt(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
	}
	for _, tt := range tests {
		if got := FormatInt(tt.n); got != tt.want {
			t.Errorf("FormatInt(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestFormatPct(t *testing.T) {
	if got := FormatPct(0.45); got != "45%" {
		t.Errorf("FormatPct(0.45) = %q, want 45%%", got)
	}
}
