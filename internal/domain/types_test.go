package domain

import (
	"encoding/json"
	"testing"
)

func TestSpreadTypeValid(t *testing.T) {
	for _, st := range AllSpreadTypes {
		if !st.Valid() {
			t.Errorf("SpreadType %q should be valid", st)
		}
	}
	if SpreadType("iron_condor").Valid() {
		t.Error("unknown spread type should not be valid")
	}
}

func TestParseSpreadType(t *testing.T) {
	st, err := ParseSpreadType("bull_call")
	if err != nil {
		t.Fatalf("ParseSpreadType returned error: %v", err)
	}
	if st != BullCall {
		t.Errorf("ParseSpreadType = %q, want %q", st, BullCall)
	}

	if _, err := ParseSpreadType("calendar"); err == nil {
		t.Error("ParseSpreadType should reject unknown tags")
	}
}

func TestSpreadTypeTwoLeg(t *testing.T) {
	tests := []struct {
		st   SpreadType
		want bool
	}{
		{BullCall, true},
		{BearPut, true},
		{LeapsSpreadCall, true},
		{LeapCall, false},
		{LeapPut, false},
	}
	for _, tt := range tests {
		if got := tt.st.TwoLeg(); got != tt.want {
			t.Errorf("%s.TwoLeg() = %v, want %v", tt.st, got, tt.want)
		}
	}
}

func TestSpreadTypeLabelsExhaustive(t *testing.T) {
	for _, st := range AllSpreadTypes {
		if st.Label() == string(st) {
			t.Errorf("SpreadType %q has no display label", st)
		}
		if st.Color() == "7" {
			t.Errorf("SpreadType %q has no assigned color", st)
		}
	}
}

func TestScannerResultRoundTrip(t *testing.T) {
	raw := []byte(`{
		"scan_id": "abc123",
		"scan_time": "2026-08-31T14:00:00Z",
		"total_candidates_evaluated": 412,
		"scan_duration_seconds": 31.4,
		"results": [
			{
				"rank": 1,
				"spread": {
					"underlying": "AAPL",
					"spread_type": "bull_call",
					"expiration": "2026-10-16",
					"dte": 46,
					"long_leg": {"underlying": "AAPL", "strike": 230, "option_type": "call"},
					"short_leg": {"underlying": "AAPL", "strike": 235, "option_type": "call"},
					"net_debit": 2.15,
					"max_profit": 2.85,
					"max_loss": 2.15,
					"spread_width": 5
				}
			}
		]
	}`)

	var res ScannerResult
	if err := json.Unmarshal(raw, &res); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if res.ScanID != "abc123" {
		t.Errorf("ScanID = %q, want %q", res.ScanID, "abc123")
	}
	if len(res.Results) != 1 {
		t.Fatalf("len(Results) = %d, want 1", len(res.Results))
	}
	r := res.Results[0]
	if r.Spread.SpreadType != BullCall {
		t.Errorf("SpreadType = %q, want %q", r.Spread.SpreadType, BullCall)
	}
	if r.Spread.ShortLeg == nil || r.Spread.ShortLeg.Strike != 235 {
		t.Error("short leg not decoded")
	}
}
