package scan

import (
	"testing"

	"spreadscan/internal/domain"
)

func result(id string) *domain.ScannerResult {
	return &domain.ScannerResult{ScanID: id, ScanDurationSeconds: 4.2}
}

func TestInitialState(t *testing.T) {
	o := New()
	if o.State() != Idle {
		t.Errorf("State = %v, want Idle", o.State())
	}
	if o.Result() != nil || o.Err() != "" || o.Selected() != nil {
		t.Error("fresh orchestrator should carry no result, error, or selection")
	}
}

func TestStartClearsErrorAndSelection(t *testing.T) {
	o := New()
	gen := o.Start()
	o.Fail(gen, "engine exploded")
	o.Select(&domain.RankedSpread{Rank: 1})

	o.Start()
	if o.Err() != "" {
		t.Errorf("Err = %q, want cleared on Start", o.Err())
	}
	if o.Selected() != nil {
		t.Error("selection should be cleared on Start")
	}
	if !o.Scanning() {
		t.Error("Scanning should be true after Start")
	}
}

func TestCompleteSetsResult(t *testing.T) {
	o := New()
	gen := o.Start()
	if !o.Complete(gen, result("s1")) {
		t.Fatal("Complete with current generation should apply")
	}
	if o.State() != Success {
		t.Errorf("State = %v, want Success", o.State())
	}
	if o.Result().ScanID != "s1" {
		t.Errorf("Result.ScanID = %q, want s1", o.Result().ScanID)
	}
	if o.Duration() != 4.2 {
		t.Errorf("Duration = %v, want 4.2", o.Duration())
	}
	if o.Scanning() {
		t.Error("Scanning should be false after Complete")
	}
}

func TestFailKeepsPreviousResult(t *testing.T) {
	o := New()
	gen := o.Start()
	o.Complete(gen, result("s1"))

	gen = o.Start()
	if !o.Fail(gen, "timeout") {
		t.Fatal("Fail with current generation should apply")
	}
	if o.State() != Failed {
		t.Errorf("State = %v, want Failed", o.State())
	}
	if o.Err() != "timeout" {
		t.Errorf("Err = %q, want %q", o.Err(), "timeout")
	}
	// The previous success stays untouched behind the error panel.
	if o.Result() == nil || o.Result().ScanID != "s1" {
		t.Error("previous result should survive a later failure")
	}
	if o.Scanning() {
		t.Error("Scanning should be false after Fail")
	}
}

func TestStaleGenerationIgnored(t *testing.T) {
	o := New()
	gen1 := o.Start()
	gen2 := o.Start() // resubmission supersedes gen1

	if o.Complete(gen1, result("stale")) {
		t.Error("stale completion should be dropped")
	}
	if o.Result() != nil {
		t.Error("stale completion should not set a result")
	}

	if !o.Complete(gen2, result("fresh")) {
		t.Fatal("current completion should apply")
	}
	if o.Result().ScanID != "fresh" {
		t.Errorf("Result.ScanID = %q, want fresh", o.Result().ScanID)
	}

	// A stale failure arriving after the fresh success changes nothing.
	if o.Fail(gen1, "stale failure") {
		t.Error("stale failure should be dropped")
	}
	if o.State() != Success {
		t.Errorf("State = %v, want Success after stale failure dropped", o.State())
	}
}

func TestClearResults(t *testing.T) {
	o := New()
	gen := o.Start()
	o.Complete(gen, result("s1"))
	o.Select(&domain.RankedSpread{Rank: 3})

	o.ClearResults()
	if o.State() != Idle {
		t.Errorf("State = %v, want Idle", o.State())
	}
	if o.Result() != nil || o.Err() != "" || o.Selected() != nil {
		t.Error("ClearResults should drop result, error, and selection")
	}
}

func TestClearWhileScanningDropsLateCompletion(t *testing.T) {
	o := New()
	gen := o.Start()
	o.ClearResults()

	if o.Complete(gen, result("late")) {
		t.Error("completion after ClearResults should be dropped")
	}
	if o.State() != Idle {
		t.Errorf("State = %v, want Idle", o.State())
	}
}

func TestSelectDoesNotChangeState(t *testing.T) {
	o := New()
	gen := o.Start()
	o.Complete(gen, result("s1"))

	row := &domain.RankedSpread{Rank: 2}
	o.Select(row)
	if o.State() != Success {
		t.Errorf("State = %v, want Success", o.State())
	}
	if o.Selected() != row {
		t.Error("Selected should return the selected row")
	}
	o.Select(nil)
	if o.Selected() != nil {
		t.Error("Select(nil) should deselect")
	}
}
