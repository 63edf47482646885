// Package scan owns the scan lifecycle state machine: submitting a scan,
// applying its asynchronous completion or failure, and invalidating the
// selection that depends on the previous result.
//
// The orchestrator is a plain state container with a single logical owner
// (the dashboard event loop). Completions arrive as events and are applied
// in observation order; there is no parallel mutation and no locking.
package scan

import "spreadscan/internal/domain"

// State is the scan lifecycle state.
type State int

const (
	// Idle: no scan has run, or results were cleared.
	Idle State = iota
	// Scanning: a submission is in flight.
	Scanning
	// Success: the latest completed scan produced a result.
	Success
	// Failed: the latest completed scan failed; Err holds the normalized
	// message.
	Failed
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Scanning:
		return "scanning"
	case Success:
		return "success"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Orchestrator governs one session's scan lifecycle. Every submission is
// stamped with a generation; a completion carrying a stale generation is
// ignored, so re-submitting while a scan is in flight deterministically
// discards the earlier request's outcome.
type Orchestrator struct {
	state      State
	generation uint64
	result     *domain.ScannerResult
	errMsg     string
	selected   *domain.RankedSpread
	durationS  float64
}

// New returns an orchestrator in the Idle state.
func New() *Orchestrator {
	return &Orchestrator{state: Idle}
}

// State returns the current lifecycle state.
func (o *Orchestrator) State() State { return o.state }

// Scanning reports whether a submission is in flight. The flag is binary:
// re-entering Scanning does not stack.
func (o *Orchestrator) Scanning() bool { return o.state == Scanning }

// Result returns the latest successful result, or nil. A later failure does
// not clear it; the previous success stays visible behind the error panel.
func (o *Orchestrator) Result() *domain.ScannerResult { return o.result }

// Err returns the normalized failure message, or "" when there is none.
func (o *Orchestrator) Err() string { return o.errMsg }

// Selected returns the currently inspected result row, or nil.
func (o *Orchestrator) Selected() *domain.RankedSpread { return o.selected }

// Duration returns the engine-reported duration of the last successful scan
// in seconds.
func (o *Orchestrator) Duration() float64 { return o.durationS }

// Start transitions to Scanning from any state and returns the submission's
// generation. It clears any prior error and the current selection — the
// selection is stale the moment a new scan starts. The previous result stays
// in place until the new scan resolves.
func (o *Orchestrator) Start() uint64 {
	o.generation++
	o.state = Scanning
	o.errMsg = ""
	o.selected = nil
	return o.generation
}

// Complete applies a successful scan result. Results from superseded
// generations are dropped; the reported ok return tells the caller whether
// the result was applied.
func (o *Orchestrator) Complete(gen uint64, result *domain.ScannerResult) bool {
	if gen != o.generation || o.state != Scanning {
		return false
	}
	o.state = Success
	o.result = result
	o.errMsg = ""
	if result != nil {
		o.durationS = result.ScanDurationSeconds
	}
	return true
}

// Fail applies a scan failure with its normalized message. Failures from
// superseded generations are dropped. The previous successful result, if
// any, is left untouched.
func (o *Orchestrator) Fail(gen uint64, message string) bool {
	if gen != o.generation || o.state != Scanning {
		return false
	}
	o.state = Failed
	o.errMsg = message
	return true
}

// ClearResults returns to Idle from any state, dropping the result, error,
// and selection. An in-flight scan's eventual completion is ignored because
// clearing bumps the generation.
func (o *Orchestrator) ClearResults() {
	o.generation++
	o.state = Idle
	o.result = nil
	o.errMsg = ""
	o.selected = nil
}

// Select sets the currently inspected row (nil deselects). It never changes
// the scan state.
func (o *Orchestrator) Select(row *domain.RankedSpread) {
	o.selected = row
}
