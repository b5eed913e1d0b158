// Package ledger tracks assertion and subtest bookkeeping for the unit
// being executed.
//
// A State is owned by one runner and passed by reference to every
// assertion, subtest and bench. It is not safe for concurrent use; the
// runner executes one unit at a time.
package ledger

import (
	"errors"
	"time"
)

// DefaultBenchIterations is the iteration count used by benches that do
// not override it.
const DefaultBenchIterations = 1000

// CompactThreshold is the pass count at which a report switches from one
// check glyph per assertion to an "<N>x" count. Output scrapers depend on
// this value.
const CompactThreshold = 12

// ErrAborted is the panic value a failed assertion raises to abandon the
// rest of its block. It is recovered at the enclosing subtest or unit
// boundary and never escapes a unit.
var ErrAborted = errors.New("assertion failed, block aborted")

// IsAbort reports whether a recovered panic value is ErrAborted.
func IsAbort(v any) bool {
	err, ok := v.(error)
	return ok && errors.Is(err, ErrAborted)
}

// State is the mutable bookkeeping of a test run.
type State struct {
	// Total accumulates the elapsed time of passing units, subtests and
	// benches across the run.
	Total time.Duration

	// Asserts counts passed checks in the current unit or subtest.
	Asserts int

	// Aborted is set when a check failed since the last Reset.
	Aborted bool

	SubtestsRun    int
	SubtestsPassed int

	// Subtest names the subtest currently executing, "" outside one.
	Subtest string

	// BenchIterations is the sticky iteration count for benches.
	BenchIterations int

	// BenchProgress counts iterations completed by the running bench.
	BenchProgress int

	// Start is the baseline for the next elapsed-time measurement.
	Start time.Time
}

// NewState creates a State with default bench iterations.
func NewState() *State {
	return &State{BenchIterations: DefaultBenchIterations}
}

// Reset clears the assertion counters.
func (s *State) Reset() {
	s.Asserts = 0
	s.Aborted = false
}

// ResetSubtests clears the subtest counters after a unit has reported.
func (s *State) ResetSubtests() {
	s.SubtestsRun = 0
	s.SubtestsPassed = 0
	s.Subtest = ""
}

// Pass records a successful check.
func (s *State) Pass() {
	s.Asserts++
}

// Fail records a failed check at now. The start baseline moves to now so
// time spent on the failing path does not inflate later measurements.
func (s *State) Fail(now time.Time) {
	s.Aborted = true
	s.Start = now
}

// FailedSubtests returns how many subtests ran without passing.
func (s *State) FailedSubtests() int {
	return s.SubtestsRun - s.SubtestsPassed
}
