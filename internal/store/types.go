package store

import "time"

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Run is one recorded test run.
type Run struct {
	ID        string
	StartedAt time.Time
	Passed    int
	Total     int
	Took      time.Duration
	Outcomes  []Outcome
}

// Outcome is the recorded result of one unit within a run.
type Outcome struct {
	Ordinal        int
	Name           string
	Passed         bool
	Asserts        int
	Elapsed        time.Duration
	FailedSubtests int

	// Fault is the rendered fault, "" when the unit did not fault.
	Fault string
}
