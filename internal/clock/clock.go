package clock

import (
	"fmt"
	"sync"
	"time"
)

// Clock is a monotonic, high-resolution time source.
type Clock interface {
	Now() time.Time
}

// System reads the process clock. Instants carry a monotonic reading,
// so durations computed between them never go backwards.
type System struct{}

// Now returns the current instant.
func (System) Now() time.Time {
	return time.Now()
}

// Since returns the time elapsed since t according to c.
// The result is never negative.
func Since(c Clock, t time.Time) time.Duration {
	d := c.Now().Sub(t)
	if d < 0 {
		return 0
	}
	return d
}

// Fake is a deterministic clock for tests.
//
// Every call to Now advances the clock by Step before returning, so a
// sequence of measurements yields predictable durations. Advance moves
// the clock explicitly.
//
// Thread-safety: all methods are safe for concurrent use.
type Fake struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

// NewFake creates a fake clock at a fixed epoch that advances by step on
// each Now call. A zero step freezes the clock between Advance calls.
func NewFake(step time.Duration) *Fake {
	return &Fake{
		now:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		step: step,
	}
}

// Now advances the clock by its step and returns the new instant.
func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(f.step)
	return f.now
}

// Advance moves the clock forward by d without consuming a step.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

// SetStep changes the per-call increment.
func (f *Fake) SetStep(step time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.step = step
}

// Unit is a display unit for a classified duration.
type Unit int

const (
	Nanoseconds Unit = iota
	Microseconds
	Milliseconds
)

// String returns the unit suffix as printed in reports.
func (u Unit) String() string {
	switch u {
	case Nanoseconds:
		return "ns"
	case Microseconds:
		return "μs"
	default:
		return "ms"
	}
}

// Classification thresholds in seconds.
const (
	nanosecondLimit  = 9.9e-6
	microsecondLimit = 9.9e-3
)

// Reading is a duration scaled into its display unit.
type Reading struct {
	Value float64
	Unit  Unit
}

// Classify picks the display unit for d and scales it.
func Classify(d time.Duration) Reading {
	s := d.Seconds()
	switch {
	case s < nanosecondLimit:
		return Reading{Value: s * 1e9, Unit: Nanoseconds}
	case s < microsecondLimit:
		return Reading{Value: s * 1e6, Unit: Microseconds}
	default:
		return Reading{Value: s * 1e3, Unit: Milliseconds}
	}
}

// String renders the reading as a zero-padded, four-wide integer and the
// unit suffix, e.g. "0042 μs".
func (r Reading) String() string {
	return fmt.Sprintf("%04.0f %s", r.Value, r.Unit)
}

// Millis returns d in fractional milliseconds.
func Millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
