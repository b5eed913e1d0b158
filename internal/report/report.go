// Package report renders test results.
//
// The runner talks to a Reporter; Console writes the aligned terminal
// format and Discard drops everything for timing-only runs.
package report

import (
	"os"
	"time"

	"github.com/mattn/go-isatty"
)

// Reporter receives the events of a test run in order.
type Reporter interface {
	// UnitHeader opens the line for a unit. ordinal is zero-based.
	UnitHeader(ordinal int, name, file string, line int)
	UnitPass(asserts int, elapsed time.Duration)
	UnitFailed()
	SubtestsDone(run, passed int)

	SubtestHeader(name string)
	SubtestPass(asserts int, elapsed time.Duration)
	SubtestFailed(name string, ordinal int)

	// Failure reports a failed check or a trapped fault. nested is set
	// once a subtest has run in the current unit.
	Failure(file string, line int, description string, nested bool)

	BenchHeader(label string, nested bool)
	BenchResult(iterations int, perIteration, total time.Duration)

	Summary(passed, total int, took time.Duration)
}

// ColorMode selects when Console emits ANSI colors.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// UseColor resolves mode against f.
func UseColor(mode ColorMode, f *os.File) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if f == nil || os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Discard drops all output. Timing and state tracking still happen in
// the runner.
type Discard struct{}

func (Discard) UnitHeader(int, string, string, int)           {}
func (Discard) UnitPass(int, time.Duration)                   {}
func (Discard) UnitFailed()                                   {}
func (Discard) SubtestsDone(int, int)                         {}
func (Discard) SubtestHeader(string)                          {}
func (Discard) SubtestPass(int, time.Duration)                {}
func (Discard) SubtestFailed(string, int)                     {}
func (Discard) Failure(string, int, string, bool)             {}
func (Discard) BenchHeader(string, bool)                      {}
func (Discard) BenchResult(int, time.Duration, time.Duration) {}
func (Discard) Summary(int, int, time.Duration)               {}
