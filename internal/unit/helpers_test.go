package unit

import (
	"bytes"
	"fmt"
	"time"

	"github.com/roach88/testh/internal/clock"
	"github.com/roach88/testh/internal/ledger"
	"github.com/roach88/testh/internal/report"
)

// recorder captures reporter events as short strings.
type recorder struct {
	events []string
}

func (r *recorder) add(format string, args ...any) {
	r.events = append(r.events, fmt.Sprintf(format, args...))
}

func (r *recorder) UnitHeader(ordinal int, name, _ string, _ int) {
	r.add("header %d %s", ordinal, name)
}
func (r *recorder) UnitPass(asserts int, _ time.Duration) { r.add("pass %d", asserts) }
func (r *recorder) UnitFailed()                           { r.add("unit failed") }
func (r *recorder) SubtestsDone(run, passed int)          { r.add("subtests %d/%d", passed, run) }
func (r *recorder) SubtestHeader(name string)             { r.add("sub %s", name) }
func (r *recorder) SubtestPass(asserts int, _ time.Duration) {
	r.add("sub pass %d", asserts)
}
func (r *recorder) SubtestFailed(name string, ordinal int) {
	r.add("sub failed %s #%d", name, ordinal)
}
func (r *recorder) Failure(_ string, _ int, description string, nested bool) {
	r.add("failure nested=%t %s", nested, description)
}
func (r *recorder) BenchHeader(label string, nested bool) {
	r.add("bench %s nested=%t", label, nested)
}
func (r *recorder) BenchResult(iterations int, per, total time.Duration) {
	r.add("bench result %d %s %s", iterations, per, total)
}
func (r *recorder) Summary(passed, total int, _ time.Duration) {
	r.add("summary %d/%d", passed, total)
}

// newEnv returns an Env with a recorder and a frozen fake clock.
func newEnv() (Env, *recorder, *clock.Fake) {
	rec := &recorder{}
	fake := clock.NewFake(0)
	return Env{State: ledger.NewState(), Clock: fake, Reporter: rec}, rec, fake
}

// newConsoleEnv returns an Env that renders plain console output into a
// buffer.
func newConsoleEnv() (Env, *bytes.Buffer) {
	var buf bytes.Buffer
	return Env{
		State:    ledger.NewState(),
		Clock:    clock.NewFake(time.Microsecond),
		Reporter: report.NewConsole(&buf, report.DefaultWidth, false),
	}, &buf
}

func unitOf(name string, body func(*T)) Unit {
	return Unit{Name: name, File: "example_test.go", Line: 1, Body: body}
}
