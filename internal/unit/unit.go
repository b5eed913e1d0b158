// Package unit executes registered test units.
//
// A unit's body receives a *T. Checks on T record passes in the run's
// ledger.State; a failing check reports itself and abandons the rest of
// its block. Subtests and benches nest inside a body and report through
// the same Reporter. Execute runs one unit under the crash trap and
// converts whatever happened into an Outcome.
package unit

import (
	"time"

	"go.uber.org/zap"

	"github.com/roach88/testh/internal/clock"
	"github.com/roach88/testh/internal/ledger"
	"github.com/roach88/testh/internal/report"
	"github.com/roach88/testh/internal/trap"
)

// Unit is a registered test unit. It is immutable after registration.
type Unit struct {
	Ordinal int
	Name    string
	File    string
	Line    int
	Body    func(*T)
}

// Env is everything a unit needs while executing.
type Env struct {
	State    *ledger.State
	Clock    clock.Clock
	Reporter report.Reporter
	Logger   *zap.Logger
}

func (e Env) now() time.Time {
	return e.Clock.Now()
}

func (e Env) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}

// Outcome is the result of executing one unit.
type Outcome struct {
	Ordinal        int
	Name           string
	Passed         bool
	Asserts        int
	Elapsed        time.Duration
	FailedSubtests int

	// Fault is set when the body was stopped by a trapped fault.
	Fault *trap.Fault
}

// Status returns 0 for a passed unit and 1 otherwise.
func (o Outcome) Status() int {
	if o.Passed {
		return 0
	}
	return 1
}

// Execute runs u and reports it. The ledger counters are cleared again
// before Execute returns, whatever the outcome.
func Execute(u Unit, env Env) Outcome {
	st := env.State
	rep := env.Reporter
	log := env.logger().With(zap.Int("ordinal", u.Ordinal), zap.String("unit", u.Name))

	st.Reset()
	rep.UnitHeader(u.Ordinal, u.Name, u.File, u.Line)
	st.Start = env.now()

	t := &T{env: env, unit: u.Name}
	fault := trap.Run(func() { u.Body(t) })

	out := Outcome{Ordinal: u.Ordinal, Name: u.Name}
	defer func() {
		st.Reset()
		st.ResetSubtests()
	}()

	if fault != nil && !ledger.IsAbort(fault.Value) {
		file, line := fault.File, fault.Line
		if file == "" {
			file, line = u.File, u.Line
		}
		rep.Failure(file, line, "Fault: "+fault.Error(), st.SubtestsRun > 0)
		st.Fail(env.now())
		out.Fault = fault
		log.Warn("unit faulted",
			zap.Stringer("kind", fault.Kind),
			zap.Uintptr("addr", fault.Addr),
			zap.String("site", siteOf(file, line)),
		)
	}

	out.Asserts = st.Asserts
	if st.Aborted {
		out.FailedSubtests = st.FailedSubtests()
		rep.UnitFailed()
		log.Debug("unit failed", zap.Int("asserts", st.Asserts))
		return out
	}

	elapsed := clock.Since(env.Clock, st.Start)
	st.Total += elapsed
	out.Elapsed = elapsed

	if st.SubtestsRun == 0 {
		rep.UnitPass(st.Asserts, elapsed)
		out.Passed = true
		return out
	}

	rep.SubtestsDone(st.SubtestsRun, st.SubtestsPassed)
	out.FailedSubtests = st.FailedSubtests()
	out.Passed = out.FailedSubtests == 0
	log.Debug("subtests finished",
		zap.Int("run", st.SubtestsRun),
		zap.Int("passed", st.SubtestsPassed),
	)
	return out
}
