package unit

import (
	"bytes"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/roach88/testh/internal/clock"
	"github.com/roach88/testh/internal/ledger"
	"github.com/roach88/testh/internal/trap"
)

// T is passed to unit bodies. All methods must be called from the
// goroutine running the body.
type T struct {
	env  Env
	unit string
}

// Name returns the name of the unit being executed.
func (t *T) Name() string { return t.unit }

// Assert checks that cond holds.
func (t *T) Assert(cond bool) {
	if cond {
		t.env.State.Pass()
		return
	}
	file, line, args := callSite("Assert")
	t.fail(file, line, ledger.DescribeAssert(ledger.ArgOr(args, 0, "false")))
}

// Equal checks that x and y are equal. Numbers of different types are
// compared by value in a common type; other operands use testify's
// value equality.
func (t *T) Equal(x, y any) {
	if valuesEqual(x, y) {
		t.env.State.Pass()
		return
	}
	file, line, args := callSite("Equal")
	t.fail(file, line, ledger.DescribeEqual(
		ledger.ArgOr(args, 0, fmt.Sprint(x)),
		ledger.ArgOr(args, 1, fmt.Sprint(y)),
		x, y,
	))
}

func valuesEqual(x, y any) bool {
	if eq, ok := ledger.NumbersEqual(x, y); ok {
		return eq
	}
	return assert.ObjectsAreEqualValues(x, y)
}

// MemEqual checks that actual starts with the bytes of expected.
func (t *T) MemEqual(actual, expected []byte) {
	n := len(expected)
	if len(actual) >= n && bytes.Equal(actual[:n], expected) {
		t.env.State.Pass()
		return
	}
	file, line, args := callSite("MemEqual")
	t.fail(file, line, ledger.DescribeMem(
		ledger.ArgOr(args, 0, "actual"),
		ledger.ArgOr(args, 1, ledger.HexDump(expected)),
		actual, n,
	))
}

// StrEqual checks that two strings are equal.
func (t *T) StrEqual(x, y string) {
	if x == y {
		t.env.State.Pass()
		return
	}
	file, line, args := callSite("StrEqual")
	t.fail(file, line, ledger.DescribeStr(
		ledger.ArgOr(args, 0, strconv.Quote(x)),
		ledger.ArgOr(args, 1, strconv.Quote(y)),
		x, y,
	))
}

// callSite returns the location of the caller of a check method and
// the source text of its arguments.
func callSite(method string) (string, int, []string) {
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		return "???", 0, nil
	}
	return file, line, ledger.CallArgs(file, line, method)
}

func (t *T) fail(file string, line int, description string) {
	st := t.env.State
	t.env.Reporter.Failure(file, line, description, st.SubtestsRun > 0)
	st.Fail(t.env.now())
	panic(ledger.ErrAborted)
}

// Sub runs body once as a named subtest and reports whether it passed.
// A failed check inside body ends the subtest only; the enclosing unit
// continues with its next statement. Faults are not contained by the
// subtest and fail the whole unit.
func (t *T) Sub(name string, body func(*T)) bool {
	st := t.env.State
	rep := t.env.Reporter

	st.SubtestsRun++
	rep.SubtestHeader(name)
	prev := st.Subtest
	st.Subtest = name
	st.Start = t.env.now()
	st.Reset()

	fault := trap.Run(func() { body(t) })
	if fault != nil && !ledger.IsAbort(fault.Value) {
		panic(fault)
	}
	st.Subtest = prev

	if st.Aborted {
		st.Aborted = false
		rep.SubtestFailed(name, st.SubtestsRun)
		st.Start = t.env.now()
		st.Asserts = 0
		return false
	}

	elapsed := clock.Since(t.env.Clock, st.Start)
	st.Total += elapsed
	st.SubtestsPassed++
	rep.SubtestPass(st.Asserts, elapsed)
	st.Asserts = 0
	st.Start = t.env.now()
	return true
}

// BenchResult holds the timings of a finished bench.
type BenchResult struct {
	Iterations   int
	Total        time.Duration
	PerIteration time.Duration
}

type benchConfig struct {
	iterations int
}

// BenchOption configures a single Bench call.
type BenchOption func(*benchConfig)

// Iterations overrides the iteration count for one bench.
func Iterations(k int) BenchOption {
	return func(c *benchConfig) { c.iterations = k }
}

// Bench runs body a fixed number of times and reports the total and
// per-iteration durations. Benches never pass or fail.
func (t *T) Bench(name string, body func(), opts ...BenchOption) BenchResult {
	st := t.env.State
	cfg := benchConfig{iterations: st.BenchIterations}
	for _, opt := range opts {
		opt(&cfg)
	}
	k := t.clampIterations(cfg.iterations)

	label, nested := "Bench: "+name, false
	if st.Subtest != "" {
		label, nested = "Bench for "+st.Subtest, true
	}
	t.env.Reporter.BenchHeader(label, nested)

	start := t.env.now()
	for st.BenchProgress = 0; st.BenchProgress < k; st.BenchProgress++ {
		body()
	}
	total := clock.Since(t.env.Clock, start)
	res := BenchResult{
		Iterations:   k,
		Total:        total,
		PerIteration: total / time.Duration(k),
	}
	st.Total += total
	t.env.Reporter.BenchResult(k, res.PerIteration, res.Total)
	st.Start = t.env.now()
	return res
}

// SetBenchIterations changes the iteration count used by every later
// bench in the run that does not override it.
func (t *T) SetBenchIterations(k int) {
	t.env.State.BenchIterations = t.clampIterations(k)
}

func (t *T) clampIterations(k int) int {
	if k >= 1 {
		return k
	}
	t.env.logger().Warn("bench iterations must be positive, using 1", zap.Int("requested", k))
	return 1
}

func siteOf(file string, line int) string {
	return file + ":" + strconv.Itoa(line)
}
