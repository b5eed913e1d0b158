package unit

import (
	"runtime"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/testh/internal/trap"
)

type node struct{ next *node }

func TestExecute_AllAssertionsPass(t *testing.T) {
	env, buf := newConsoleEnv()

	out := Execute(unitOf("two checks", func(t *T) {
		t.Assert(true)
		t.Equal(2, 2)
	}), env)

	assert.Equal(t, 0, out.Status())
	assert.Equal(t, 2, out.Asserts)
	assert.Nil(t, out.Fault)
	assert.Contains(t, buf.String(), "1) two checks (example_test.go:1)")
	assert.Contains(t, buf.String(), "✓ ✓  PASS ")
	assert.Zero(t, env.State.Asserts)
	assert.False(t, env.State.Aborted)
}

func TestExecute_FailingAssertionReportsExpression(t *testing.T) {
	env, buf := newConsoleEnv()

	_, _, line, _ := runtime.Caller(0)
	out := Execute(unitOf("broken", func(t *T) {
		t.Assert(1 == 2)
	}), env)

	assert.Equal(t, 1, out.Status())
	assert.Contains(t, buf.String(), "Error: Assertion '1 == 2' failed.")
	assert.Contains(t, buf.String(), "(unit_test.go:"+strconv.Itoa(line+2)+")")
	assert.Zero(t, env.State.Asserts)
	assert.False(t, env.State.Aborted)
}

func TestExecute_FirstFailureStopsBlock(t *testing.T) {
	env, rec, _ := newEnv()
	reached := false

	out := Execute(unitOf("short circuit", func(t *T) {
		t.Assert(true)
		t.Assert(true)
		t.Assert(false)
		reached = true
		t.Assert(true)
	}), env)

	assert.False(t, out.Passed)
	assert.Equal(t, 2, out.Asserts)
	assert.False(t, reached)
	assert.Equal(t, []string{
		"header 0 short circuit",
		"failure nested=false Assertion 'false' failed.",
		"unit failed",
	}, rec.events)
}

func TestExecute_SubtestAggregation(t *testing.T) {
	env, rec, _ := newEnv()

	out := Execute(unitOf("subtests", func(t *T) {
		t.Sub("a", func(t *T) { t.Assert(true) })
		t.Sub("b", func(t *T) {
			t.Equal(1, 2)
		})
	}), env)

	assert.Equal(t, 1, out.Status())
	assert.Equal(t, 1, out.FailedSubtests)
	assert.Equal(t, []string{
		"header 0 subtests",
		"sub a",
		"sub pass 1",
		"sub b",
		"failure nested=true '1'(1) != '2'(2).",
		"sub failed b #2",
		"subtests 1/2",
	}, rec.events)
	assert.Zero(t, env.State.SubtestsRun)
	assert.Zero(t, env.State.SubtestsPassed)
	assert.Empty(t, env.State.Subtest)
}

func TestExecute_SubtestFailureReportedOnConsole(t *testing.T) {
	env, buf := newConsoleEnv()

	Execute(unitOf("mixed", func(t *T) {
		t.Sub("ok", func(t *T) { t.Assert(true) })
		t.Sub("bad", func(t *T) { t.Assert(false) })
	}), env)

	assert.Contains(t, buf.String(), "Subtest 'bad' (#2) failed.")
	assert.Contains(t, buf.String(), " ERROR  1 subtests failed.\n")
}

func TestExecute_AllSubtestsPassEndsWithBlankLine(t *testing.T) {
	env, rec, _ := newEnv()

	out := Execute(unitOf("green", func(t *T) {
		t.Sub("a", func(t *T) { t.Assert(true) })
		t.Sub("b", func(t *T) { t.Assert(true) })
	}), env)

	assert.True(t, out.Passed)
	assert.Equal(t, "subtests 2/2", rec.events[len(rec.events)-1])
}

func TestExecute_UnitLevelFailureSkipsLaterSubtests(t *testing.T) {
	env, rec, _ := newEnv()
	ran := false

	out := Execute(unitOf("abort", func(t *T) {
		t.Sub("first", func(t *T) { t.Assert(true) })
		t.Assert(false)
		t.Sub("second", func(t *T) { ran = true })
	}), env)

	assert.False(t, out.Passed)
	assert.False(t, ran)
	assert.Contains(t, rec.events, "failure nested=true Assertion 'false' failed.")
	assert.Equal(t, "unit failed", rec.events[len(rec.events)-1])
}

func TestExecute_SubtestFailureDoesNotStopUnit(t *testing.T) {
	env, _, _ := newEnv()
	after := false

	Execute(unitOf("continue", func(t *T) {
		passed := t.Sub("bad", func(t *T) { t.Assert(false) })
		after = !passed
	}), env)

	assert.True(t, after)
}

func TestExecute_FaultIsIsolated(t *testing.T) {
	env, buf := newConsoleEnv()

	crashed := Execute(unitOf("crash", func(t *T) {
		var n *node
		t.Assert(n.next == nil)
	}), env)
	next := Execute(unitOf("after", func(t *T) { t.Assert(true) }), env)

	require.NotNil(t, crashed.Fault)
	assert.Equal(t, trap.KindSegv, crashed.Fault.Kind)
	assert.Equal(t, 1, crashed.Status())
	assert.Equal(t, 0, next.Status())
	assert.Contains(t, buf.String(), "Error: Fault: segmentation fault")
	assert.Zero(t, env.State.Asserts)
}

func TestExecute_FaultInsideSubtestFailsUnit(t *testing.T) {
	env, rec, _ := newEnv()

	out := Execute(unitOf("deep crash", func(t *T) {
		t.Sub("boom", func(t *T) { panic("boom") })
		t.Sub("never", func(t *T) {})
	}), env)

	require.NotNil(t, out.Fault)
	assert.Equal(t, trap.KindPanic, out.Fault.Kind)
	assert.False(t, out.Passed)
	assert.NotContains(t, rec.events, "sub never")
	assert.Zero(t, env.State.SubtestsRun)
	assert.Empty(t, env.State.Subtest)
}

func TestExecute_Goexit(t *testing.T) {
	env, _, _ := newEnv()

	out := Execute(unitOf("exit", func(t *T) { runtime.Goexit() }), env)

	require.NotNil(t, out.Fault)
	assert.Equal(t, trap.KindExit, out.Fault.Kind)
}

func TestExecute_AccumulatesTotal(t *testing.T) {
	env, _, fake := newEnv()

	out := Execute(unitOf("slow", func(t *T) {
		fake.Advance(3 * time.Millisecond)
		t.Assert(true)
	}), env)

	assert.Equal(t, 3*time.Millisecond, out.Elapsed)
	assert.Equal(t, 3*time.Millisecond, env.State.Total)
}

func TestExecute_CompactCountAtThreshold(t *testing.T) {
	env, buf := newConsoleEnv()

	Execute(unitOf("many", func(t *T) {
		for i := 0; i < 12; i++ {
			t.Assert(true)
		}
	}), env)

	assert.Contains(t, buf.String(), "12x ✓  PASS ")
}

func TestExecute_GlyphsBelowThreshold(t *testing.T) {
	env, buf := newConsoleEnv()

	Execute(unitOf("eleven", func(t *T) {
		for i := 0; i < 11; i++ {
			t.Assert(true)
		}
	}), env)

	assert.NotContains(t, buf.String(), "11x")
	assert.Contains(t, buf.String(), "✓ ✓ ✓ ✓ ✓ ✓ ✓ ✓ ✓ ✓ ✓  PASS ")
}
