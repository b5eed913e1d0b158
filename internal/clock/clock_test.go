package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSystemClock_Monotonic(t *testing.T) {
	c := System{}
	prev := c.Now()
	for i := 0; i < 1000; i++ {
		next := c.Now()
		assert.False(t, next.Before(prev), "clock went backwards at iteration %d", i)
		prev = next
	}
}

func TestSince_NeverNegative(t *testing.T) {
	c := NewFake(0)
	future := c.Now().Add(time.Hour)
	assert.Equal(t, time.Duration(0), Since(c, future))
}

func TestFake_StepsOnEveryRead(t *testing.T) {
	c := NewFake(5 * time.Microsecond)
	start := c.Now()
	assert.Equal(t, 5*time.Microsecond, Since(c, start))
	assert.Equal(t, 10*time.Microsecond, Since(c, start))
}

func TestFake_Advance(t *testing.T) {
	c := NewFake(0)
	start := c.Now()
	c.Advance(3 * time.Millisecond)
	assert.Equal(t, 3*time.Millisecond, Since(c, start))

	c.SetStep(time.Second)
	assert.Equal(t, 3*time.Millisecond+time.Second, Since(c, start))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		unit Unit
		text string
	}{
		{"five microseconds shows nanoseconds", 5 * time.Microsecond, Nanoseconds, "5000 ns"},
		{"five milliseconds shows microseconds", 5 * time.Millisecond, Microseconds, "5000 μs"},
		{"five seconds shows milliseconds", 5 * time.Second, Milliseconds, "5000 ms"},
		{"zero", 0, Nanoseconds, "0000 ns"},
		{"just below ns limit", 9899 * time.Nanosecond, Nanoseconds, "9899 ns"},
		{"ns limit switches to micro", 9900 * time.Nanosecond, Microseconds, "0010 μs"},
		{"micro limit switches to milli", 9900 * time.Microsecond, Milliseconds, "0010 ms"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Classify(tt.d)
			assert.Equal(t, tt.unit, r.Unit)
			assert.Equal(t, tt.text, r.String())
		})
	}
}

func TestMillis(t *testing.T) {
	assert.InDelta(t, 1.5, Millis(1500*time.Microsecond), 1e-9)
}
