package debounce

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type manualTimer struct {
	fn      func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	wasActive := !t.stopped
	t.stopped = true
	return wasActive
}

// manualClock collects timers and fires them only when the test says so.
type manualClock struct {
	timers []*manualTimer
}

func (c *manualClock) AfterFunc(_ time.Duration, fn func()) Timer {
	t := &manualTimer{fn: fn}
	c.timers = append(c.timers, t)
	return t
}

// fire runs every timer that has not been stopped.
func (c *manualClock) fire() {
	pending := c.timers
	c.timers = nil
	for _, t := range pending {
		if !t.stopped {
			t.stopped = true
			t.fn()
		}
	}
}

func TestScheduleRunsAfterWindow(t *testing.T) {
	clock := &manualClock{}
	s := NewSchedulerWithClock(time.Second, clock)

	ran := 0
	s.Schedule("k", func() { ran++ })
	require.True(t, s.Pending("k"))
	assert.Equal(t, 0, ran)

	clock.fire()
	assert.Equal(t, 1, ran)
	assert.False(t, s.Pending("k"))
}

func TestScheduleSupersedesPendingRun(t *testing.T) {
	clock := &manualClock{}
	s := NewSchedulerWithClock(time.Second, clock)

	var got string
	s.Schedule("k", func() { got = "first" })
	s.Schedule("k", func() { got = "second" })
	s.Schedule("k", func() { got = "third" })

	clock.fire()
	assert.Equal(t, "third", got)
}

func TestScheduleKeysAreIndependent(t *testing.T) {
	clock := &manualClock{}
	s := NewSchedulerWithClock(time.Second, clock)

	ran := map[string]int{}
	s.Schedule("a", func() { ran["a"]++ })
	s.Schedule("b", func() { ran["b"]++ })

	clock.fire()
	assert.Equal(t, 1, ran["a"])
	assert.Equal(t, 1, ran["b"])
}

func TestCancelDropsPendingRun(t *testing.T) {
	clock := &manualClock{}
	s := NewSchedulerWithClock(time.Second, clock)

	ran := false
	s.Schedule("k", func() { ran = true })
	s.Cancel("k")
	require.False(t, s.Pending("k"))

	clock.fire()
	assert.False(t, ran)
}

func TestCancelUnknownKeyIsNoop(t *testing.T) {
	s := NewSchedulerWithClock(time.Second, &manualClock{})
	s.Cancel("missing")
	assert.False(t, s.Pending("missing"))
}
