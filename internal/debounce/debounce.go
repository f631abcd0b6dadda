package debounce

import (
	"sync"
	"time"
)

// Timer is the cancellable handle returned by a Clock.
type Timer interface {
	Stop() bool
}

// Clock schedules a function to run after a delay. The production clock wraps
// time.AfterFunc; tests supply a manual clock and fire timers explicitly.
type Clock interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// Scheduler coalesces repeated writes for the same key: scheduling a key that
// already has a pending timer cancels and supersedes it, so only the latest
// callback within the window ever runs.
type Scheduler struct {
	mu     sync.Mutex
	window time.Duration
	clock  Clock
	timers map[string]Timer
}

func NewScheduler(window time.Duration) *Scheduler {
	return NewSchedulerWithClock(window, realClock{})
}

func NewSchedulerWithClock(window time.Duration, clock Clock) *Scheduler {
	return &Scheduler{
		window: window,
		clock:  clock,
		timers: make(map[string]Timer),
	}
}

// Schedule runs fn after the debounce window, replacing any pending run for key.
func (s *Scheduler) Schedule(key string, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[key]; ok {
		t.Stop()
	}
	s.timers[key] = s.clock.AfterFunc(s.window, func() {
		s.mu.Lock()
		delete(s.timers, key)
		s.mu.Unlock()
		fn()
	})
}

// Cancel drops a pending run for key, if any.
func (s *Scheduler) Cancel(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.timers[key]; ok {
		t.Stop()
		delete(s.timers, key)
	}
}

// Pending reports whether key has a scheduled run.
func (s *Scheduler) Pending(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.timers[key]
	return ok
}
