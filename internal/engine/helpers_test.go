package engine

import (
	"time"
)

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type manualTask struct {
	fn        func()
	cancelled bool
}

type manualScheduler struct {
	tasks []*manualTask
}

func (s *manualScheduler) Every(_ time.Duration, fn func()) func() {
	task := &manualTask{fn: fn}
	s.tasks = append(s.tasks, task)
	return func() { task.cancelled = true }
}

// Fire runs every live task once, as if one interval elapsed.
func (s *manualScheduler) Fire() {
	for _, task := range s.tasks {
		if !task.cancelled {
			task.fn()
		}
	}
}

func (s *manualScheduler) live() int {
	n := 0
	for _, task := range s.tasks {
		if !task.cancelled {
			n++
		}
	}
	return n
}

func newTestController(opts ...Option) (*Controller, *fakeClock, *manualScheduler) {
	clock := newFakeClock()
	sched := &manualScheduler{}
	all := append([]Option{WithClock(clock), WithScheduler(sched)}, opts...)
	return NewController(all...), clock, sched
}

func typeString(c *Controller, text string) {
	for _, r := range text {
		c.HandleInput(Char(r))
	}
}
