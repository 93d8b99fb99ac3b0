package tui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// tickMsg carries the tag of the registration that fired.
type tickMsg struct {
	tag uint64
}

type registration struct {
	interval time.Duration
	fn       func()
}

// Scheduler drives engine ticks through the Bubble Tea event loop.
// Registrations are turned into tea.Tick commands by Cmds and re-armed by
// Fire until cancelled.
type Scheduler struct {
	mu      sync.Mutex
	next    uint64
	active  map[uint64]registration
	pending []uint64
}

// NewScheduler returns an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{active: map[uint64]registration{}}
}

// Every implements engine.Scheduler.
func (s *Scheduler) Every(interval time.Duration, fn func()) func() {
	s.mu.Lock()
	s.next++
	tag := s.next
	s.active[tag] = registration{interval: interval, fn: fn}
	s.pending = append(s.pending, tag)
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.active, tag)
		s.mu.Unlock()
	}
}

// Cmds arms every registration made since the last call.
func (s *Scheduler) Cmds() tea.Cmd {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pending) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(s.pending))
	for _, tag := range s.pending {
		reg, ok := s.active[tag]
		if !ok {
			continue
		}
		cmds = append(cmds, tickAfter(tag, reg.interval))
	}
	s.pending = nil
	return tea.Batch(cmds...)
}

// Fire runs the callback of a live registration and re-arms it.
// It returns nil for cancelled or unknown tags.
func (s *Scheduler) Fire(msg tickMsg) tea.Cmd {
	s.mu.Lock()
	reg, ok := s.active[msg.tag]
	s.mu.Unlock()
	if !ok {
		return nil
	}
	reg.fn()
	return tickAfter(msg.tag, reg.interval)
}

// Live reports the number of uncancelled registrations.
func (s *Scheduler) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.active)
}

func tickAfter(tag uint64, interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return tickMsg{tag: tag}
	})
}
