// Package engine implements the typing-session state machine and metrics.
package engine

import (
	"sort"
	"time"
)

// Phase is the lifecycle stage of a typing session.
type Phase int

const (
	// PhaseIdle means no input has been accepted yet.
	PhaseIdle Phase = iota
	// PhaseActive means the session is running and accepting input.
	PhaseActive
	// PhaseFinished means the cursor reached the end of the target.
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseActive:
		return "active"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// State holds the progress of one session over a fixed target.
// A reset never edits a State in place; a new one is built instead.
type State struct {
	target     []rune
	typed      []rune
	errors     map[int]struct{}
	phase      Phase
	startedAt  time.Time
	endedAt    time.Time
	ticks      int
	keyPresses int
}

func newState(target []rune) *State {
	t := make([]rune, len(target))
	copy(t, target)
	return &State{
		target: t,
		typed:  make([]rune, 0, len(t)),
		errors: map[int]struct{}{},
		phase:  PhaseIdle,
	}
}

// Target returns the target text.
func (s *State) Target() string { return string(s.target) }

// TargetLen returns the number of runes in the target.
func (s *State) TargetLen() int { return len(s.target) }

// Typed returns the characters typed so far in their original case.
func (s *State) Typed() string { return string(s.typed) }

// Cursor returns the index of the next expected target character.
func (s *State) Cursor() int { return len(s.typed) }

// Phase returns the lifecycle phase.
func (s *State) Phase() Phase { return s.phase }

// HasError reports whether the character at index was mistyped.
func (s *State) HasError(index int) bool {
	_, ok := s.errors[index]
	return ok
}

// ErrorIndices returns the mistyped indices in ascending order.
func (s *State) ErrorIndices() []int {
	out := make([]int, 0, len(s.errors))
	for idx := range s.errors {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}

// StartedAt returns the instant of the first content keystroke.
func (s *State) StartedAt() (time.Time, bool) { return s.startedAt, !s.startedAt.IsZero() }

// EndedAt returns the instant the cursor reached the end of the target.
func (s *State) EndedAt() (time.Time, bool) { return s.endedAt, !s.endedAt.IsZero() }

// Ticks returns the number of periodic ticks received while active.
func (s *State) Ticks() int { return s.ticks }

// KeyPresses returns the number of accepted typing keys.
func (s *State) KeyPresses() int { return s.keyPresses }

func (s *State) appendCharacter(r rune) bool {
	if len(s.typed) >= len(s.target) {
		return false
	}
	s.typed = append(s.typed, r)
	return true
}

func (s *State) deleteLastCharacter() (int, bool) {
	if len(s.typed) == 0 {
		return 0, false
	}
	s.typed = s.typed[:len(s.typed)-1]
	return len(s.typed), true
}

func (s *State) advancePhase(p Phase) {
	s.phase = p
}

func (s *State) markError(index int) {
	if index < 0 || index >= len(s.typed) {
		return
	}
	s.errors[index] = struct{}{}
}

func (s *State) clearError(index int) {
	delete(s.errors, index)
}

func (s *State) tick() {
	if s.phase != PhaseActive {
		return
	}
	s.ticks++
}

func (s *State) countKeyPress() {
	s.keyPresses++
}
