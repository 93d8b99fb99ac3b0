package engine

import (
	"time"
	"unicode"
)

// Action is the state mutation a key event maps to.
type Action int

const (
	// ActionIgnore leaves the session untouched.
	ActionIgnore Action = iota
	// ActionReset restarts the session on the same target.
	ActionReset
	// ActionDelete removes the last typed character.
	ActionDelete
	// ActionType appends a content character.
	ActionType
)

// Directive tells the host what to do with the original key event.
type Directive struct {
	SuppressDefault bool
}

// Decision is the classifier verdict for one key event.
type Decision struct {
	Action    Action
	Rune      rune
	Activate  bool
	Directive Directive
}

// Classify maps a key event against the current state to a decision.
// It never mutates the state.
func Classify(s *State, ev KeyEvent) Decision {
	if ev.Key == KeyEscape {
		return Decision{Action: ActionReset, Directive: Directive{SuppressDefault: true}}
	}
	if ev.Key == KeyBackspace {
		if s.phase == PhaseFinished {
			return Decision{}
		}
		if s.Cursor() == 0 {
			return Decision{Directive: Directive{SuppressDefault: true}}
		}
		return Decision{
			Action:    ActionDelete,
			Activate:  s.phase == PhaseIdle,
			Directive: Directive{SuppressDefault: true},
		}
	}
	if ev.hasModifier() {
		return Decision{}
	}
	r, ok := ev.contentRune()
	if !ok {
		return Decision{}
	}
	if s.phase == PhaseFinished || s.Cursor() >= len(s.target) {
		return Decision{}
	}
	return Decision{
		Action:    ActionType,
		Rune:      r,
		Activate:  s.phase == PhaseIdle,
		Directive: Directive{SuppressDefault: true},
	}
}

// apply performs a delete or type decision and reports whether the
// session just finished. Reset decisions are handled by the controller.
func apply(s *State, d Decision, now time.Time) bool {
	if d.Activate && s.phase == PhaseIdle {
		s.advancePhase(PhaseActive)
	}
	switch d.Action {
	case ActionDelete:
		idx, ok := s.deleteLastCharacter()
		if !ok {
			return false
		}
		s.clearError(idx)
		s.countKeyPress()
		return false
	case ActionType:
		pos := s.Cursor()
		if s.startedAt.IsZero() {
			s.startedAt = now
		}
		if !s.appendCharacter(d.Rune) {
			return false
		}
		s.clearError(pos)
		if !sameChar(d.Rune, s.target[pos]) {
			s.markError(pos)
		}
		s.countKeyPress()
		if s.Cursor() == len(s.target) {
			s.endedAt = now
			s.advancePhase(PhaseFinished)
			return true
		}
	}
	return false
}

func sameChar(typed, expected rune) bool {
	return unicode.ToLower(typed) == unicode.ToLower(expected)
}
