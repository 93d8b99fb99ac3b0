package engine

import (
	"testing"
	"time"
)

func TestClassifyIgnoresModifierCombos(t *testing.T) {
	s := newState([]rune("cat"))
	for _, ev := range []KeyEvent{
		{Key: "c", Ctrl: true},
		{Key: "c", Alt: true},
		{Key: "c", Meta: true},
	} {
		if d := Classify(s, ev); d.Action != ActionIgnore || d.Activate {
			t.Fatalf("expected %+v to be ignored, got %+v", ev, d)
		}
	}
}

func TestClassifyIgnoresNonPrintableKeys(t *testing.T) {
	s := newState([]rune("cat"))
	for _, key := range []string{"ArrowLeft", "F5", "Shift", "", "\x07"} {
		if d := Classify(s, KeyEvent{Key: key}); d.Action != ActionIgnore {
			t.Fatalf("expected %q to be ignored, got %+v", key, d)
		}
	}
}

func TestClassifyWhitespaceDesignators(t *testing.T) {
	s := newState([]rune("a b"))
	cases := map[string]rune{KeySpace: ' ', KeyEnter: '\n', KeyTab: '\t', " ": ' '}
	for key, want := range cases {
		d := Classify(s, KeyEvent{Key: key})
		if d.Action != ActionType || d.Rune != want {
			t.Fatalf("key %q: expected type %q, got %+v", key, want, d)
		}
	}
}

func TestClassifyEscapeResetsInAnyPhase(t *testing.T) {
	for _, phase := range []Phase{PhaseIdle, PhaseActive, PhaseFinished} {
		s := newState([]rune("cat"))
		s.advancePhase(phase)
		if d := Classify(s, KeyEvent{Key: KeyEscape}); d.Action != ActionReset {
			t.Fatalf("phase %s: expected reset, got %+v", phase, d)
		}
	}
}

func TestClassifyFinishedIgnoresTyping(t *testing.T) {
	s := newState([]rune("a"))
	apply(s, Classify(s, Char('a')), time.Now())
	if s.Phase() != PhaseFinished {
		t.Fatalf("expected finished, got %s", s.Phase())
	}
	for _, ev := range []KeyEvent{Char('a'), {Key: KeyBackspace}} {
		if d := Classify(s, ev); d.Action != ActionIgnore {
			t.Fatalf("expected %+v ignored after finish, got %+v", ev, d)
		}
	}
}

func TestClassifyBackspaceSuppressesDefault(t *testing.T) {
	s := newState([]rune("cat"))
	d := Classify(s, KeyEvent{Key: KeyBackspace})
	if d.Action != ActionIgnore || !d.Directive.SuppressDefault {
		t.Fatalf("expected suppressed no-op at cursor 0, got %+v", d)
	}
	apply(s, Classify(s, Char('c')), time.Now())
	d = Classify(s, KeyEvent{Key: KeyBackspace, Ctrl: true})
	if d.Action != ActionDelete || !d.Directive.SuppressDefault {
		t.Fatalf("expected delete, got %+v", d)
	}
}

func TestApplyComparesAgainstPositionBeforeAppend(t *testing.T) {
	s := newState([]rune("ab"))
	now := time.Now()
	apply(s, Classify(s, Char('b')), now)
	if !s.HasError(0) {
		t.Fatalf("expected error at 0 for shifted input")
	}
	apply(s, Classify(s, Char('b')), now)
	if s.HasError(1) {
		t.Fatalf("expected no error at 1")
	}
}

func TestApplyKeepsOriginalCase(t *testing.T) {
	s := newState([]rune("cat"))
	apply(s, Classify(s, Char('C')), time.Now())
	if s.Typed() != "C" {
		t.Fatalf("expected original case kept, got %q", s.Typed())
	}
	if s.HasError(0) {
		t.Fatalf("expected case-insensitive match")
	}
}
