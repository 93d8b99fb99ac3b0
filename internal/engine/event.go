package engine

import (
	"unicode"
	"unicode/utf8"
)

// Key names for keys that do not produce a single character.
const (
	KeyBackspace = "Backspace"
	KeyEscape    = "Escape"
	KeySpace     = "Space"
	KeyEnter     = "Enter"
	KeyTab       = "Tab"
)

// KeyEvent is one discrete key press delivered by the host input layer.
type KeyEvent struct {
	Key  string
	Ctrl bool
	Alt  bool
	Meta bool
}

// Char builds a plain event for a single typed character.
func Char(r rune) KeyEvent {
	return KeyEvent{Key: string(r)}
}

func (e KeyEvent) hasModifier() bool {
	return e.Ctrl || e.Alt || e.Meta
}

// contentRune resolves the character a content keystroke produces.
func (e KeyEvent) contentRune() (rune, bool) {
	switch e.Key {
	case KeySpace:
		return ' ', true
	case KeyEnter:
		return '\n', true
	case KeyTab:
		return '\t', true
	}
	r, size := utf8.DecodeRuneInString(e.Key)
	if r == utf8.RuneError || size != len(e.Key) {
		return 0, false
	}
	if unicode.IsPrint(r) || unicode.IsSpace(r) {
		return r, true
	}
	return 0, false
}
