// Package passage supplies target texts for typing sessions.
package passage

import (
	"context"
	"errors"
	"strings"

	"github.com/verte-zerg/lyrictype/internal/lyrics"
)

// ErrEmptyText is returned when a source yields nothing to type.
var ErrEmptyText = errors.New("text to type is empty")

// Passage is a normalized target text with its provenance.
type Passage struct {
	Title   string
	Text    string
	Origin  string
	Sources []lyrics.Source
}

// Source produces passages. Next may be called repeatedly for a new passage.
type Source interface {
	Name() string
	Next(ctx context.Context) (Passage, error)
}

// Normalize lowercases text and collapses whitespace runs into single spaces.
func Normalize(text string) (string, error) {
	out := strings.Join(strings.Fields(strings.ToLower(text)), " ")
	if out == "" {
		return "", ErrEmptyText
	}
	return out, nil
}
