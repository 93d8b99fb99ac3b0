package passage

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/atotto/clipboard"

	"github.com/verte-zerg/lyrictype/internal/generator"
	"github.com/verte-zerg/lyrictype/internal/lyrics"
)

// TextSource always yields the same user-supplied text.
type TextSource struct {
	title  string
	origin string
	text   string
}

// NewTextSource wraps a fixed text.
func NewTextSource(title, origin, text string) *TextSource {
	return &TextSource{title: title, origin: origin, text: text}
}

// Name implements Source.
func (s *TextSource) Name() string { return s.origin }

// Next implements Source.
func (s *TextSource) Next(context.Context) (Passage, error) {
	text, err := Normalize(s.text)
	if err != nil {
		return Passage{}, err
	}
	return Passage{Title: s.title, Text: text, Origin: s.origin}, nil
}

// FromFile reads a text file as a passage source.
func FromFile(path string) (*TextSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read text file: %w", err)
	}
	return NewTextSource(path, "file", string(data)), nil
}

// FromReader reads all of r as a passage source.
func FromReader(name string, r io.Reader) (*TextSource, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return NewTextSource(name, name, string(data)), nil
}

// FromClipboard uses the current clipboard contents as a passage source.
func FromClipboard() (*TextSource, error) {
	text, err := clipboard.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read clipboard: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("clipboard: %w", ErrEmptyText)
	}
	return NewTextSource("clipboard", "clipboard", text), nil
}

// RandomSource assembles passages from a word list.
type RandomSource struct {
	lang  string
	words []string
	gen   *generator.Generator
	opts  generator.Options

	mu     sync.Mutex
	weak   map[rune]struct{}
	factor float64
}

// NewRandomSource builds a random-word source.
func NewRandomSource(lang string, words []string, gen *generator.Generator, opts generator.Options) *RandomSource {
	return &RandomSource{lang: lang, words: words, gen: gen, opts: opts}
}

// Name implements Source.
func (s *RandomSource) Name() string { return "random-" + s.lang }

// FocusOn biases later passages toward words containing the given characters.
func (s *RandomSource) FocusOn(weak map[rune]struct{}, factor float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.weak = weak
	s.factor = factor
}

// Next implements Source.
func (s *RandomSource) Next(context.Context) (Passage, error) {
	s.mu.Lock()
	words := s.gen.GenerateWeighted(s.words, s.opts, s.weak, s.factor)
	s.mu.Unlock()
	text, err := Normalize(strings.Join(words, " "))
	if err != nil {
		return Passage{}, err
	}
	return Passage{
		Title:  fmt.Sprintf("%d random words (%s)", len(words), s.lang),
		Text:   text,
		Origin: s.Name(),
	}, nil
}

// LyricsSource looks up song lyrics.
type LyricsSource struct {
	lookup func(ctx context.Context, title string) (lyrics.Result, error)
	title  string
}

// NewLyricsSource builds a source for one song title.
func NewLyricsSource(svc *lyrics.Service, title string) *LyricsSource {
	return &LyricsSource{lookup: svc.Lookup, title: title}
}

// Name implements Source.
func (s *LyricsSource) Name() string { return "song" }

// Next implements Source.
func (s *LyricsSource) Next(ctx context.Context) (Passage, error) {
	title := strings.TrimSpace(s.title)
	if title == "" {
		return Passage{}, fmt.Errorf("song title is empty")
	}
	res, err := s.lookup(ctx, title)
	if err != nil {
		return Passage{}, err
	}
	text, err := Normalize(res.Lyrics)
	if err != nil {
		return Passage{}, fmt.Errorf("%w: %w", lyrics.ErrNotFound, err)
	}
	return Passage{Title: res.Title, Text: text, Origin: s.Name(), Sources: res.Sources}, nil
}
