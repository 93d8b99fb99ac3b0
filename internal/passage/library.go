package passage

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Entry is one named passage in the library file.
type Entry struct {
	Name   string   `yaml:"name"`
	Title  string   `yaml:"title"`
	Text   string   `yaml:"text"`
	Tags   []string `yaml:"tags"`
	Author string   `yaml:"author"`
}

// Library is a YAML collection of user passages.
type Library struct {
	Passages []Entry `yaml:"passages"`
}

// LoadLibrary reads a passage library. Missing file yields an empty library.
func LoadLibrary(path string) (Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Library{}, nil
		}
		return Library{}, fmt.Errorf("failed to read passage library: %w", err)
	}
	var lib Library
	if err := yaml.Unmarshal(data, &lib); err != nil {
		return Library{}, fmt.Errorf("failed to decode passage library: %w", err)
	}
	seen := map[string]struct{}{}
	for i, entry := range lib.Passages {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			return Library{}, fmt.Errorf("passage %d has no name", i+1)
		}
		if _, ok := seen[name]; ok {
			return Library{}, fmt.Errorf("duplicate passage name %q", name)
		}
		seen[name] = struct{}{}
		lib.Passages[i].Name = name
	}
	return lib, nil
}

// Names returns the sorted passage names.
func (l Library) Names() []string {
	names := make([]string, 0, len(l.Passages))
	for _, entry := range l.Passages {
		names = append(names, entry.Name)
	}
	sort.Strings(names)
	return names
}

// Find returns the entry with the given name.
func (l Library) Find(name string) (Entry, bool) {
	for _, entry := range l.Passages {
		if entry.Name == name {
			return entry, true
		}
	}
	return Entry{}, false
}

// LibrarySource yields a named entry, or a random one when name is empty.
type LibrarySource struct {
	lib  Library
	name string

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewLibrarySource builds a library source.
func NewLibrarySource(lib Library, name string, rnd *rand.Rand) *LibrarySource {
	return &LibrarySource{lib: lib, name: name, rnd: rnd}
}

// Name implements Source.
func (s *LibrarySource) Name() string { return "library" }

// Next implements Source.
func (s *LibrarySource) Next(context.Context) (Passage, error) {
	if len(s.lib.Passages) == 0 {
		return Passage{}, fmt.Errorf("passage library is empty")
	}
	var entry Entry
	if s.name != "" {
		found, ok := s.lib.Find(s.name)
		if !ok {
			return Passage{}, fmt.Errorf("unknown passage %q", s.name)
		}
		entry = found
	} else {
		s.mu.Lock()
		entry = s.lib.Passages[s.rnd.Intn(len(s.lib.Passages))]
		s.mu.Unlock()
	}
	text, err := Normalize(entry.Text)
	if err != nil {
		return Passage{}, fmt.Errorf("passage %q: %w", entry.Name, err)
	}
	title := entry.Title
	if title == "" {
		title = entry.Name
	}
	return Passage{Title: title, Text: text, Origin: s.Name()}, nil
}
