package generator

import (
	"strings"
	"sync"
	"testing"
)

func TestGenerateCountAndVocabulary(t *testing.T) {
	g := NewWithSeed(1)
	words := []string{"alpha", "beta", "gamma"}
	out := g.Generate(words, Options{Count: 50})
	if len(out) != 50 {
		t.Fatalf("expected 50 words, got %d", len(out))
	}
	for _, w := range out {
		if w != "alpha" && w != "beta" && w != "gamma" {
			t.Fatalf("unexpected word %q", w)
		}
	}
}

func TestGenerateDecorations(t *testing.T) {
	g := NewWithSeed(2)
	out := g.Generate([]string{"word"}, Options{Count: 20, PunctPct: 1, PunctSet: []rune{'!'}})
	for _, w := range out {
		if w != "word!" {
			t.Fatalf("expected decorated word, got %q", w)
		}
	}
}

func TestGenerateEmptyInputs(t *testing.T) {
	g := NewWithSeed(3)
	if out := g.Generate(nil, Options{Count: 5}); out != nil {
		t.Fatalf("expected nil for empty vocabulary")
	}
	if out := g.Generate([]string{"a"}, Options{}); out != nil {
		t.Fatalf("expected nil for zero count")
	}
}

func TestGenerateWeightedBiasesTowardWeakChars(t *testing.T) {
	g := NewWithSeed(4)
	words := []string{"zzzz", "abc"}
	out := g.GenerateWeighted(words, Options{Count: 400}, map[rune]struct{}{'z': {}}, 10)
	z := 0
	for _, w := range out {
		if strings.HasPrefix(w, "z") {
			z++
		}
	}
	// weights are 41 vs 1, so nearly every pick is the weak word.
	if z < 350 {
		t.Fatalf("expected weak word to dominate, got %d of %d", z, len(out))
	}
}

func TestGenerateConcurrentUse(t *testing.T) {
	g := NewWithSeed(5)
	words := []string{"alpha", "beta"}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if out := g.Generate(words, Options{Count: 10}); len(out) != 10 {
					t.Errorf("expected 10 words, got %d", len(out))
					return
				}
				g.GenerateWeighted(words, Options{Count: 10}, map[rune]struct{}{'a': {}}, 2)
			}
		}()
	}
	wg.Wait()
}
