// Package generator builds random-word passages.
package generator

import (
	"math/rand"
	"sync"
	"time"
	"unicode"
)

// Options controls how words are decorated.
type Options struct {
	Count    int
	PunctPct float64
	PunctSet []rune
}

// Generator produces randomized typing text. It is safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed returns a deterministic Generator.
func NewWithSeed(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Generate selects words uniformly and applies punctuation rules.
func (g *Generator) Generate(words []string, opts Options) []string {
	if len(words) == 0 || opts.Count <= 0 {
		return nil
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	result := make([]string, 0, opts.Count)
	for i := 0; i < opts.Count; i++ {
		result = append(result, g.decorate(words[g.rnd.Intn(len(words))], opts))
	}
	return result
}

// GenerateWeighted selects words with a bias toward the given characters.
func (g *Generator) GenerateWeighted(words []string, opts Options, weakSet map[rune]struct{}, factor float64) []string {
	if len(weakSet) == 0 || factor <= 0 {
		return g.Generate(words, opts)
	}
	if len(words) == 0 || opts.Count <= 0 {
		return nil
	}
	weights := make([]float64, len(words))
	total := 0.0
	for i, word := range words {
		weakCount := 0
		for _, r := range word {
			if _, ok := weakSet[unicode.ToLower(r)]; ok {
				weakCount++
			}
		}
		w := 1.0 + float64(weakCount)*factor
		weights[i] = w
		total += w
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	result := make([]string, 0, opts.Count)
	for i := 0; i < opts.Count; i++ {
		r := g.rnd.Float64() * total
		acc := 0.0
		idx := len(words) - 1
		for j, w := range weights {
			acc += w
			if r <= acc {
				idx = j
				break
			}
		}
		result = append(result, g.decorate(words[idx], opts))
	}
	return result
}

func (g *Generator) decorate(word string, opts Options) string {
	return applyPunct(g.rnd, word, opts.PunctPct, opts.PunctSet)
}

func applyPunct(rnd *rand.Rand, word string, punctPct float64, punctSet []rune) string {
	if punctPct <= 0 || len(punctSet) == 0 {
		return word
	}
	if rnd.Float64() > punctPct {
		return word
	}
	punct := punctSet[rnd.Intn(len(punctSet))]
	return word + string(punct)
}
