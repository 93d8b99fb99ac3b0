package stats

import (
	"testing"

	"github.com/verte-zerg/lyrictype/internal/model"
)

func TestTopCharsByFrequency(t *testing.T) {
	chars := []model.CharStats{
		{Char: "b", Correct: 3, Incorrect: 1},
		{Char: "a", Correct: 2, Incorrect: 2},
		{Char: "c", Correct: 1, Incorrect: 0},
	}
	top := TopCharsByFrequency(chars, 2)
	if len(top) != 2 {
		t.Fatalf("expected 2 chars, got %d", len(top))
	}
	if top[0] != "a" || top[1] != "b" {
		t.Fatalf("unexpected order: %v", top)
	}
	if got := TopCharsByFrequency(chars, 0); got != nil {
		t.Fatalf("expected nil for n=0, got %v", got)
	}
}
