package stats

import (
	"testing"

	"github.com/verte-zerg/lyrictype/internal/model"
)

func TestCharTableLinesAlignsColumns(t *testing.T) {
	chars := []model.CharStats{
		{Char: "a", Correct: 39, Incorrect: 1},
		{Char: " ", Correct: 2, Incorrect: 23},
	}
	lines := charTableLines(charColumns, chars)
	want := []string{
		"Char    Accuracy Correct Incorrect",
		"a         97.50%      39         1",
		"<space>    8.00%       2        23",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d", len(want), len(lines))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d: expected %q, got %q", i, want[i], lines[i])
		}
	}
}

func TestCharTableLinesUsesDisplayWidth(t *testing.T) {
	cols := []charColumn{charColumns[0], charColumns[2]}
	lines := charTableLines(cols, []model.CharStats{{Char: "ờ", Correct: 1}, {Char: "中", Correct: 2}})
	if lines[1] != "ờ          1" {
		t.Fatalf("unexpected narrow row: %q", lines[1])
	}
	if lines[2] != "中         2" {
		t.Fatalf("unexpected wide row: %q", lines[2])
	}
}

func TestCharTableLinesHeaderOnly(t *testing.T) {
	lines := charTableLines(charColumns, nil)
	if len(lines) != 1 || lines[0] != "Char Accuracy Correct Incorrect" {
		t.Fatalf("unexpected header-only table: %q", lines)
	}
	if charTableLines(nil, []model.CharStats{{Char: "a"}}) != nil {
		t.Fatalf("expected nil without columns")
	}
}
