package stats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/verte-zerg/lyrictype/internal/engine"
	"github.com/verte-zerg/lyrictype/internal/model"
)

func TestCharBreakdown(t *testing.T) {
	snap := engine.Snapshot{Target: "abca b", Typed: "Axcab"}
	chars := CharBreakdown(snap)
	got := map[string]model.CharStats{}
	for _, c := range chars {
		got[c.Char] = c
	}
	if len(chars) != 4 {
		t.Fatalf("expected 4 chars, got %v", chars)
	}
	if got["a"].Correct != 2 || got["a"].Incorrect != 0 {
		t.Fatalf("unexpected a stats: %+v", got["a"])
	}
	if got["b"].Incorrect != 1 || got["b"].Correct != 0 {
		t.Fatalf("unexpected b stats: %+v", got["b"])
	}
	if got[" "].Incorrect != 1 {
		t.Fatalf("expected mismatched space, got %+v", got[" "])
	}
	if chars[0].Char != " " {
		t.Fatalf("expected sorted output, got %v", chars)
	}
}

func TestCharBreakdownEmpty(t *testing.T) {
	if chars := CharBreakdown(engine.Snapshot{}); len(chars) != 0 {
		t.Fatalf("expected no stats, got %v", chars)
	}
}

func TestLiveWPM(t *testing.T) {
	if got := LiveWPM(10, 0); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
	if got := LiveWPM(50, 60); got != 10 {
		t.Fatalf("expected 10, got %v", got)
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline(nil); got != "" {
		t.Fatalf("expected empty sparkline, got %q", got)
	}
	if got := Sparkline([]float64{0, 9}); got != " @" {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if got := Sparkline([]float64{3, 3, 3}); len(got) != 3 || strings.Trim(got, "+") != "" {
		t.Fatalf("unexpected flat sparkline %q", got)
	}
}

func TestDownsample(t *testing.T) {
	got := Downsample([]float64{1, 3, 5, 7}, 2)
	if len(got) != 2 || got[0] != 2 || got[1] != 6 {
		t.Fatalf("unexpected downsample %v", got)
	}
	if got := Downsample([]float64{1}, 5); len(got) != 1 {
		t.Fatalf("expected passthrough, got %v", got)
	}
}

func TestSelectWeakChars(t *testing.T) {
	chars := []model.CharStats{
		{Char: "a", Correct: 9, Incorrect: 1},
		{Char: "b", Correct: 1, Incorrect: 1},
		{Char: "c", Correct: 5},
		{Char: " ", Incorrect: 4},
	}
	weak := SelectWeakChars(chars, 1)
	if len(weak) != 1 {
		t.Fatalf("expected one weak char, got %v", weak)
	}
	if _, ok := weak['b']; !ok {
		t.Fatalf("expected b to be weak, got %v", weak)
	}
	all := SelectWeakChars(chars, 0)
	if len(all) != 2 {
		t.Fatalf("expected a and b, got %v", all)
	}
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	res := model.SessionResult{Title: "Song", WPM: 42, Accuracy: 97, ElapsedSeconds: 12.5, KeyPresses: 80, WPMSamples: []float64{1, 2}}
	if err := RenderSummary(&buf, res); err != nil {
		t.Fatalf("render summary: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Passage: Song", "WPM: 42", "Accuracy: 97%", "Time: 12.5s", "Keystrokes: 80", "Pace: "} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestRenderCharTableOrdersByAccuracy(t *testing.T) {
	var buf bytes.Buffer
	chars := []model.CharStats{
		{Char: "a", Correct: 4},
		{Char: " ", Correct: 1, Incorrect: 1},
	}
	if err := RenderCharTable(&buf, chars); err != nil {
		t.Fatalf("render table: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
	if !strings.HasPrefix(lines[2], "<space>") {
		t.Fatalf("expected space first, got %q", lines[2])
	}
}
