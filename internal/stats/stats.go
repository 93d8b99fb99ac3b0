// Package stats contains per-session analysis and text rendering.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/verte-zerg/lyrictype/internal/engine"
	"github.com/verte-zerg/lyrictype/internal/model"
)

const sparkChars = " .:-=+*#%@"

// CharBreakdown counts correct and incorrect attempts per expected character
// over the typed part of a snapshot. Spaces are reported as " ".
func CharBreakdown(snap engine.Snapshot) []model.CharStats {
	target := []rune(snap.Target)
	typed := []rune(snap.Typed)
	byChar := map[rune]*model.CharStats{}
	for i, r := range typed {
		if i >= len(target) {
			break
		}
		expected := target[i]
		entry, ok := byChar[expected]
		if !ok {
			entry = &model.CharStats{Char: string(expected)}
			byChar[expected] = entry
		}
		if unicode.ToLower(r) == unicode.ToLower(expected) {
			entry.Correct++
		} else {
			entry.Incorrect++
		}
	}
	out := make([]model.CharStats, 0, len(byChar))
	for _, entry := range byChar {
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Char < out[j].Char })
	return out
}

// LiveWPM computes an unrounded words-per-minute figure for sampling.
func LiveWPM(correct int, elapsedSeconds float64) float64 {
	if elapsedSeconds <= 0 {
		return 0
	}
	return float64(correct) / 5.0 / (elapsedSeconds / 60.0)
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// Downsample keeps at most width values by averaging consecutive buckets.
func Downsample(values []float64, width int) []float64 {
	if width <= 0 || len(values) <= width {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, width)
	for i := 0; i < width; i++ {
		start := i * len(values) / width
		end := (i + 1) * len(values) / width
		if end <= start {
			end = start + 1
		}
		var sum float64
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}

// RenderSummary prints the final stats of a session.
func RenderSummary(w io.Writer, res model.SessionResult) error {
	lines := []string{
		"Results",
	}
	if res.Title != "" {
		lines = append(lines, fmt.Sprintf("Passage: %s", res.Title))
	}
	lines = append(lines,
		fmt.Sprintf("WPM: %d", res.WPM),
		fmt.Sprintf("Accuracy: %d%%", res.Accuracy),
		fmt.Sprintf("Time: %.1fs", res.ElapsedSeconds),
		fmt.Sprintf("Keystrokes: %d", res.KeyPresses),
	)
	if spark := Sparkline(Downsample(res.WPMSamples, 60)); spark != "" {
		lines = append(lines, fmt.Sprintf("Pace: %s", spark))
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderCharTable prints per-character results, least accurate first.
func RenderCharTable(w io.Writer, chars []model.CharStats) error {
	if len(chars) == 0 {
		_, err := fmt.Fprintln(w, "No character stats.")
		return err
	}
	rows := make([]model.CharStats, len(chars))
	copy(rows, chars)
	sort.Slice(rows, func(i, j int) bool {
		ai, aj := rows[i].Accuracy(), rows[j].Accuracy()
		if ai == aj {
			return rows[i].Char < rows[j].Char
		}
		return ai < aj
	})

	if _, err := fmt.Fprintln(w, "Per-Character"); err != nil {
		return err
	}
	for _, line := range charTableLines(charColumns, rows) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// CharLabel makes whitespace characters visible in tables.
func CharLabel(ch string) string {
	switch ch {
	case " ":
		return "<space>"
	case "\t":
		return "<tab>"
	case "\n":
		return "<enter>"
	}
	return ch
}
