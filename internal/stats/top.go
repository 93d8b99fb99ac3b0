package stats

import (
	"sort"

	"github.com/verte-zerg/lyrictype/internal/model"
)

// SortByFrequency returns a copy ordered by attempts, most frequent first.
func SortByFrequency(chars []model.CharStats) []model.CharStats {
	out := make([]model.CharStats, len(chars))
	copy(out, chars)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total() == out[j].Total() {
			return out[i].Char < out[j].Char
		}
		return out[i].Total() > out[j].Total()
	})
	return out
}

// TopCharsByFrequency returns the top N characters by total attempts.
func TopCharsByFrequency(chars []model.CharStats, n int) []string {
	if n <= 0 || len(chars) == 0 {
		return nil
	}
	sorted := SortByFrequency(chars)
	if n > len(sorted) {
		n = len(sorted)
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, sorted[i].Char)
	}
	return out
}
