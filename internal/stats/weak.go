package stats

import (
	"sort"

	"github.com/verte-zerg/lyrictype/internal/model"
)

// SelectWeakChars selects the lowest-accuracy characters that had mistakes.
func SelectWeakChars(chars []model.CharStats, top int) map[rune]struct{} {
	weakSet := map[rune]struct{}{}
	candidates := make([]model.CharStats, 0, len(chars))
	for _, c := range chars {
		if c.Incorrect > 0 && c.Char != " " {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return weakSet
	}
	sort.Slice(candidates, func(i, j int) bool {
		ai := candidates[i].Accuracy()
		aj := candidates[j].Accuracy()
		if ai == aj {
			return candidates[i].Char < candidates[j].Char
		}
		return ai < aj
	})
	if top <= 0 || top > len(candidates) {
		top = len(candidates)
	}
	for i := 0; i < top; i++ {
		runes := []rune(candidates[i].Char)
		if len(runes) > 0 {
			weakSet[runes[0]] = struct{}{}
		}
	}
	return weakSet
}
