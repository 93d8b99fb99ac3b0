package engine

import (
	"math"
	"time"
)

const charsPerWord = 5.0

// Metrics are the performance figures derived from a session state.
type Metrics struct {
	WPM            int
	Accuracy       int
	ElapsedSeconds float64
	Correct        int
}

// FinalStats is the payload handed to the results consumer on finish.
type FinalStats struct {
	WPM            int
	Accuracy       int
	ElapsedSeconds float64
}

// ComputeMetrics derives metrics from scratch at the given instant.
func ComputeMetrics(s *State, now time.Time) Metrics {
	elapsed := ElapsedSeconds(s, now)
	correct := CorrectCount(s)
	return Metrics{
		WPM:            wordsPerMinute(correct, elapsed, !s.startedAt.IsZero()),
		Accuracy:       accuracyPercent(correct, len(s.typed)),
		ElapsedSeconds: elapsed,
		Correct:        correct,
	}
}

// ElapsedSeconds returns end-start, now-start, or zero before the first keystroke.
func ElapsedSeconds(s *State, now time.Time) float64 {
	if s.startedAt.IsZero() {
		return 0
	}
	end := now
	if !s.endedAt.IsZero() {
		end = s.endedAt
	}
	d := end.Sub(s.startedAt).Seconds()
	if d < 0 {
		return 0
	}
	return d
}

// CorrectCount counts typed positions matching the target case-insensitively.
func CorrectCount(s *State) int {
	correct := 0
	for i, r := range s.typed {
		if i >= len(s.target) {
			break
		}
		if sameChar(r, s.target[i]) {
			correct++
		}
	}
	return correct
}

func wordsPerMinute(correct int, elapsedSeconds float64, started bool) int {
	if !started || elapsedSeconds <= 0 {
		return 0
	}
	minutes := elapsedSeconds / 60.0
	return int(math.Round(float64(correct) / charsPerWord / minutes))
}

func accuracyPercent(correct, typed int) int {
	if typed == 0 {
		return 100
	}
	return int(math.Round(100 * float64(correct) / float64(typed)))
}
