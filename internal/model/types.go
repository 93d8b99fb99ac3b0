// Package model defines shared data structures.
package model

import "time"

// Config defines practice settings.
type Config struct {
	Lang         string
	Words        int
	PunctPct     float64
	PunctSet     string
	FocusWeak    bool
	WeakTop      int
	WeakFactor   float64
	TickInterval time.Duration
}

// LyricsConfig defines how lyrics are fetched.
type LyricsConfig struct {
	Model     string
	BaseURL   string
	APIKeyEnv string
	Timeout   time.Duration
	Refresh   bool
}

// CharStats counts outcomes for one expected character in a session.
type CharStats struct {
	Char      string
	Correct   int
	Incorrect int
}

// Total returns the number of attempts at the character.
func (c CharStats) Total() int {
	return c.Correct + c.Incorrect
}

// Accuracy returns the share of correct attempts, 1 when never attempted.
func (c CharStats) Accuracy() float64 {
	total := c.Total()
	if total == 0 {
		return 1.0
	}
	return float64(c.Correct) / float64(total)
}

// SessionResult is the outcome of one finished session.
type SessionResult struct {
	Title          string
	Origin         string
	WPM            int
	Accuracy       int
	ElapsedSeconds float64
	KeyPresses     int
	Chars          []CharStats
	WPMSamples     []float64
}
