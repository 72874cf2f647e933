package race

import (
	"math"
	"time"
)

// Metrics accumulates the counters a race is scored from.
type Metrics struct {
	correctChars int
	typedChars   int
	wpm          int
}

// Score records the characters of one submission.
func (m *Metrics) Score(typed, correct int) {
	m.typedChars += typed
	m.correctChars += correct
}

// CorrectChars returns the number of correctly typed characters.
func (m *Metrics) CorrectChars() int { return m.correctChars }

// TypedChars returns the number of characters counted toward accuracy.
func (m *Metrics) TypedChars() int { return m.typedChars }

// Accuracy returns the rounded accuracy percentage. ok is false until at
// least one character has been counted.
func (m *Metrics) Accuracy() (accuracy int, ok bool) {
	if m.typedChars == 0 {
		return 0, false
	}
	return roundInt(100 * float64(m.correctChars) / float64(m.typedChars)), true
}

// WPM returns the last computed words-per-minute value.
func (m *Metrics) WPM() int { return m.wpm }

// UpdateWPM recomputes WPM from completed words. The previous value is kept
// while no time has elapsed.
func (m *Metrics) UpdateWPM(completed int, elapsed time.Duration) int {
	minutes := elapsed.Minutes()
	if minutes > 0 {
		m.wpm = roundInt(float64(completed) / minutes)
	}
	return m.wpm
}

// Progress returns the rounded percentage of completed words. It reads 100
// only once every word is complete.
func Progress(completed, total int) int {
	if total <= 0 {
		return 0
	}
	if completed >= total {
		return 100
	}
	return min(roundInt(100*float64(completed)/float64(total)), 99)
}

func roundInt(v float64) int {
	return int(math.Round(v))
}
