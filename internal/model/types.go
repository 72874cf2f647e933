// Package model defines shared data structures.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Difficulty grades a passage.
type Difficulty string

// Passage difficulties.
const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Difficulties lists every valid difficulty in ascending order.
var Difficulties = []Difficulty{Easy, Medium, Hard}

// ParseDifficulty validates a difficulty name.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	switch d {
	case Easy, Medium, Hard:
		return d, nil
	default:
		return "", fmt.Errorf("unknown difficulty %q (want easy, medium or hard)", s)
	}
}

// Passage is the text typed during one race. It is immutable once fetched.
type Passage struct {
	ID         string     `json:"_id"`
	Text       string     `json:"text"`
	Difficulty Difficulty `json:"difficulty"`
}

// Config defines practice settings.
type Config struct {
	Difficulty   Difficulty
	PassageID    string
	Source       string
	Words        int
	WordListPath string
}

// ServerConfig locates the remote passage service and room server.
type ServerConfig struct {
	URL      string
	Username string
	Token    string
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Difficulty  Difficulty
	Since       *time.Time
	Last        int
	CurveWindow int
}

// SoloAttempt is a completed solo race as persisted.
type SoloAttempt struct {
	ID          string
	PassageID   string
	Difficulty  Difficulty
	WPM         int
	Accuracy    int
	ElapsedSecs int
	StartedAt   time.Time
	EndedAt     time.Time
}

// RoomResult is the server-reported outcome of one multiplayer race.
type RoomResult struct {
	ID          string
	Difficulty  Difficulty
	WPM         int
	Accuracy    int
	ElapsedSecs int
	Placement   int
	FinishedAt  time.Time
}

// Attempt kinds.
const (
	KindSolo = "solo"
	KindRoom = "room"
)

// AttemptAggregate summarizes one stored race for reporting.
type AttemptAggregate struct {
	Kind       string
	EndedAt    time.Time
	Difficulty Difficulty
	WPM        int
	Accuracy   int
	Placement  int
}
