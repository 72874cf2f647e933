// Package room mirrors a server-run multiplayer race. The server owns the
// phase, the roster and word acceptance; this package keeps the local typing
// feedback and projects the server's events onto it.
package room

import (
	"fmt"
	"strings"
)

// Phase is the server-driven stage of a room.
type Phase int

// Room phases. The server never sends a finished phase; results arrive as a
// separate event.
const (
	PhaseWaiting Phase = iota
	PhaseCountdown
	PhaseActive
)

func (p Phase) String() string {
	switch p {
	case PhaseWaiting:
		return "waiting"
	case PhaseCountdown:
		return "countdown"
	case PhaseActive:
		return "active"
	default:
		return "unknown"
	}
}

// ParsePhase maps a wire phase name to a Phase.
func ParsePhase(s string) (Phase, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "waiting":
		return PhaseWaiting, nil
	case "countdown", "game_countdown":
		return PhaseCountdown, nil
	case "active", "game":
		return PhaseActive, nil
	default:
		return PhaseWaiting, fmt.Errorf("unknown room phase %q", s)
	}
}

// Player is one roster entry as pushed by the server.
type Player struct {
	Username  string  `json:"username"`
	WPM       float64 `json:"wpm"`
	Accuracy  float64 `json:"accuracy"`
	Progress  float64 `json:"progress"`
	Placement *int    `json:"placement,omitempty"`
}

// Results is the server's final verdict for the local player.
type Results struct {
	WPM         float64 `json:"wpm"`
	Accuracy    float64 `json:"accuracy"`
	ElapsedTime float64 `json:"elapsedTime"`
	Placement   int     `json:"placement"`
}

// TypedInput is the command sent to the server at each submission.
type TypedInput struct {
	Word        string  `json:"word"`
	ElapsedTime float64 `json:"elapsedTime"`
}

// Event is an inbound room event.
type Event interface {
	Name() string
}

// Event names on the wire.
const (
	NamePhase        = "phase"
	NamePassage      = "passage"
	NamePlayers      = "update_players"
	NameCountdown    = "countdown"
	NameNextWord     = "next_word"
	NameResults      = "results"
	NameConnectError = "connect_error"
	NameDisconnect   = "disconnect"
	NameTypedInput   = "typed_input"
)

// PhaseEvent moves the room to a new phase.
type PhaseEvent struct{ Phase Phase }

// PassageEvent carries the text the room races on.
type PassageEvent struct{ Text string }

// PlayersEvent replaces the roster. A nil Players means the server sent no
// list at all and is ignored.
type PlayersEvent struct{ Players []Player }

// CountdownEvent reports the seconds remaining before the race starts.
type CountdownEvent struct{ Seconds int }

// NextWordEvent accepts or rejects the last submitted word.
type NextWordEvent struct{ Accepted bool }

// ResultsEvent ends the race for the local player.
type ResultsEvent struct{ Results Results }

// ConnectErrorEvent reports that the room could not be joined.
type ConnectErrorEvent struct{ Err error }

// DisconnectEvent reports that the connection closed.
type DisconnectEvent struct{ Err error }

func (PhaseEvent) Name() string        { return NamePhase }
func (PassageEvent) Name() string      { return NamePassage }
func (PlayersEvent) Name() string      { return NamePlayers }
func (CountdownEvent) Name() string    { return NameCountdown }
func (NextWordEvent) Name() string     { return NameNextWord }
func (ResultsEvent) Name() string      { return NameResults }
func (ConnectErrorEvent) Name() string { return NameConnectError }
func (DisconnectEvent) Name() string   { return NameDisconnect }
