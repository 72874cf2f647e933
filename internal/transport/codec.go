// Package transport carries the room event stream over a websocket.
package transport

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/verte-zerg/tuirace/internal/room"
)

// envelope is the frame format: {"event": "...", "data": ...}.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Decode parses one inbound frame into a room event.
func Decode(frame []byte) (room.Event, error) {
	var env envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return nil, fmt.Errorf("failed to decode frame: %w", err)
	}
	switch env.Event {
	case room.NamePhase:
		var name string
		if err := unmarshalData(env, &name); err != nil {
			return nil, err
		}
		phase, err := room.ParsePhase(name)
		if err != nil {
			return nil, err
		}
		return room.PhaseEvent{Phase: phase}, nil
	case room.NamePassage:
		var p struct {
			Text string `json:"text"`
		}
		if err := unmarshalData(env, &p); err != nil {
			return nil, err
		}
		return room.PassageEvent{Text: p.Text}, nil
	case room.NamePlayers:
		var players []room.Player
		if err := unmarshalData(env, &players); err != nil {
			return nil, err
		}
		return room.PlayersEvent{Players: players}, nil
	case room.NameCountdown:
		var sec float64
		if err := unmarshalData(env, &sec); err != nil {
			return nil, err
		}
		return room.CountdownEvent{Seconds: int(math.Round(sec))}, nil
	case room.NameNextWord:
		var ok bool
		if err := unmarshalData(env, &ok); err != nil {
			return nil, err
		}
		return room.NextWordEvent{Accepted: ok}, nil
	case room.NameResults:
		var res room.Results
		if err := unmarshalData(env, &res); err != nil {
			return nil, err
		}
		return room.ResultsEvent{Results: res}, nil
	default:
		return nil, fmt.Errorf("unknown event %q", env.Event)
	}
}

func unmarshalData(env envelope, v any) error {
	if len(env.Data) == 0 {
		return fmt.Errorf("event %q has no data", env.Event)
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		return fmt.Errorf("failed to decode %s payload: %w", env.Event, err)
	}
	return nil
}

// EncodeTypedInput builds the outbound typed_input frame.
func EncodeTypedInput(in room.TypedInput) ([]byte, error) {
	data, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Event: room.NameTypedInput, Data: data})
}
