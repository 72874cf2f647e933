package transport

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/tuirace/internal/room"
)

func TestDecodeEvents(t *testing.T) {
	placement := 3
	cases := []struct {
		frame string
		want  room.Event
	}{
		{`{"event":"phase","data":"game_countdown"}`, room.PhaseEvent{Phase: room.PhaseCountdown}},
		{`{"event":"phase","data":"game"}`, room.PhaseEvent{Phase: room.PhaseActive}},
		{`{"event":"passage","data":{"text":"the cat"}}`, room.PassageEvent{Text: "the cat"}},
		{`{"event":"countdown","data":5}`, room.CountdownEvent{Seconds: 5}},
		{`{"event":"next_word","data":false}`, room.NextWordEvent{Accepted: false}},
		{`{"event":"next_word","data":true}`, room.NextWordEvent{Accepted: true}},
		{
			`{"event":"results","data":{"wpm":71.2,"accuracy":97,"elapsedTime":30.5,"placement":1}}`,
			room.ResultsEvent{Results: room.Results{WPM: 71.2, Accuracy: 97, ElapsedTime: 30.5, Placement: 1}},
		},
		{
			`{"event":"update_players","data":[{"username":"ana","wpm":40.5,"accuracy":99,"progress":25,"placement":3}]}`,
			room.PlayersEvent{Players: []room.Player{{Username: "ana", WPM: 40.5, Accuracy: 99, Progress: 25, Placement: &placement}}},
		},
		{`{"event":"update_players","data":null}`, room.PlayersEvent{}},
	}
	for _, tc := range cases {
		got, err := Decode([]byte(tc.frame))
		require.NoError(t, err, tc.frame)
		assert.Equal(t, tc.want, got, tc.frame)
	}
}

func TestDecodeRejectsBadFrames(t *testing.T) {
	for _, frame := range []string{
		`not json`,
		`{"event":"mystery","data":1}`,
		`{"event":"phase","data":"finished"}`,
		`{"event":"next_word"}`,
		`{"event":"countdown","data":"soon"}`,
	} {
		_, err := Decode([]byte(frame))
		assert.Error(t, err, frame)
	}
}

func TestEncodeTypedInput(t *testing.T) {
	frame, err := EncodeTypedInput(room.TypedInput{Word: "hello", ElapsedTime: 1.5})
	require.NoError(t, err)

	var got struct {
		Event string `json:"event"`
		Data  struct {
			Word        string  `json:"word"`
			ElapsedTime float64 `json:"elapsedTime"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(frame, &got))
	assert.Equal(t, "typed_input", got.Event)
	assert.Equal(t, "hello", got.Data.Word)
	assert.Equal(t, 1.5, got.Data.ElapsedTime)
}
