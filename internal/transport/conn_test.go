package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/tuirace/internal/auth"
	"github.com/verte-zerg/tuirace/internal/model"
	"github.com/verte-zerg/tuirace/internal/room"
)

func TestRoomURL(t *testing.T) {
	got, err := RoomURL("http://localhost:3000", model.Easy)
	require.NoError(t, err)
	assert.Equal(t, "ws://localhost:3000/easy", got)

	got, err = RoomURL("https://race.example.com/api/", model.Hard)
	require.NoError(t, err)
	assert.Equal(t, "wss://race.example.com/api/hard", got)

	_, err = RoomURL("ftp://example.com", model.Easy)
	assert.Error(t, err)
}

// echoRoom sends a passage, waits for one typed_input and accepts it if the
// word matches, then closes.
func echoRoom(t *testing.T, gotAuth chan<- string) *httptest.Server {
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth <- r.Header.Get("Authorization")
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer ws.Close()
		frames := []string{
			`{"event":"passage","data":{"text":"hi there"}}`,
			`{"event":"bogus","data":1}`,
			`{"event":"phase","data":"game"}`,
		}
		for _, f := range frames {
			if err := ws.WriteMessage(websocket.TextMessage, []byte(f)); err != nil {
				t.Errorf("write: %v", err)
				return
			}
		}
		_, msg, err := ws.ReadMessage()
		if err != nil {
			t.Errorf("read: %v", err)
			return
		}
		accepted := strings.Contains(string(msg), `"word":"hi"`)
		reply := `{"event":"next_word","data":false}`
		if accepted {
			reply = `{"event":"next_word","data":true}`
		}
		_ = ws.WriteMessage(websocket.TextMessage, []byte(reply))
	}))
}

func nextEvent(t *testing.T, c *Conn) room.Event {
	t.Helper()
	select {
	case ev, ok := <-c.Events():
		require.True(t, ok, "events channel closed early")
		return ev
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for event")
		return nil
	}
}

func TestConnRoundTrip(t *testing.T) {
	gotAuth := make(chan string, 1)
	srv := echoRoom(t, gotAuth)
	defer srv.Close()

	url, err := RoomURL(srv.URL, model.Easy)
	require.NoError(t, err)
	c, err := Dial(context.Background(), url, auth.Static{User: "ana", BearerToken: "tok"})
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, "Bearer tok", <-gotAuth)
	assert.Equal(t, room.PassageEvent{Text: "hi there"}, nextEvent(t, c))
	assert.Equal(t, room.PhaseEvent{Phase: room.PhaseActive}, nextEvent(t, c))

	require.NoError(t, c.Send(room.TypedInput{Word: "hi", ElapsedTime: 0.4}))
	assert.Equal(t, room.NextWordEvent{Accepted: true}, nextEvent(t, c))

	_, ok := nextEvent(t, c).(room.DisconnectEvent)
	assert.True(t, ok, "server close surfaces as disconnect")
}

func TestDialFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	url, err := RoomURL(srv.URL, model.Medium)
	require.NoError(t, err)
	_, err = Dial(context.Background(), url, nil)
	assert.Error(t, err)
}
