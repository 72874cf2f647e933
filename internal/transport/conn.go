package transport

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/verte-zerg/tuirace/internal/auth"
	"github.com/verte-zerg/tuirace/internal/model"
	"github.com/verte-zerg/tuirace/internal/room"
)

const eventBuffer = 32

// Conn is a live connection to one room.
type Conn struct {
	ws     *websocket.Conn
	events chan room.Event
	done   chan struct{}

	writeMu   sync.Mutex
	closeOnce sync.Once
}

// RoomURL builds the websocket URL of a difficulty's room on the server.
func RoomURL(server string, difficulty model.Difficulty) (string, error) {
	u, err := url.Parse(strings.TrimSpace(server))
	if err != nil {
		return "", fmt.Errorf("invalid server url: %w", err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported server url scheme %q", u.Scheme)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + string(difficulty)
	return u.String(), nil
}

// Dial connects to a room and starts reading its events.
func Dial(ctx context.Context, rawURL string, session auth.Session) (*Conn, error) {
	ws, _, err := websocket.DefaultDialer.DialContext(ctx, rawURL, auth.Header(session))
	if err != nil {
		return nil, fmt.Errorf("failed to dial room: %w", err)
	}
	c := &Conn{
		ws:     ws,
		events: make(chan room.Event, eventBuffer),
		done:   make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

// Events delivers inbound events in arrival order. The last event is always
// a DisconnectEvent, after which the channel is closed.
func (c *Conn) Events() <-chan room.Event {
	return c.events
}

// Send emits a typed_input command.
func (c *Conn) Send(in room.TypedInput) error {
	frame, err := EncodeTypedInput(in)
	if err != nil {
		return fmt.Errorf("failed to encode typed input: %w", err)
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.ws.WriteMessage(websocket.TextMessage, frame); err != nil {
		return fmt.Errorf("failed to send typed input: %w", err)
	}
	return nil
}

// Close tears the connection down. Pending events are discarded.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		c.writeMu.Lock()
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		if werr := c.ws.WriteMessage(websocket.CloseMessage, msg); werr != nil {
			// Best-effort close handshake.
			_ = werr
		}
		c.writeMu.Unlock()
		err = c.ws.Close()
	})
	return err
}

func (c *Conn) readLoop() {
	defer close(c.events)
	for {
		_, frame, err := c.ws.ReadMessage()
		if err != nil {
			c.emit(room.DisconnectEvent{Err: err})
			return
		}
		ev, err := Decode(frame)
		if err != nil {
			log.Printf("transport: dropping frame: %v", err)
			continue
		}
		if !c.emit(ev) {
			return
		}
	}
}

func (c *Conn) emit(ev room.Event) bool {
	select {
	case c.events <- ev:
		return true
	case <-c.done:
		return false
	}
}
