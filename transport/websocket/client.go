package websocket

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// wsConn is the slice of *websocket.Conn the client needs; tests substitute
// a recording fake.
type wsConn interface {
	WriteJSON(v any) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// connection lifecycle states.
const (
	stateUnregistered = iota
	stateRegistered
	stateInRoom
	stateDisconnected
)

// client is one live connection. Writes are serialized by mu, so emits from
// different handlers stay FIFO per destination.
type client struct {
	id     string
	userID string
	state  int
	conn   wsConn

	mu sync.Mutex
}

func newClient(id string, conn wsConn) *client {
	return &client{
		id:    id,
		conn:  conn,
		state: stateUnregistered,
	}
}

func (that *client) ID() string {
	return that.id
}

// Emit writes one named event. Fire-and-forget: the caller logs failures and
// moves on, there is no retry.
func (that *client) Emit(event string, payload any) error {
	var raw json.RawMessage
	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		raw = body
	}

	message := Message{
		Event:   event,
		Payload: raw,
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err := that.conn.WriteJSON(message); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}
