package rooms

import (
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedEvent struct {
	Event   string
	Payload any
}

type fakeEmitter struct {
	id string

	mu     sync.Mutex
	events []recordedEvent
}

func (that *fakeEmitter) ID() string { return that.id }

func (that *fakeEmitter) Emit(event string, payload any) error {
	that.mu.Lock()
	defer that.mu.Unlock()
	that.events = append(that.events, recordedEvent{Event: event, Payload: payload})
	return nil
}

func (that *fakeEmitter) received() []recordedEvent {
	that.mu.Lock()
	defer that.mu.Unlock()
	return append([]recordedEvent(nil), that.events...)
}

func newTestRouter() *Router {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewRouter(logger)
}

func register(t *testing.T, router *Router, ids ...string) map[string]*fakeEmitter {
	t.Helper()

	conns := make(map[string]*fakeEmitter, len(ids))
	for _, id := range ids {
		conn := &fakeEmitter{id: id}
		router.Register(conn)
		conns[id] = conn
	}
	return conns
}

func TestRouter_Join(t *testing.T) {
	t.Run("Joining twice leaves membership unchanged", func(t *testing.T) {
		// Given: a registered connection
		router := newTestRouter()
		conns := register(t, router, "c1")

		// When: the connection joins the same room twice
		router.Join("c1", "r1")
		router.Join("c1", "r1")

		// Then: the room has a single member and a broadcast hits it once
		require.Len(t, router.Members("r1"), 1)

		router.ToRoom("r1", "ping", nil)
		assert.Len(t, conns["c1"].received(), 1)
	})
}

func TestRouter_ToRoomExcept(t *testing.T) {
	t.Run("Delivers to exactly N-1 members, never the sender", func(t *testing.T) {
		// Given: three members of one room
		router := newTestRouter()
		conns := register(t, router, "c1", "c2", "c3")
		for id := range conns {
			router.Join(id, "r1")
		}

		// When: c1 broadcasts to the room except itself
		router.ToRoomExcept("r1", "c1", "typing", nil)

		// Then: the two others receive it, the sender does not
		assert.Empty(t, conns["c1"].received())
		assert.Len(t, conns["c2"].received(), 1)
		assert.Len(t, conns["c3"].received(), 1)
	})

	t.Run("Room scoping holds", func(t *testing.T) {
		// Given: members of two rooms
		router := newTestRouter()
		conns := register(t, router, "c1", "c2", "c3")
		router.Join("c1", "r1")
		router.Join("c2", "r1")
		router.Join("c3", "r2")

		// When: broadcasting to r1
		router.ToRoomExcept("r1", "c1", "typing", nil)

		// Then: the r2 member hears nothing
		assert.Empty(t, conns["c3"].received())
		assert.Len(t, conns["c2"].received(), 1)
	})
}

func TestRouter_ToAllExcept(t *testing.T) {
	// Given: connections spread over different rooms
	router := newTestRouter()
	conns := register(t, router, "c1", "c2", "c3")
	router.Join("c1", "r1")
	router.Join("c2", "r2")

	// When: c1 emits a global event (the canvas case)
	router.ToAllExcept("c1", "isDraw", "stroke")

	// Then: everyone but the sender receives it, rooms notwithstanding
	assert.Empty(t, conns["c1"].received())
	assert.Len(t, conns["c2"].received(), 1)
	assert.Len(t, conns["c3"].received(), 1)
}

func TestRouter_Unregister(t *testing.T) {
	// Given: a connection in two rooms
	router := newTestRouter()
	conns := register(t, router, "c1", "c2")
	router.Join("c1", "r1")
	router.Join("c1", "r2")
	router.Join("c2", "r1")

	// When: the connection unregisters
	router.Unregister("c1")

	// Then: it is gone from every room and unaddressable
	assert.Empty(t, router.Members("r2"))
	require.Len(t, router.Members("r1"), 1)

	router.ToConn("c1", "ping", nil)
	assert.Empty(t, conns["c1"].received())
}

func TestRouter_ToConn(t *testing.T) {
	// Given: two registered connections
	router := newTestRouter()
	conns := register(t, router, "c1", "c2")

	// When: addressing one directly
	router.ToConn("c2", "connected", nil)

	// Then: only that connection receives the event
	assert.Empty(t, conns["c1"].received())
	require.Len(t, conns["c2"].received(), 1)
	assert.Equal(t, "connected", conns["c2"].received()[0].Event)
}
