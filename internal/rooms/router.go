// Package rooms maps logical room IDs to sets of connections and fans events
// out to them. Delivery is fire-and-forget: a failed write is logged and
// skipped, never retried.
package rooms

import (
	"log/slog"
	"sync"
)

// Emitter is one connection's outbound side.
type Emitter interface {
	ID() string
	Emit(event string, payload any) error
}

type Router struct {
	logger *slog.Logger

	mu    sync.RWMutex
	conns map[string]Emitter
	rooms map[string]map[string]struct{} // roomID -> set of connection IDs
}

func NewRouter(logger *slog.Logger) *Router {
	return &Router{
		logger: logger.With("component", "rooms"),
		conns:  make(map[string]Emitter),
		rooms:  make(map[string]map[string]struct{}),
	}
}

// Register makes the connection addressable for emits and room joins.
func (that *Router) Register(conn Emitter) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.conns[conn.ID()] = conn
}

// Unregister drops the connection and its membership in every room.
func (that *Router) Unregister(connID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.conns, connID)
	for roomID, members := range that.rooms {
		delete(members, connID)
		if len(members) == 0 {
			delete(that.rooms, roomID)
		}
	}
}

// Join subscribes the connection to the room. Joining twice is a no-op.
func (that *Router) Join(connID, roomID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	members, ok := that.rooms[roomID]
	if !ok {
		members = make(map[string]struct{})
		that.rooms[roomID] = members
	}
	members[connID] = struct{}{}
}

func (that *Router) Leave(connID, roomID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	members, ok := that.rooms[roomID]
	if !ok {
		return
	}
	delete(members, connID)
	if len(members) == 0 {
		delete(that.rooms, roomID)
	}
}

// Members returns the connection IDs currently subscribed to the room.
func (that *Router) Members(roomID string) []string {
	that.mu.RLock()
	defer that.mu.RUnlock()

	ids := make([]string, 0, len(that.rooms[roomID]))
	for id := range that.rooms[roomID] {
		ids = append(ids, id)
	}

	return ids
}

// ToConn delivers to a single connection.
func (that *Router) ToConn(connID, event string, payload any) {
	that.mu.RLock()
	conn, ok := that.conns[connID]
	that.mu.RUnlock()

	if !ok {
		return
	}

	that.deliver(conn, event, payload)
}

// ToRoom delivers to every current member of the room.
func (that *Router) ToRoom(roomID, event string, payload any) {
	that.emitTo(that.collect(roomID, ""), event, payload)
}

// ToRoomExcept delivers to every room member except the sender.
func (that *Router) ToRoomExcept(roomID, senderID, event string, payload any) {
	that.emitTo(that.collect(roomID, senderID), event, payload)
}

// ToAllExcept delivers to every registered connection except the sender.
// Used only by the drawing canvas, which is global rather than room-scoped.
func (that *Router) ToAllExcept(senderID, event string, payload any) {
	that.mu.RLock()
	targets := make([]Emitter, 0, len(that.conns))
	for id, conn := range that.conns {
		if id == senderID {
			continue
		}
		targets = append(targets, conn)
	}
	that.mu.RUnlock()

	that.emitTo(targets, event, payload)
}

// collect snapshots the destination handles under the read lock so writes
// happen outside it.
func (that *Router) collect(roomID, exceptID string) []Emitter {
	that.mu.RLock()
	defer that.mu.RUnlock()

	members := that.rooms[roomID]
	targets := make([]Emitter, 0, len(members))
	for id := range members {
		if id == exceptID {
			continue
		}
		if conn, ok := that.conns[id]; ok {
			targets = append(targets, conn)
		}
	}

	return targets
}

func (that *Router) emitTo(targets []Emitter, event string, payload any) {
	for _, conn := range targets {
		that.deliver(conn, event, payload)
	}
}

func (that *Router) deliver(conn Emitter, event string, payload any) {
	if err := conn.Emit(event, payload); err != nil {
		that.logger.Error("failed to deliver event", "event", event, "connection", conn.ID(), "error", err)
	}
}
