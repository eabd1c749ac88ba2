// Package presence holds the in-memory registry of who is connected and to
// which room. It is the only authority on participant metadata; the room
// router works with connection IDs alone.
package presence

import (
	"sync"

	"github.com/merntchat/realtime-backend/internal/entity"
)

type Registry struct {
	mu     sync.RWMutex
	byConn map[string]*entity.Participant
	order  []string // connection IDs in join order, for stable rosters
}

func NewRegistry() *Registry {
	return &Registry{
		byConn: make(map[string]*entity.Participant),
	}
}

// Add registers the participant and returns the ordered roster of their room.
// A second Add with the same connection ID replaces the record in place, so
// the registry never holds two entries for one connection.
func (that *Registry) Add(participant *entity.Participant) []*entity.Participant {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.byConn[participant.ConnectionID]; !ok {
		that.order = append(that.order, participant.ConnectionID)
	}
	that.byConn[participant.ConnectionID] = participant

	return that.listByRoomLocked(participant.RoomID)
}

// Remove deletes the participant and returns the removed record, or nil if
// the connection was never registered. Disconnects can race incomplete joins,
// so an unknown ID is expected and benign.
func (that *Registry) Remove(connID string) *entity.Participant {
	that.mu.Lock()
	defer that.mu.Unlock()

	participant, ok := that.byConn[connID]
	if !ok {
		return nil
	}

	delete(that.byConn, connID)
	for i, id := range that.order {
		if id == connID {
			that.order = append(that.order[:i], that.order[i+1:]...)
			break
		}
	}

	return participant
}

func (that *Registry) Get(connID string) *entity.Participant {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return that.byConn[connID]
}

// ListByRoom returns the room's participants in join order. Rooms are
// implicit: membership is derived by filtering on roomId.
func (that *Registry) ListByRoom(roomID string) []*entity.Participant {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return that.listByRoomLocked(roomID)
}

func (that *Registry) listByRoomLocked(roomID string) []*entity.Participant {
	roster := make([]*entity.Participant, 0)
	for _, id := range that.order {
		if participant := that.byConn[id]; participant.RoomID == roomID {
			roster = append(roster, participant)
		}
	}

	return roster
}
