package presence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/merntchat/realtime-backend/internal/entity"
)

func TestRegistry_Add(t *testing.T) {
	t.Run("Add returns the room roster in join order", func(t *testing.T) {
		// Given: an empty registry
		registry := NewRegistry()

		// When: two participants join the same room
		first := registry.Add(&entity.Participant{ConnectionID: "c1", Name: "Alice", RoomID: "r1"})
		second := registry.Add(&entity.Participant{ConnectionID: "c2", Name: "Bob", RoomID: "r1"})

		// Then: each Add reports the roster so far, ordered by join
		require.Len(t, first, 1)
		require.Len(t, second, 2)
		assert.Equal(t, "Alice", second[0].Name)
		assert.Equal(t, "Bob", second[1].Name)
	})

	t.Run("Roster is scoped to the participant's room", func(t *testing.T) {
		// Given: participants in two different rooms
		registry := NewRegistry()
		registry.Add(&entity.Participant{ConnectionID: "c1", Name: "Alice", RoomID: "r1"})

		// When: someone joins another room
		roster := registry.Add(&entity.Participant{ConnectionID: "c2", Name: "Bob", RoomID: "r2"})

		// Then: the roster only contains that room's members
		require.Len(t, roster, 1)
		assert.Equal(t, "Bob", roster[0].Name)
	})

	t.Run("Re-adding a connection never duplicates it", func(t *testing.T) {
		// Given: a registered participant
		registry := NewRegistry()
		registry.Add(&entity.Participant{ConnectionID: "c1", Name: "Alice", RoomID: "r1"})

		// When: the same connection registers again with new metadata
		roster := registry.Add(&entity.Participant{ConnectionID: "c1", Name: "Alice", RoomID: "r1", Presenter: true})

		// Then: the store still holds exactly one entry for the connection
		require.Len(t, roster, 1)
		assert.True(t, roster[0].Presenter)
		assert.Len(t, registry.ListByRoom("r1"), 1)
	})
}

func TestRegistry_Remove(t *testing.T) {
	t.Run("Remove returns the departed participant", func(t *testing.T) {
		// Given: a registered participant
		registry := NewRegistry()
		registry.Add(&entity.Participant{ConnectionID: "c1", Name: "Alice", RoomID: "r1"})

		// When: the connection is removed
		removed := registry.Remove("c1")

		// Then: the record comes back and the store no longer holds it
		require.NotNil(t, removed)
		assert.Equal(t, "Alice", removed.Name)
		assert.Nil(t, registry.Get("c1"))
		assert.Empty(t, registry.ListByRoom("r1"))
	})

	t.Run("Removing an unknown connection is a no-op", func(t *testing.T) {
		// Given: a registry with one participant
		registry := NewRegistry()
		registry.Add(&entity.Participant{ConnectionID: "c1", Name: "Alice", RoomID: "r1"})

		// When: an id that was never added is removed
		removed := registry.Remove("ghost")

		// Then: nil comes back and the contents are unchanged
		assert.Nil(t, removed)
		assert.Len(t, registry.ListByRoom("r1"), 1)
	})
}

func TestRegistry_Get(t *testing.T) {
	// Given: a registered participant
	registry := NewRegistry()
	registry.Add(&entity.Participant{ConnectionID: "c1", Name: "Alice", UserID: "u1", RoomID: "r1"})

	// When: looking the connection up
	participant := registry.Get("c1")

	// Then: the full record is returned
	require.NotNil(t, participant)
	assert.Equal(t, "u1", participant.UserID)
}
