package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/merntchat/realtime-backend/internal/entity"
	"github.com/merntchat/realtime-backend/testing/suite"
)

func TestGameRepository_CreateOrUpdate(t *testing.T) {
	ctx, st := suite.New(t)

	gameRepo := NewGameRepository(st.Storage)

	// Given: a waiting game for a room
	game := entity.NewGame("r1")

	// When: CreateOrUpdate is called
	err := gameRepo.CreateOrUpdate(ctx, game)

	// Then: no error should be returned, and game is stored
	require.NoError(t, err)
}

func TestGameRepository_GetByRoomID(t *testing.T) {
	t.Run("GetByRoomID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage)

		// Given: a stored game with one seated player
		game := entity.NewGame("r1")
		_, err := game.Seat("u1", "Alice")
		require.NoError(t, err)

		err = gameRepo.CreateOrUpdate(ctx, game)
		require.NoError(t, err)

		// When: GetByRoomID is called with the existing room
		retrievedGame, err := gameRepo.GetByRoomID(ctx, game.RoomID)

		// Then: the retrieved game should match the saved game
		require.NoError(t, err)
		require.Equal(t, game.RoomID, retrievedGame.RoomID)
		require.Equal(t, game.Status, retrievedGame.Status)
		require.Len(t, retrievedGame.Players, 1)
		assert.Equal(t, "Alice", retrievedGame.Players[0].Username)
	})

	t.Run("GetByRoomID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage)

		// When: GetByRoomID is called with a non-existent room
		retrievedGame, err := gameRepo.GetByRoomID(ctx, "nowhere")

		// Then: an ErrGameNotFound error should be returned
		require.Error(t, err)
		assert.Equal(t, ErrGameNotFound, err)
		assert.Empty(t, retrievedGame.RoomID)
	})
}

func TestGameRepository_DeleteByRoomID(t *testing.T) {
	ctx, st := suite.New(t)

	gameRepo := NewGameRepository(st.Storage)

	// Given: a stored game
	game := entity.NewGame("r1")
	err := gameRepo.CreateOrUpdate(ctx, game)
	require.NoError(t, err)

	// When: DeleteByRoomID is called
	err = gameRepo.DeleteByRoomID(ctx, game.RoomID)

	// Then: the game is gone
	require.NoError(t, err)

	_, err = gameRepo.GetByRoomID(ctx, game.RoomID)
	require.Error(t, err)
	assert.Equal(t, ErrGameNotFound, err)
}
