package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/merntchat/realtime-backend/internal/entity"
	"github.com/merntchat/realtime-backend/testing/suite"
)

func TestPlayerRepository_CreateOrUpdate(t *testing.T) {
	ctx, st := suite.New(t)

	playerRepo := NewPlayerRepository(st.Storage)

	// Given: a player seated in a room
	session := &entity.PlayerSession{UserID: "u1", RoomID: "r1"}

	// When: CreateOrUpdate is called
	err := playerRepo.CreateOrUpdate(ctx, session)

	// Then: no error should be returned, and the session is stored
	require.NoError(t, err)

	retrieved, err := playerRepo.GetByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "r1", retrieved.RoomID)
}

func TestPlayerRepository_GetByUserID_NotFound(t *testing.T) {
	ctx, st := suite.New(t)

	playerRepo := NewPlayerRepository(st.Storage)

	// When: GetByUserID is called for an unseated user
	retrieved, err := playerRepo.GetByUserID(ctx, "ghost")

	// Then: an ErrPlayerNotFound error should be returned
	require.Error(t, err)
	assert.Equal(t, ErrPlayerNotFound, err)
	assert.Empty(t, retrieved.UserID)
}

func TestPlayerRepository_DeleteByUserID(t *testing.T) {
	ctx, st := suite.New(t)

	playerRepo := NewPlayerRepository(st.Storage)

	// Given: a stored session
	session := &entity.PlayerSession{UserID: "u1", RoomID: "r1"}
	err := playerRepo.CreateOrUpdate(ctx, session)
	require.NoError(t, err)

	// When: DeleteByUserID is called
	err = playerRepo.DeleteByUserID(ctx, "u1")

	// Then: the session is gone
	require.NoError(t, err)

	_, err = playerRepo.GetByUserID(ctx, "u1")
	require.Error(t, err)
	assert.Equal(t, ErrPlayerNotFound, err)
}
