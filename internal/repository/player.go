package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/merntchat/realtime-backend/internal/entity"
)

var ErrPlayerNotFound = errors.New("player not found")

// PlayerRepository remembers which game room a user is seated in.
type PlayerRepository interface {
	CreateOrUpdate(ctx context.Context, session *entity.PlayerSession) error
	GetByUserID(ctx context.Context, userID string) (*entity.PlayerSession, error)
	DeleteByUserID(ctx context.Context, userID string) error
}

type dbPlayer struct {
	client *redis.Client
}

func NewPlayerRepository(client *redis.Client) PlayerRepository {
	return &dbPlayer{
		client: client,
	}
}

func (that *dbPlayer) CreateOrUpdate(ctx context.Context, session *entity.PlayerSession) error {
	sessionJSON, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal player session: %w", err)
	}

	playerKey := "player:" + session.UserID
	if err = that.client.Set(ctx, playerKey, sessionJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to set player session: %w", err)
	}

	return nil
}

func (that *dbPlayer) GetByUserID(ctx context.Context, userID string) (*entity.PlayerSession, error) {
	playerKey := "player:" + userID

	response, err := that.client.Get(ctx, playerKey).Result()

	if errors.Is(err, redis.Nil) {
		return &entity.PlayerSession{}, ErrPlayerNotFound
	}

	if err != nil {
		return &entity.PlayerSession{}, fmt.Errorf("failed to get player session by user ID: %w", err)
	}

	var existingSession entity.PlayerSession
	if err = json.Unmarshal([]byte(response), &existingSession); err != nil {
		return &entity.PlayerSession{}, fmt.Errorf("failed to unmarshal player session: %w", err)
	}

	return &existingSession, nil
}

func (that *dbPlayer) DeleteByUserID(ctx context.Context, userID string) error {
	playerKey := "player:" + userID

	if err := that.client.Del(ctx, playerKey).Err(); err != nil {
		return fmt.Errorf("failed to delete player session by user ID: %w", err)
	}

	return nil
}
