package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/merntchat/realtime-backend/internal/apperror"
	"github.com/merntchat/realtime-backend/internal/entity"
	"github.com/merntchat/realtime-backend/internal/repository"
)

type playerRepo interface {
	CreateOrUpdate(ctx context.Context, session *entity.PlayerSession) error
	GetByUserID(ctx context.Context, userID string) (*entity.PlayerSession, error)
	DeleteByUserID(ctx context.Context, userID string) error
}

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByRoomID(ctx context.Context, roomID string) (*entity.Game, error)
	DeleteByRoomID(ctx context.Context, roomID string) error
}

// GameManager owns the server-side tic-tac-toe state: seating, turn order and
// terminal checks happen here, the transport only relays the results.
type GameManager struct {
	logger     *slog.Logger
	playerRepo playerRepo
	gameRepo   gameRepo

	// Handlers run on one goroutine per connection; room mutations must not
	// interleave between load and store.
	mu sync.Mutex
}

func NewGameManager(logger *slog.Logger, playerRepo playerRepo, gameRepo gameRepo) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game_manager"),

		playerRepo: playerRepo,
		gameRepo:   gameRepo,
	}
}

// JoinRoom seats the user in the room's game, creating the game on first
// join. Rejoining an occupied seat is a no-op, so reconnects are cheap.
func (that *GameManager) JoinRoom(ctx context.Context, roomID, userID, username string) (*entity.Game, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	game, err := that.gameRepo.GetByRoomID(ctx, roomID)
	if errors.Is(err, repository.ErrGameNotFound) {
		game = entity.NewGame(roomID)
		err = nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game by room id: %w", err)
	}

	if _, err = game.Seat(userID, username); err != nil {
		return nil, fmt.Errorf("failed to seat player: %w", err)
	}

	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	session := &entity.PlayerSession{UserID: userID, RoomID: roomID}
	if err = that.playerRepo.CreateOrUpdate(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update player session: %w", err)
	}

	return game, nil
}

// ApplyMove validates and applies a move. The returned game carries the
// post-move state; the caller inspects Status and Winner for terminal events.
func (that *GameManager) ApplyMove(ctx context.Context, roomID, userID string, cell int) (*entity.Game, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	game, err := that.gameRepo.GetByRoomID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by room id: %w", err)
	}

	if err = game.ConfirmOngoingState(); err != nil {
		return game, err
	}

	player := game.PlayerByID(userID)
	if player == nil {
		return game, fmt.Errorf("%w: user %s in room %s", apperror.ErrNotInGame, userID, roomID)
	}

	if err = game.MakeTurn(player.Mark, cell); err != nil {
		return game, err
	}

	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	return game, nil
}

// Rematch resets the board and keeps both seats. The finished game is not
// deleted on a terminal move precisely so this can work.
func (that *GameManager) Rematch(ctx context.Context, roomID string) (*entity.Game, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	game, err := that.gameRepo.GetByRoomID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by room id: %w", err)
	}

	game.Reset()

	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	return game, nil
}

// RemoveRoom deletes the game and every seated player's session. Removing an
// unknown room is benign.
func (that *GameManager) RemoveRoom(ctx context.Context, roomID string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	game, err := that.gameRepo.GetByRoomID(ctx, roomID)
	if errors.Is(err, repository.ErrGameNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get game by room id: %w", err)
	}

	for _, player := range game.Players {
		if err = that.playerRepo.DeleteByUserID(ctx, player.UserID); err != nil {
			that.logger.Error("failed to delete player session", "userId", player.UserID, "error", err)
		}
	}

	if err = that.gameRepo.DeleteByRoomID(ctx, roomID); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	that.logger.Info("game room removed", "roomId", roomID)

	return nil
}

// PlayerRoom looks up the game room the user is seated in.
func (that *GameManager) PlayerRoom(ctx context.Context, userID string) (string, error) {
	session, err := that.playerRepo.GetByUserID(ctx, userID)
	if errors.Is(err, repository.ErrPlayerNotFound) {
		return "", err
	}
	if err != nil {
		return "", fmt.Errorf("failed to get player session: %w", err)
	}

	return session.RoomID, nil
}
