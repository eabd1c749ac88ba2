package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/merntchat/realtime-backend/internal/apperror"
	"github.com/merntchat/realtime-backend/internal/entity"
)

// handleUsersEntered seats the user in the room's game. Once both seats are
// filled the whole room gets the pairing details.
func (that *Server) handleUsersEntered(ctx context.Context, cl *client, payload json.RawMessage) error {
	log := that.logger.With("method", "handleUsersEntered", "connection", cl.id)

	var payloadReq UsersEnteredPayload
	if err := json.Unmarshal(payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payloadReq.RoomID == "" || payloadReq.UserID == "" {
		log.Error("room id or user id is missing in payload")
		return nil
	}

	username := payloadReq.Username
	if username == "" {
		username = payloadReq.UserID
	}

	cl.userID = payloadReq.UserID
	cl.state = stateInRoom
	that.rooms.Join(cl.id, payloadReq.RoomID)

	that.presence.Add(&entity.Participant{
		ConnectionID: cl.id,
		Name:         username,
		UserID:       payloadReq.UserID,
		RoomID:       payloadReq.RoomID,
	})

	game, err := that.uGame.JoinRoom(ctx, payloadReq.RoomID, payloadReq.UserID, username)
	if errors.Is(err, apperror.ErrRoomFull) {
		return that.sendError(cl, EventUsersEntered, "room is full")
	}
	if err != nil {
		log.Error("failed to join game room", "roomId", payloadReq.RoomID, "error", err)
		return that.sendError(cl, EventUsersEntered, "failed to join room")
	}

	log = log.With("roomId", game.RoomID)

	if game.IsFull() {
		details := TicGameDetails{
			RoomID: game.RoomID,
			User1:  TicUser{UserID: game.Players[0].UserID, Username: game.Players[0].Username},
			User2:  TicUser{UserID: game.Players[1].UserID, Username: game.Players[1].Username},
		}
		that.rooms.ToRoom(game.RoomID, EventUsersEntered, details)
	}

	log.Info("player entered game room", "userId", payloadReq.UserID)

	return nil
}

// handleMove applies the move to the server-side board and relays it to the
// room. Terminal states are decided here, not on the clients: a win carries
// the pattern and the winner, a full board without a winner announces a tie.
func (that *Server) handleMove(ctx context.Context, cl *client, payload json.RawMessage) error {
	log := that.logger.With("method", "handleMove", "connection", cl.id)

	var payloadReq MovePayload
	if err := json.Unmarshal(payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payloadReq.RoomID == "" || payloadReq.UserID == "" {
		log.Error("room id or user id is missing in payload")
		return nil
	}

	game, err := that.uGame.ApplyMove(ctx, payloadReq.RoomID, payloadReq.UserID, payloadReq.Move)

	switch {
	case errors.Is(err, apperror.ErrCellOccupied),
		errors.Is(err, apperror.ErrNotYourTurn),
		errors.Is(err, apperror.ErrGameIsNotStarted),
		errors.Is(err, apperror.ErrGameFinished),
		errors.Is(err, entity.ErrInvalidCell),
		errors.Is(err, apperror.ErrNotInGame):
		return that.sendError(cl, EventMove, err.Error())
	case err != nil:
		log.Error("failed to apply move", "roomId", payloadReq.RoomID, "error", err)
		return that.sendError(cl, EventMove, "failed to apply move")
	}

	log = log.With("roomId", game.RoomID)

	that.rooms.ToRoom(game.RoomID, EventMove, MovePayload{
		Move:   payloadReq.Move,
		RoomID: game.RoomID,
		UserID: payloadReq.UserID,
	})

	if !game.IsFinished() {
		return nil
	}

	if game.Winner == entity.PlayerTie {
		that.rooms.ToRoom(game.RoomID, EventDraw, nil)
		log.Info("game ended in a tie")
		return nil
	}

	winner := game.PlayerByMark(game.Winner)
	pattern, ok := game.WinningLine()
	if winner == nil || !ok {
		log.Error("finished game has no winning line", "winner", game.Winner)
		return nil
	}

	that.rooms.ToRoom(game.RoomID, EventWin, WinPayload{
		Pattern:  pattern,
		UserID:   winner.UserID,
		Username: winner.Username,
	})

	log.Info("game won", "userId", winner.UserID)

	return nil
}

func (that *Server) handleRematch(ctx context.Context, cl *client, payload json.RawMessage) error {
	log := that.logger.With("method", "handleRematch", "connection", cl.id)

	var payloadReq RoomPayload
	if err := json.Unmarshal(payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payloadReq.RoomID == "" {
		log.Error("room id is missing in payload")
		return nil
	}

	if _, err := that.uGame.Rematch(ctx, payloadReq.RoomID); err != nil {
		log.Error("failed to reset game", "roomId", payloadReq.RoomID, "error", err)
		return that.sendError(cl, EventReMatch, "failed to reset game")
	}

	that.rooms.ToRoom(payloadReq.RoomID, EventReMatch, nil)

	log.Info("rematch started", "roomId", payloadReq.RoomID)

	return nil
}

func (that *Server) handleRemoveRoom(ctx context.Context, cl *client, payload json.RawMessage) error {
	log := that.logger.With("method", "handleRemoveRoom", "connection", cl.id)

	var payloadReq RoomPayload
	if err := json.Unmarshal(payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payloadReq.RoomID == "" {
		log.Error("room id is missing in payload")
		return nil
	}

	if err := that.uGame.RemoveRoom(ctx, payloadReq.RoomID); err != nil {
		log.Error("failed to remove game room", "roomId", payloadReq.RoomID, "error", err)
		return that.sendError(cl, EventRemoveRoom, "failed to remove room")
	}

	// the room's participants go with it
	for _, participant := range that.presence.ListByRoom(payloadReq.RoomID) {
		that.presence.Remove(participant.ConnectionID)
	}

	that.rooms.ToRoom(payloadReq.RoomID, EventRemoveRoom, nil)

	log.Info("game room removed", "roomId", payloadReq.RoomID)

	return nil
}
