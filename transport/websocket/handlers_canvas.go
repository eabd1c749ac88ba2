package websocket

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/merntchat/realtime-backend/internal/entity"
)

// handleUserJoined registers the participant in the presence store and
// subscribes the connection to the canvas room. The sender gets the full
// roster; the rest of the room learns the name and the updated roster.
func (that *Server) handleUserJoined(_ context.Context, cl *client, payload json.RawMessage) error {
	log := that.logger.With("method", "handleUserJoined", "connection", cl.id)

	var payloadReq JoinRoomPayload
	if err := json.Unmarshal(payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payloadReq.RoomID == "" {
		log.Error("room id is missing in payload")
		return nil
	}

	cl.userID = payloadReq.UserID
	cl.state = stateInRoom
	that.rooms.Join(cl.id, payloadReq.RoomID)

	users := that.presence.Add(&entity.Participant{
		ConnectionID: cl.id,
		Name:         payloadReq.Name,
		UserID:       payloadReq.UserID,
		RoomID:       payloadReq.RoomID,
		Host:         payloadReq.Host,
		Presenter:    payloadReq.Presenter,
	})

	if err := cl.Emit(EventUserIsJoined, UserIsJoinedPayload{Success: true, Users: users}); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	that.rooms.ToRoomExcept(payloadReq.RoomID, cl.id, EventUserJoinedBroadcast, payloadReq.Name)
	that.rooms.ToRoomExcept(payloadReq.RoomID, cl.id, EventAllUsers, users)

	log.Info("participant joined", "name", payloadReq.Name, "roomId", payloadReq.RoomID)

	return nil
}

// handleDraw relays a stroke to every other connection. The canvas is global
// rather than room-scoped; see the router note on ToAllExcept.
func (that *Server) handleDraw(_ context.Context, cl *client, payload json.RawMessage) error {
	that.rooms.ToAllExcept(cl.id, EventIsDraw, payload)

	return nil
}
