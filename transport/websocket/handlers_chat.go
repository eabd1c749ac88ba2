package websocket

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/merntchat/realtime-backend/internal/apperror"
)

// handleSetup subscribes the connection to a private channel keyed by the
// user's ID, so direct deliveries (messageReceived) can address the user.
func (that *Server) handleSetup(_ context.Context, cl *client, payload json.RawMessage) error {
	log := that.logger.With("method", "handleSetup", "connection", cl.id)

	var payloadReq SetupPayload
	if err := json.Unmarshal(payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payloadReq.ID == "" {
		log.Error("user id is missing in payload")
		return nil
	}

	cl.userID = payloadReq.ID
	cl.state = stateRegistered
	that.rooms.Join(cl.id, payloadReq.ID)

	if err := cl.Emit(EventConnected, nil); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	log.Info("user set up", "userId", payloadReq.ID)

	return nil
}

func (that *Server) handleJoinChat(_ context.Context, cl *client, payload json.RawMessage) error {
	log := that.logger.With("method", "handleJoinChat", "connection", cl.id)

	var payloadReq ChatPayload
	if err := json.Unmarshal(payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payloadReq.ID == "" {
		log.Error("chat id is missing in payload")
		return nil
	}

	if cl.state == stateUnregistered {
		log.Warn("joinChat before setup", "chatId", payloadReq.ID)
	}

	cl.state = stateInRoom
	that.rooms.Join(cl.id, payloadReq.ID)

	log.Info("user joined chat", "chatId", payloadReq.ID)

	return nil
}

func (that *Server) handleTyping(_ context.Context, cl *client, payload json.RawMessage) error {
	return that.relayToChat(cl, EventTyping, payload)
}

func (that *Server) handleStopTyping(_ context.Context, cl *client, payload json.RawMessage) error {
	return that.relayToChat(cl, EventStopTyping, payload)
}

// relayToChat forwards a stateless chat event to the room except the sender.
func (that *Server) relayToChat(cl *client, event string, payload json.RawMessage) error {
	var payloadReq ChatPayload
	if err := json.Unmarshal(payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payloadReq.ID == "" {
		return nil
	}

	that.rooms.ToRoomExcept(payloadReq.ID, cl.id, event, nil)

	return nil
}

// handleNewMessage fans the message out to each chat member's private
// channel except the sender. Persistence belongs to the REST collaborator; a
// message without chat.users is logged and dropped without notifying anyone.
func (that *Server) handleNewMessage(_ context.Context, cl *client, payload json.RawMessage) error {
	log := that.logger.With("method", "handleNewMessage", "connection", cl.id)

	var payloadReq MessagePayload
	if err := json.Unmarshal(payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payloadReq.Chat == nil || payloadReq.Chat.Users == nil {
		log.Error("dropping message", "error", apperror.ErrChatUsersMissing)
		return nil
	}

	if payloadReq.Sender == nil {
		log.Error("dropping message: sender is missing in payload")
		return nil
	}

	for _, user := range payloadReq.Chat.Users {
		if user.ID == payloadReq.Sender.ID {
			continue
		}
		// relay the original payload verbatim to the member's private channel
		that.rooms.ToRoomExcept(user.ID, cl.id, EventMessageReceived, payload)
	}

	return nil
}
