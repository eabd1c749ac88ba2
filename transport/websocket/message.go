package websocket

import (
	"encoding/json"

	"github.com/merntchat/realtime-backend/internal/entity"
)

// Message is the wire envelope: a named event with a JSON payload.
type Message struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// UserRef mirrors the user documents the chat clients send; only the fields
// the router needs are decoded.
type UserRef struct {
	ID   string `json:"_id"`
	Name string `json:"name,omitempty"`
}

type ChatRef struct {
	ID    string    `json:"_id"`
	Users []UserRef `json:"users"`
}

// SetupPayload carries the logged-in user on the setup event.
type SetupPayload struct {
	ID string `json:"_id"`
}

// ChatPayload carries the chat room on joinChat/typing/stopTyping.
type ChatPayload struct {
	ID string `json:"_id"`
}

// MessagePayload validates the shape of newMessage; the original raw bytes
// are relayed verbatim to each recipient.
type MessagePayload struct {
	Sender *UserRef `json:"sender"`
	Chat   *ChatRef `json:"chat"`
}

// JoinRoomPayload is the userJoined event for the canvas.
type JoinRoomPayload struct {
	Name      string `json:"name"`
	UserID    string `json:"userId"`
	RoomID    string `json:"roomId"`
	Host      bool   `json:"host"`
	Presenter bool   `json:"presenter"`
}

type UserIsJoinedPayload struct {
	Success bool                  `json:"success"`
	Users   []*entity.Participant `json:"users"`
}

// UsersEnteredPayload seats a user in a tic-tac-toe room.
type UsersEnteredPayload struct {
	RoomID   string `json:"roomId"`
	UserID   string `json:"userId"`
	Username string `json:"username,omitempty"`
}

type TicUser struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

// TicGameDetails is broadcast once both seats of a game room are filled.
type TicGameDetails struct {
	RoomID string  `json:"roomId"`
	User1  TicUser `json:"user1"`
	User2  TicUser `json:"user2"`
}

type MovePayload struct {
	Move   int    `json:"move"`
	RoomID string `json:"roomId"`
	UserID string `json:"userId"`
}

type RoomPayload struct {
	RoomID string `json:"roomId"`
}

// WinPayload announces the winner and the three cells that decided the game.
type WinPayload struct {
	Pattern  [3]int `json:"pattern"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

type UserLeavePayload struct {
	UserID string `json:"userId"`
	RoomID string `json:"roomId"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}
