package entity

// GamePlayer is one seat in a tic-tac-toe room.
type GamePlayer struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Mark     string `json:"mark,omitempty"`
}

// PlayerSession maps a user to the game room they are seated in. It lets the
// disconnect handler find the player's game without any global room variable.
type PlayerSession struct {
	UserID string `json:"userId"`
	RoomID string `json:"roomId"`
}
