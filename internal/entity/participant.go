package entity

// Participant is one live connection's membership in a room.
//
// ConnectionID is the sole unique key: the same user may reconnect with a new
// connection and both records can coexist briefly.
type Participant struct {
	ConnectionID string `json:"socketId"`
	Name         string `json:"name"`
	UserID       string `json:"userId"`
	RoomID       string `json:"roomId"`
	Host         bool   `json:"host"`
	Presenter    bool   `json:"presenter"`
}
