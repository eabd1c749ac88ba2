package websocket

// Wire event names. These are the protocol the web clients already speak,
// typos included: userJoinedMessageBoradcasted must stay spelled this way.
const (
	// chat
	EventSetup           = "setup"
	EventConnected       = "connected"
	EventJoinChat        = "joinChat"
	EventTyping          = "typing"
	EventStopTyping      = "stopTyping"
	EventNewMessage      = "newMessage"
	EventMessageReceived = "messageReceived"

	// canvas
	EventUserJoined          = "userJoined"
	EventUserIsJoined        = "userIsJoined"
	EventUserJoinedBroadcast = "userJoinedMessageBoradcasted"
	EventAllUsers            = "allUsers"
	EventIsDraw              = "isDraw"
	EventUserLeftBroadcast   = "userLeftMessageBroadcasted"

	// tic-tac-toe
	EventUsersEntered = "usersEntered"
	EventMove         = "move"
	EventWin          = "win"
	EventReMatch      = "reMatch"
	EventRemoveRoom   = "removeRoom"
	EventUserLeave    = "userLeave"

	// EventDraw is overloaded by the protocol: inbound it is a canvas stroke,
	// outbound to a game room it announces a tie.
	EventDraw = "draw"
)
