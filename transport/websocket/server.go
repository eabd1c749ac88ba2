package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/merntchat/realtime-backend/internal/entity"
	"github.com/merntchat/realtime-backend/internal/presence"
	"github.com/merntchat/realtime-backend/internal/rooms"
)

const (
	// pongWait matches the 60s ping timeout of the original transport.
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	writeWait  = 10 * time.Second

	maxMessageSize = 64 * 1024
)

type uGame interface {
	JoinRoom(ctx context.Context, roomID, userID, username string) (*entity.Game, error)
	ApplyMove(ctx context.Context, roomID, userID string, cell int) (*entity.Game, error)
	Rematch(ctx context.Context, roomID string) (*entity.Game, error)
	RemoveRoom(ctx context.Context, roomID string) error
	PlayerRoom(ctx context.Context, userID string) (string, error)
}

type handlerFunc func(ctx context.Context, cl *client, payload json.RawMessage) error

// Server dispatches inbound named events to handlers and routes the outbound
// fan-out through the room router. One goroutine reads each connection; every
// event is handled to completion before the next read.
type Server struct {
	logger   *slog.Logger
	upgrader websocket.Upgrader

	presence *presence.Registry
	rooms    *rooms.Router
	uGame    uGame

	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, registry *presence.Registry, router *rooms.Router, uGame uGame, allowedOrigins []string) *Server {
	server := &Server{
		logger: logger.With("component", "websocket"),

		presence: registry,
		rooms:    router,
		uGame:    uGame,

		handlers: make(map[string]handlerFunc),
	}

	server.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}

	server.handlers[EventSetup] = server.handleSetup
	server.handlers[EventJoinChat] = server.handleJoinChat
	server.handlers[EventTyping] = server.handleTyping
	server.handlers[EventStopTyping] = server.handleStopTyping
	server.handlers[EventNewMessage] = server.handleNewMessage
	server.handlers[EventUserJoined] = server.handleUserJoined
	server.handlers[EventDraw] = server.handleDraw
	server.handlers[EventUsersEntered] = server.handleUsersEntered
	server.handlers[EventMove] = server.handleMove
	server.handlers[EventReMatch] = server.handleRematch
	server.handlers[EventRemoveRoom] = server.handleRemoveRoom

	return server
}

// HandleWS upgrades the HTTP request and services the connection until it
// closes. Handler errors are logged and the loop continues: one bad message
// must not take down every room in the process.
func (that *Server) HandleWS(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "HandleWS")

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	cl := newClient(uuid.NewString(), conn)
	that.rooms.Register(cl)

	log = log.With("connection", cl.id)
	log.Info("connection established")

	ctx, cancel := context.WithCancel(req.Context())
	defer cancel()

	go that.keepAlive(ctx, cl, conn)

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	that.readLoop(ctx, cl, conn)

	that.handleDisconnect(ctx, cl)
	_ = conn.Close()

	log.Info("connection closed")
}

func (that *Server) readLoop(ctx context.Context, cl *client, conn *websocket.Conn) {
	log := that.logger.With("method", "readLoop", "connection", cl.id)

	for {
		_, body, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Error("unexpected close", "error", err)
			}
			return
		}

		var message Message
		if err = json.Unmarshal(body, &message); err != nil {
			log.Error("failed to unmarshal message", "error", err)
			continue
		}

		handler, ok := that.handlers[message.Event]
		if !ok {
			// unknown event names are ignored, as the original transport did
			log.Debug("no handler for event", "event", message.Event)
			continue
		}

		if err = handler(ctx, cl, message.Payload); err != nil {
			log.Error("error processing event", "event", message.Event, "error", err)
		}
	}
}

// keepAlive pings until the connection context ends. WriteControl is safe to
// call concurrently with the client's JSON writes.
func (that *Server) keepAlive(ctx context.Context, cl *client, conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				that.logger.Debug("failed to ping", "connection", cl.id, "error", err)
				return
			}
		}
	}
}

// handleDisconnect is the cleanup boundary for every connection. The
// departure broadcast goes to the participant's own room, read back from the
// presence store, never to a shared last-joined-room variable.
func (that *Server) handleDisconnect(ctx context.Context, cl *client) {
	log := that.logger.With("method", "handleDisconnect", "connection", cl.id)

	cl.state = stateDisconnected

	if removed := that.presence.Remove(cl.id); removed != nil {
		that.rooms.ToRoomExcept(removed.RoomID, cl.id, EventUserLeftBroadcast, removed.Name)
		log.Info("participant left", "name", removed.Name, "roomId", removed.RoomID)
	}

	if cl.userID != "" {
		that.notifyGameRoom(ctx, cl)
	}

	that.rooms.Unregister(cl.id)
}

// notifyGameRoom tells a seated opponent their peer dropped. The seat is kept
// so the player can reconnect; only removeRoom frees it.
func (that *Server) notifyGameRoom(ctx context.Context, cl *client) {
	roomID, err := that.uGame.PlayerRoom(ctx, cl.userID)
	if err != nil {
		// not seated in any game, nothing to announce
		return
	}

	payload := UserLeavePayload{
		UserID: cl.userID,
		RoomID: roomID,
	}
	that.rooms.ToRoomExcept(roomID, cl.id, EventUserLeave, payload)
}

func (that *Server) sendError(cl *client, event, errorMsg string) error {
	if err := cl.Emit(event, ErrorPayload{Error: errorMsg}); err != nil {
		return fmt.Errorf("failed to send error response: %w", err)
	}

	return nil
}

func originChecker(allowed []string) func(*http.Request) bool {
	return func(req *http.Request) bool {
		origin := req.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, candidate := range allowed {
			if origin == candidate {
				return true
			}
		}
		return false
	}
}
