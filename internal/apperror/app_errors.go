package apperror

import "errors"

var (
	ErrGameFinished     = errors.New("game is already finished")
	ErrGameIsNotStarted = errors.New("game is not started")
	ErrNotYourTurn      = errors.New("it's not your turn")
	ErrCellOccupied     = errors.New("cell is already occupied")
	ErrRoomFull         = errors.New("room already has two players")
	ErrNotInGame        = errors.New("player is not in this game")
	ErrChatUsersMissing = errors.New("chat users not defined")
)
