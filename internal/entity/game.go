package entity

import (
	"errors"
	"fmt"

	"github.com/merntchat/realtime-backend/internal/apperror"
)

var (
	ErrInvalidCell       = errors.New("invalid cell index")
	ErrUnknownGameStatus = errors.New("unknown game status")
)

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"
	StatusWaiting  = "waiting"

	PlayerX   = "X"
	PlayerO   = "O"
	PlayerTie = "-"

	EmptyCell = ""
)

var WinCombos = [][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Game is the authoritative state of one tic-tac-toe room.
type Game struct {
	RoomID  string        `json:"roomId"`
	Board   [9]string     `json:"board"`
	Winner  string        `json:"winner,omitempty"`
	Status  string        `json:"status"`
	Turn    string        `json:"player_turn"`
	Players []*GamePlayer `json:"players,omitempty"`
}

func NewGame(roomID string) *Game {
	return &Game{
		RoomID: roomID,
		Board:  [9]string{EmptyCell, EmptyCell, EmptyCell, EmptyCell, EmptyCell, EmptyCell, EmptyCell, EmptyCell, EmptyCell},
		Turn:   PlayerX,
		Status: StatusWaiting,
	}
}

// Seat places a user in the room. The first player gets X, the second O and
// starts the game. Seating an already-seated user returns the existing seat.
func (that *Game) Seat(userID, username string) (*GamePlayer, error) {
	if player := that.PlayerByID(userID); player != nil {
		return player, nil
	}

	if len(that.Players) >= 2 {
		return nil, fmt.Errorf("%w: room %s", apperror.ErrRoomFull, that.RoomID)
	}

	mark := PlayerX
	if len(that.Players) == 1 {
		mark = PlayerO
	}

	player := &GamePlayer{
		UserID:   userID,
		Username: username,
		Mark:     mark,
	}
	that.Players = append(that.Players, player)

	if that.IsFull() {
		that.Status = StatusOngoing
	}

	return player, nil
}

func (that *Game) PlayerByID(userID string) *GamePlayer {
	for _, player := range that.Players {
		if player.UserID == userID {
			return player
		}
	}
	return nil
}

func (that *Game) PlayerByMark(mark string) *GamePlayer {
	for _, player := range that.Players {
		if player.Mark == mark {
			return player
		}
	}
	return nil
}

func (that *Game) IsFull() bool {
	return len(that.Players) == 2
}

// DetermineGameResult returns the winning mark, PlayerTie on a full board with
// no winner, or EmptyCell while the game continues.
func (that *Game) DetermineGameResult() string {
	for _, combo := range WinCombos {
		a, b, c := that.Board[combo[0]], that.Board[combo[1]], that.Board[combo[2]]
		if a != EmptyCell && a == b && b == c {
			return a
		}
	}

	for _, cell := range that.Board {
		if cell == EmptyCell {
			return EmptyCell
		}
	}

	return PlayerTie
}

// WinningLine returns the three cell indices that decided the game.
func (that *Game) WinningLine() ([3]int, bool) {
	for _, combo := range WinCombos {
		a, b, c := that.Board[combo[0]], that.Board[combo[1]], that.Board[combo[2]]
		if a != EmptyCell && a == b && b == c {
			return combo, true
		}
	}
	return [3]int{}, false
}

func (that *Game) UpdateGameState() {
	switch winner := that.DetermineGameResult(); winner {
	case PlayerX, PlayerO:
		that.Winner = winner
		that.Status = StatusFinished
		that.Turn = ""
	case PlayerTie:
		that.Winner = PlayerTie
		that.Status = StatusFinished
		that.Turn = ""
	default:
		that.Status = StatusOngoing
	}
}

func (that *Game) MakeTurn(playerMark string, cell int) error {
	if cell < 0 || cell >= len(that.Board) {
		return fmt.Errorf("%w: cell %d", ErrInvalidCell, cell)
	}

	if that.Turn != playerMark {
		return apperror.ErrNotYourTurn
	}

	if that.Board[cell] != EmptyCell {
		return apperror.ErrCellOccupied
	}

	that.Board[cell] = playerMark

	if that.Turn == PlayerX {
		that.Turn = PlayerO
	} else {
		that.Turn = PlayerX
	}

	that.UpdateGameState()

	return nil
}

// Reset clears the board for a rematch while keeping both seats.
func (that *Game) Reset() {
	for i := range that.Board {
		that.Board[i] = EmptyCell
	}
	that.Winner = ""
	that.Turn = PlayerX

	if that.IsFull() {
		that.Status = StatusOngoing
	} else {
		that.Status = StatusWaiting
	}
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Game) ConfirmOngoingState() error {
	switch {
	case that.IsWaiting():
		return apperror.ErrGameIsNotStarted
	case that.IsFinished():
		return apperror.ErrGameFinished
	case that.IsOngoing():
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownGameStatus, that.Status)
	}
}
