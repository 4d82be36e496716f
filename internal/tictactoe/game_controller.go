package tictactoe

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-history/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
)

var (
	errEmptyHistory = errors.New("empty history")
	errDirtyStart   = errors.New("initial board is not empty")
)

// GameSession - the move history of one game and the ply currently shown.
// X always moves first, so the mark to move is derived from currentPly.
type GameSession struct {
	history    []entity.Board
	currentPly int
}

// SessionState - serialisable form of a GameSession.
type SessionState struct {
	History    []entity.Board `json:"history"`
	CurrentPly int            `json:"current_ply"`
}

func NewGameSession() *GameSession {
	return &GameSession{
		history: []entity.Board{{}},
	}
}

// ApplyMove places the mark to move on cell. It reports false and leaves the
// session untouched when the shown board is already won or the cell is taken.
// Any history after the current ply is discarded before the move is appended.
func (that *GameSession) ApplyMove(cell int) bool {
	if !entity.IsValidCell(cell) {
		return false
	}

	board := that.history[that.currentPly]
	if entity.DetermineWinner(board) != nil || board.IsOccupied(cell) {
		return false
	}

	board[cell] = that.NextPlayer()

	that.history = append(that.history[:that.currentPly+1], board)
	that.currentPly = len(that.history) - 1

	return true
}

// JumpTo moves the current ply to an existing entry without touching history.
func (that *GameSession) JumpTo(ply int) bool {
	if !that.hasPly(ply) {
		return false
	}

	that.currentPly = ply

	return true
}

func (that *GameSession) NextPlayer() entity.Mark {
	return entity.MarkForPly(that.currentPly)
}

func (that *GameSession) CurrentPly() int {
	return that.currentPly
}

// Len - number of history entries, the initial board included.
func (that *GameSession) Len() int {
	return len(that.history)
}

func (that *GameSession) Board(ply int) (entity.Board, bool) {
	if !that.hasPly(ply) {
		return entity.Board{}, false
	}

	return that.history[ply], true
}

func (that *GameSession) CurrentBoard() entity.Board {
	return that.history[that.currentPly]
}

func (that *GameSession) hasPly(ply int) bool {
	return ply >= 0 && ply < len(that.history)
}

// State returns a copy that shares nothing with the session.
func (that *GameSession) State() SessionState {
	history := make([]entity.Board, len(that.history))
	copy(history, that.history)

	return SessionState{
		History:    history,
		CurrentPly: that.currentPly,
	}
}

// RestoreGameSession rebuilds a session, rejecting states that could not have
// been produced by ApplyMove and JumpTo.
func RestoreGameSession(state SessionState) (*GameSession, error) {
	if err := validateState(state); err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrCorruptedSession, err)
	}

	history := make([]entity.Board, len(state.History))
	copy(history, state.History)

	return &GameSession{
		history:    history,
		currentPly: state.CurrentPly,
	}, nil
}

func validateState(state SessionState) error {
	if len(state.History) == 0 {
		return errEmptyHistory
	}

	if state.CurrentPly < 0 || state.CurrentPly >= len(state.History) {
		return fmt.Errorf("current ply %d outside history of %d", state.CurrentPly, len(state.History))
	}

	if state.History[0] != (entity.Board{}) {
		return errDirtyStart
	}

	for ply := 1; ply < len(state.History); ply++ {
		if err := validateStep(state.History[ply-1], state.History[ply], ply); err != nil {
			return err
		}
	}

	return nil
}

// validateStep - exactly one empty cell gets the mark of the ply that moved.
func validateStep(prev, next entity.Board, ply int) error {
	if entity.DetermineWinner(prev) != nil {
		return fmt.Errorf("ply %d played after a win", ply)
	}

	changed := 0
	for i := range prev {
		if prev[i] == next[i] {
			continue
		}

		changed++
		if prev[i] != entity.EmptyCell || next[i] != entity.MarkForPly(ply-1) {
			return fmt.Errorf("ply %d: unexpected change of cell %d", ply, i)
		}
	}

	if changed != 1 {
		return fmt.Errorf("ply %d changes %d cells", ply, changed)
	}

	return nil
}
