package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
)

const (
	descriptionGameStart   = "Go to game start"
	DescriptionUnavailable = "unavailable"
)

// View - everything a renderer needs to draw the current ply.
type View struct {
	Board      entity.Board      `json:"board"`
	Winner     *entity.WinResult `json:"winner,omitempty"`
	Status     string            `json:"status"`
	NextPlayer entity.Mark       `json:"next_player"`
	CurrentPly int               `json:"current_ply"`
	Moves      []MoveEntry       `json:"moves"`
}

// MoveEntry - one line of the history list.
type MoveEntry struct {
	Ply         int    `json:"ply"`
	Description string `json:"description"`
	Current     bool   `json:"current"`
}

// View is recomputed on every call; nothing here is cached on the session.
func (that *GameSession) View() View {
	board := that.CurrentBoard()
	winner := entity.DetermineWinner(board)

	return View{
		Board:      board,
		Winner:     winner,
		Status:     status(winner, that.NextPlayer()),
		NextPlayer: that.NextPlayer(),
		CurrentPly: that.currentPly,
		Moves:      that.MoveEntries(),
	}
}

// Status - "Winner: X" once a line is complete, otherwise whose turn it is.
func (that *GameSession) Status() string {
	return status(entity.DetermineWinner(that.CurrentBoard()), that.NextPlayer())
}

func status(winner *entity.WinResult, next entity.Mark) string {
	if winner != nil {
		return fmt.Sprintf("Winner: %s", winner.Winner)
	}

	return fmt.Sprintf("Next player: %s", next)
}

func (that *GameSession) MoveEntries() []MoveEntry {
	entries := make([]MoveEntry, 0, len(that.history))
	for ply := range that.history {
		entries = append(entries, MoveEntry{
			Ply:         ply,
			Description: that.MoveDescription(ply),
			Current:     ply == that.currentPly,
		})
	}

	return entries
}

// MoveDescription labels the history entry at ply, e.g. "Go to move #1: X -> (1, 1)".
func (that *GameSession) MoveDescription(ply int) string {
	if ply == 0 {
		return descriptionGameStart
	}

	cell, ok := that.lastPosition(ply)
	if !ok {
		return DescriptionUnavailable
	}

	return fmt.Sprintf("Go to move #%d: %s -> (%d, %d)",
		ply, entity.MarkForPly(ply-1), entity.CellColumn(cell), entity.CellRow(cell))
}

// lastPosition - the cell filled by the move that produced ply.
func (that *GameSession) lastPosition(ply int) (int, bool) {
	if len(that.history) < 2 || ply < 1 || ply >= len(that.history) {
		return 0, false
	}

	return that.history[ply-1].Diff(that.history[ply])
}
