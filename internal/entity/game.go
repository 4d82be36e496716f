package entity

type Mark string

const (
	PlayerX Mark = "X"
	PlayerO Mark = "O"

	EmptyCell Mark = ""
)

const (
	BoardRows = 3
	BoardCols = 3

	BoardSize = BoardRows * BoardCols
)

// WinCombos - every winning line, checked in this order.
var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Board - cells in row-major order.
type Board [BoardSize]Mark

// WinResult - the winning mark and the line that completed it.
type WinResult struct {
	Winner Mark   `json:"winner"`
	Line   [3]int `json:"line"`
}

// Contains reports whether cell is part of the winning line.
func (that *WinResult) Contains(cell int) bool {
	if that == nil {
		return false
	}

	for _, c := range that.Line {
		if c == cell {
			return true
		}
	}

	return false
}

// DetermineWinner returns the first completed line in WinCombos order, or nil.
func DetermineWinner(board Board) *WinResult {
	for _, combo := range WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a != EmptyCell && a == b && b == c {
			return &WinResult{Winner: a, Line: combo}
		}
	}

	return nil
}

func (that Board) IsOccupied(cell int) bool {
	return that[cell] != EmptyCell
}

// Diff returns the index of the first cell that differs between the boards.
func (that Board) Diff(other Board) (int, bool) {
	for i := range that {
		if that[i] != other[i] {
			return i, true
		}
	}

	return -1, false
}

// IsValidCell reports whether cell addresses a square of the board.
func IsValidCell(cell int) bool {
	return cell >= 0 && cell < BoardSize
}

// CellColumn and CellRow map a row-major index to coordinates.
func CellColumn(cell int) int {
	return cell % BoardCols
}

func CellRow(cell int) int {
	return cell / BoardCols
}

// MarkForPly - the mark that moves when ply plies have been played.
func MarkForPly(ply int) Mark {
	if ply%2 == 0 {
		return PlayerX
	}

	return PlayerO
}

// Opponent - toggles between X and O.
func (that Mark) Opponent() Mark {
	if that == PlayerX {
		return PlayerO
	}

	return PlayerX
}
