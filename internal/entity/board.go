package entity

import "errors"

const (
	PlayerX   = "X"
	PlayerO   = "O"
	PlayerTie = "-"

	EmptyCell = ""
)

// BoardSize - number of cells on the board, indexed 0..8 in row-major order.
const BoardSize = 9

const CenterCell = 4

var (
	ErrCellOccupied = errors.New("cell is already occupied")
	ErrInvalidCell  = errors.New("invalid cell index")

	WinCombos = [][3]int{
		{0, 1, 2},
		{3, 4, 5},
		{6, 7, 8},
		{0, 3, 6},
		{1, 4, 7},
		{2, 5, 8},
		{0, 4, 8},
		{2, 4, 6},
	}

	CornerCells = []int{0, 2, 6, 8}
)

type Board [BoardSize]string

// Apply - returns a copy of the board with the mark placed on the given cell.
// The receiver is never mutated.
func (that Board) Apply(cell int, mark string) (Board, error) {
	if cell < 0 || cell >= BoardSize {
		return that, ErrInvalidCell
	}

	if that[cell] != EmptyCell {
		return that, ErrCellOccupied
	}

	that[cell] = mark

	return that, nil
}

// DetermineResult - checks all eight winning lines.
// Returns the winning mark, PlayerTie when the board is full without a winner,
// or an empty string while the game is still ongoing.
func (that Board) DetermineResult() string {
	for _, combo := range WinCombos {
		a, b, c := that[combo[0]], that[combo[1]], that[combo[2]]
		if a != EmptyCell && a == b && b == c {
			return a
		}
	}

	for _, cell := range that {
		if cell == EmptyCell {
			return ""
		}
	}

	return PlayerTie
}

// EmptyCells - returns the indices of all unoccupied cells in board order.
func (that Board) EmptyCells() []int {
	cells := make([]int, 0, BoardSize)
	for i, cell := range that {
		if cell == EmptyCell {
			cells = append(cells, i)
		}
	}

	return cells
}

func (that Board) IsFull() bool {
	for _, cell := range that {
		if cell == EmptyCell {
			return false
		}
	}

	return true
}

// ToggleMark - returns the opposing mark.
func ToggleMark(currentMark string) string {
	if currentMark == PlayerX {
		return PlayerO
	}
	return PlayerX
}
