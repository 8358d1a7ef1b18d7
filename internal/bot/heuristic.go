package bot

import (
	"github.com/rocketscienceinc/minigames-backend/internal/entity"
)

type heuristicStrategy struct{}

// NewHeuristicStrategy - medium difficulty: single-ply look-ahead evaluated
// in strict priority order, first match wins.
func NewHeuristicStrategy() Strategy {
	return &heuristicStrategy{}
}

func (that *heuristicStrategy) ChooseMove(board entity.Board, mark string) int {
	cells := mustEmptyCells(board)
	opponent := entity.ToggleMark(mark)

	// 1. Win now.
	for _, cell := range cells {
		if completesLine(board, cell, mark) {
			return cell
		}
	}

	// 2. Block the opponent's win on their next turn.
	for _, cell := range cells {
		if completesLine(board, cell, opponent) {
			return cell
		}
	}

	// 3. Take the center.
	if board[entity.CenterCell] == entity.EmptyCell {
		return entity.CenterCell
	}

	// 4. Take a corner.
	for _, cell := range entity.CornerCells {
		if board[cell] == entity.EmptyCell {
			return cell
		}
	}

	// 5. Take whatever is left.
	return cells[0]
}
