// Package bot implements the computer opponent: three interchangeable
// move-selection strategies, one per difficulty.
package bot

import (
	"github.com/rocketscienceinc/minigames-backend/internal/entity"
)

// Strategy picks the cell for the bot's next move.
// Callers must never invoke a strategy on a full board; doing so is a
// contract violation and panics.
type Strategy interface {
	ChooseMove(board entity.Board, mark string) int
}

// ForDifficulty - returns the strategy configured for the given difficulty.
// Unknown difficulties fall back to medium.
func ForDifficulty(difficulty string) Strategy {
	switch difficulty {
	case entity.DifficultyEasy:
		return NewRandomStrategy()
	case entity.DifficultyHard:
		return NewMinimaxStrategy()
	default:
		return NewHeuristicStrategy()
	}
}

func mustEmptyCells(board entity.Board) []int {
	cells := board.EmptyCells()
	if len(cells) == 0 {
		panic("bot: no available moves on a full board")
	}

	return cells
}

// completesLine - reports whether placing the mark on the cell wins the game
// for that mark.
func completesLine(board entity.Board, cell int, mark string) bool {
	next, err := board.Apply(cell, mark)
	if err != nil {
		return false
	}

	return next.DetermineResult() == mark
}
