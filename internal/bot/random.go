package bot

import (
	"math/rand"

	"github.com/rocketscienceinc/minigames-backend/internal/entity"
)

type randomStrategy struct{}

// NewRandomStrategy - easy difficulty: a uniformly random empty cell,
// no look-ahead.
func NewRandomStrategy() Strategy {
	return &randomStrategy{}
}

func (that *randomStrategy) ChooseMove(board entity.Board, _ string) int {
	cells := mustEmptyCells(board)

	return cells[rand.Intn(len(cells))] //nolint: gosec // it's ok
}
