package bot

import (
	"math"

	"github.com/rocketscienceinc/minigames-backend/internal/entity"
)

// winScore - base score of a terminal win; adjusted by search depth so the
// bot prefers faster wins and slower losses among equally scored moves.
const winScore = 10

type minimaxStrategy struct{}

// NewMinimaxStrategy - hard difficulty: exhaustive adversarial search over
// the full remaining game tree. With this strategy the bot never loses;
// every game ends in a bot win or a draw. Root ties are broken by the
// first-encountered cell in board order, so move selection is deterministic.
func NewMinimaxStrategy() Strategy {
	return &minimaxStrategy{}
}

func (that *minimaxStrategy) ChooseMove(board entity.Board, mark string) int {
	cells := mustEmptyCells(board)

	bestScore := math.MinInt
	bestCell := cells[0]

	for _, cell := range cells {
		next, err := board.Apply(cell, mark)
		if err != nil {
			continue
		}

		score := that.minimax(next, mark, entity.ToggleMark(mark), 1)
		if score > bestScore {
			bestScore = score
			bestCell = cell
		}
	}

	return bestCell
}

// minimax - scores the board from the bot's point of view with the given
// mark to move next. The bot maximizes, the opponent minimizes.
func (that *minimaxStrategy) minimax(board entity.Board, botMark, turn string, depth int) int {
	switch board.DetermineResult() {
	case botMark:
		return winScore - depth
	case entity.ToggleMark(botMark):
		return depth - winScore
	case entity.PlayerTie:
		return 0
	}

	best := math.MinInt
	if turn != botMark {
		best = math.MaxInt
	}

	for _, cell := range board.EmptyCells() {
		next, err := board.Apply(cell, turn)
		if err != nil {
			continue
		}

		score := that.minimax(next, botMark, entity.ToggleMark(turn), depth+1)

		if turn == botMark && score > best {
			best = score
		}
		if turn != botMark && score < best {
			best = score
		}
	}

	return best
}
