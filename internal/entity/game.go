package entity

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"
)

const (
	ModeLocal = "local"
	ModeBot   = "bot"
)

const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Game holds the state of one tic-tac-toe game: the board, whose turn it is,
// the outcome and the configuration the game was started with.
// AIThinking is scheduling metadata exposed on snapshots only; it never
// survives persistence.
type Game struct {
	Board      Board  `json:"board"`
	Turn       string `json:"player_turn"`
	Winner     string `json:"winner,omitempty"`
	Status     string `json:"status"`
	Mode       string `json:"mode"`
	Difficulty string `json:"difficulty"`
	AIThinking bool   `json:"ai_thinking,omitempty"`
}

func NewGame(mode, difficulty string) *Game {
	return &Game{
		Board:      Board{},
		Turn:       PlayerX,
		Status:     StatusOngoing,
		Mode:       mode,
		Difficulty: difficulty,
	}
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) IsWithBot() bool {
	return that.Mode == ModeBot
}

func (that *Game) IsTie() bool {
	return that.Winner == PlayerTie
}

func IsValidMode(mode string) bool {
	return mode == ModeLocal || mode == ModeBot
}

func IsValidDifficulty(difficulty string) bool {
	switch difficulty {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	default:
		return false
	}
}
