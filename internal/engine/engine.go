// Package engine owns the tic-tac-toe game state machine: it validates and
// applies moves, enforces turn order, detects terminal states and sequences
// the computer opponent's delayed move.
package engine

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/minigames-backend/internal/bot"
	"github.com/rocketscienceinc/minigames-backend/internal/entity"
)

// StatisticsSink receives the outcome of every completed game, exactly once
// per game. Failures are the sink's own concern.
type StatisticsSink interface {
	RecordGame(winner string, isDraw bool)
}

type nopStatisticsSink struct{}

func (nopStatisticsSink) RecordGame(_ string, _ bool) {}

// Delays - artificial thinking latency of the bot per difficulty.
type Delays struct {
	Easy   time.Duration
	Medium time.Duration
	Hard   time.Duration
}

func DefaultDelays() Delays {
	return Delays{
		Easy:   500 * time.Millisecond,
		Medium: 800 * time.Millisecond,
		Hard:   1200 * time.Millisecond,
	}
}

func (that Delays) For(difficulty string) time.Duration {
	switch difficulty {
	case entity.DifficultyEasy:
		return that.Easy
	case entity.DifficultyHard:
		return that.Hard
	default:
		return that.Medium
	}
}

// Engine is the single writer of one game state. All mutation goes through
// its methods under one mutex; the scheduler never touches the board
// directly, it re-enters through the engine's move-application path.
type Engine struct {
	logger *slog.Logger
	stats  StatisticsSink
	delays Delays

	mu         sync.Mutex
	game       *entity.Game
	aiThinking bool
	reported   bool
	sched      turnScheduler
	onUpdate   func(entity.Game)
}

func New(logger *slog.Logger, stats StatisticsSink, mode, difficulty string, delays Delays) *Engine {
	if stats == nil {
		stats = nopStatisticsSink{}
	}

	if !entity.IsValidMode(mode) {
		mode = entity.ModeLocal
	}

	if !entity.IsValidDifficulty(difficulty) {
		difficulty = entity.DifficultyMedium
	}

	return &Engine{
		logger: logger.With("component", "engine"),
		stats:  stats,
		delays: delays,
		game:   entity.NewGame(mode, difficulty),
	}
}

// Restore - rebuilds an engine around a previously persisted game.
// The persisted thinking flag is discarded; when the snapshot left the game
// on the bot's turn, a fresh bot move is armed so the bot's mark still only
// ever comes out of its strategy. Finished games are never reported a
// second time.
func Restore(logger *slog.Logger, stats StatisticsSink, snapshot entity.Game, delays Delays) *Engine {
	eng := New(logger, stats, snapshot.Mode, snapshot.Difficulty, delays)

	snapshot.AIThinking = false
	eng.game = &snapshot
	eng.reported = snapshot.IsFinished()

	eng.mu.Lock()
	eng.maybeStartBotTurnLocked()
	eng.mu.Unlock()

	return eng
}

// SetOnUpdate - registers a hook invoked with a snapshot after every state
// change, including the bot's asynchronously applied moves. A restored
// engine may already have a bot move armed, so registration is safe against
// a concurrently firing timer.
func (that *Engine) SetOnUpdate(fn func(entity.Game)) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.onUpdate = fn
}

// Snapshot - returns a read-only copy of the current game state.
func (that *Engine) Snapshot() entity.Game {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.snapshotLocked()
}

func (that *Engine) IsAIThinking() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.aiThinking
}

// MakeMove - applies the current player's move to the given cell.
// Moves on a finished game, on an occupied cell or while the bot's move is
// in flight are routine UI races and silently ignored. In bot mode the bot's
// mark is owned by the scheduler, so human input on the bot's turn is ignored
// too. A cell outside the board is a caller bug and panics.
func (that *Engine) MakeMove(cell int) {
	if cell < 0 || cell >= entity.BoardSize {
		panic(fmt.Sprintf("engine: cell index %d out of range", cell))
	}

	that.mu.Lock()

	if that.game.IsFinished() || that.aiThinking || that.game.Board[cell] != entity.EmptyCell {
		that.mu.Unlock()
		return
	}

	if that.game.IsWithBot() && that.game.Turn == entity.PlayerO {
		that.mu.Unlock()
		return
	}

	that.applyMoveLocked(that.game.Turn, cell)
	that.maybeStartBotTurnLocked()

	snapshot := that.snapshotLocked()
	that.mu.Unlock()

	that.notify(snapshot)
}

// ResetGame - discards the current game and starts a fresh one with the same
// mode and difficulty. Any in-flight bot move is cancelled.
func (that *Engine) ResetGame() {
	that.mu.Lock()

	that.cancelBotTurnLocked()
	that.game = entity.NewGame(that.game.Mode, that.game.Difficulty)
	that.reported = false

	snapshot := that.snapshotLocked()
	that.mu.Unlock()

	that.notify(snapshot)
}

// ChangeGameMode - cancels any in-flight bot move and resets into the new
// mode. Unknown modes are ignored.
func (that *Engine) ChangeGameMode(mode string) {
	if !entity.IsValidMode(mode) {
		that.logger.Warn("ignoring unknown game mode", "mode", mode)
		return
	}

	that.mu.Lock()

	that.cancelBotTurnLocked()
	that.game = entity.NewGame(mode, that.game.Difficulty)
	that.reported = false

	snapshot := that.snapshotLocked()
	that.mu.Unlock()

	that.notify(snapshot)
}

// ChangeAIDifficulty - in bot mode cancels any in-flight bot move and resets,
// so no bot move computed under a stale difficulty can ever land. In local
// mode only the stored difficulty changes and the board is untouched.
// Unknown difficulties are ignored.
func (that *Engine) ChangeAIDifficulty(difficulty string) {
	if !entity.IsValidDifficulty(difficulty) {
		that.logger.Warn("ignoring unknown difficulty", "difficulty", difficulty)
		return
	}

	that.mu.Lock()

	if that.game.IsWithBot() {
		that.cancelBotTurnLocked()
		that.game = entity.NewGame(that.game.Mode, difficulty)
		that.reported = false
	} else {
		that.game.Difficulty = difficulty
	}

	snapshot := that.snapshotLocked()
	that.mu.Unlock()

	that.notify(snapshot)
}

func (that *Engine) applyMoveLocked(mark string, cell int) {
	that.game.Board[cell] = mark

	switch winner := that.game.Board.DetermineResult(); winner {
	case entity.PlayerX, entity.PlayerO:
		that.game.Winner = winner
		that.game.Status = entity.StatusFinished
	case entity.PlayerTie:
		that.game.Winner = entity.PlayerTie
		that.game.Status = entity.StatusFinished
	default:
		that.game.Turn = entity.ToggleMark(mark)
	}

	if that.game.IsFinished() {
		that.reportResultLocked()
	}
}

// reportResultLocked - reports the outcome to the statistics sink once per
// game; finished games are never double-reported.
func (that *Engine) reportResultLocked() {
	if that.reported {
		return
	}
	that.reported = true

	isDraw := that.game.IsTie()

	winner := that.game.Winner
	if isDraw {
		winner = ""
	}

	that.logger.Info("game finished", "winner", that.game.Winner, "mode", that.game.Mode)
	that.stats.RecordGame(winner, isDraw)
}

// maybeStartBotTurnLocked - arms the scheduler when a human move in bot mode
// leaves the game ongoing with the bot to move. The aiThinking flag blocks
// human input until the delayed move fires or is cancelled.
func (that *Engine) maybeStartBotTurnLocked() {
	if !that.game.IsOngoing() || !that.game.IsWithBot() || that.game.Turn != entity.PlayerO {
		return
	}

	that.aiThinking = true

	strategy := bot.ForDifficulty(that.game.Difficulty)
	delay := that.delays.For(that.game.Difficulty)

	that.sched.arm(delay, func(generation uint64) {
		that.completeBotTurn(generation, strategy)
	})
}

// completeBotTurn - runs on timer expiry. The generation check under the
// engine mutex guarantees a cancelled or superseded operation applies no
// move even when it is already past its delay.
func (that *Engine) completeBotTurn(generation uint64, strategy bot.Strategy) {
	that.mu.Lock()

	if !that.sched.isCurrent(generation) {
		that.mu.Unlock()
		return
	}

	that.sched.disarm()
	that.aiThinking = false

	cell := strategy.ChooseMove(that.game.Board, entity.PlayerO)
	that.logger.Debug("bot move", "cell", cell, "difficulty", that.game.Difficulty)
	that.applyMoveLocked(entity.PlayerO, cell)

	snapshot := that.snapshotLocked()
	that.mu.Unlock()

	that.notify(snapshot)
}

func (that *Engine) cancelBotTurnLocked() {
	that.sched.cancel()
	that.aiThinking = false
}

func (that *Engine) snapshotLocked() entity.Game {
	snapshot := *that.game
	snapshot.AIThinking = that.aiThinking

	return snapshot
}

func (that *Engine) notify(snapshot entity.Game) {
	that.mu.Lock()
	fn := that.onUpdate
	that.mu.Unlock()

	if fn != nil {
		fn(snapshot)
	}
}
