package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/rocketscienceinc/minigames-backend/internal/apperror"
	"github.com/rocketscienceinc/minigames-backend/internal/engine"
	"github.com/rocketscienceinc/minigames-backend/internal/entity"
	"github.com/rocketscienceinc/minigames-backend/internal/pkg"
)

const persistTimeout = 5 * time.Second

type sessionRepo interface {
	Save(ctx context.Context, sessionID string, game *entity.Game) error
	GetByID(ctx context.Context, sessionID string) (*entity.Game, error)
}

// SessionManager keeps one game engine per session and persists every state
// change, including the bot's asynchronously applied moves, back to the
// session store.
type SessionManager struct {
	logger *slog.Logger

	sessions sessionRepo
	stats    engine.StatisticsSink
	delays   engine.Delays

	engines *xsync.MapOf[string, *engine.Engine]
}

func NewSessionManager(logger *slog.Logger, sessions sessionRepo, stats engine.StatisticsSink, delays engine.Delays) *SessionManager {
	return &SessionManager{
		logger: logger,

		sessions: sessions,
		stats:    stats,
		delays:   delays,

		engines: xsync.NewMapOf[string, *engine.Engine](),
	}
}

// Connect - issues a session ID when the client has none and returns the
// session's game, restoring a persisted ongoing game if one exists.
func (that *SessionManager) Connect(ctx context.Context, sessionID string) (string, entity.Game) {
	if sessionID == "" {
		sessionID = pkg.GenerateNewSessionID()
	}

	eng := that.engineFor(ctx, sessionID)

	return sessionID, eng.Snapshot()
}

// MakeMove - applies the human move. Cell indices outside the board are
// transport noise and rejected here; the engine treats them as a caller bug.
func (that *SessionManager) MakeMove(ctx context.Context, sessionID string, cell int) (entity.Game, error) {
	if cell < 0 || cell >= entity.BoardSize {
		return entity.Game{}, fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	eng := that.engineFor(ctx, sessionID)
	eng.MakeMove(cell)

	return eng.Snapshot(), nil
}

func (that *SessionManager) ResetGame(ctx context.Context, sessionID string) entity.Game {
	eng := that.engineFor(ctx, sessionID)
	eng.ResetGame()

	return eng.Snapshot()
}

func (that *SessionManager) ChangeGameMode(ctx context.Context, sessionID, mode string) (entity.Game, error) {
	if !entity.IsValidMode(mode) {
		return entity.Game{}, fmt.Errorf("%w: %s", apperror.ErrUnknownGameMode, mode)
	}

	eng := that.engineFor(ctx, sessionID)
	eng.ChangeGameMode(mode)

	return eng.Snapshot(), nil
}

func (that *SessionManager) ChangeAIDifficulty(ctx context.Context, sessionID, difficulty string) (entity.Game, error) {
	if !entity.IsValidDifficulty(difficulty) {
		return entity.Game{}, fmt.Errorf("%w: %s", apperror.ErrUnknownDifficulty, difficulty)
	}

	eng := that.engineFor(ctx, sessionID)
	eng.ChangeAIDifficulty(difficulty)

	return eng.Snapshot(), nil
}

func (that *SessionManager) State(ctx context.Context, sessionID string) entity.Game {
	eng := that.engineFor(ctx, sessionID)

	return eng.Snapshot()
}

func (that *SessionManager) engineFor(ctx context.Context, sessionID string) *engine.Engine {
	eng, _ := that.engines.LoadOrCompute(sessionID, func() *engine.Engine {
		return that.buildEngine(ctx, sessionID)
	})

	return eng
}

func (that *SessionManager) buildEngine(ctx context.Context, sessionID string) *engine.Engine {
	log := that.logger.With("method", "buildEngine", "sessionID", sessionID)

	var eng *engine.Engine

	saved, err := that.sessions.GetByID(ctx, sessionID)
	switch {
	case err == nil && saved.IsOngoing():
		log.Info("restoring persisted game")
		eng = engine.Restore(that.logger, that.stats, *saved, that.delays)
	case err != nil && !errors.Is(err, apperror.ErrSessionNotFound):
		log.Error("failed to load persisted game, starting fresh", "error", err)
		fallthrough
	default:
		eng = engine.New(that.logger, that.stats, entity.ModeLocal, entity.DifficultyMedium, that.delays)
	}

	eng.SetOnUpdate(func(snapshot entity.Game) {
		that.persistSnapshot(sessionID, snapshot)
	})

	return eng
}

func (that *SessionManager) persistSnapshot(sessionID string, snapshot entity.Game) {
	log := that.logger.With("method", "persistSnapshot", "sessionID", sessionID)

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	// scheduling metadata never survives persistence
	snapshot.AIThinking = false

	if err := that.sessions.Save(ctx, sessionID, &snapshot); err != nil {
		log.Error("failed to persist game snapshot", "error", err)
	}
}
