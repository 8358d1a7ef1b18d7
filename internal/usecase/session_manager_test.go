package usecase

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/minigames-backend/internal/apperror"
	"github.com/rocketscienceinc/minigames-backend/internal/engine"
	"github.com/rocketscienceinc/minigames-backend/internal/entity"
)

// fakeSessionRepo - in-memory stand-in for the redis session store.
type fakeSessionRepo struct {
	mu    sync.Mutex
	games map[string]entity.Game
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{games: make(map[string]entity.Game)}
}

func (that *fakeSessionRepo) Save(_ context.Context, sessionID string, game *entity.Game) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.games[sessionID] = *game

	return nil
}

func (that *fakeSessionRepo) GetByID(_ context.Context, sessionID string) (*entity.Game, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	game, ok := that.games[sessionID]
	if !ok {
		return nil, apperror.ErrSessionNotFound
	}

	return &game, nil
}

func (that *fakeSessionRepo) saved(sessionID string) (entity.Game, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	game, ok := that.games[sessionID]

	return game, ok
}

func newTestManager(sessions *fakeSessionRepo) *SessionManager {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	delays := engine.Delays{
		Easy:   20 * time.Millisecond,
		Medium: 20 * time.Millisecond,
		Hard:   20 * time.Millisecond,
	}

	return NewSessionManager(logger, sessions, nil, delays)
}

func TestSessionManager_Connect(t *testing.T) {
	t.Run("Issues a session ID for new clients", func(t *testing.T) {
		// Given: a manager with an empty store
		manager := newTestManager(newFakeSessionRepo())

		// When: a client connects without a session ID
		sessionID, game := manager.Connect(context.Background(), "")

		// Then: it gets a fresh ID and a fresh local game
		require.NotEmpty(t, sessionID)
		assert.Equal(t, *entity.NewGame(entity.ModeLocal, entity.DifficultyMedium), game)
	})

	t.Run("Restores a persisted ongoing game", func(t *testing.T) {
		// Given: a store with a mid-game snapshot
		sessions := newFakeSessionRepo()
		saved := entity.NewGame(entity.ModeLocal, entity.DifficultyHard)
		saved.Board[0] = entity.PlayerX
		saved.Turn = entity.PlayerO
		require.NoError(t, sessions.Save(context.Background(), "session-123", saved))

		manager := newTestManager(sessions)

		// When: the client reconnects with its session ID
		sessionID, game := manager.Connect(context.Background(), "session-123")

		// Then: the same ID and the persisted board come back
		assert.Equal(t, "session-123", sessionID)
		assert.Equal(t, *saved, game)
	})

	t.Run("Resumes a persisted bot turn through the bot", func(t *testing.T) {
		// Given: a store with a snapshot persisted while the bot was to move
		sessions := newFakeSessionRepo()
		saved := entity.NewGame(entity.ModeBot, entity.DifficultyHard)
		saved.Board[0] = entity.PlayerX
		saved.Turn = entity.PlayerO
		require.NoError(t, sessions.Save(context.Background(), "session-123", saved))

		manager := newTestManager(sessions)

		// When: the client reconnects
		_, game := manager.Connect(context.Background(), "session-123")

		// Then: the bot's move is pending again
		require.True(t, game.AIThinking)

		// Then: the bot plays its own mark and the move is persisted
		require.Eventually(t, func() bool {
			persisted, ok := sessions.saved("session-123")
			return ok && persisted.Turn == entity.PlayerX &&
				len(persisted.Board.EmptyCells()) == entity.BoardSize-2
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("Finished persisted games start fresh", func(t *testing.T) {
		// Given: a store with a finished game
		sessions := newFakeSessionRepo()
		saved := entity.NewGame(entity.ModeLocal, entity.DifficultyMedium)
		saved.Winner = entity.PlayerX
		saved.Status = entity.StatusFinished
		require.NoError(t, sessions.Save(context.Background(), "session-123", saved))

		manager := newTestManager(sessions)

		// When: the client reconnects
		_, game := manager.Connect(context.Background(), "session-123")

		// Then: it gets a brand new game instead of the finished one
		assert.Equal(t, *entity.NewGame(entity.ModeLocal, entity.DifficultyMedium), game)
	})
}

func TestSessionManager_MakeMove(t *testing.T) {
	t.Run("Applies the move and persists the snapshot", func(t *testing.T) {
		// Given: a connected session
		sessions := newFakeSessionRepo()
		manager := newTestManager(sessions)
		sessionID, _ := manager.Connect(context.Background(), "")

		// When: the first move is made
		game, err := manager.MakeMove(context.Background(), sessionID, 0)

		// Then: the move is on the board and in the store
		require.NoError(t, err)
		assert.Equal(t, entity.PlayerX, game.Board[0])

		persisted, ok := sessions.saved(sessionID)
		require.True(t, ok)
		assert.Equal(t, entity.PlayerX, persisted.Board[0])
	})

	t.Run("Rejects cells outside the board", func(t *testing.T) {
		manager := newTestManager(newFakeSessionRepo())
		sessionID, _ := manager.Connect(context.Background(), "")

		_, err := manager.MakeMove(context.Background(), sessionID, 9)

		require.Error(t, err)
		assert.ErrorIs(t, err, apperror.ErrInvalidCell)
	})

	t.Run("Persisted bot snapshots never carry the thinking flag", func(t *testing.T) {
		// Given: a session switched into bot mode
		sessions := newFakeSessionRepo()
		manager := newTestManager(sessions)
		sessionID, _ := manager.Connect(context.Background(), "")

		_, err := manager.ChangeGameMode(context.Background(), sessionID, entity.ModeBot)
		require.NoError(t, err)

		// When: the human moves and the bot starts thinking
		game, err := manager.MakeMove(context.Background(), sessionID, 0)
		require.NoError(t, err)
		require.True(t, game.AIThinking)

		// Then: the persisted snapshot cleared the flag
		persisted, ok := sessions.saved(sessionID)
		require.True(t, ok)
		assert.False(t, persisted.AIThinking)

		// Then: the bot's async move is persisted too
		require.Eventually(t, func() bool {
			persisted, ok = sessions.saved(sessionID)
			return ok && len(persisted.Board.EmptyCells()) == entity.BoardSize-2
		}, time.Second, 5*time.Millisecond)
	})
}

func TestSessionManager_ResetGame(t *testing.T) {
	// Given: a session with moves on the board
	sessions := newFakeSessionRepo()
	manager := newTestManager(sessions)
	sessionID, _ := manager.Connect(context.Background(), "")

	_, err := manager.MakeMove(context.Background(), sessionID, 0)
	require.NoError(t, err)

	// When: the game is reset
	game := manager.ResetGame(context.Background(), sessionID)

	// Then: the board is empty in memory and in the store
	assert.Equal(t, entity.Board{}, game.Board)

	persisted, ok := sessions.saved(sessionID)
	require.True(t, ok)
	assert.Equal(t, entity.Board{}, persisted.Board)
}

func TestSessionManager_ChangeGameMode(t *testing.T) {
	t.Run("Switches into bot mode", func(t *testing.T) {
		manager := newTestManager(newFakeSessionRepo())
		sessionID, _ := manager.Connect(context.Background(), "")

		game, err := manager.ChangeGameMode(context.Background(), sessionID, entity.ModeBot)

		require.NoError(t, err)
		assert.Equal(t, entity.ModeBot, game.Mode)
	})

	t.Run("Rejects unknown modes", func(t *testing.T) {
		manager := newTestManager(newFakeSessionRepo())
		sessionID, _ := manager.Connect(context.Background(), "")

		_, err := manager.ChangeGameMode(context.Background(), sessionID, "tournament")

		require.Error(t, err)
		assert.ErrorIs(t, err, apperror.ErrUnknownGameMode)
	})
}

func TestSessionManager_ChangeAIDifficulty(t *testing.T) {
	t.Run("Switches the difficulty", func(t *testing.T) {
		manager := newTestManager(newFakeSessionRepo())
		sessionID, _ := manager.Connect(context.Background(), "")

		game, err := manager.ChangeAIDifficulty(context.Background(), sessionID, entity.DifficultyHard)

		require.NoError(t, err)
		assert.Equal(t, entity.DifficultyHard, game.Difficulty)
	})

	t.Run("Rejects unknown difficulties", func(t *testing.T) {
		manager := newTestManager(newFakeSessionRepo())
		sessionID, _ := manager.Connect(context.Background(), "")

		_, err := manager.ChangeAIDifficulty(context.Background(), sessionID, "nightmare")

		require.Error(t, err)
		assert.ErrorIs(t, err, apperror.ErrUnknownDifficulty)
	})
}

func TestSessionManager_State(t *testing.T) {
	// Given: two independent sessions
	manager := newTestManager(newFakeSessionRepo())
	firstID, _ := manager.Connect(context.Background(), "")
	secondID, _ := manager.Connect(context.Background(), "")
	require.NotEqual(t, firstID, secondID)

	// When: only the first session moves
	_, err := manager.MakeMove(context.Background(), firstID, 4)
	require.NoError(t, err)

	// Then: the second session's board is untouched
	assert.Equal(t, entity.PlayerX, manager.State(context.Background(), firstID).Board[4])
	assert.Equal(t, entity.Board{}, manager.State(context.Background(), secondID).Board)
}
