package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/minigames-backend/internal/apperror"
	"github.com/rocketscienceinc/minigames-backend/internal/entity"
)

// SessionRepository persists the latest game snapshot per session so a
// reconnecting client resumes its board.
type SessionRepository interface {
	Save(ctx context.Context, sessionID string, game *entity.Game) error
	GetByID(ctx context.Context, sessionID string) (*entity.Game, error)
	DeleteByID(ctx context.Context, sessionID string) error
}

type dbSession struct {
	client *redis.Client
}

func NewSessionRepository(client *redis.Client) SessionRepository {
	return &dbSession{
		client: client,
	}
}

func (that *dbSession) Save(ctx context.Context, sessionID string, game *entity.Game) error {
	gameJSON, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("failed to marshal game: %w", err)
	}

	sessionKey := "session:" + sessionID
	if err = that.client.Set(ctx, sessionKey, gameJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to set session game: %w", err)
	}

	return nil
}

func (that *dbSession) GetByID(ctx context.Context, sessionID string) (*entity.Game, error) {
	sessionKey := "session:" + sessionID

	response, err := that.client.Get(ctx, sessionKey).Result()

	if errors.Is(err, redis.Nil) {
		return nil, apperror.ErrSessionNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get session game: %w", err)
	}

	var existingGame entity.Game
	if err = json.Unmarshal([]byte(response), &existingGame); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game: %w", err)
	}

	return &existingGame, nil
}

func (that *dbSession) DeleteByID(ctx context.Context, sessionID string) error {
	sessionKey := "session:" + sessionID

	if err := that.client.Del(ctx, sessionKey).Err(); err != nil {
		return fmt.Errorf("failed to delete session game: %w", err)
	}

	return nil
}
