package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/minigames-backend/internal/entity"
)

const statsKey = "stats:results"

const (
	fieldXWins = "x_wins"
	fieldOWins = "o_wins"
	fieldDraws = "draws"
)

type StatsRepository interface {
	IncrementResult(ctx context.Context, winner string, isDraw bool) error
	GetSummary(ctx context.Context) (*entity.StatsSummary, error)
}

type dbStats struct {
	client *redis.Client
}

func NewStatsRepository(client *redis.Client) StatsRepository {
	return &dbStats{
		client: client,
	}
}

func (that *dbStats) IncrementResult(ctx context.Context, winner string, isDraw bool) error {
	field, err := resultField(winner, isDraw)
	if err != nil {
		return err
	}

	if err = that.client.HIncrBy(ctx, statsKey, field, 1).Err(); err != nil {
		return fmt.Errorf("failed to increment %s: %w", field, err)
	}

	return nil
}

func (that *dbStats) GetSummary(ctx context.Context) (*entity.StatsSummary, error) {
	fields, err := that.client.HGetAll(ctx, statsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get stats summary: %w", err)
	}

	summary := &entity.StatsSummary{
		XWins: parseCounter(fields[fieldXWins]),
		OWins: parseCounter(fields[fieldOWins]),
		Draws: parseCounter(fields[fieldDraws]),
	}
	summary.Total = summary.XWins + summary.OWins + summary.Draws

	return summary, nil
}

func resultField(winner string, isDraw bool) (string, error) {
	if isDraw {
		return fieldDraws, nil
	}

	switch winner {
	case entity.PlayerX:
		return fieldXWins, nil
	case entity.PlayerO:
		return fieldOWins, nil
	default:
		return "", fmt.Errorf("unknown winner mark: %q", winner)
	}
}

func parseCounter(raw string) int64 {
	if raw == "" {
		return 0
	}

	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}

	return value
}
