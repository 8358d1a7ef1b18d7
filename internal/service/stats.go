package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/minigames-backend/internal/entity"
)

const recordTimeout = 5 * time.Second

type statsRepo interface {
	IncrementResult(ctx context.Context, winner string, isDraw bool) error
	GetSummary(ctx context.Context) (*entity.StatsSummary, error)
}

type resultsRepo interface {
	Record(ctx context.Context, winner string, isDraw bool) error
}

// StatisticsService receives terminal-game outcomes from the engine and fans
// them into the redis counters and the sqlite results log. Persistence
// failures are logged and never surfaced to the engine.
type StatisticsService interface {
	RecordGame(winner string, isDraw bool)
	GetSummary(ctx context.Context) (*entity.StatsSummary, error)
}

type statisticsService struct {
	logger *slog.Logger

	statsRepo   statsRepo
	resultsRepo resultsRepo
}

func NewStatisticsService(logger *slog.Logger, statsRepo statsRepo, resultsRepo resultsRepo) StatisticsService {
	return &statisticsService{
		logger:      logger.With("component", "stats"),
		statsRepo:   statsRepo,
		resultsRepo: resultsRepo,
	}
}

func (that *statisticsService) RecordGame(winner string, isDraw bool) {
	log := that.logger.With("method", "RecordGame")

	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	if err := that.statsRepo.IncrementResult(ctx, winner, isDraw); err != nil {
		log.Error("failed to increment result counter", "error", err)
	}

	if err := that.resultsRepo.Record(ctx, winner, isDraw); err != nil {
		log.Error("failed to record game result", "error", err)
	}
}

func (that *statisticsService) GetSummary(ctx context.Context) (*entity.StatsSummary, error) {
	summary, err := that.statsRepo.GetSummary(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats summary: %w", err)
	}

	return summary, nil
}
