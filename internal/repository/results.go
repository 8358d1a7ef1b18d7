package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rocketscienceinc/minigames-backend/internal/entity"
)

// GameResultRepository is the durable audit trail of completed games,
// one row per game.
type GameResultRepository interface {
	Init(ctx context.Context) error
	Record(ctx context.Context, winner string, isDraw bool) error
	GetSummary(ctx context.Context) (*entity.StatsSummary, error)
}

type dbGameResult struct {
	conn *sql.DB
}

func NewGameResultRepository(conn *sql.DB) GameResultRepository {
	return &dbGameResult{
		conn: conn,
	}
}

func (that *dbGameResult) Init(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS game_results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		winner TEXT NOT NULL,
		is_draw INTEGER NOT NULL,
		recorded_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`

	if _, err := that.conn.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("can't create game_results table: %w", err)
	}

	return nil
}

func (that *dbGameResult) Record(ctx context.Context, winner string, isDraw bool) error {
	query := `INSERT INTO game_results (winner, is_draw) VALUES (?, ?)`

	if _, err := that.conn.ExecContext(ctx, query, winner, isDraw); err != nil {
		return fmt.Errorf("can't record game result: %w", err)
	}

	return nil
}

func (that *dbGameResult) GetSummary(ctx context.Context) (*entity.StatsSummary, error) {
	query := `SELECT
		COALESCE(SUM(CASE WHEN winner = ? AND is_draw = 0 THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN winner = ? AND is_draw = 0 THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN is_draw = 1 THEN 1 ELSE 0 END), 0),
		COUNT(*)
	FROM game_results`

	summary := &entity.StatsSummary{}

	row := that.conn.QueryRowContext(ctx, query, entity.PlayerX, entity.PlayerO)
	if err := row.Scan(&summary.XWins, &summary.OWins, &summary.Draws, &summary.Total); err != nil {
		return nil, fmt.Errorf("can't read game results summary: %w", err)
	}

	return summary, nil
}
