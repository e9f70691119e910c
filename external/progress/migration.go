package progress

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

var migrationStatements = []string{
	`CREATE TABLE IF NOT EXISTS active_rounds (
		game_id UUID NOT NULL,
		guild_id BIGINT NOT NULL,
		channel_id BIGINT PRIMARY KEY,
		question_count INTEGER NOT NULL,
		quickfire BOOLEAN NOT NULL DEFAULT FALSE,
		hintless BOOLEAN NOT NULL DEFAULT FALSE,
		starter_id BIGINT NOT NULL DEFAULT 0,
		question_ids BIGINT[] NOT NULL,
		round INTEGER NOT NULL DEFAULT 1,
		streak INTEGER NOT NULL DEFAULT 1,
		last_answerer BIGINT NOT NULL DEFAULT 0,
		state INTEGER NOT NULL DEFAULT 1,
		question_id BIGINT,
		stop_requested BOOLEAN NOT NULL DEFAULT FALSE,
		started_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_active_rounds_guild ON active_rounds (guild_id)`,
}

func RunMigration(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range migrationStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
