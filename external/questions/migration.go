package questions

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

var migrationStatements = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		enabled BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE TABLE IF NOT EXISTS questions (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		guild_id BIGINT NOT NULL DEFAULT 0,
		category_id BIGINT NOT NULL REFERENCES categories(id),
		question TEXT NOT NULL,
		answer TEXT NOT NULL,
		hint1 TEXT,
		hint2 TEXT,
		question_image TEXT,
		answer_image TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS question_translations (
		question_id BIGINT NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
		lang TEXT NOT NULL,
		question TEXT NOT NULL,
		answer TEXT NOT NULL,
		PRIMARY KEY (question_id, lang)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_questions_guild ON questions (guild_id)`,
	`CREATE INDEX IF NOT EXISTS idx_questions_category ON questions (category_id)`,
	`CREATE TABLE IF NOT EXISTS question_stats (
		question_id BIGINT PRIMARY KEY REFERENCES questions(id) ON DELETE CASCADE,
		times_asked INTEGER NOT NULL DEFAULT 0,
		last_asked TIMESTAMPTZ,
		record_time INTEGER
	)`,
	`CREATE TABLE IF NOT EXISTS insane_rounds (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		question TEXT NOT NULL,
		lang TEXT NOT NULL DEFAULT 'en'
	)`,
	`CREATE TABLE IF NOT EXISTS insane_answers (
		round_id BIGINT NOT NULL REFERENCES insane_rounds(id) ON DELETE CASCADE,
		answer TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_insane_answers_round ON insane_answers (round_id)`,
}

func RunMigration(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range migrationStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
