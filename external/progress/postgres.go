package progress

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hazelweave/quizbot/internal/progress"
)

type PostgresLog struct {
	pool *pgxpool.Pool
}

func NewPostgresLog(pool *pgxpool.Pool) progress.Log {
	return &PostgresLog{pool: pool}
}

func (l *PostgresLog) LogRoundStart(ctx context.Context, rec progress.StartRecord) error {
	_, err := l.pool.Exec(ctx,
		`INSERT INTO active_rounds
		 (game_id, guild_id, channel_id, question_count, quickfire, hintless, starter_id, question_ids, round, streak, last_answerer, state, started_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 1, 1, 0, 1, NOW())
		 ON CONFLICT (channel_id) DO UPDATE SET
		 game_id = EXCLUDED.game_id, guild_id = EXCLUDED.guild_id,
		 question_count = EXCLUDED.question_count, quickfire = EXCLUDED.quickfire,
		 hintless = EXCLUDED.hintless, starter_id = EXCLUDED.starter_id,
		 question_ids = EXCLUDED.question_ids, round = 1, streak = 1,
		 last_answerer = 0, state = 1, stop_requested = FALSE, started_at = NOW()`,
		rec.GameID, rec.GuildID, rec.ChannelID, rec.QuestionCount,
		rec.Quickfire, rec.Hintless, rec.StarterID, rec.QuestionIDs)
	if err != nil {
		return fmt.Errorf("log round start: %w", err)
	}
	return nil
}

func (l *PostgresLog) LogRoundProgress(ctx context.Context, rec progress.ProgressRecord) (bool, error) {
	row := l.pool.QueryRow(ctx,
		`UPDATE active_rounds
		 SET round = $3, streak = $4, last_answerer = $5, state = $6, question_id = $7, updated_at = NOW()
		 WHERE guild_id = $1 AND channel_id = $2
		 RETURNING stop_requested`,
		rec.GuildID, rec.ChannelID, rec.Round, rec.Streak, rec.LastAnswerer, rec.State, rec.QuestionID)
	var stop bool
	if err := row.Scan(&stop); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Round row was removed externally; treat as a stop request.
			return true, nil
		}
		return false, fmt.Errorf("log round progress: %w", err)
	}
	return stop, nil
}

func (l *PostgresLog) LogRoundEnd(ctx context.Context, guildID, channelID int64) error {
	_, err := l.pool.Exec(ctx,
		`DELETE FROM active_rounds WHERE guild_id = $1 AND channel_id = $2`,
		guildID, channelID)
	if err != nil {
		return fmt.Errorf("log round end: %w", err)
	}
	return nil
}

func (l *PostgresLog) ListActiveRounds(ctx context.Context) ([]progress.ActiveRound, error) {
	rows, err := l.pool.Query(ctx,
		`SELECT game_id, guild_id, channel_id, question_count, round, streak, last_answerer, state, quickfire, hintless, question_ids
		 FROM active_rounds`)
	if err != nil {
		return nil, fmt.Errorf("list active rounds: %w", err)
	}
	defer rows.Close()
	var list []progress.ActiveRound
	for rows.Next() {
		var r progress.ActiveRound
		if err := rows.Scan(&r.GameID, &r.GuildID, &r.ChannelID, &r.QuestionCount, &r.Round, &r.Streak,
			&r.LastAnswerer, &r.State, &r.Quickfire, &r.Hintless, &r.QuestionIDs); err != nil {
			return nil, err
		}
		list = append(list, r)
	}
	return list, rows.Err()
}
