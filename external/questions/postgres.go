package questions

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hazelweave/quizbot/internal/questions"
)

type PostgresSource struct {
	pool *pgxpool.Pool
}

func NewPostgresSource(pool *pgxpool.Pool) questions.Source {
	return &PostgresSource{pool: pool}
}

func (s *PostgresSource) ShuffleList(ctx context.Context, guildID int64, category string) ([]int64, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if category != "" {
		var exists bool
		if err := s.pool.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM categories WHERE LOWER(name) = LOWER($1) AND enabled)`,
			category).Scan(&exists); err != nil {
			return nil, fmt.Errorf("check category: %w", err)
		}
		if !exists {
			return nil, questions.ErrNoSuchCategory
		}
		rows, err = s.pool.Query(ctx,
			`SELECT q.id FROM questions q
			 JOIN categories c ON c.id = q.category_id
			 WHERE (q.guild_id = 0 OR q.guild_id = $1) AND LOWER(c.name) = LOWER($2) AND c.enabled
			 ORDER BY random()`,
			guildID, category)
	} else {
		rows, err = s.pool.Query(ctx,
			`SELECT q.id FROM questions q
			 JOIN categories c ON c.id = q.category_id
			 WHERE (q.guild_id = 0 OR q.guild_id = $1) AND c.enabled
			 ORDER BY random()`,
			guildID)
	}
	if err != nil {
		return nil, fmt.Errorf("shuffle list: %w", err)
	}
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if category != "" && len(ids) < 50 {
		return nil, questions.ErrCategoryTooSmall
	}
	return ids, nil
}

func (s *PostgresSource) FetchQuestion(ctx context.Context, id, guildID int64, locale string) (*questions.Question, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT q.id, q.guild_id, COALESCE(tr.question, q.question), COALESCE(tr.answer, q.answer),
		        COALESCE(q.hint1, ''), COALESCE(q.hint2, ''),
		        c.name, COALESCE(st.record_time, 60000) / 1000.0,
		        COALESCE(q.question_image, ''), COALESCE(q.answer_image, '')
		 FROM questions q
		 JOIN categories c ON c.id = q.category_id
		 LEFT JOIN question_stats st ON st.question_id = q.id
		 LEFT JOIN question_translations tr ON tr.question_id = q.id AND tr.lang = $3
		 WHERE q.id = $1 AND (q.guild_id = 0 OR q.guild_id = $2)`,
		id, guildID, locale)
	var q questions.Question
	err := row.Scan(&q.ID, &q.GuildID, &q.Text, &q.Answer, &q.CustomHint1, &q.CustomHint2,
		&q.Category, &q.RecordTimeSecs, &q.QuestionImage, &q.AnswerImage)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, questions.ErrQuestionNotFound
		}
		return nil, fmt.Errorf("fetch question %d: %w", id, err)
	}
	return &q, nil
}

func (s *PostgresSource) FetchInsaneRound(ctx context.Context, guildID int64, locale string) (*questions.InsaneRound, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, question FROM insane_rounds ORDER BY (lang = $1) DESC, random() LIMIT 1`,
		locale)
	var round questions.InsaneRound
	if err := row.Scan(&round.QuestionID, &round.Text); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, questions.ErrQuestionNotFound
		}
		return nil, fmt.Errorf("fetch insane round: %w", err)
	}
	rows, err := s.pool.Query(ctx,
		`SELECT answer FROM insane_answers WHERE round_id = $1`, round.QuestionID)
	if err != nil {
		return nil, fmt.Errorf("fetch insane answers: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var a string
		if err := rows.Scan(&a); err != nil {
			return nil, err
		}
		round.Answers = append(round.Answers, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &round, nil
}

func (s *PostgresSource) RecordAsked(ctx context.Context, id int64) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO question_stats (question_id, times_asked, last_asked)
		 VALUES ($1, 1, NOW())
		 ON CONFLICT (question_id) DO UPDATE
		 SET times_asked = question_stats.times_asked + 1, last_asked = NOW()`,
		id)
	return err
}
