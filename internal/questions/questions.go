// Package questions defines the question source consumed by the game engine.
// Implementations live under external/questions.
package questions

import (
	"context"
	"errors"
)

var (
	// ErrQuestionNotFound means the backing store has no such question. The
	// engine treats this as a data integrity failure and aborts the round
	// without retrying.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrNoSuchCategory is returned by ShuffleList for an unknown category.
	ErrNoSuchCategory = errors.New("no such category")
	// ErrCategoryTooSmall is returned when a category has too few questions
	// to build a round from.
	ErrCategoryTooSmall = errors.New("category too small")
)

// Question is the full content of one trivia question. It is immutable once
// fetched for a round; the engine rewrites Answer into a normalized numeric
// form and fills the hints on its own copy.
type Question struct {
	ID             int64
	GuildID        int64
	Text           string
	Answer         string
	CustomHint1    string
	CustomHint2    string
	Category       string
	RecordTimeSecs float64
	QuestionImage  string
	AnswerImage    string
}

// InsaneRound is a question with many acceptable answers, cleared as players
// claim them.
type InsaneRound struct {
	QuestionID int64
	Text       string
	Answers    []string
}

// Source supplies shuffled question orderings and question content.
type Source interface {
	// ShuffleList returns a shuffled ordering of question ids for a guild,
	// optionally restricted to a category. Callers refuse to start a round
	// when fewer than 50 ids come back.
	ShuffleList(ctx context.Context, guildID int64, category string) ([]int64, error)

	// FetchQuestion resolves one question id. Guild-scoped custom questions
	// shadow global ones; locale selects translated question text where a
	// translation exists.
	FetchQuestion(ctx context.Context, id, guildID int64, locale string) (*Question, error)

	// FetchInsaneRound picks a multi-answer round, preferring the requested
	// locale. Failures here are transient; the session retries with backoff.
	FetchInsaneRound(ctx context.Context, guildID int64, locale string) (*InsaneRound, error)

	// RecordAsked bumps the asked counters for a question. Best effort.
	RecordAsked(ctx context.Context, id int64) error
}
