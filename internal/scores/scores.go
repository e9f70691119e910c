// Package scores defines the score and streak persistence used by the game
// engine: a per-guild day leaderboard, personal-best streaks, and the
// short-lived streak carryover between consecutive games on a channel.
package scores

import "context"

// Entry is one leaderboard row.
type Entry struct {
	UserID int64
	Score  int64
}

// Carryover preserves a streak across back-to-back games on the same channel.
// It expires after a few minutes so stale streaks are not resurrected.
type Carryover struct {
	LastAnswerer int64
	Streak       int
}

type Store interface {
	// AddScore credits points to a user on a guild's day board and returns
	// the user's new total.
	AddScore(ctx context.Context, guildID, userID int64, points int64) (int64, error)

	// TopScores returns the best n entries for a guild, highest first.
	TopScores(ctx context.Context, guildID int64, n int) ([]Entry, error)

	// StashStreak records the streak state for a channel so the next game can
	// carry it over. TakeStreak removes and returns it; ok is false when no
	// carryover exists or it has expired.
	StashStreak(ctx context.Context, channelID int64, c Carryover) error
	TakeStreak(ctx context.Context, channelID int64) (c Carryover, ok bool, err error)

	// BestStreak and SetBestStreak track a user's personal-best streak on a
	// guild.
	BestStreak(ctx context.Context, guildID, userID int64) (int, error)
	SetBestStreak(ctx context.Context, guildID, userID int64, streak int) error
}
