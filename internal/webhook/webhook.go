// Package webhook defines the optional game-result notification sink. When a
// webhook URL is configured, every finished game posts a result summary to
// it; an empty URL disables the feature.
package webhook

import "context"

// ResultEntry is one player's final tally for a game.
type ResultEntry struct {
	UserID int64 `json:"user_id"`
	Score  int64 `json:"score"`
}

// GameResult is the payload posted when a game ends.
type GameResult struct {
	GameID       string        `json:"game_id"`
	GuildID      int64         `json:"guild_id"`
	ChannelID    int64         `json:"channel_id"`
	Questions    int           `json:"questions"`
	Quickfire    bool          `json:"quickfire"`
	Hintless     bool          `json:"hintless"`
	DurationSecs int           `json:"duration_secs"`
	Scores       []ResultEntry `json:"scores"`
}

type Sender interface {
	SendGameResult(ctx context.Context, result GameResult) error
}
