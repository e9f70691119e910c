// Package progress defines the durable round-progress log. Every state
// transition is recorded so that a crashed process can resume its rounds, and
// so an external dashboard can request early termination.
package progress

import "context"

// StartRecord describes a round at the moment it begins.
type StartRecord struct {
	GameID        string
	GuildID       int64
	ChannelID     int64
	QuestionCount int
	Quickfire     bool
	Hintless      bool
	StarterID     int64
	QuestionIDs   []int64
}

// ProgressRecord is written after every state transition.
type ProgressRecord struct {
	GuildID      int64
	ChannelID    int64
	Round        int
	Streak       int
	LastAnswerer int64
	State        int
	QuestionID   int64
}

// ActiveRound is a round found still marked active at startup; the registry
// rebuilds a session from it.
type ActiveRound struct {
	GameID        string
	GuildID       int64
	ChannelID     int64
	QuestionCount int
	Round         int
	Streak        int
	LastAnswerer  int64
	State         int
	Quickfire     bool
	Hintless      bool
	QuestionIDs   []int64
}

// Log is the durable progress record for running rounds.
type Log interface {
	LogRoundStart(ctx context.Context, rec StartRecord) error

	// LogRoundProgress persists the transition result and reports whether an
	// external stop has been requested for the round. The session honors a
	// true return by ending at its next opportunity.
	LogRoundProgress(ctx context.Context, rec ProgressRecord) (shouldStop bool, err error)

	LogRoundEnd(ctx context.Context, guildID, channelID int64) error

	// ListActiveRounds returns rounds that never saw LogRoundEnd, for resume
	// after a restart.
	ListActiveRounds(ctx context.Context) ([]ActiveRound, error)
}
