package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hazelweave/quizbot/internal/config"
	"github.com/hazelweave/quizbot/internal/discord"
	"github.com/hazelweave/quizbot/internal/progress"
	"github.com/hazelweave/quizbot/internal/questions"
	"github.com/hazelweave/quizbot/internal/scores"
	"github.com/hazelweave/quizbot/internal/webhook"
)

var (
	ErrAlreadyRunning  = errors.New("a game is already running on this channel")
	ErrNotRunning      = errors.New("no game is running on this channel")
	ErrTooFewQuestions = errors.New("a game needs at least 5 questions")
	ErrListTooSmall    = errors.New("question list has fewer than 50 entries")
)

const (
	minQuestions      = 5
	hardMaxQuestions  = 200
	hardMaxQuickfire  = 15
	minShuffleListLen = 50
	reapCheckInterval = time.Minute
	slashCommandStart = "trivia-start"
	slashCommandStop  = "trivia-stop"
)

// Registry owns the channel-to-session map. The lock covers only map
// operations; state transitions run under each session's own lock.
type Registry struct {
	cfg   *config.Config
	src   questions.Source
	plog  progress.Log
	store scores.Store
	chat  discord.Client
	hooks webhook.Sender

	mu       sync.Mutex
	sessions map[int64]*Session
}

func NewRegistry(cfg *config.Config, src questions.Source, plog progress.Log, store scores.Store, chat discord.Client, hooks webhook.Sender) *Registry {
	return &Registry{
		cfg:      cfg,
		src:      src,
		plog:     plog,
		store:    store,
		chat:     chat,
		hooks:    hooks,
		sessions: make(map[int64]*Session),
	}
}

// StartInput describes a requested game.
type StartInput struct {
	GuildID     int64
	ChannelID   int64
	StarterID   int64
	StarterName string
	Questions   int
	Quickfire   bool
	Hintless    bool
	Category    string
	Premium     bool
}

// StartRound validates the request, builds the question list and launches a
// session. Sentinel errors tell the caller what to report; question source
// sentinels (ErrNoSuchCategory, ErrCategoryTooSmall) pass through.
func (r *Registry) StartRound(ctx context.Context, in StartInput) error {
	r.mu.Lock()
	_, exists := r.sessions[in.ChannelID]
	r.mu.Unlock()
	if exists {
		return ErrAlreadyRunning
	}

	count, err := r.clampQuestionCount(in)
	if err != nil {
		return err
	}

	list, err := r.src.ShuffleList(ctx, in.GuildID, in.Category)
	if err != nil {
		return err
	}
	if len(list) < minShuffleListLen {
		return ErrListTooSmall
	}

	streak := 1
	var lastAnswerer int64
	if c, ok, err := r.store.TakeStreak(ctx, in.ChannelID); err != nil {
		slog.Warn("failed to read streak carryover", "channel_id", in.ChannelID, "error", err)
	} else if ok {
		streak = c.Streak
		lastAnswerer = c.LastAnswerer
		slog.Debug("carrying over streak from previous game",
			"channel_id", in.ChannelID, "last_to_answer", lastAnswerer, "streak", streak)
	}

	gameID := uuid.NewString()
	err = r.plog.LogRoundStart(ctx, progress.StartRecord{
		GameID:        gameID,
		GuildID:       in.GuildID,
		ChannelID:     in.ChannelID,
		QuestionCount: count,
		Quickfire:     in.Quickfire,
		Hintless:      in.Hintless,
		StarterID:     in.StarterID,
		QuestionIDs:   list,
	})
	if err != nil {
		return fmt.Errorf("failed to log round start: %w", err)
	}

	s := newSession(r.cfg, r.src, r.plog, r.store, r.chat, r.hooks, sessionParams{
		GameID:       gameID,
		GuildID:      in.GuildID,
		ChannelID:    in.ChannelID,
		Questions:    count,
		Round:        1,
		Streak:       streak,
		LastAnswerer: lastAnswerer,
		State:        stateAskQuestion,
		Quickfire:    in.Quickfire,
		Hintless:     in.Hintless,
		ShuffleList:  list,
	})

	r.mu.Lock()
	if _, raced := r.sessions[in.ChannelID]; raced {
		r.mu.Unlock()
		s.cancel()
		return ErrAlreadyRunning
	}
	r.sessions[in.ChannelID] = s
	r.mu.Unlock()

	slog.Info("game started",
		"guild_id", in.GuildID,
		"channel_id", in.ChannelID,
		"questions", count,
		"quickfire", in.Quickfire,
		"hintless", in.Hintless,
		"category", in.Category,
		"game_id", gameID)

	fields := []discord.EmbedField{
		{Name: "Questions", Value: strconv.Itoa(count)},
	}
	if in.Category != "" {
		fields = append(fields, discord.EmbedField{Name: "Category", Value: in.Category})
	}
	fields = append(fields,
		discord.EmbedField{Name: "Get ready!", Value: messageStartGetReady},
		discord.EmbedField{Name: "How to play", Value: messageStartInstructions},
	)
	if err := r.chat.SendEmbed(in.ChannelID, discord.Embed{
		Title:  startTitle(in.Quickfire, in.Hintless, in.StarterName),
		Fields: fields,
	}); err != nil {
		slog.Error("failed to send start embed", "channel_id", in.ChannelID, "error", err)
	}

	s.Start(func() { r.remove(in.ChannelID, s) })
	return nil
}

func (r *Registry) clampQuestionCount(in StartInput) (int, error) {
	count := in.Questions
	if count < minQuestions {
		return 0, ErrTooFewQuestions
	}
	hardMax := hardMaxQuestions
	if in.Quickfire && !in.Premium {
		hardMax = hardMaxQuickfire
	}
	if count > hardMax {
		count = hardMax
	}
	limit := r.cfg.MaxNormalRound
	if in.Quickfire {
		limit = r.cfg.MaxQuickfireRound
	} else if in.Hintless {
		limit = r.cfg.MaxHardcoreRound
	}
	if count > limit {
		count = limit
		if err := r.chat.SendEmbed(in.ChannelID, discord.Embed{
			Description: fmt.Sprintf(messageLimitedFormat, limit),
		}); err != nil {
			slog.Error("failed to send limit notice", "channel_id", in.ChannelID, "error", err)
		}
	}
	return count, nil
}

// StopRound ends the game on a channel at its next transition.
func (r *Registry) StopRound(channelID int64, stoppedBy string) error {
	r.mu.Lock()
	s, ok := r.sessions[channelID]
	r.mu.Unlock()
	if !ok {
		return ErrNotRunning
	}
	detail := messageStopDashboard
	if stoppedBy != "" {
		detail = fmt.Sprintf(messageStopRequestedFormat, stoppedBy)
	}
	s.RequestStop(detail)
	return nil
}

// HandleMessage routes an inbound channel message to the session for its
// channel, if any. Bot-authored messages are never answers.
func (r *Registry) HandleMessage(ev discord.MessageEvent) {
	if ev.AuthorBot {
		return
	}
	r.mu.Lock()
	s, ok := r.sessions[ev.ChannelID]
	r.mu.Unlock()
	if !ok {
		return
	}
	s.HandleMessage(ev)
}

func (r *Registry) ActiveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// IsInsaneRound reports whether the channel's game is in an insane round.
func (r *Registry) IsInsaneRound(channelID int64) bool {
	r.mu.Lock()
	s, ok := r.sessions[channelID]
	r.mu.Unlock()
	if !ok {
		return false
	}
	return s.InsaneRound()
}

func (r *Registry) remove(channelID int64, s *Session) {
	r.mu.Lock()
	if current, ok := r.sessions[channelID]; ok && current == s {
		delete(r.sessions, channelID)
	}
	r.mu.Unlock()
	slog.Info("session removed", "channel_id", channelID)
}

// Resume rebuilds sessions for rounds the progress log still marks active,
// typically after a restart. A round whose channel already has a live session
// is skipped; a round without a stored question list gets a fresh one.
func (r *Registry) Resume(ctx context.Context) error {
	active, err := r.plog.ListActiveRounds(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active rounds: %w", err)
	}
	if len(active) == 0 {
		return nil
	}
	slog.Info("resuming games", "count", len(active))

	for _, a := range active {
		r.mu.Lock()
		_, exists := r.sessions[a.ChannelID]
		r.mu.Unlock()
		if exists {
			continue
		}

		list := a.QuestionIDs
		if len(list) == 0 {
			list, err = r.src.ShuffleList(ctx, a.GuildID, "")
			if err != nil || len(list) < minShuffleListLen {
				slog.Error("cannot rebuild question list for resumed game",
					"guild_id", a.GuildID, "channel_id", a.ChannelID, "error", err)
				if err := r.plog.LogRoundEnd(ctx, a.GuildID, a.ChannelID); err != nil {
					slog.Error("failed to close unresumable round", "channel_id", a.ChannelID, "error", err)
				}
				continue
			}
		}

		questionCount := a.QuestionCount
		if questionCount < minQuestions {
			questionCount = len(list)
		}
		s := newSession(r.cfg, r.src, r.plog, r.store, r.chat, r.hooks, sessionParams{
			GameID:       a.GameID,
			GuildID:      a.GuildID,
			ChannelID:    a.ChannelID,
			Questions:    questionCount,
			Round:        a.Round,
			Streak:       a.Streak,
			LastAnswerer: a.LastAnswerer,
			State:        a.State,
			Quickfire:    a.Quickfire,
			Hintless:     a.Hintless,
			ShuffleList:  list,
			Resumed:      true,
		})

		r.mu.Lock()
		r.sessions[a.ChannelID] = s
		r.mu.Unlock()
		s.Start(func() { r.remove(a.ChannelID, s) })

		slog.Info("resumed game",
			"guild_id", a.GuildID,
			"channel_id", a.ChannelID,
			"round", a.Round,
			"quickfire", a.Quickfire,
			"game_id", a.GameID)
	}
	return nil
}

// RunReaper force-ends sessions that outlive the configured ceiling. It
// blocks until ctx is canceled.
func (r *Registry) RunReaper(ctx context.Context) {
	ticker := time.NewTicker(reapCheckInterval)
	defer ticker.Stop()
	maxAge := time.Duration(r.cfg.MaxGameDurationMin) * time.Minute
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.reapOlderThan(maxAge)
		}
	}
}

func (r *Registry) reapOlderThan(maxAge time.Duration) {
	r.mu.Lock()
	stale := make([]*Session, 0)
	for _, s := range r.sessions {
		if time.Since(s.StartedAt()) > maxAge {
			stale = append(stale, s)
		}
	}
	r.mu.Unlock()
	for _, s := range stale {
		slog.Warn("reaping long-running session", "channel_id", s.channelID, "guild_id", s.guildID)
		s.RequestStop(messageStopMaxDuration)
	}
}

// ShutdownAll cancels every session without running its end-of-game
// sequence, leaving the progress log intact so the rounds resume on the next
// start.
func (r *Registry) ShutdownAll() {
	r.mu.Lock()
	all := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		all = append(all, s)
	}
	r.sessions = make(map[int64]*Session)
	r.mu.Unlock()
	for _, s := range all {
		s.Shutdown()
	}
}

// SlashCommandDefinitions returns the commands the registry serves.
func (r *Registry) SlashCommandDefinitions() []discord.SlashCommandDefinition {
	return []discord.SlashCommandDefinition{
		{
			Name:        slashCommandStart,
			Description: slashCommandStartDescription,
			Options: []discord.SlashCommandOption{
				{Name: "questions", Description: "Number of questions", Type: "int", Required: true},
				{Name: "quickfire", Description: "Quickfire mode (faster questions)", Type: "bool"},
				{Name: "hardcore", Description: "Hardcore mode (no hints)", Type: "bool"},
				{Name: "category", Description: "Restrict questions to one category", Type: "string"},
			},
		},
		{
			Name:        slashCommandStop,
			Description: slashCommandStopDescription,
		},
	}
}

// HandleSlashCommand dispatches start and stop commands.
func (r *Registry) HandleSlashCommand(ev discord.SlashCommandEvent) {
	switch ev.CommandName {
	case slashCommandStart:
		r.handleStartCommand(ev)
	case slashCommandStop:
		r.handleStopCommand(ev)
	default:
		r.respond(ev, messageEphemeralUnknownCommand)
	}
}

func (r *Registry) handleStartCommand(ev discord.SlashCommandEvent) {
	count, err := strconv.Atoi(ev.Options["questions"])
	if err != nil {
		r.respond(ev, messageEphemeralStartFailed)
		return
	}
	in := StartInput{
		GuildID:     ev.GuildID,
		ChannelID:   ev.ChannelID,
		StarterID:   ev.UserID,
		StarterName: ev.UserName,
		Questions:   count,
		Quickfire:   ev.Options["quickfire"] == "true",
		Hintless:    ev.Options["hardcore"] == "true",
		Category:    ev.Options["category"],
	}
	err = r.StartRound(context.Background(), in)
	switch {
	case err == nil:
		r.respond(ev, messageEphemeralStarted)
	case errors.Is(err, ErrAlreadyRunning):
		r.respond(ev, messageEphemeralAlreadyRunning)
	case errors.Is(err, ErrTooFewQuestions):
		r.respond(ev, messageEphemeralTooFew)
	case errors.Is(err, questions.ErrNoSuchCategory):
		r.respond(ev, messageEphemeralBadCategory)
	case errors.Is(err, questions.ErrCategoryTooSmall):
		r.respond(ev, messageEphemeralSmallCategory)
	case errors.Is(err, ErrListTooSmall):
		r.respond(ev, messageEphemeralListTooSmall)
	default:
		slog.Error("failed to start game", "channel_id", ev.ChannelID, "error", err)
		r.respond(ev, messageEphemeralStartFailed)
	}
}

func (r *Registry) handleStopCommand(ev discord.SlashCommandEvent) {
	err := r.StopRound(ev.ChannelID, ev.UserName)
	if errors.Is(err, ErrNotRunning) {
		r.respond(ev, messageEphemeralNotRunning)
		return
	}
	r.respond(ev, messageEphemeralStopped)
}

func (r *Registry) respond(ev discord.SlashCommandEvent, content string) {
	if ev.RespondEphemeral == nil {
		return
	}
	if err := ev.RespondEphemeral(content); err != nil {
		slog.Error("failed to respond to slash command", "command", ev.CommandName, "error", err)
	}
}
