// Package game runs trivia rounds. Each channel has at most one Session, a
// finite state machine ticked by its own goroutine; the Registry owns the
// channel-to-session map and routes inbound chat to the right session.
package game

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hazelweave/quizbot/internal/config"
	"github.com/hazelweave/quizbot/internal/discord"
	"github.com/hazelweave/quizbot/internal/match"
	"github.com/hazelweave/quizbot/internal/progress"
	"github.com/hazelweave/quizbot/internal/questions"
	"github.com/hazelweave/quizbot/internal/scores"
	"github.com/hazelweave/quizbot/internal/webhook"
)

// Game states. The numeric values are persisted in the progress log, so they
// must stay stable across releases.
const (
	stateAskQuestion   = 1
	stateFirstHint     = 2
	stateSecondHint    = 3
	stateTimeUp        = 4
	stateAnswerCorrect = 5
	stateEnd           = 6
)

const (
	insaneFetchTries   = 5
	insaneFetchBackoff = 3 * time.Second
)

// Session is the per-channel game state machine. All mutable state is guarded
// by mu; the worker goroutine and the inbound message path both take it. Once
// terminating is set the session accepts no further input and the worker
// exits after its current tick.
type Session struct {
	gameID    string
	guildID   int64
	channelID int64

	cfg   *config.Config
	src   questions.Source
	plog  progress.Log
	store scores.Store
	chat  discord.Client
	hooks webhook.Sender
	rng   *rand.Rand

	ctx    context.Context
	cancel context.CancelFunc
	wake   chan struct{}
	done   chan struct{}

	quickfire     bool
	hintless      bool
	interval      time.Duration
	silentNextAsk bool
	locale        string
	relaxedVowels bool
	insaneBackoff time.Duration

	terminating atomic.Bool

	mu             sync.Mutex
	state          int
	round          int
	numQuestions   int
	score          int
	streak         int
	lastToAnswer   int64
	startTime      time.Time
	askTime        time.Time
	shuffleList    []int64
	question       *questions.Question
	originalAnswer string
	hint1          string
	hint2          string
	insane         map[string]struct{}
	insaneNum      int
	insaneLeft     int
	insaneStats    map[int64]int
}

type sessionParams struct {
	GameID       string
	GuildID      int64
	ChannelID    int64
	Questions    int
	Round        int
	Streak       int
	LastAnswerer int64
	State        int
	Quickfire    bool
	Hintless     bool
	ShuffleList  []int64
	Resumed      bool
}

func newSession(cfg *config.Config, src questions.Source, plog progress.Log, store scores.Store, chat discord.Client, hooks webhook.Sender, p sessionParams) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	base := time.Duration(cfg.QuestionIntervalSecs) * time.Second
	interval := base
	if p.Quickfire {
		interval = base / 4
	}
	streak := p.Streak
	if streak < 1 {
		streak = 1
	}
	round := p.Round
	if round < 1 {
		round = 1
	}
	return &Session{
		gameID:        p.GameID,
		guildID:       p.GuildID,
		channelID:     p.ChannelID,
		cfg:           cfg,
		src:           src,
		plog:          plog,
		store:         store,
		chat:          chat,
		hooks:         hooks,
		rng:           rand.New(rand.NewPCG(uint64(p.ChannelID), uint64(time.Now().UnixNano()))),
		ctx:           ctx,
		cancel:        cancel,
		wake:          make(chan struct{}, 1),
		done:          make(chan struct{}),
		quickfire:     p.Quickfire,
		hintless:      p.Hintless,
		interval:      interval,
		locale:        cfg.Locale,
		relaxedVowels: cfg.Locale == "es",
		insaneBackoff: insaneFetchBackoff,
		silentNextAsk: p.Resumed && p.State > stateAskQuestion && p.State < stateEnd,
		state:         stateAskQuestion,
		round:         round,
		numQuestions:  p.Questions + 1,
		streak:        streak,
		lastToAnswer:  p.LastAnswerer,
		startTime:     time.Now(),
		shuffleList:   p.ShuffleList,
		insaneStats:   make(map[int64]int),
	}
}

// Start launches the worker goroutine. onDone is called exactly once, after
// the final tick, so the registry can drop its map entry.
func (s *Session) Start(onDone func()) {
	go s.run(onDone)
}

func (s *Session) run(onDone func()) {
	defer close(s.done)
	defer onDone()
	timer := time.NewTimer(0)
	defer timer.Stop()
	for {
		fromTimer := false
		select {
		case <-s.ctx.Done():
			return
		case <-timer.C:
			fromTimer = true
		case <-s.wake:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
		}
		delay := s.safeTick()
		if fromTimer {
			// A wake queued before this tick is stale: the tick already
			// consumed the state change it signalled. Left in the buffer
			// it would cut the next delay to zero.
			s.drainWake()
		}
		if s.terminating.Load() {
			return
		}
		timer.Reset(delay)
	}
}

func (s *Session) drainWake() {
	select {
	case <-s.wake:
	default:
	}
}

func (s *Session) safeTick() (delay time.Duration) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("session tick panicked", "guild_id", s.guildID, "channel_id", s.channelID, "panic", r)
			delay = s.interval
		}
	}()
	return s.tick()
}

// tick advances the state machine by one transition and returns the delay
// until the next one. A correct answer short-circuits the timer.
func (s *Session) tick() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case stateAskQuestion:
		if s.isInsaneRound() {
			s.doInsaneRound()
		} else {
			s.doNormalRound(s.consumeResume())
		}
	case stateFirstHint:
		s.doFirstHint()
	case stateSecondHint:
		s.doSecondHint()
	case stateTimeUp:
		s.doTimeUp()
	case stateAnswerCorrect:
		s.doAnswerCorrect()
	case stateEnd:
		s.doEndGame()
	default:
		slog.Warn("invalid game state, ending round", "state", s.state, "channel_id", s.channelID)
		s.state = stateEnd
	}

	if s.state == stateAnswerCorrect {
		return 0
	}
	return s.interval
}

// consumeResume reports whether the next ask should be silent. A session
// rebuilt from the progress log mid-question reloads that question without
// re-posting it; players already saw it before the restart.
func (s *Session) consumeResume() bool {
	silent := s.silentNextAsk
	s.silentNextAsk = false
	return silent
}

func (s *Session) isInsaneRound() bool {
	return !s.cfg.DisableInsaneRounds && s.round%10 == 0
}

func (s *Session) doNormalRound(silent bool) {
	if s.round >= s.numQuestions || s.round > len(s.shuffleList) {
		s.state = stateEnd
		s.score = 0
		return
	}

	id := s.shuffleList[s.round-1]
	q, err := s.src.FetchQuestion(s.ctx, id, s.guildID, s.locale)
	if err != nil || q == nil || q.ID == 0 {
		s.state = stateEnd
		s.score = 0
		s.question = nil
		slog.Warn("question fetch failed, aborting round", "question_id", id, "channel_id", s.channelID, "error", err)
		if !silent {
			s.sendEmbed(discord.Embed{
				Title:       messageFetchErrorTitle,
				Description: messageFetchErrorBody,
			})
		}
		return
	}
	if err := s.src.RecordAsked(s.ctx, q.ID); err != nil {
		slog.Warn("failed to record question stats", "question_id", q.ID, "error", err)
	}

	s.askTime = time.Now()
	s.prepareQuestion(q)

	if !silent {
		s.sendEmbed(discord.Embed{
			Title: questionCounter(s.round, s.numQuestions-1),
			Fields: []discord.EmbedField{
				{Name: "Category", Value: q.Category},
				{Name: "Question", Value: q.Text},
			},
			Image: q.QuestionImage,
		})
	}

	switch {
	case s.hintless:
		s.score = 6
		s.state = stateTimeUp
	case s.quickfire:
		s.score = 8
		s.state = stateFirstHint
	default:
		s.score = 4
		s.state = stateFirstHint
	}
	s.logProgressAndMaybeStop()
}

// prepareQuestion normalizes the answer for matching and fixes both hints so
// they stay stable for the lifetime of the question.
func (s *Session) prepareQuestion(q *questions.Question) {
	copied := *q
	copied.Answer = strings.TrimSpace(copied.Answer)
	s.originalAnswer = copied.Answer
	if t := match.NormalizeNumber(copied.Answer); match.IsNumber(t) && t != "0" {
		copied.Answer = t
	}
	copied.Answer = match.TidyNumber(copied.Answer)
	s.question = &copied

	s.hint1 = copied.CustomHint1
	if s.hint1 == "" {
		s.hint1 = match.SynthesizeFirstHint(copied.Answer, s.rng)
	}
	s.hint2 = copied.CustomHint2
	if s.hint2 == "" {
		s.hint2 = match.SynthesizeSecondHint(copied.Answer, s.rng)
	}
}

func (s *Session) doInsaneRound() {
	if s.round >= s.numQuestions {
		s.state = stateEnd
		s.score = 0
		return
	}

	var ir *questions.InsaneRound
	notified := false
	for try := 0; try < insaneFetchTries; try++ {
		fetched, err := s.src.FetchInsaneRound(s.ctx, s.guildID, s.locale)
		if err == nil && fetched != nil && len(fetched.Answers) >= 1 {
			ir = fetched
			break
		}
		slog.Warn("insane round fetch failed", "try", try+1, "channel_id", s.channelID, "error", err)
		if !notified {
			s.sendEmbed(discord.Embed{Description: messageInsaneFetching})
			notified = true
		}
		if try == insaneFetchTries-1 {
			break
		}
		select {
		case <-s.ctx.Done():
			s.state = stateEnd
			return
		case <-time.After(s.insaneBackoff):
		}
	}
	if ir == nil {
		s.stopGame(messageFetchErrorBody)
		return
	}

	s.insane = make(map[string]struct{}, len(ir.Answers))
	for _, a := range ir.Answers {
		folded := match.FoldCase(match.StripPunctuation(a), s.relaxedVowels)
		if folded != "" {
			s.insane[folded] = struct{}{}
		}
	}
	s.insaneLeft = len(s.insane)
	s.insaneNum = len(s.insane)
	s.question = &questions.Question{ID: ir.QuestionID, Text: ir.Text}
	s.state = stateFirstHint

	s.sendEmbed(discord.Embed{
		Title: questionCounter(s.round, s.numQuestions-1),
		Fields: []discord.EmbedField{
			{Name: messageInsaneRoundTitle, Value: fmt.Sprintf(messageInsaneAnswersFormat, s.insaneNum)},
			{Name: "Question", Value: ir.Text},
		},
	})
	s.logProgressAndMaybeStop()
}

func (s *Session) doFirstHint() {
	if s.isInsaneRound() {
		secs := int((s.interval * 2) / time.Second)
		s.sendEmbed(discord.Embed{Description: fmt.Sprintf(messageSecondsLeftFormat, secs)})
	} else {
		s.sendEmbed(discord.Embed{Title: messageFirstHintTitle, Description: s.hint1})
	}
	s.state = stateSecondHint
	if s.quickfire {
		s.score = 4
	} else {
		s.score = 2
	}
	s.logProgressAndMaybeStop()
}

func (s *Session) doSecondHint() {
	if s.isInsaneRound() {
		secs := int(s.interval / time.Second)
		s.sendEmbed(discord.Embed{Description: fmt.Sprintf(messageSecondsLeftFormat, secs)})
	} else {
		s.sendEmbed(discord.Embed{Title: messageSecondHintTitle, Description: s.hint2})
	}
	s.state = stateTimeUp
	if s.quickfire {
		s.score = 2
	} else {
		s.score = 1
	}
	s.logProgressAndMaybeStop()
}

func (s *Session) doTimeUp() {
	var content, title, image string

	if s.isInsaneRound() {
		found := s.insaneNum - s.insaneLeft
		content = fmt.Sprintf(messageInsaneFoundFormat, found)
		title = messageOutOfTimeTitle
		s.postInsaneBoard()
		s.insane = nil
		s.insaneLeft = 0
	} else if s.question != nil && s.question.Answer != "" {
		content = fmt.Sprintf(messageTimeUpAnswerFormat, s.originalAnswer)
		title = messageOutOfTimeTitle
		image = s.question.AnswerImage
	}

	// A streak can only be lost on a normal round.
	if s.question != nil && s.question.Answer != "" && !s.isInsaneRound() {
		if s.streak > 1 && s.lastToAnswer != 0 {
			content += fmt.Sprintf(messageStreakSmashedFormat, s.lastToAnswer, s.streak)
		}
		s.question.Answer = ""
		s.lastToAnswer = 0
		s.streak = 1
	}

	if s.round <= s.numQuestions-2 {
		content += fmt.Sprintf(messageComingUpFormat, int(s.interval/time.Second))
	}
	if content != "" || title != "" {
		s.sendEmbed(discord.Embed{Title: title, Description: content, Image: image})
	}

	if s.round >= s.numQuestions {
		s.state = stateEnd
	} else {
		s.state = stateAskQuestion
		s.round++
	}
	s.logProgressAndMaybeStop()
}

func (s *Session) doAnswerCorrect() {
	s.round++
	if s.question != nil {
		s.question.Answer = ""
	}
	s.state = stateAskQuestion
	s.logProgressAndMaybeStop()
}

func (s *Session) doEndGame() {
	if err := s.plog.LogRoundEnd(s.ctx, s.guildID, s.channelID); err != nil {
		slog.Error("failed to log round end", "channel_id", s.channelID, "error", err)
	}
	slog.Info("game over",
		"guild_id", s.guildID,
		"channel_id", s.channelID,
		"questions", s.numQuestions-1,
		"duration_secs", int(time.Since(s.startTime)/time.Second))

	s.sendEmbed(discord.Embed{
		Title:       fmt.Sprintf(messageEndTitleFormat, s.numQuestions-1),
		Description: messageEndThanks,
	})
	top := s.postLeaderboard()
	s.sendResultWebhook(top)

	if s.streak > 1 && s.lastToAnswer != 0 {
		err := s.store.StashStreak(s.ctx, s.channelID, scores.Carryover{
			LastAnswerer: s.lastToAnswer,
			Streak:       s.streak,
		})
		if err != nil {
			slog.Warn("failed to stash streak carryover", "channel_id", s.channelID, "error", err)
		}
	}

	s.terminating.Store(true)
	s.cancel()
}

func (s *Session) postLeaderboard() []scores.Entry {
	top, err := s.store.TopScores(context.Background(), s.guildID, 10)
	if err != nil {
		slog.Error("failed to fetch leaderboard", "guild_id", s.guildID, "error", err)
		return nil
	}
	body := ""
	for i, e := range top {
		body += fmt.Sprintf("%d. <@%d> (**%d**)\n", i+1, e.UserID, e.Score)
	}
	if body == "" {
		body = messageLeaderboardEmpty
	}
	s.sendEmbed(discord.Embed{Title: messageLeaderboardTitle, Description: body})
	return top
}

func (s *Session) sendResultWebhook(top []scores.Entry) {
	entries := make([]webhook.ResultEntry, 0, len(top))
	for _, e := range top {
		entries = append(entries, webhook.ResultEntry{UserID: e.UserID, Score: e.Score})
	}
	result := webhook.GameResult{
		GameID:       s.gameID,
		GuildID:      s.guildID,
		ChannelID:    s.channelID,
		Questions:    s.numQuestions - 1,
		Quickfire:    s.quickfire,
		Hintless:     s.hintless,
		DurationSecs: int(time.Since(s.startTime) / time.Second),
		Scores:       entries,
	}
	if err := s.hooks.SendGameResult(context.Background(), result); err != nil {
		slog.Warn("failed to send game result webhook", "game_id", s.gameID, "error", err)
	}
}

func (s *Session) postInsaneBoard() {
	if len(s.insaneStats) == 0 {
		return
	}
	type row struct {
		userID int64
		count  int
	}
	rows := make([]row, 0, len(s.insaneStats))
	for uid, n := range s.insaneStats {
		rows = append(rows, row{uid, n})
	}
	for i := 1; i < len(rows); i++ {
		for j := i; j > 0 && rows[j].count > rows[j-1].count; j-- {
			rows[j], rows[j-1] = rows[j-1], rows[j]
		}
	}
	body := ""
	for i, r := range rows {
		body += fmt.Sprintf("**#%d** <@%d> (*%d*)\n", i+1, r.userID, r.count)
	}
	s.sendEmbed(discord.Embed{Title: messageInsaneScoresTitle, Description: body})
	s.insaneStats = make(map[int64]int)
}

// HandleMessage considers an inbound channel message as an answer. It is
// called from the gateway's event goroutine, concurrently with ticks.
func (s *Session) HandleMessage(ev discord.MessageEvent) {
	if s.terminating.Load() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case stateAskQuestion, stateFirstHint, stateSecondHint, stateTimeUp:
	default:
		return
	}

	if s.isInsaneRound() {
		s.handleInsaneAnswer(ev)
		return
	}
	s.handleNormalAnswer(ev)
}

func (s *Session) handleInsaneAnswer(ev discord.MessageEvent) {
	folded := match.FoldCase(match.StripPunctuation(ev.Content), s.relaxedVowels)
	if _, ok := s.insane[folded]; !ok {
		return
	}
	delete(s.insane, folded)
	s.insaneLeft--
	s.insaneStats[ev.AuthorID]++

	if _, err := s.store.AddScore(s.ctx, s.guildID, ev.AuthorID, 1); err != nil {
		slog.Error("failed to add insane score", "user_id", ev.AuthorID, "error", err)
	}

	if s.insaneLeft < 1 {
		s.sendEmbed(discord.Embed{Description: fmt.Sprintf(messageInsaneLastFormat, ev.AuthorName)})
		if s.round <= s.numQuestions-1 {
			s.state = stateAnswerCorrect
		} else {
			s.state = stateEnd
		}
		s.postInsaneBoard()
		s.logProgressAndMaybeStop()
		s.wakeWorker()
		return
	}
	s.sendEmbed(discord.Embed{
		Description: fmt.Sprintf(messageInsaneCorrectFormat, ev.AuthorName, ev.Content, s.insaneLeft, s.insaneNum),
	})
}

func (s *Session) handleNormalAnswer(ev discord.MessageEvent) {
	if s.question == nil || s.question.Answer == "" {
		return
	}
	if !match.Matches(ev.Content, s.question.Answer, s.relaxedVowels) {
		return
	}

	// Clearing the answer is the synchronization point: a second concurrent
	// correct answer sees the empty string and is ignored.
	s.question.Answer = ""
	s.state = stateAnswerCorrect

	timeToAnswer := time.Since(s.askTime).Seconds()
	pts := s.score

	body := fmt.Sprintf(messageNormCorrectFormat, s.originalAnswer, pts, points(pts), timeToAnswer)
	if s.question.RecordTimeSecs > 0 && timeToAnswer < s.question.RecordTimeSecs {
		body += fmt.Sprintf(messageRecordTimeFormat, ev.AuthorName)
	}

	newTotal, err := s.store.AddScore(s.ctx, s.guildID, ev.AuthorID, int64(pts))
	if err != nil {
		slog.Error("failed to add score", "user_id", ev.AuthorID, "error", err)
		newTotal = int64(pts)
	}
	body += fmt.Sprintf(messageScoreUpdateFormat, ev.AuthorName, newTotal)

	body += s.applyStreak(ev)
	s.lastToAnswer = ev.AuthorID

	if s.round+1 <= s.numQuestions-2 {
		body += fmt.Sprintf(messageComingUpFormat, int(s.interval/time.Second))
	}

	s.sendEmbed(discord.Embed{
		Title:       fmt.Sprintf(messageCorrectTitleFormat, ev.AuthorName),
		Description: body,
		Image:       s.question.AnswerImage,
	})

	s.logProgressAndMaybeStop()
	s.wakeWorker()
}

// applyStreak extends, resets or transfers the streak for a correct answer
// and returns the lines to append to the announcement.
func (s *Session) applyStreak(ev discord.MessageEvent) string {
	if s.lastToAnswer == ev.AuthorID {
		s.streak++
		body := fmt.Sprintf(messageOnAStreakFormat, ev.AuthorName, s.streak)
		best, err := s.store.BestStreak(s.ctx, s.guildID, ev.AuthorID)
		if err != nil {
			slog.Warn("failed to fetch best streak", "user_id", ev.AuthorID, "error", err)
			return body
		}
		if s.streak > best {
			body += messageBeatenBest
			if err := s.store.SetBestStreak(s.ctx, s.guildID, ev.AuthorID, s.streak); err != nil {
				slog.Warn("failed to save best streak", "user_id", ev.AuthorID, "error", err)
			}
		} else {
			body += fmt.Sprintf(messageNotThereYetFormat, best)
		}
		return body
	}
	if s.streak > 1 && s.lastToAnswer != 0 {
		body := fmt.Sprintf(messageStreakEnderFormat, ev.AuthorName, s.lastToAnswer, s.streak)
		s.streak = 1
		return body
	}
	s.streak = 1
	return ""
}

// logProgressAndMaybeStop persists the transition and honors a stop request
// from the dashboard by forcing the end state.
func (s *Session) logProgressAndMaybeStop() {
	var qid int64
	if s.question != nil {
		qid = s.question.ID
	}
	stop, err := s.plog.LogRoundProgress(s.ctx, progress.ProgressRecord{
		GuildID:      s.guildID,
		ChannelID:    s.channelID,
		Round:        s.round,
		Streak:       s.streak,
		LastAnswerer: s.lastToAnswer,
		State:        s.state,
		QuestionID:   qid,
	})
	if err != nil {
		slog.Error("failed to log round progress", "channel_id", s.channelID, "error", err)
		return
	}
	if stop {
		s.stopGame(messageStopDashboard)
	}
}

// stopGame announces the stop and parks the machine in the end state; the
// next tick runs the end-of-game sequence. Callers hold mu.
func (s *Session) stopGame(detail string) {
	if s.state == stateEnd {
		return
	}
	s.sendEmbed(discord.Embed{Title: messageStopTitle, Description: detail})
	s.state = stateEnd
}

// RequestStop asks the session to finish after its current transition. Used
// by the stop command and the max-duration reaper.
func (s *Session) RequestStop(detail string) {
	s.mu.Lock()
	s.stopGame(detail)
	s.mu.Unlock()
	s.wakeWorker()
}

// Shutdown cancels the worker without running the end-of-game sequence. The
// progress log keeps the round active so it resumes after restart.
func (s *Session) Shutdown() {
	s.terminating.Store(true)
	s.cancel()
	<-s.done
}

func (s *Session) StartedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startTime
}

// InsaneRound reports whether the session is currently in an insane round.
func (s *Session) InsaneRound() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isInsaneRound()
}

func (s *Session) wakeWorker() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Session) sendEmbed(e discord.Embed) {
	if err := s.chat.SendEmbed(s.channelID, e); err != nil {
		slog.Error("failed to send embed", "channel_id", s.channelID, "error", err)
	}
}
