package game

import "fmt"

const (
	slashCommandStartDescription = "Start a trivia game in this channel."
	slashCommandStopDescription  = "Stop the trivia game running in this channel."

	messageEphemeralUnknownCommand = ":warning: **Unknown command.**"
	messageEphemeralStartFailed    = ":warning: **Could not start the game.**"
	messageEphemeralAlreadyRunning = ":warning: **A game is already running on this channel.**"
	messageEphemeralNotRunning     = ":warning: **No game is running on this channel.**"
	messageEphemeralBadCategory    = ":warning: **There is no category by that name.**"
	messageEphemeralSmallCategory  = ":warning: **That category does not have enough questions to play a round.**"
	messageEphemeralListTooSmall   = ":warning: **Could not build a question list. Please try again later.**"
	messageEphemeralTooFew         = ":warning: **A game needs at least 5 questions.**"
	messageEphemeralStarted        = ":white_check_mark: **Game started.**"
	messageEphemeralStopped        = ":octagonal_sign: **Game stopped.**"

	messageStartTitleFormat     = ":question: %sRound of trivia started by %s!"
	messageStartPrefixQuickfire = "**QUICKFIRE** "
	messageStartPrefixHardcore  = "**HARDCORE** "
	messageStartGetReady        = "First question coming up!"
	messageStartInstructions    = "Just type your answer into the channel. No prefix or command is needed."

	messageQuestionCounterFormat = "Question %d of %d"
	messageInsaneRoundTitle      = "INSANE ROUND!"
	messageInsaneAnswersFormat   = "This question has **%d** possible answers. Find as many as you can!"
	messageInsaneFetching        = ":hourglass: Fetching the insane round, hold tight..."

	messageFirstHintTitle       = "First hint"
	messageSecondHintTitle      = "Second hint"
	messageSecondsLeftFormat    = ":clock10: **%d** seconds left!"
	messageOutOfTimeTitle       = "Out of time!"
	messageTimeUpAnswerFormat   = "The answer was: **%s**"
	messageInsaneFoundFormat    = "Found **%d** answers in time."
	messageStreakSmashedFormat  = "\n\n<@%d>'s streak of **%d** is smashed!"
	messageComingUpFormat       = "\n\nNext question coming up in **%d** seconds."
	messageInsaneScoresTitle    = "Insane round scores"

	messageCorrectTitleFormat  = "%s gets it!"
	messageNormCorrectFormat   = "The correct answer was: **%s**\n\nYou gain **%d** %s for answering in **%.2f** seconds!"
	messageRecordTimeFormat    = " That's a new record time for this question, %s!"
	messageScoreUpdateFormat   = "\n%s is now on **%d** for today."
	messageOnAStreakFormat     = "\n%s is on a streak of **%d** answers in a row!"
	messageBeatenBest          = " A new personal best!"
	messageNotThereYetFormat   = " Their personal best is **%d**."
	messageStreakEnderFormat   = "\n%s just ended <@%d>'s streak of **%d**!"
	messageInsaneCorrectFormat = "%s gets one! **%s** was correct. **%d** of **%d** answers remain."
	messageInsaneLastFormat    = "%s got the last one!"

	messageFetchErrorTitle = "Could not fetch a question"
	messageFetchErrorBody  = "The round has been stopped. If this keeps happening, contact the bot operators."

	messageStopTitle           = "Stopping the game"
	messageStopRequestedFormat = "Stopped by %s."
	messageStopDashboard       = "The game was stopped remotely."
	messageStopMaxDuration     = "The game ran for too long and was stopped."

	messageEndTitleFormat   = "Round of **%d** questions is over!"
	messageEndThanks        = "Thanks for playing!"
	messageLeaderboardTitle = "Today's leaderboard"
	messageLeaderboardEmpty = "Nobody has scored here today!"
	messageLimitedFormat    = ":warning: The number of questions was limited to **%d** on this server."
)

func questionCounter(round, total int) string {
	return fmt.Sprintf(messageQuestionCounterFormat, round, total)
}

func points(n int) string {
	if n == 1 {
		return "point"
	}
	return "points"
}

func startTitle(quickfire, hintless bool, starterName string) string {
	prefix := ""
	if hintless {
		prefix = messageStartPrefixHardcore
	} else if quickfire {
		prefix = messageStartPrefixQuickfire
	}
	return fmt.Sprintf(messageStartTitleFormat, prefix, starterName)
}
