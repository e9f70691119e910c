package config

import "fmt"

type Config struct {
	Env          string
	DiscordToken string
	DatabaseURL  string
	RedisURL     string

	// Game pacing. QuestionIntervalSecs is the base tick interval for normal
	// rounds; quickfire rounds run at a quarter of it.
	QuestionIntervalSecs int

	// Round size limits. Quickfire has a lower cap for non-premium guilds.
	MaxNormalRound    int
	MaxQuickfireRound int
	MaxHardcoreRound  int

	// MaxGameDurationMin is the ceiling after which a session is reaped
	// unconditionally, to bound resource usage when a channel goes dark.
	MaxGameDurationMin int

	DisableInsaneRounds bool

	// Locale selects translated question text and, when set to "es",
	// relaxes accented vowels during answer matching so "papa" counts as
	// "papá".
	Locale string

	// ResultsWebhookURL, when set, receives a JSON summary of every finished
	// game. Empty disables the webhook.
	ResultsWebhookURL string
}

func (c *Config) Validate() error {
	for _, req := range c.requiredFieldChecks() {
		if req.value == "" {
			return fmt.Errorf("%s is required", req.name)
		}
	}
	if c.QuestionIntervalSecs < 4 {
		return fmt.Errorf("QUESTION_INTERVAL_SECS must be at least 4, got %d", c.QuestionIntervalSecs)
	}
	if c.MaxNormalRound < 5 || c.MaxQuickfireRound < 5 || c.MaxHardcoreRound < 5 {
		return fmt.Errorf("round limits must be at least 5")
	}
	if c.MaxGameDurationMin <= 0 {
		return fmt.Errorf("MAX_GAME_DURATION_MIN must be positive, got %d", c.MaxGameDurationMin)
	}
	if c.Locale == "" {
		return fmt.Errorf("LOCALE must not be empty")
	}
	return nil
}

type requiredEnvField struct {
	name  string
	value string
}

func (c *Config) requiredFieldChecks() []requiredEnvField {
	return []requiredEnvField{
		{name: "DISCORD_TOKEN", value: c.DiscordToken},
		{name: "DATABASE_URL", value: c.DatabaseURL},
		{name: "REDIS_URL", value: c.RedisURL},
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
