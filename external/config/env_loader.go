package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	internalconfig "github.com/hazelweave/quizbot/internal/config"
)

type envConfig struct {
	Env                  string `env:"ENV" envDefault:"production"`
	DiscordToken         string `env:"DISCORD_TOKEN,required"`
	DatabaseURL          string `env:"DATABASE_URL,required"`
	RedisURL             string `env:"REDIS_URL,required"`
	QuestionIntervalSecs int    `env:"QUESTION_INTERVAL_SECS" envDefault:"20"`
	MaxNormalRound       int    `env:"MAX_NORMAL_ROUND" envDefault:"200"`
	MaxQuickfireRound    int    `env:"MAX_QUICKFIRE_ROUND" envDefault:"15"`
	MaxHardcoreRound     int    `env:"MAX_HARDCORE_ROUND" envDefault:"200"`
	MaxGameDurationMin   int    `env:"MAX_GAME_DURATION_MIN" envDefault:"240"`
	DisableInsaneRounds  bool   `env:"DISABLE_INSANE_ROUNDS" envDefault:"false"`
	Locale               string `env:"LOCALE" envDefault:"en"`
	ResultsWebhookURL    string `env:"RESULTS_WEBHOOK_URL"`
}

func Load() (*internalconfig.Config, error) {
	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("environment variables are invalid or missing: %w", err)
	}

	cfg := &internalconfig.Config{
		Env:                  raw.Env,
		DiscordToken:         raw.DiscordToken,
		DatabaseURL:          raw.DatabaseURL,
		RedisURL:             raw.RedisURL,
		QuestionIntervalSecs: raw.QuestionIntervalSecs,
		MaxNormalRound:       raw.MaxNormalRound,
		MaxQuickfireRound:    raw.MaxQuickfireRound,
		MaxHardcoreRound:     raw.MaxHardcoreRound,
		MaxGameDurationMin:   raw.MaxGameDurationMin,
		DisableInsaneRounds:  raw.DisableInsaneRounds,
		Locale:               raw.Locale,
		ResultsWebhookURL:    raw.ResultsWebhookURL,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
