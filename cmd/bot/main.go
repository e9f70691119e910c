package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/do/v2"

	configloader "github.com/hazelweave/quizbot/external/config"
	"github.com/hazelweave/quizbot/external/discord"
	postgresimpl "github.com/hazelweave/quizbot/external/postgres"
	progressimpl "github.com/hazelweave/quizbot/external/progress"
	questionsimpl "github.com/hazelweave/quizbot/external/questions"
	scoresimpl "github.com/hazelweave/quizbot/external/scores"
	webhookimpl "github.com/hazelweave/quizbot/external/webhook"
	"github.com/hazelweave/quizbot/internal/config"
	discordpkg "github.com/hazelweave/quizbot/internal/discord"
	"github.com/hazelweave/quizbot/internal/game"
)

const (
	discordConnectTimeout = 20 * time.Second
	resumeTimeout         = 30 * time.Second
)

func main() {
	slog.Info("startup: loading configuration")
	cfg := mustLoadConfig()
	initLogger(cfg)
	slog.Info("startup: configuration loaded", "env", cfg.Env)

	slog.Info("startup: building dependency graph")
	injector := setupDI(cfg)

	slog.Info("startup: launching trivia bot")
	runBot(injector)
}

func mustLoadConfig() *config.Config {
	cfg, err := configloader.Load()
	if err != nil {
		slog.Error("config validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

func initLogger(cfg *config.Config) {
	logLevel := slog.LevelInfo
	if cfg.IsDevelopment() {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))
}

func setupDI(cfg *config.Config) do.Injector {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	postgresimpl.RegisterDI(injector)
	questionsimpl.RegisterDI(injector)
	progressimpl.RegisterDI(injector)
	scoresimpl.RegisterDI(injector)
	webhookimpl.RegisterDI(injector)
	discord.RegisterDI(injector)
	game.RegisterDI(injector)

	return injector
}

func runBot(injector do.Injector) {
	dc, err := do.Invoke[discordpkg.Client](injector)
	if err != nil {
		slog.Error("failed to resolve discord client", "error", err)
		os.Exit(1)
	}
	registry, err := do.Invoke[*game.Registry](injector)
	if err != nil {
		slog.Error("failed to resolve game registry", "error", err)
		os.Exit(1)
	}

	connectCtx, cancelConnect := context.WithTimeout(context.Background(), discordConnectTimeout)
	defer cancelConnect()

	slog.Info("startup: connecting to discord gateway")
	if err := dc.Connect(connectCtx); err != nil {
		slog.Error("discord connect failed", "error", err)
		os.Exit(1)
	}
	slog.Info("startup: discord connected")

	if err := dc.UpsertSlashCommands(registry.SlashCommandDefinitions()); err != nil {
		slog.Error("failed to upsert slash commands", "error", err)
		os.Exit(1)
	}

	dc.RegisterMessageHandler(registry.HandleMessage)
	dc.RegisterSlashCommandHandler(registry.HandleSlashCommand)
	slog.Info("discord handlers registered", "commands", []string{"trivia-start", "trivia-stop"})
	defer func() {
		if err := dc.Close(); err != nil {
			slog.Error("discord close failed", "error", err)
		}
	}()

	resumeCtx, cancelResume := context.WithTimeout(context.Background(), resumeTimeout)
	if err := registry.Resume(resumeCtx); err != nil {
		slog.Error("failed to resume active games", "error", err)
	}
	cancelResume()

	reaperCtx, cancelReaper := context.WithCancel(context.Background())
	defer cancelReaper()
	go registry.RunReaper(reaperCtx)

	done := make(chan struct{})
	go func() {
		slog.Info("startup: entering discord run loop")
		if err := dc.Run(); err != nil {
			slog.Error("discord run failed", "error", err)
		}
		close(done)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		slog.Info("shutting down", "active_games", registry.ActiveCount())
	case <-done:
	}
	registry.ShutdownAll()
}
