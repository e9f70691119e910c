package game

import (
	"github.com/samber/do/v2"

	"github.com/hazelweave/quizbot/internal/config"
	"github.com/hazelweave/quizbot/internal/discord"
	"github.com/hazelweave/quizbot/internal/progress"
	"github.com/hazelweave/quizbot/internal/questions"
	"github.com/hazelweave/quizbot/internal/scores"
	"github.com/hazelweave/quizbot/internal/webhook"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Registry, error) {
		cfg := do.MustInvoke[*config.Config](i)
		src := do.MustInvoke[questions.Source](i)
		plog := do.MustInvoke[progress.Log](i)
		store := do.MustInvoke[scores.Store](i)
		chat := do.MustInvoke[discord.Client](i)
		hooks := do.MustInvoke[webhook.Sender](i)
		return NewRegistry(cfg, src, plog, store, chat, hooks), nil
	})
}
