package discord

import (
	"github.com/samber/do/v2"

	"github.com/hazelweave/quizbot/internal/config"
	discordpkg "github.com/hazelweave/quizbot/internal/discord"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (discordpkg.Client, error) {
		c := do.MustInvoke[*config.Config](i)
		return NewClient(c.DiscordToken), nil
	})
}
