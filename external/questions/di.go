package questions

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/do/v2"

	"github.com/hazelweave/quizbot/internal/questions"
)

const migrationTimeout = 15 * time.Second

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (questions.Source, error) {
		pool := do.MustInvoke[*pgxpool.Pool](i)
		ctx, cancel := context.WithTimeout(context.Background(), migrationTimeout)
		defer cancel()
		if err := RunMigration(ctx, pool); err != nil {
			return nil, fmt.Errorf("failed to run question migration: %w", err)
		}
		return NewPostgresSource(pool), nil
	})
}
