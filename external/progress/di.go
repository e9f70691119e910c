package progress

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/do/v2"

	"github.com/hazelweave/quizbot/internal/progress"
)

const migrationTimeout = 15 * time.Second

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (progress.Log, error) {
		pool := do.MustInvoke[*pgxpool.Pool](i)
		ctx, cancel := context.WithTimeout(context.Background(), migrationTimeout)
		defer cancel()
		if err := RunMigration(ctx, pool); err != nil {
			return nil, fmt.Errorf("failed to run progress migration: %w", err)
		}
		return NewPostgresLog(pool), nil
	})
}
