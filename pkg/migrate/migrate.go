package migrate

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"

	dbfs "github.com/code-with-shadow/adhunik-art/db"
	"github.com/code-with-shadow/adhunik-art/pkg/config"
	"github.com/code-with-shadow/adhunik-art/pkg/db"
	"github.com/code-with-shadow/adhunik-art/pkg/logger"
)

// Up applies all pending migrations.
func Up(ctx context.Context, client *db.Client) error {
	return run(ctx, client, func(p *goose.Provider) error {
		_, err := p.Up(ctx)
		return err
	})
}

// Down rolls back the most recent migration.
func Down(ctx context.Context, client *db.Client) error {
	return run(ctx, client, func(p *goose.Provider) error {
		_, err := p.Down(ctx)
		return err
	})
}

// Status prints the migration status for each known migration.
func Status(ctx context.Context, client *db.Client, logg *logger.Logger) error {
	return run(ctx, client, func(p *goose.Provider) error {
		statuses, err := p.Status(ctx)
		if err != nil {
			return err
		}
		for _, st := range statuses {
			applied := "pending"
			if st.State == goose.StateApplied {
				applied = "applied"
			}
			logg.Info(logg.WithFields(ctx, map[string]any{
				"migration": st.Source.Path,
				"state":     applied,
			}), "migration status")
		}
		return nil
	})
}

// MaybeRunDev applies migrations automatically when the auto-migrate flag is
// set; intended for dev environments only.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.Features.AutoMigrate {
		return nil
	}
	if cfg.App.IsProd() {
		return fmt.Errorf("auto-migrate is not allowed in prod")
	}
	logg.Info(ctx, "running dev auto-migrations")
	return Up(ctx, client)
}

func run(ctx context.Context, client *db.Client, fn func(*goose.Provider) error) error {
	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("sql handle for migrations: %w", err)
	}

	sub, err := fs.Sub(dbfs.Migrations, "migrations")
	if err != nil {
		return fmt.Errorf("migrations fs: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, sqlDB, sub)
	if err != nil {
		return fmt.Errorf("init migration provider: %w", err)
	}
	return fn(provider)
}
