package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"github.com/code-with-shadow/adhunik-art/pkg/config"
	"github.com/code-with-shadow/adhunik-art/pkg/db"
	"github.com/code-with-shadow/adhunik-art/pkg/logger"
	"github.com/code-with-shadow/adhunik-art/pkg/migrate"
)

const usage = "usage: migrate <up|down|status>\n"

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		os.Stderr.WriteString(usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logg := logger.New(logger.Options{
		ServiceName: "adhunik-migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
	})

	ctx := context.Background()
	client, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "database init failed", err)
		os.Exit(1)
	}
	defer client.Close()

	switch os.Args[1] {
	case "up":
		err = migrate.Up(ctx, client)
	case "down":
		err = migrate.Down(ctx, client)
	case "status":
		err = migrate.Status(ctx, client, logg)
	default:
		os.Stderr.WriteString(usage)
		os.Exit(2)
	}
	if err != nil {
		logg.Error(logg.WithField(ctx, "command", os.Args[1]), "migration command failed", err)
		os.Exit(1)
	}
	logg.Info(logg.WithField(ctx, "command", os.Args[1]), "migration command complete")
}
