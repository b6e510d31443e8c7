package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/dom/dietlog/internal/config"
	"github.com/dom/dietlog/internal/logging"
	"github.com/dom/dietlog/internal/repository/postgres"
)

func main() {
	if len(os.Args) != 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logging.Init(cfg.LogLevel, cfg.LogFormat)

	// Migrations run explicitly below
	cfg.DBAutoMigrate = false

	direction := os.Args[1]
	switch direction {
	case "up", "down":
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		fmt.Printf("Unknown command: %s\n\n", direction)
		printUsage()
		os.Exit(1)
	}

	db, err := postgres.NewConnection(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	if direction == "up" {
		err = postgres.Migrate(db)
	} else {
		err = postgres.Rollback(db)
	}
	postgres.Close(db)

	if err != nil {
		slog.Error("migration failed", "direction", direction, "error", err)
		os.Exit(1)
	}
	slog.Info("migration complete", "direction", direction)
}

func printUsage() {
	fmt.Println(`Schema migration for the users and meals tables

USAGE:
  migrate <up|down>

COMMANDS:
  up    Create users and meals if missing
  down  Drop meals and users

ENVIRONMENT:
  DATABASE_URL  PostgreSQL connection string`)
}
