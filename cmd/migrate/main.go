package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"github.com/nskaret/lingoread/internal/config"
)

// Applies goose migrations against the configured database.
// Usage: migrate [-dir migrations] <up|down|status|version>
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	dir := flag.String("dir", "migrations", "directory with migration files")
	flag.Parse()

	command := flag.Arg(0)
	if command == "" {
		command = "up"
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		logger.Error("failed to ping database", slog.Any("error", err))
		os.Exit(1)
	}

	if err := goose.SetDialect("postgres"); err != nil {
		logger.Error("failed to set goose dialect", slog.Any("error", err))
		os.Exit(1)
	}

	if err := runCommand(ctx, db, command, *dir); err != nil {
		logger.Error("migration command failed",
			slog.String("command", command),
			slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("migration command completed", slog.String("command", command))
}

func runCommand(ctx context.Context, db *sql.DB, command, dir string) error {
	switch command {
	case "up":
		return goose.UpContext(ctx, db, dir)
	case "down":
		return goose.DownContext(ctx, db, dir)
	case "status":
		return goose.StatusContext(ctx, db, dir)
	case "version":
		return goose.VersionContext(ctx, db, dir)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}
