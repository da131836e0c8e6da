package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/config"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/logger"
)

func main() {
	flag.Usage = func() {
		slog.Info("usage: migrate [up|down|status|reset|version|redo] [args]")
	}
	flag.Parse()

	command := "up"
	args := flag.Args()
	if len(args) > 0 {
		command, args = args[0], args[1:]
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(logger.New(cfg.App.Env, cfg.App.LogLevel))

	if err := database.Migrate(context.Background(), cfg.DatabaseURL(), command, args...); err != nil {
		slog.Error("migration failed", "command", command, "error", err)
		os.Exit(1)
	}
	slog.Info("migration finished", "command", command)
}
