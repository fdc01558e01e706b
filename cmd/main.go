package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"brew-and-board/internal/adapters/app"
	"brew-and-board/internal/adapters/db/repository"

	"brew-and-board/internal/core/services"
	"brew-and-board/pkg/config"
	"brew-and-board/pkg/logger"
)

func main() {
	// Loading config
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("cannot load the config properly: %v\n", err)
		os.Exit(1)
	}

	// Parsing flags
	flags, err := services.FlagParse()
	if err != nil {
		fmt.Println(err)
		services.AppUsage()
		os.Exit(1)
	}

	logger := logger.NewLogger(flags.Mode)

	// Initializing repository
	repo, err := repository.NewRepository(*cfg)
	if err != nil {
		logger.Error("", "db_connection_failed", "Database is unreachable", err, nil)
		os.Exit(1)
	}
	logger.Info("", "db_connected", "Connected to PostgreSQL database", map[string]interface{}{"duration_ms": repo.DurationMs})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch flags.Mode {
	case "checkout-service":
		app.Checkout(ctx, logger, repo, cfg, flags, stop)
	case "reconcile-audit":
		app.ReconcileAudit(ctx, logger, repo, cfg, flags)
	}
}
