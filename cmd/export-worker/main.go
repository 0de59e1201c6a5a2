package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/magabrotheeeer/ai-meal-planner/internal/app/exportworker"
	"github.com/magabrotheeeer/ai-meal-planner/internal/config"
)

func main() {
	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	logger.Info("starting export worker", slog.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := exportworker.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize export worker", slog.Any("err", err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		logger.Error("export worker stopped with error", slog.Any("err", err))
		os.Exit(1)
	}

	logger.Info("export worker stopped gracefully")
}
