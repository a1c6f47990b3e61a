package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"rent_radar/internal/application"
	"rent_radar/internal/config"
	"rent_radar/pkg/contextx"
	"rent_radar/pkg/logx"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		logx.New(os.Stderr, "info").Error("config load", logx.Error(err))
		os.Exit(1)
	}

	log := logx.New(os.Stdout, cfg.App.LogLevel).With("app", cfg.App.Name, "version", cfg.App.Version)
	ctx = contextx.WithLogger(ctx, log)

	if err := application.Run(ctx, cfg); err != nil {
		log.Error("application failed", logx.Error(err))
		os.Exit(1) //nolint:gocritic // cancel is a no-op at this point
	}

	log.Info("application stopped")
}
