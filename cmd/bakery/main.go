package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/CuongMinh72/bakery-sys/internal/app"
	"github.com/CuongMinh72/bakery-sys/internal/observability"
	"github.com/CuongMinh72/bakery-sys/internal/pos"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping bakery cli")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg)

	backends, err := app.OpenBackends(ctx, cfg, logger)
	if err != nil {
		logger.Error("open backends", slog.Any("error", err))
		os.Exit(1)
	}
	defer backends.Close()

	svc, err := pos.NewService(ctx, backends.Adapter, pos.Config{
		Policy:       cfg.Policy(),
		MarkupPct:    cfg.MarkupPct,
		SeedDefaults: cfg.SeedDefaults,
		ReloadOnLock: backends.Shared,
	},
		pos.WithLogger(logger),
		pos.WithMetrics(observability.NewMetrics(nil)),
		pos.WithLocker(backends.Locker),
	)
	if err != nil {
		logger.Error("load state", slog.Any("error", err))
		os.Exit(1)
	}

	cli := &CLI{svc: svc, storeName: cfg.StoreName, out: os.Stdout}
	if err := cli.Run(ctx, os.Args[1:]); err != nil {
		logger.Error("command failed", slog.Any("error", err))
		stop()
		backends.Close()
		os.Exit(1)
	}
}
