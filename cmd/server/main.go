package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rxcheck/ddi/internal/bootstrap"
	"github.com/rxcheck/ddi/internal/config"
	"github.com/rxcheck/ddi/internal/metrics"
	"github.com/rxcheck/ddi/internal/server"
	mid "github.com/rxcheck/ddi/internal/server/middleware"
	"github.com/rxcheck/ddi/internal/util"
	"github.com/rxcheck/ddi/pkg/logger"
	"github.com/rxcheck/ddi/pkg/logger/console"
)

func main() {
	util.LoadEnv()

	cfg, err := config.Load()

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: cfg.Log.Debug,
		Level: cfg.Log.Level,
		JSON:  cfg.Log.JSON,
	})
	logger.Init(consoleLogger)

	if err != nil {
		logger.Fatal("Invalid configuration", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Build(ctx, cfg, metrics.NewRecorder(nil))
	if err != nil {
		logger.Fatal("Failed to load reference data", "err", err)
	}
	defer app.Close()

	e := server.New(&mid.App{Pipeline: app.Pipeline}, server.Options{RateLimit: cfg.RateLimit})
	if err := server.Start(ctx, e, cfg.Port); err != nil {
		logger.Fatal("Server stopped", "err", err)
	}
}
