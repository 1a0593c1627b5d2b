package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/ivanquesadapalmero/planazo-backend/internal/mailer"
	"github.com/ivanquesadapalmero/planazo-backend/internal/tasks"
	"github.com/ivanquesadapalmero/planazo-backend/pkg/config"
	"github.com/ivanquesadapalmero/planazo-backend/pkg/queue"
	"github.com/ivanquesadapalmero/planazo-backend/pkg/util"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := util.NewLogger(cfg.Server.Env)
	slog.SetDefault(logger)

	logger.Info("starting Planazo worker",
		"concurrency", cfg.Worker.Concurrency,
		"smtp", cfg.SMTP.Enabled(),
	)

	srv := queue.NewServer(&cfg.Redis, cfg.Worker.Concurrency, logger)

	handler := tasks.NewHandler(mailer.New(&cfg.SMTP, logger), logger)
	mux := asynq.NewServeMux()
	handler.RegisterHandlers(mux)

	if err := srv.Start(mux); err != nil {
		logger.Error("worker error", util.Err(err))
		os.Exit(1)
	}

	logger.Info("worker started, waiting for tasks...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down worker...")
	srv.Shutdown()
	logger.Info("worker stopped")
}
