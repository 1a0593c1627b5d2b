package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/ivanquesadapalmero/planazo-backend/internal/api"
	"github.com/ivanquesadapalmero/planazo-backend/internal/api/handlers"
	"github.com/ivanquesadapalmero/planazo-backend/internal/auth"
	"github.com/ivanquesadapalmero/planazo-backend/internal/categories"
	"github.com/ivanquesadapalmero/planazo-backend/internal/database"
	"github.com/ivanquesadapalmero/planazo-backend/internal/participations"
	"github.com/ivanquesadapalmero/planazo-backend/internal/plans"
	"github.com/ivanquesadapalmero/planazo-backend/internal/tasks"
	"github.com/ivanquesadapalmero/planazo-backend/internal/users"
	"github.com/ivanquesadapalmero/planazo-backend/pkg/config"
	"github.com/ivanquesadapalmero/planazo-backend/pkg/queue"
	"github.com/ivanquesadapalmero/planazo-backend/pkg/util"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
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

	logger.Info("starting Planazo server",
		"env", cfg.Server.Env,
		"addr", cfg.Server.Addr(),
	)

	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", util.Err(err))
		os.Exit(1)
	}

	if cfg.Migrations.AutoRun {
		if err := database.MigrateUp(db, logger); err != nil {
			logger.Error("failed to run migrations", util.Err(err))
			os.Exit(1)
		}
	}

	categoryService := categories.NewService(db, logger)
	if _, err := categoryService.Seed(context.Background()); err != nil {
		logger.Error("failed to seed categories", util.Err(err))
		os.Exit(1)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logger.Warn("redis unavailable, reset e-mails will only be logged", util.Err(err))
		redisClient.Close()
		redisClient = nil
	}

	// Reset tokens go out through the worker when Redis is up.
	var (
		asynqClient *asynq.Client
		inspector   *asynq.Inspector
		notifier    auth.ResetNotifier = auth.NewLogNotifier(logger)
	)
	if redisClient != nil {
		asynqClient = queue.NewClient(&cfg.Redis)
		inspector = queue.NewInspector(&cfg.Redis)
		notifier = tasks.NewEnqueuer(asynqClient, logger)
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry())
	if cfg.JWT.Secret == "change-me-in-production" && !cfg.Server.IsDevelopment() {
		logger.Warn("JWT_SECRET is using the default value")
	}

	var queueInspector handlers.QueueInspector
	if inspector != nil {
		queueInspector = inspector
	}

	router := api.NewRouter(api.RouterConfig{
		DB:             db,
		Redis:          redisClient,
		QueueInspector: queueInspector,
		Logger:         logger,
		JWTService:     jwtService,
		AuthService:    auth.NewService(db, jwtService, logger),
		PasswordReset: auth.NewPasswordReset(db, notifier, auth.ResetConfig{
			TTL:         cfg.PasswordReset.TTL(),
			FrontendURL: cfg.PasswordReset.FrontendURL,
		}, logger),
		UserService:          users.NewService(db, logger),
		CategoryService:      categoryService,
		PlanService:          plans.NewService(db, logger),
		ParticipationService: participations.NewService(db, logger),
		AllowedOrigins:       cfg.Server.AllowedOrigins,
		TrustProxy:           cfg.Server.TrustProxy,
		RateLimitReqs:        cfg.RateLimit.Requests,
		RateLimitUserReqs:    cfg.RateLimit.UserRequests,
		RateLimitWindow:      cfg.RateLimit.Window(),
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", cfg.Server.Addr())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", util.Err(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", util.Err(err))
	}
	router.Close()

	if inspector != nil {
		inspector.Close()
	}
	if asynqClient != nil {
		asynqClient.Close()
	}
	if redisClient != nil {
		redisClient.Close()
	}

	database.Close(db)

	logger.Info("server stopped")
}
