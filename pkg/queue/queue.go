package queue

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/ivanquesadapalmero/planazo-backend/pkg/config"
	"github.com/ivanquesadapalmero/planazo-backend/pkg/util"
)

// Queue names, highest priority first.
const (
	Critical = "critical"
	Default  = "default"
	Low      = "low"
)

// Names lists the queues in priority order.
func Names() []string {
	return []string{Critical, Default, Low}
}

func redisOpt(cfg *config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
	}
}

func NewClient(cfg *config.RedisConfig) *asynq.Client {
	return asynq.NewClient(redisOpt(cfg))
}

func NewServer(cfg *config.RedisConfig, concurrency int, logger *slog.Logger) *asynq.Server {
	if concurrency <= 0 {
		concurrency = 10
	}

	return asynq.NewServer(
		redisOpt(cfg),
		asynq.Config{
			Concurrency: concurrency,
			Queues: map[string]int{
				Critical: 6,
				Default:  3,
				Low:      1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				retried, _ := asynq.GetRetryCount(ctx)
				maxRetry, _ := asynq.GetMaxRetry(ctx)
				logger.Error("task failed",
					"type", task.Type(),
					"retry", retried,
					"max_retry", maxRetry,
					util.Err(err),
				)
			}),
		},
	)
}

func NewInspector(cfg *config.RedisConfig) *asynq.Inspector {
	return asynq.NewInspector(redisOpt(cfg))
}
