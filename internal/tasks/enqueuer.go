package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/ivanquesadapalmero/planazo-backend/internal/auth"
)

// TaskClient is the part of *asynq.Client the enqueuer needs.
type TaskClient interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Enqueuer hands reset notices to the worker through the queue.
type Enqueuer struct {
	client TaskClient
	logger *slog.Logger
}

var _ auth.ResetNotifier = (*Enqueuer)(nil)

func NewEnqueuer(client TaskClient, logger *slog.Logger) *Enqueuer {
	return &Enqueuer{client: client, logger: logger}
}

func (e *Enqueuer) NotifyPasswordReset(ctx context.Context, notice auth.ResetNotice) error {
	task, err := NewPasswordResetEmailTask(PasswordResetEmailPayload{
		UserID:    notice.UserID,
		Email:     notice.Email,
		Name:      notice.Name,
		Token:     notice.Token,
		ResetURL:  notice.ResetURL,
		ExpiresAt: notice.ExpiresAt,
	})
	if err != nil {
		return fmt.Errorf("creating task: %w", err)
	}

	info, err := e.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("enqueueing password reset email: %w", err)
	}

	e.logger.Info("password reset email queued", "user_id", notice.UserID, "task_id", info.ID, "queue", info.Queue)
	return nil
}
