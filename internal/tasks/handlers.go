package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/ivanquesadapalmero/planazo-backend/internal/mailer"
)

type Handler struct {
	mailer mailer.Mailer
	logger *slog.Logger
}

func NewHandler(m mailer.Mailer, logger *slog.Logger) *Handler {
	return &Handler{
		mailer: m,
		logger: logger,
	}
}

func (h *Handler) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(TypePasswordResetEmail, h.HandlePasswordResetEmail)
}

func (h *Handler) HandlePasswordResetEmail(ctx context.Context, t *asynq.Task) error {
	var payload PasswordResetEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w: %w", err, asynq.SkipRetry)
	}
	if payload.Email == "" || payload.Token == "" {
		return fmt.Errorf("payload missing email or token: %w", asynq.SkipRetry)
	}

	msg, err := mailer.PasswordResetMessage(payload.Email, payload.Name, payload.ResetURL, payload.Token, payload.ExpiresAt)
	if err != nil {
		return fmt.Errorf("rendering message: %w: %w", err, asynq.SkipRetry)
	}

	if err := h.mailer.Send(ctx, msg); err != nil {
		h.logger.Error("password reset email failed", "user_id", payload.UserID, "error", err)
		return err
	}

	h.logger.Info("password reset email sent", "user_id", payload.UserID)
	return nil
}
