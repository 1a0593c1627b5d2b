package tasks

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/ivanquesadapalmero/planazo-backend/pkg/queue"
)

// Task type names
const (
	TypePasswordResetEmail = "email:password_reset"
)

// PasswordResetEmailPayload contains the data for a password reset e-mail
type PasswordResetEmailPayload struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Token     string    `json:"token"`
	ResetURL  string    `json:"reset_url,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

func NewPasswordResetEmailTask(payload PasswordResetEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	opts := []asynq.Option{
		asynq.Queue(queue.Critical),
		asynq.MaxRetry(5),
		asynq.Timeout(30 * time.Second),
	}
	// A reset link is useless once the token has expired.
	if !payload.ExpiresAt.IsZero() {
		opts = append(opts, asynq.Deadline(payload.ExpiresAt))
	}
	return asynq.NewTask(TypePasswordResetEmail, data, opts...), nil
}
