package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/ivanquesadapalmero/planazo-backend/internal/apperr"
	"github.com/ivanquesadapalmero/planazo-backend/internal/database/models"
	"github.com/ivanquesadapalmero/planazo-backend/internal/users"
	"github.com/ivanquesadapalmero/planazo-backend/pkg/util"
	"gorm.io/gorm"
)

const DefaultResetTTL = 60 * time.Minute

// ResetNotice is what a ResetNotifier needs to reach the user.
type ResetNotice struct {
	UserID    uuid.UUID
	Email     string
	Name      string
	Token     string
	ResetURL  string
	ExpiresAt time.Time
}

type ResetConfig struct {
	TTL         time.Duration
	FrontendURL string
}

type PasswordReset struct {
	db       *gorm.DB
	notifier ResetNotifier
	ttl      time.Duration
	baseURL  string
	log      *slog.Logger
	now      func() time.Time
}

func NewPasswordReset(db *gorm.DB, notifier ResetNotifier, cfg ResetConfig, log *slog.Logger) *PasswordReset {
	if log == nil {
		log = slog.Default()
	}
	if notifier == nil {
		notifier = NewLogNotifier(log)
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultResetTTL
	}
	return &PasswordReset{
		db:       db,
		notifier: notifier,
		ttl:      cfg.TTL,
		baseURL:  cfg.FrontendURL,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// RequestReset issues a new token for the account, replacing any earlier one.
// An unknown email is NotFound; callers facing the public should not reveal it.
func (p *PasswordReset) RequestReset(ctx context.Context, email string) error {
	email = users.NormalizeEmail(email)

	var (
		user  models.User
		token models.PasswordResetToken
	)
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("email = ?", email).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("no account for that email")
			}
			return fmt.Errorf("loading user: %w", err)
		}
		if !user.IsActive() {
			return apperr.BadRequest("account is deactivated")
		}

		if err := tx.Where("user_id = ?", user.ID).Delete(&models.PasswordResetToken{}).Error; err != nil {
			return fmt.Errorf("deleting previous reset tokens: %w", err)
		}

		token = models.PasswordResetToken{
			Token:     uuid.NewString(),
			UserID:    user.ID,
			ExpiresAt: p.now().Add(p.ttl),
		}
		if err := tx.Create(&token).Error; err != nil {
			return fmt.Errorf("creating reset token: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	p.log.Info("password reset requested", "user_id", user.ID, "expires_at", token.ExpiresAt)

	notice := ResetNotice{
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Token:     token.Token,
		ResetURL:  p.resetURL(token.Token),
		ExpiresAt: token.ExpiresAt,
	}
	if err := p.notifier.NotifyPasswordReset(ctx, notice); err != nil {
		// The token is stored; the user can ask again.
		p.log.Error("failed to dispatch password reset", "user_id", user.ID, util.Err(err))
	}
	return nil
}

// ResetPassword redeems a token. Unknown, used and expired tokens are all
// BadRequest.
func (p *PasswordReset) ResetPassword(ctx context.Context, token, newPassword string) error {
	var userID uuid.UUID
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var reset models.PasswordResetToken
		if err := tx.Where("token = ?", token).First(&reset).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.BadRequest("invalid or expired token")
			}
			return fmt.Errorf("loading reset token: %w", err)
		}
		if reset.Used {
			return apperr.BadRequest("token has already been used")
		}
		if reset.IsExpired(p.now()) {
			return apperr.BadRequest("token has expired")
		}

		hash, err := HashPassword(newPassword)
		if err != nil {
			if isPasswordRuleError(err) {
				return apperr.BadRequest("%s", err.Error())
			}
			return fmt.Errorf("hashing password: %w", err)
		}

		res := tx.Model(&models.User{}).Where("id = ?", reset.UserID).Update("password_hash", hash)
		if res.Error != nil {
			return fmt.Errorf("updating password: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.BadRequest("invalid or expired token")
		}

		if err := tx.Model(&reset).Update("used", true).Error; err != nil {
			return fmt.Errorf("marking token used: %w", err)
		}
		userID = reset.UserID
		return nil
	})
	if err != nil {
		return err
	}

	p.log.Info("password reset completed", "user_id", userID)
	return nil
}

func (p *PasswordReset) resetURL(token string) string {
	if p.baseURL == "" {
		return ""
	}
	u, err := url.Parse(p.baseURL)
	if err != nil {
		return ""
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String()
}

// LogNotifier writes the reset link to the log. Used when no queue is
// available, typically in development.
type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) NotifyPasswordReset(_ context.Context, notice ResetNotice) error {
	n.log.Info("password reset link", "email", notice.Email, "url", notice.ResetURL, "expires_at", notice.ExpiresAt)
	return nil
}
