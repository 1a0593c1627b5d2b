package auth_test

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ivanquesadapalmero/planazo-backend/internal/apperr"
	"github.com/ivanquesadapalmero/planazo-backend/internal/auth"
	"github.com/ivanquesadapalmero/planazo-backend/internal/database/models"
	"github.com/ivanquesadapalmero/planazo-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingNotifier struct {
	mu      sync.Mutex
	notices []auth.ResetNotice
}

func (r *recordingNotifier) NotifyPasswordReset(_ context.Context, notice auth.ResetNotice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, notice)
	return nil
}

func (r *recordingNotifier) last(t *testing.T) auth.ResetNotice {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.notices)
	return r.notices[len(r.notices)-1]
}

func newPasswordReset(t *testing.T) (*auth.PasswordReset, *recordingNotifier, *testutil.TestSetup) {
	t.Helper()
	ts := testutil.NewTestSetup(t)
	notifier := &recordingNotifier{}
	reset := auth.NewPasswordReset(ts.DB, notifier, auth.ResetConfig{
		TTL:         time.Hour,
		FrontendURL: "https://planazo.app/reset-password",
	}, testutil.DiscardLogger())
	return reset, notifier, ts
}

func countTokens(t *testing.T, db *gorm.DB, user *models.User) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.PasswordResetToken{}).Where("user_id = ?", user.ID).Count(&n).Error)
	return n
}

func TestPasswordReset_RequestReset(t *testing.T) {
	reset, notifier, ts := newPasswordReset(t)
	ctx := testutil.TestContext(t)

	t.Run("issues a token and notifies", func(t *testing.T) {
		require.NoError(t, reset.RequestReset(ctx, ts.User.Email))

		notice := notifier.last(t)
		assert.Equal(t, ts.User.ID, notice.UserID)
		assert.Equal(t, ts.User.Email, notice.Email)
		assert.NotEmpty(t, notice.Token)
		assert.WithinDuration(t, time.Now().Add(time.Hour), notice.ExpiresAt, time.Minute)

		u, err := url.Parse(notice.ResetURL)
		require.NoError(t, err)
		assert.Equal(t, notice.Token, u.Query().Get("token"))
	})

	t.Run("a new request replaces earlier tokens", func(t *testing.T) {
		first := notifier.last(t).Token
		require.NoError(t, reset.RequestReset(ctx, "  "+ts.User.Email+"  "))

		second := notifier.last(t).Token
		assert.NotEqual(t, first, second)
		assert.Equal(t, int64(1), countTokens(t, ts.DB, ts.User))

		err := reset.ResetPassword(ctx, first, "brandnewpass")
		assert.True(t, apperr.Is(err, apperr.KindBadRequest))
	})

	t.Run("unknown email is not found", func(t *testing.T) {
		err := reset.RequestReset(ctx, "nobody@example.com")
		assert.True(t, apperr.Is(err, apperr.KindNotFound))
	})

	t.Run("deactivated account is a bad request", func(t *testing.T) {
		other := testutil.CreateTestUser(t, ts.DB)
		require.NoError(t, ts.DB.Model(other).Update("status", models.AccountStatusDeactivated).Error)

		err := reset.RequestReset(ctx, other.Email)
		assert.True(t, apperr.Is(err, apperr.KindBadRequest))
		assert.Equal(t, int64(0), countTokens(t, ts.DB, other))
	})
}

func TestPasswordReset_ResetPassword(t *testing.T) {
	reset, notifier, ts := newPasswordReset(t)
	ctx := testutil.TestContext(t)
	authSvc := auth.NewService(ts.DB, ts.JWTService, testutil.DiscardLogger())

	require.NoError(t, reset.RequestReset(ctx, ts.User.Email))
	token := notifier.last(t).Token

	t.Run("changes the password once", func(t *testing.T) {
		require.NoError(t, reset.ResetPassword(ctx, token, "brandnewpass"))

		_, err := authSvc.Login(ctx, auth.LoginInput{Email: ts.User.Email, Password: "brandnewpass"})
		assert.NoError(t, err)
		_, err = authSvc.Login(ctx, auth.LoginInput{Email: ts.User.Email, Password: testutil.TestPassword})
		assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
	})

	t.Run("replay is a bad request", func(t *testing.T) {
		err := reset.ResetPassword(ctx, token, "anotherpass1")
		assert.True(t, apperr.Is(err, apperr.KindBadRequest))
	})

	t.Run("expired token is a bad request", func(t *testing.T) {
		require.NoError(t, reset.RequestReset(ctx, ts.User.Email))
		expired := notifier.last(t).Token
		require.NoError(t, ts.DB.Model(&models.PasswordResetToken{}).
			Where("token = ?", expired).
			Update("expires_at", time.Now().UTC().Add(-time.Minute)).Error)

		err := reset.ResetPassword(ctx, expired, "anotherpass1")
		assert.True(t, apperr.Is(err, apperr.KindBadRequest))
	})

	t.Run("unknown token is a bad request", func(t *testing.T) {
		err := reset.ResetPassword(ctx, "does-not-exist", "anotherpass1")
		assert.True(t, apperr.Is(err, apperr.KindBadRequest))
	})

	t.Run("short password keeps the token usable", func(t *testing.T) {
		require.NoError(t, reset.RequestReset(ctx, ts.User.Email))
		fresh := notifier.last(t).Token

		err := reset.ResetPassword(ctx, fresh, "short")
		assert.True(t, apperr.Is(err, apperr.KindBadRequest))

		err = reset.ResetPassword(ctx, fresh, strings.Repeat("ñ", 40))
		assert.True(t, apperr.Is(err, apperr.KindBadRequest), "got %v", err)

		assert.NoError(t, reset.ResetPassword(ctx, fresh, "longenough1"))
	})
}
