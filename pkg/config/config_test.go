package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 60*time.Minute, cfg.PasswordReset.TTL())
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiry())
	assert.False(t, cfg.SMTP.Enabled())
	assert.True(t, cfg.Migrations.AutoRun)
	assert.Contains(t, cfg.Server.AllowedOrigins, "http://localhost:5173")
	assert.Equal(t, 20, cfg.RateLimit.Requests)
	assert.Equal(t, 300, cfg.RateLimit.UserRequests)
	assert.False(t, cfg.Server.TrustProxy)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PASSWORD_RESET_TTL_MINUTES", "15")
	t.Setenv("SERVER_ALLOWED_ORIGINS", " https://planazo.app , ,https://www.planazo.app")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SERVER_TRUST_PROXY", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 15*time.Minute, cfg.PasswordReset.TTL())
	assert.Equal(t, []string{"https://planazo.app", "https://www.planazo.app"}, cfg.Server.AllowedOrigins)
	assert.True(t, cfg.SMTP.Enabled())
	assert.True(t, cfg.Server.TrustProxy)
}

func TestLoad_RejectsNonPositiveResetTTL(t *testing.T) {
	t.Setenv("PASSWORD_RESET_TTL_MINUTES", "0")

	_, err := Load()
	assert.Error(t, err)
}
