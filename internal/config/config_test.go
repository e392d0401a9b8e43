package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("AUTH_TOKEN_TTL_MINUTES", "")
	t.Setenv("TRUSTED_PROXIES", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "jwt", cfg.Auth.CookieName)
	require.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL())
	require.False(t, cfg.Auth.RevokeOnLogout)
	require.False(t, cfg.Auth.SoftModeHonorsHeader)
	require.Equal(t, "0.0.0.0:5000", cfg.App.Addr())
	require.Equal(t, "json", cfg.Logger.Format)
	require.True(t, cfg.Logger.Development)
	require.Equal(t, 256, cfg.Notification.QueueSize)
	require.Equal(t, 5*time.Second, cfg.Notification.WebhookTimeout())
	require.Empty(t, cfg.App.TrustedProxies)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "s3cret")
	t.Setenv("AUTH_TOKEN_TTL_MINUTES", "15")
	t.Setenv("AUTH_REVOKE_ON_LOGOUT", "true")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.1, 10.1.0.0/16")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	require.Equal(t, 15*time.Minute, cfg.Auth.TokenTTL())
	require.True(t, cfg.Auth.RevokeOnLogout)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.App.CORSOrigins)
	require.Equal(t, []string{"10.0.0.1", "10.1.0.0/16"}, cfg.App.TrustedProxies)
}

func TestLoadRejectsDevSecretInProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("AUTH_JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadInvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")

	_, err := Load()
	require.Error(t, err)
}
