package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kushal-tech/houseofneelam/internal/platform/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, "8080", cfg.Server.Port)
	require.Equal(t, "http://localhost:8000/api", cfg.API.BaseURL)
	require.Equal(t, "127.0.0.1:6379", cfg.Redis.Addr)
	require.Equal(t, "neelam_session", cfg.Session.CookieName)
	require.Equal(t, 7*24*time.Hour, cfg.Session.TTL)
	require.Equal(t, config.FlowHostedRedirect, cfg.Payment.Flow)
	require.Equal(t, "INR", cfg.Payment.Currency)
	require.Equal(t, 2*time.Second, cfg.Payment.PollInterval)
	require.Equal(t, 5, cfg.Payment.PollAttempts)
	require.Equal(t, 300*time.Millisecond, cfg.Search.DebounceInterval)
	require.Equal(t, 2, cfg.Search.MinQueryLength)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("NEELAM_SERVER_PORT", "9090")
	t.Setenv("NEELAM_API_BASE_URL", "https://api.houseofneelam.in/api/")
	t.Setenv("NEELAM_PAYMENT_FLOW", "Embedded_Widget")
	t.Setenv("NEELAM_PAYMENT_CURRENCY", "inr")
	t.Setenv("NEELAM_SESSION_SIGNING_KEY", "env-key")

	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, "9090", cfg.Server.Port)
	// Trailing slash is trimmed so client paths join cleanly.
	require.Equal(t, "https://api.houseofneelam.in/api", cfg.API.BaseURL)
	require.Equal(t, config.FlowEmbeddedWidget, cfg.Payment.Flow)
	require.Equal(t, "INR", cfg.Payment.Currency)
	require.Equal(t, "env-key", cfg.Session.SigningKey)
}

func TestLoadRejectsUnknownPaymentFlow(t *testing.T) {
	t.Setenv("NEELAM_PAYMENT_FLOW", "carrier_pigeon")

	_, err := config.Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "payment.flow")
}

func TestLoadRejectsNonPositivePolling(t *testing.T) {
	t.Setenv("NEELAM_PAYMENT_POLL_ATTEMPTS", "0")

	_, err := config.Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "poll_attempts")
}
