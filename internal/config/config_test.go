package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("JWT_SECRET", "abc")
	t.Setenv("JWT_REFRESH_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "abc", cfg.JWTRefreshSecret)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 24*time.Hour, cfg.PaymentExpiry)
	assert.False(t, cfg.PaymentSimulationEnabled)
	assert.False(t, cfg.S3Enabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PAYMENT_EXPIRY", "2h")
	t.Setenv("PAYMENT_SIMULATION_ENABLED", "true")
	t.Setenv("CORS_ORIGINS", "http://localhost:5173, https://fitzone.id")
	t.Setenv("RATE_LIMIT_BURST", "7")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 2*time.Hour, cfg.PaymentExpiry)
	assert.True(t, cfg.PaymentSimulationEnabled)
	assert.Equal(t, []string{"http://localhost:5173", "https://fitzone.id"}, cfg.CORSOrigins)
	assert.Equal(t, 7, cfg.RateLimitBurst)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("PAYMENT_SWEEP_INTERVAL", "soon")
	_, err := Load()
	assert.ErrorContains(t, err, "PAYMENT_SWEEP_INTERVAL")
}

func TestS3Enabled(t *testing.T) {
	cfg := &Config{S3Bucket: "b", AWSRegion: "ap-southeast-1", AWSAccessKey: "k", AWSSecretKey: "s"}
	assert.True(t, cfg.S3Enabled())
}
