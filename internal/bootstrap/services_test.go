package bootstrap

import (
	"io"
	"log/slog"
	"testing"

	env "github.com/caarlos0/env/v11"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ospitek/ui-gateway/config"
)

func testConfig(t *testing.T) *config.AppConfig {
	t.Helper()
	var cfg config.AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()
	return &cfg
}

// NewServices must wire every service without touching the network; redis
// and postgres connections are lazy until first use.
func TestNewServices_Defaults(t *testing.T) {
	cfg := testConfig(t)

	services, err := NewServices(&ServiceDeps{
		Config:      cfg,
		RedisClient: redis.NewClient(&redis.Options{Addr: "localhost:1"}),
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)

	assert.NotNil(t, services.Upstream)
	assert.NotNil(t, services.Sessions)
	assert.NotNil(t, services.Flows)
	assert.NotNil(t, services.Attempts)
	assert.NotNil(t, services.Metrics)
	assert.False(t, services.Metrics.Enabled())
}

func TestNewServices_InvalidProcessorConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Payment.ProcessorBaseURL = "https://pay.example.com"
	cfg.Payment.PublishableKey = ""

	_, err := NewServices(&ServiceDeps{
		Config:      cfg,
		RedisClient: redis.NewClient(&redis.Options{Addr: "localhost:1"}),
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "payment processor")
}

func TestNewHTTPServer_DefaultAddr(t *testing.T) {
	cfg := testConfig(t)
	cfg.HTTP.Addr = ""

	services, err := NewServices(&ServiceDeps{
		Config:      cfg,
		RedisClient: redis.NewClient(&redis.Options{Addr: "localhost:1"}),
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)

	server := NewHTTPServer(&HTTPServerConfig{Config: cfg, Services: services})
	assert.Equal(t, ":8080", server.Addr)
	assert.NotNil(t, server.Handler)
}
