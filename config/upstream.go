package config

import (
	"strings"
	"time"
)

// UpstreamConfig contains configuration for the backend service that all
// API traffic is forwarded to. A single base URL covers every forwarded
// route; per-route URLs are derived by appending the route path.
type UpstreamConfig struct {
	// BaseURL is the root URL of the upstream backend.
	BaseURL string `env:"UPSTREAM_BASE_URL" envDefault:"http://localhost:8000"`

	// Timeout bounds each forwarded request end to end.
	Timeout time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"60s"`
}

// Sanitize normalises upstream configuration values.
func (c *UpstreamConfig) Sanitize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.Timeout <= 0 {
		c.Timeout = 60 * time.Second
	}
}
