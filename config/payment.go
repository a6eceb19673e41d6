package config

import (
	"strings"
	"time"
)

// PaymentConfig contains configuration for the card payment processor
// used to confirm payment intents created through the upstream backend.
type PaymentConfig struct {
	// ProcessorBaseURL is the root URL of the payment processor API.
	// Leave empty to disable card confirmation entirely; payment
	// submissions will then be rejected before any money moves.
	ProcessorBaseURL string `env:"PAYMENT_PROCESSOR_BASE_URL" envDefault:""`

	// PublishableKey authenticates confirmation calls to the processor.
	PublishableKey string `env:"PAYMENT_PUBLISHABLE_KEY" envDefault:""`

	// Timeout bounds each confirmation call.
	Timeout time.Duration `env:"PAYMENT_TIMEOUT" envDefault:"30s"`
}

// Sanitize normalises payment configuration values.
func (c *PaymentConfig) Sanitize() {
	c.ProcessorBaseURL = strings.TrimRight(strings.TrimSpace(c.ProcessorBaseURL), "/")
	c.PublishableKey = strings.TrimSpace(c.PublishableKey)
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
}

// IsEnabled returns true when the processor is configured.
func (c *PaymentConfig) IsEnabled() bool {
	return c.ProcessorBaseURL != ""
}
