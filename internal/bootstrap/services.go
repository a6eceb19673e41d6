package bootstrap

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/ospitek/ui-gateway/config"
	"github.com/ospitek/ui-gateway/internal/adapters/processor"
	redisadapter "github.com/ospitek/ui-gateway/internal/adapters/redis"
	"github.com/ospitek/ui-gateway/internal/data"
	"github.com/ospitek/ui-gateway/internal/observability/statsd"
	"github.com/ospitek/ui-gateway/internal/payment"
	"github.com/ospitek/ui-gateway/internal/session"
	"github.com/ospitek/ui-gateway/internal/upstream"
	"github.com/redis/go-redis/v9"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Upstream *upstream.Client
	Sessions *session.Store
	Flows    *payment.Manager
	Attempts *data.PaymentAttemptRepo
	Metrics  *statsd.Client
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient *redis.Client
	Logger      *slog.Logger
}

// NewServices wires adapters and services from shared infrastructure.
func NewServices(deps *ServiceDeps) (*ServiceContainer, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config

	metrics, err := statsd.NewClient(statsd.Config{
		Enabled: cfg.Observability.Metrics.IsEnabled(),
		Address: cfg.Observability.Metrics.StatsdAddress,
		Prefix:  "gateway",
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	upstreamClient, err := upstream.NewClient(upstream.Config{
		BaseURL: cfg.Upstream.BaseURL,
		Client:  &http.Client{Timeout: cfg.Upstream.Timeout},
		Logger:  logger,
		Metrics: metrics,
	})
	if err != nil {
		return nil, fmt.Errorf("init upstream client: %w", err)
	}

	sessions := session.NewStore(redisadapter.NewSessionStorage(deps.RedisClient), logger)

	intents, err := upstream.NewIntentClient(upstreamClient, sessions)
	if err != nil {
		return nil, fmt.Errorf("init intent client: %w", err)
	}

	// Without a configured processor the flow stays in the not-ready state
	// and payment submissions are refused before any charge is attempted.
	var processorClient *processor.Client
	if cfg.Payment.IsEnabled() {
		processorClient, err = processor.NewClient(processor.Config{
			BaseURL:        cfg.Payment.ProcessorBaseURL,
			PublishableKey: cfg.Payment.PublishableKey,
			Timeout:        cfg.Payment.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("init payment processor: %w", err)
		}
	} else {
		logger.Warn("payment processor not configured, payment submissions will be refused")
	}

	attempts := data.NewPaymentAttemptRepo(deps.DB)

	managerCfg := payment.ManagerConfig{
		Intents:  intents,
		Recorder: attempts,
		Logger:   logger,
	}
	if processorClient != nil {
		managerCfg.Processor = processorClient
	}

	return &ServiceContainer{
		Upstream: upstreamClient,
		Sessions: sessions,
		Flows:    payment.NewManager(managerCfg),
		Attempts: attempts,
		Metrics:  metrics,
	}, nil
}
