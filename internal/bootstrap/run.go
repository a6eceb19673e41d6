package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ospitek/ui-gateway/config"
	"golang.org/x/sync/errgroup"
)

// RunConfig groups dependencies for the service runtime.
type RunConfig struct {
	Config   *config.AppConfig
	Services *ServiceContainer
	Logger   *slog.Logger
}

// Run starts the HTTP server and session hydration and blocks until the
// context is cancelled or a component fails. Shutdown is graceful: the server
// stops accepting connections and drains in-flight requests.
func Run(ctx context.Context, cfg *RunConfig) error {
	if cfg == nil {
		return errors.New("run config is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	server := NewHTTPServer(&HTTPServerConfig{
		Config:   cfg.Config,
		Services: cfg.Services,
		Logger:   logger,
	})

	group, gctx := errgroup.WithContext(ctx)

	// Hydration runs off the request path; requests that need a settled
	// session await Store.Ready instead.
	group.Go(func() error {
		cfg.Services.Sessions.Hydrate(gctx)
		return nil
	})

	group.Go(func() error {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-gctx.Done()
		// Detached context: the group context is already cancelled.
		return ShutdownHTTPServer(context.Background(), server, logger)
	})

	return group.Wait()
}
