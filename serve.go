package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/stevemurr/simple-blog-server/config"
	"github.com/stevemurr/simple-blog-server/handler"
	"github.com/stevemurr/simple-blog-server/logging"
	"github.com/stevemurr/simple-blog-server/middleware"
	"github.com/stevemurr/simple-blog-server/store"
	"github.com/stevemurr/simple-blog-server/validate"
)

func loadConfig(path string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadOptional(config.BaseConfigFile)
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Finalize(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// newServer builds the store and the full handler stack. The caller owns
// the returned store and must close it.
func newServer(cfg *config.Config, logger *slog.Logger) (*http.Server, store.Store, *validate.Policy, error) {
	s, err := store.New(cfg.Store.Backend)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create store: %w", err)
	}

	policy, err := validate.NewPolicy(cfg.Validation.RequiredFields)
	if err != nil {
		s.Close()
		return nil, nil, nil, fmt.Errorf("validation policy: %w", err)
	}

	h := handler.New(s, handler.Options{
		Endpoint:     cfg.Resource.Endpoint,
		Label:        cfg.Resource.Label,
		Greeting:     cfg.Resource.Greeting,
		Policy:       policy,
		MaxBodyBytes: cfg.Server.MaxBodyBytes(),
	}, logger)

	srv := &http.Server{
		Addr: cfg.Server.Addr(),
		Handler: middleware.Chain(h,
			middleware.CORS(cfg.CORS.Origins),
			middleware.Logger(logger),
			middleware.Recover(logger),
		),
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}
	return srv, s, policy, nil
}

func runServe(ctx context.Context, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	logger := logging.New(cfg.Logging)

	srv, s, policy, err := newServer(cfg, logger)
	if err != nil {
		logger.Error("failed to start", "error", err)
		return err
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			"addr", srv.Addr,
			"endpoint", "/"+cfg.Resource.Endpoint,
			"store", cfg.Store.Backend,
			"required_fields", policy.Fields(),
			"version", Version,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", "error", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeoutDuration())
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		return err
	}
	logger.Info("server shutdown complete")
	return nil
}
