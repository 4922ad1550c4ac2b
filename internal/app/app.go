package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/puppetutils/go-hiera"
	"github.com/puppetutils/go-hiera/internal/config"
	"github.com/puppetutils/go-hiera/internal/runner"
)

// App encapsulates the lookup client and batch runner.
type App struct {
	client *hiera.Client
	runner *runner.Runner
	logger *zap.Logger
}

// New initializes the application with all dependencies from the provided
// configuration.
func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := hiera.New(cfg.HieraConfig,
		hiera.WithBinary(cfg.Binary),
		hiera.WithVars(cfg.Vars),
		hiera.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("create hiera client: %w", err)
	}

	return &App{
		client: client,
		runner: runner.New(client, cfg.RateLimitRPS, cfg.RateLimitBurst, logger),
		logger: logger,
	}, nil
}

// Client returns the underlying lookup client.
func (a *App) Client() *hiera.Client {
	return a.client
}

// Lookup resolves the given keys in order and returns one result per key.
func (a *App) Lookup(ctx context.Context, keys []string) ([]runner.Result, error) {
	return a.runner.Run(ctx, keys)
}
