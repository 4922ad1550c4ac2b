// Package runner resolves batches of keys through a lookup client,
// optionally pacing child-process spawns with a token bucket.
package runner

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Lookup is the subset of the hiera client the runner needs.
type Lookup interface {
	Get(ctx context.Context, key string) (string, bool, error)
}

// Result is the outcome of one key resolution.
type Result struct {
	Key   string
	Value string
	Found bool
}

type pacer interface {
	Wait(ctx context.Context) error
}

type limiterAdapter struct {
	limiter *rate.Limiter
}

func newTokenBucketPacer(ratePerSecond float64, burst int) pacer {
	if ratePerSecond <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}

	return &limiterAdapter{
		limiter: rate.NewLimiter(rate.Limit(ratePerSecond), burst),
	}
}

func (l *limiterAdapter) Wait(ctx context.Context) error {
	if l == nil || l.limiter == nil {
		return nil
	}
	return l.limiter.Wait(ctx)
}

// Runner resolves keys sequentially against a lookup client.
type Runner struct {
	lookup  Lookup
	limiter pacer
	logger  *zap.Logger
}

// New constructs a Runner. A ratePerSecond of zero disables pacing.
func New(lookup Lookup, ratePerSecond float64, burst int, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		lookup:  lookup,
		limiter: newTokenBucketPacer(ratePerSecond, burst),
		logger:  logger,
	}
}

// Run resolves each key in order and returns one Result per key. The first
// lookup error aborts the run and discards partial results.
func (r *Runner) Run(ctx context.Context, keys []string) ([]Result, error) {
	results := make([]Result, 0, len(keys))
	for _, key := range keys {
		if r.limiter != nil {
			if err := r.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("wait for rate limiter: %w", err)
			}
		}

		value, found, err := r.lookup.Get(ctx, key)
		if err != nil {
			return nil, err
		}

		r.logger.Debug("resolved key",
			zap.String("key", key),
			zap.Bool("found", found),
		)
		results = append(results, Result{Key: key, Value: value, Found: found})
	}
	return results, nil
}
