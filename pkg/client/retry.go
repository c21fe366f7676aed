package client

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Prometheus metrics for retry operations.
var (
	retriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "worldbank_retries_total",
		Help: "Total number of retry attempts by error class",
	}, []string{"error_class"})

	retryBackoffSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "worldbank_retry_backoff_seconds",
		Help:    "Backoff duration for retries by error class",
		Buckets: []float64{1, 2, 4, 6, 8, 10},
	}, []string{"error_class"})

	retryExhaustedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "worldbank_retry_exhausted_total",
		Help: "Total number of times retry attempts were exhausted by error class",
	}, []string{"error_class"})
)

// RetryConfig holds the configuration for retry logic.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts (including the initial request).
	MaxAttempts int

	// Multiplier scales the exponential backoff.
	Multiplier time.Duration

	// MinBackoff is the lower bound for any backoff wait.
	MinBackoff time.Duration

	// MaxBackoff is the upper bound for any backoff wait.
	MaxBackoff time.Duration
}

// DefaultRetryConfig returns the default retry configuration:
// 3 attempts, wait = clamp(1s * 2^attempt, 4s, 10s).
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		Multiplier:  1 * time.Second,
		MinBackoff:  4 * time.Second,
		MaxBackoff:  10 * time.Second,
	}
}

// Backoff returns the wait before the attempt following the given one
// (attempts are 1-based).
func (c RetryConfig) Backoff(attempt int) time.Duration {
	wait := time.Duration(float64(c.Multiplier) * math.Pow(2, float64(attempt)))
	if wait < c.MinBackoff {
		wait = c.MinBackoff
	}
	if wait > c.MaxBackoff {
		wait = c.MaxBackoff
	}
	return wait
}

// retryWithBackoff executes a fallible network operation with bounded
// exponential backoff. Every failure is retried up to MaxAttempts; the wait
// between attempts is clamped to [MinBackoff, MaxBackoff]. The backoff wait
// respects context cancellation.
func retryWithBackoff(ctx context.Context, logger zerolog.Logger, config RetryConfig, class func(error) ErrorClass, fn func() error) error {
	var lastErr error

	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		err := fn()
		if err == nil {
			if attempt > 1 {
				logger.Info().
					Int("attempt", attempt).
					Msg("Request succeeded after retry")
			}
			return nil
		}

		lastErr = err
		errClass := class(err)

		if attempt >= config.MaxAttempts {
			break
		}

		retriesTotal.WithLabelValues(string(errClass)).Inc()

		wait := config.Backoff(attempt)
		retryBackoffSeconds.WithLabelValues(string(errClass)).Observe(wait.Seconds())

		logger.Debug().
			Str("error_class", string(errClass)).
			Int("attempt", attempt).
			Dur("backoff", wait).
			Msg("Retrying request after backoff")

		select {
		case <-ctx.Done():
			logger.Warn().
				Int("attempt", attempt).
				Msg("Context cancelled during retry backoff")
			return fmt.Errorf("%w: %v", ErrContextCancelled, ctx.Err())
		case <-time.After(wait):
		}
	}

	errClass := class(lastErr)
	retryExhaustedTotal.WithLabelValues(string(errClass)).Inc()
	logger.Warn().
		Str("error_class", string(errClass)).
		Int("max_attempts", config.MaxAttempts).
		Msg("Retry attempts exhausted")

	return fmt.Errorf("%w after %d attempts: %w", ErrRetryExhausted, config.MaxAttempts, lastErr)
}
