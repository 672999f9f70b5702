// Package completion wraps the chat model with bounded exponential-backoff retry.
// It is the only place retry policy lives.
package completion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/brewmatch/internal/domain"
	"github.com/kailas-cloud/brewmatch/internal/logger"
	"github.com/kailas-cloud/brewmatch/internal/metrics"
)

// Retry defaults.
const (
	DefaultMaxAttempts = 5
	DefaultBaseDelay   = 5 * time.Second
	// MaxBackoff caps a single wait however many attempts are configured.
	MaxBackoff = 10 * time.Minute
)

// Caller retries chat calls that fail with domain.ErrModelUnavailable.
type Caller struct {
	model       Model
	maxAttempts int
	baseDelay   time.Duration
	sleep       domain.SleepFunc
	logger      *zap.Logger
}

// New creates a Caller with default retry policy.
func New(model Model, logger *zap.Logger) *Caller {
	return &Caller{
		model:       model,
		maxAttempts: DefaultMaxAttempts,
		baseDelay:   DefaultBaseDelay,
		sleep:       domain.Sleep,
		logger:      logger,
	}
}

// WithPolicy overrides attempt count and base delay. Non-positive values keep the defaults.
func (c *Caller) WithPolicy(maxAttempts int, baseDelay time.Duration) *Caller {
	if maxAttempts > 0 {
		c.maxAttempts = maxAttempts
	}
	if baseDelay > 0 {
		c.baseDelay = baseDelay
	}
	return c
}

// WithSleep replaces the backoff sleep, for tests.
func (c *Caller) WithSleep(sleep domain.SleepFunc) *Caller {
	c.sleep = sleep
	return c
}

// Call sends prompt at temperature and returns the model's text.
// After failed attempt n the caller waits baseDelay*2^(n-1) before trying again.
// Errors other than domain.ErrModelUnavailable are returned at once.
func (c *Caller) Call(ctx context.Context, prompt string, temperature float32) (string, error) {
	req := domain.ChatRequest{Prompt: prompt, Temperature: temperature}
	log := logger.FromContextOr(ctx, c.logger)

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		res, err := c.model.Complete(ctx, req)
		if err == nil {
			if attempt > 1 {
				log.Info("Chat call succeeded after retry", zap.Int("attempt", attempt))
			}
			return res.Content, nil
		}
		if !errors.Is(err, domain.ErrModelUnavailable) {
			return "", fmt.Errorf("chat call: %w", err)
		}
		lastErr = err

		if attempt == c.maxAttempts {
			break
		}

		delay := c.Backoff(attempt)
		metrics.ChatRetriesTotal.WithLabelValues("retry").Inc()
		log.Warn("The model is overloaded or not ready yet, retrying",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", c.maxAttempts),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
		if err := c.sleep(ctx, delay); err != nil {
			return "", fmt.Errorf("backoff: %w", err)
		}
	}

	metrics.ChatRetriesTotal.WithLabelValues("exhausted").Inc()
	log.Error("All chat retries failed", zap.Int("attempts", c.maxAttempts), zap.Error(lastErr))
	return "", domain.NewExhaustedRetries(c.maxAttempts, lastErr)
}

// Backoff returns the delay after failed attempt n (1-based): baseDelay * 2^(n-1),
// capped at MaxBackoff.
func (c *Caller) Backoff(attempt int) time.Duration {
	if attempt < 1 {
		return 0
	}
	d := c.baseDelay
	for i := 1; i < attempt && d < MaxBackoff; i++ {
		d *= 2
	}
	return min(d, MaxBackoff)
}
