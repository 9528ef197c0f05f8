package stripe

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/filmhaus/payment-service/internal/application"
	"github.com/filmhaus/payment-service/internal/config"
)

// RetryClient decorates a ProcessorClient with bounded retries. Safe for both
// calls because each carries an idempotency key that deduplicates
// processor-side effects.
type RetryClient struct {
	inner      application.ProcessorClient
	baseDelay  time.Duration
	maxRetries int
}

func NewRetryClient(inner application.ProcessorClient, cfg config.RetryConfig) application.ProcessorClient {
	maxRetries := int(cfg.MaxRetries)
	if maxRetries < 1 {
		// Unset config must still allow the one real attempt.
		maxRetries = 1
	}

	return &RetryClient{
		inner:      inner,
		baseDelay:  time.Duration(cfg.BaseDelay) * time.Second,
		maxRetries: maxRetries,
	}
}

// CreateIntent with retry logic
func (r *RetryClient) CreateIntent(ctx context.Context, req application.CreateIntentRequest, idempotencyKey string) (*application.Intent, error) {
	return retry(
		r,
		ctx,
		func(ctx context.Context) (*application.Intent, error) {
			return r.inner.CreateIntent(ctx, req, idempotencyKey)
		},
	)
}

// CreateRefund with retry logic
func (r *RetryClient) CreateRefund(ctx context.Context, paymentIntentID string) (*application.Refund, error) {
	return retry(
		r,
		ctx,
		func(ctx context.Context) (*application.Refund, error) {
			return r.inner.CreateRefund(ctx, paymentIntentID)
		},
	)
}

// Generic retry helper
func retry[T any](r *RetryClient, ctx context.Context, operation func(ctx context.Context) (*T, error)) (*T, error) {
	var lastErr error

	for attempt := 0; attempt < r.maxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		resp, err := operation(ctx)
		if err == nil {
			return resp, nil
		}

		lastErr = err

		if !isRetryable(err) {
			return nil, err
		}

		if attempt < r.maxRetries-1 {
			time.Sleep(r.backoff(attempt))
		}
	}

	return nil, fmt.Errorf("maximum retries exceeded: %w", lastErr)
}

// Helper: to check retryable errors
func isRetryable(err error) bool {
	var procErr *ProcessorError
	if errors.As(err, &procErr) {
		return procErr.IsRetryable()
	}

	if errors.Is(err, context.Canceled) {
		return false
	}

	// Transport failures and timeouts are worth another attempt.
	return true
}

// Backoff calculation with exponential delay and jitter
func (r *RetryClient) backoff(attempt int) time.Duration {
	base := r.baseDelay * time.Duration(1<<attempt)

	jitter := time.Duration(rand.Intn(1000)) * time.Millisecond

	return base + jitter
}
