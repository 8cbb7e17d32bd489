package provider

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"
)

const MaxRetries = 3

// IsRetryable checks if an error is worth retrying.
func IsRetryable(err error) bool {
	var retryErr *RetryableError
	return errors.As(err, &retryErr)
}

// Backoff returns a duration for attempt n (0-indexed) with jitter.
func Backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * time.Second
	if base > 30*time.Second {
		base = 30 * time.Second
	}
	jitter := time.Duration(rand.Int64N(int64(base) / 2))
	return base + jitter
}

// WithRetry wraps a provider so transient failures are retried with
// exponential backoff before the error propagates to the pipeline.
func WithRetry(p Provider) Provider {
	return &retrying{inner: p, backoff: Backoff}
}

type retrying struct {
	inner   Provider
	backoff func(attempt int) time.Duration
}

func (r *retrying) Model() string { return r.inner.Model() }

func (r *retrying) GenerateContent(ctx context.Context, prompt string) (string, error) {
	var out string
	var err error
	for attempt := range MaxRetries {
		out, err = r.inner.GenerateContent(ctx, prompt)
		if err == nil || !IsRetryable(err) {
			return out, err
		}
		select {
		case <-time.After(r.backoff(attempt)):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return out, err
}
