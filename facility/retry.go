package facility

import (
	"context"
	"errors"
	"math/rand/v2"
	"strconv"
	"time"
)

const (
	defaultMaxAttempts  = 3
	defaultBaseDelay    = 500 * time.Millisecond
	defaultJitterFactor = 0.3
)

var (
	// ErrInvalidMaxAttempts is returned when max attempts are not positive.
	ErrInvalidMaxAttempts = errors.New("max attempts must be positive")

	// ErrNegativeBaseDelay is returned when the base delay is negative.
	ErrNegativeBaseDelay = errors.New("base delay must not be negative")

	// ErrInvalidJitterFactor is returned when the jitter factor is not between 0.0 and 1.0.
	ErrInvalidJitterFactor = errors.New("jitter factor must be between 0.0 and 1.0")
)

// RetryableFunc represents a function that can be retried.
type RetryableFunc func(ctx context.Context) error

// RetryMetadata describes how a retried call went.
type RetryMetadata struct {
	Attempts      int
	TotalDelay    time.Duration
	LastErrorType string
}

type retryConfig struct {
	maxAttempts  int
	baseDelay    time.Duration
	jitterFactor float64
	metrics      MetricsCollector
	resource     string
}

// RetryWithExponentialBackoff executes fn up to maxAttempts times, sleeping
// baseDelay * 2^(attempt-1) plus jitter between attempts.
//
// Only ErrResourceExhausted is retried, every other error fails fast.
// The bounded schedule is what keeps an arriving customer from spinning on a full parking lot.
func RetryWithExponentialBackoff(
	ctx context.Context,
	fn RetryableFunc,
	options ...RetryOption,
) (RetryMetadata, error) {
	config := &retryConfig{
		maxAttempts:  defaultMaxAttempts,
		baseDelay:    defaultBaseDelay,
		jitterFactor: defaultJitterFactor,
	}

	for _, option := range options {
		if err := option(config); err != nil {
			return RetryMetadata{}, err
		}
	}

	var meta RetryMetadata
	var lastErr error

	for attempt := 0; attempt < config.maxAttempts; attempt++ {
		if attempt > 0 {
			delay := config.baseDelay * time.Duration(1<<(attempt-1))
			jitter := rand.Float64() * float64(delay) * config.jitterFactor //nolint:gosec
			backoffDelay := delay + time.Duration(jitter)
			meta.TotalDelay += backoffDelay

			timer := time.NewTimer(backoffDelay)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				meta.LastErrorType = errorType(ctx.Err())

				return meta, ctx.Err()
			}
		}

		meta.Attempts++
		lastErr = fn(ctx)
		meta.LastErrorType = errorType(lastErr)

		if lastErr == nil {
			return meta, nil
		}

		if !errors.Is(lastErr, ErrResourceExhausted) {
			return meta, lastErr
		}

		if attempt < config.maxAttempts-1 {
			incrementCounter(ctx, config.metrics, metricRetries, map[string]string{
				logAttrResource: config.resource,
				"attempt":       strconv.Itoa(attempt + 1),
			})
		}
	}

	incrementCounter(ctx, config.metrics, metricRetriesExhausted, map[string]string{logAttrResource: config.resource})

	return meta, lastErr
}

func errorType(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrResourceExhausted):
		return "resource_exhausted"
	case errors.Is(err, context.Canceled):
		return "context_canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "context_deadline_exceeded"
	default:
		return "other"
	}
}

// RetryOption configures retry behavior.
type RetryOption func(*retryConfig) error

// WithMaxAttempts sets the maximum number of attempts, including the first one.
func WithMaxAttempts(attempts int) RetryOption {
	return func(config *retryConfig) error {
		if attempts <= 0 {
			return ErrInvalidMaxAttempts
		}

		config.maxAttempts = attempts

		return nil
	}
}

// WithBaseDelay sets the delay before the second attempt.
func WithBaseDelay(delay time.Duration) RetryOption {
	return func(config *retryConfig) error {
		if delay < 0 {
			return ErrNegativeBaseDelay
		}

		config.baseDelay = delay

		return nil
	}
}

// WithJitterFactor sets the jitter as a fraction of the delay.
func WithJitterFactor(factor float64) RetryOption {
	return func(config *retryConfig) error {
		if factor < 0.0 || factor > 1.0 {
			return ErrInvalidJitterFactor
		}

		config.jitterFactor = factor

		return nil
	}
}

// WithRetryMetrics reports retries and exhaustion for the named resource.
func WithRetryMetrics(collector MetricsCollector, resource string) RetryOption {
	return func(config *retryConfig) error {
		config.metrics = collector
		config.resource = resource

		return nil
	}
}
