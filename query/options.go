package query

import (
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultMaxIdle is the number of unobserved entries kept around.
	DefaultMaxIdle = 256
	// DefaultErrorRetryCount applies only when retry on error is enabled.
	DefaultErrorRetryCount = 3
	// DefaultErrorRetryInterval applies only when retry on error is enabled.
	DefaultErrorRetryInterval = 5 * time.Second
)

type options struct {
	logger             zerolog.Logger
	revalidateOnFocus  bool
	retryOnError       bool
	errorRetryCount    int
	errorRetryInterval time.Duration
	maxIdle            int
	fetchTimeout       time.Duration
}

func defaultOptions() options {
	return options{
		logger:             zerolog.Nop(),
		errorRetryCount:    DefaultErrorRetryCount,
		errorRetryInterval: DefaultErrorRetryInterval,
		maxIdle:            DefaultMaxIdle,
	}
}

// Option configures a Cache.
type Option func(*options)

// WithLogger sets the logger used for fetch failures and evictions.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRevalidateOnFocus makes Focus refetch every observed key. Disabled by
// default.
func WithRevalidateOnFocus(enabled bool) Option {
	return func(o *options) {
		o.revalidateOnFocus = enabled
	}
}

// WithRetryOnError enables automatic refetching of failed keys. Disabled by
// default: a failed key stays failed until its key changes or it is
// invalidated.
func WithRetryOnError(enabled bool) Option {
	return func(o *options) {
		o.retryOnError = enabled
	}
}

// WithErrorRetry sets how many times and how often a failed key is retried
// when retry on error is enabled.
func WithErrorRetry(count int, interval time.Duration) Option {
	return func(o *options) {
		if count >= 0 {
			o.errorRetryCount = count
		}
		if interval > 0 {
			o.errorRetryInterval = interval
		}
	}
}

// WithMaxIdle bounds the number of unobserved entries kept in memory.
func WithMaxIdle(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.maxIdle = n
		}
	}
}

// WithFetchTimeout bounds each fetch. Zero means no timeout beyond the
// cache's lifetime.
func WithFetchTimeout(d time.Duration) Option {
	return func(o *options) {
		o.fetchTimeout = d
	}
}
