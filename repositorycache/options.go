package repositorycache

import (
	"log/slog"
	"time"
)

type options struct {
	ttl       time.Duration
	namespace string
	key       string
	logger    *slog.Logger
	opID      func() string
}

// Option configures a CachedRepository.
type Option func(*options)

// WithTTL sets how long a written collection stays cached. Defaults to
// cache.DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl > 0 {
			o.ttl = ttl
		}
	}
}

// WithNamespace prefixes the derived cache key.
func WithNamespace(namespace string) Option {
	return func(o *options) {
		o.namespace = namespace
	}
}

// WithKey overrides the derived cache key entirely.
func WithKey(key string) Option {
	return func(o *options) {
		o.key = key
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func withOpID(fn func() string) Option {
	return func(o *options) {
		o.opID = fn
	}
}
