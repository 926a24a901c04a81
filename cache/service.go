package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/goliatone/go-cached-records/internal/cacheinfra"
	"github.com/goliatone/go-errors"
)

// Backend is the raw key/value transport behind a Store. Implementations
// report every failure; the Store decides what to do with it.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Store is the fail-open cache used by repositories. None of its methods
// return an error: a backend failure, a timeout or a payload that cannot be
// decoded is logged and treated as a miss, so a cache outage degrades to a
// round-trip to the durable store.
type Store struct {
	backend Backend
	codec   Codec
	timeout time.Duration
	logger  *slog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithCodec sets the codec used by Get and Set. Defaults to JSON.
func WithCodec(codec Codec) StoreOption {
	return func(s *Store) {
		if codec != nil {
			s.codec = codec
		}
	}
}

// WithOperationTimeout bounds every backend call. Zero disables the bound.
func WithOperationTimeout(d time.Duration) StoreOption {
	return func(s *Store) {
		s.timeout = d
	}
}

// WithLogger sets the logger used to report swallowed faults.
func WithLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore wraps backend into a fail-open Store. A nil backend yields a Store
// that always misses.
func NewStore(backend Backend, opts ...StoreOption) *Store {
	if backend == nil {
		backend = cacheinfra.NewNoopBackend()
	}

	s := &Store{
		backend: backend,
		codec:   JSON,
		timeout: DefaultOperationTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(slog.String("component", "cache"))
	return s
}

// Codec returns the codec used to encode cached values.
func (s *Store) Codec() Codec {
	return s.codec
}

// GetBytes returns the raw value stored under key. Faults read as a miss.
func (s *Store) GetBytes(ctx context.Context, key string) ([]byte, bool) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	data, ok, err := s.backend.Get(ctx, key)
	if err != nil {
		s.fault(ctx, "get", key, err)
		return nil, false
	}
	return data, ok
}

// SetBytes stores value under key for ttl, replacing any previous value.
// Best effort.
func (s *Store) SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	if err := s.backend.Set(ctx, key, value, ttl); err != nil {
		s.fault(ctx, "set", key, err)
	}
}

// Remove deletes key. Missing keys are not an error. Best effort.
func (s *Store) Remove(ctx context.Context, key string) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	if err := s.backend.Delete(ctx, key); err != nil {
		s.fault(ctx, "remove", key, err)
	}
}

// pinger is implemented by backends that hold a server connection.
type pinger interface {
	Ping(ctx context.Context) error
}

// Reachable checks the backend connection once. A failure is logged like any
// other fault and reported as false. Backends without a connection report
// true.
func (s *Store) Reachable(ctx context.Context) bool {
	p, ok := s.backend.(pinger)
	if !ok {
		return true
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	if err := p.Ping(ctx); err != nil {
		s.fault(ctx, "ping", "", err)
		return false
	}
	return true
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

func (s *Store) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *Store) fault(ctx context.Context, op, key string, err error) {
	werr := errors.Wrap(err, errors.CategoryExternal, "cache "+op+" failed")
	attrs := append(errors.ToSlogAttributes(werr),
		slog.String("op", op),
		slog.String("cache_key", key),
		slog.String("error", err.Error()),
	)
	s.logger.LogAttrs(context.WithoutCancel(ctx), slog.LevelWarn, "cache fault ignored", attrs...)
}

// Get decodes the value stored under key into T. It reports false on a miss
// and on any fault; an entry that cannot be decoded is dropped.
func Get[T any](ctx context.Context, s *Store, key string) (T, bool) {
	var zero T

	data, ok := s.GetBytes(ctx, key)
	if !ok {
		return zero, false
	}

	var value T
	if err := s.codec.Unmarshal(data, &value); err != nil {
		s.fault(ctx, "decode", key, err)
		s.Remove(ctx, key)
		return zero, false
	}
	return value, true
}

// Set encodes value and stores it under key for ttl. Best effort.
func Set[T any](ctx context.Context, s *Store, key string, value T, ttl time.Duration) {
	data, err := s.codec.Marshal(value)
	if err != nil {
		s.fault(ctx, "encode", key, err)
		return
	}
	s.SetBytes(ctx, key, data, ttl)
}
