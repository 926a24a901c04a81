package repositorycache

import (
	"context"
	"log/slog"
	"time"

	"github.com/goliatone/go-cached-records/cache"
	"github.com/goliatone/go-cached-records/record"
	"github.com/goliatone/go-cached-records/store"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// FaultMessage is the Message of every envelope that reports a durable store
// failure, for reads and writes alike.
const FaultMessage = "An error occurred while fetching entities."

// Repository is the cache-aside data access contract for one entity type.
// No method returns an error; failures are reported in the envelope.
type Repository[T record.Entity] interface {
	GetList(ctx context.Context) record.ResponseMessage[[]T]
	GetByID(ctx context.Context, predicate func(T) bool) record.ResponseMessage[T]
	CreateData(ctx context.Context, entity *T) record.ResponseMessage[T]
	EditData(ctx context.Context, entity *T) record.ResponseMessage[T]
	DeleteData(ctx context.Context, entity *T) record.ResponseMessage[T]
}

var _ Repository[record.Entity] = (*CachedRepository[record.Entity])(nil)

// CachedRepository fronts a durable store with a cache. The whole collection
// of T is kept under a single key; every write invalidates that key, commits,
// then writes the fresh collection back.
type CachedRepository[T record.Entity] struct {
	durable store.Durable[T]
	cache   *cache.Store
	key     string
	ttl     time.Duration
	logger  *slog.Logger
	opID    func() string
}

// New creates a CachedRepository for T. A nil cache store disables caching.
func New[T record.Entity](durable store.Durable[T], cacheStore *cache.Store, opts ...Option) *CachedRepository[T] {
	o := options{
		ttl:    cache.DefaultTTL,
		logger: slog.Default(),
		opID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if cacheStore == nil {
		cacheStore = cache.NewStore(nil, cache.WithLogger(o.logger))
	}

	key := o.key
	if key == "" {
		key = cache.KeyFor[T](o.namespace)
	}

	return &CachedRepository[T]{
		durable: durable,
		cache:   cacheStore,
		key:     key,
		ttl:     o.ttl,
		logger:  o.logger.With(slog.String("component", "repository"), slog.String("cache_key", key)),
		opID:    o.opID,
	}
}

// Key returns the cache key holding the collection.
func (r *CachedRepository[T]) Key() string {
	return r.key
}

// GetList returns the full collection, from cache when present.
func (r *CachedRepository[T]) GetList(ctx context.Context) record.ResponseMessage[[]T] {
	items, err := r.load(ctx)
	if err != nil {
		r.logFault(ctx, "list", err)
		return record.Fault[[]T](FaultMessage, err)
	}
	return record.List(items)
}

// GetByID returns the first entity matching predicate. A lookup that finds
// nothing succeeds without data. On a cache miss the collection is loaded
// from the durable store and cached before the predicate runs.
func (r *CachedRepository[T]) GetByID(ctx context.Context, predicate func(T) bool) record.ResponseMessage[T] {
	items, err := r.load(ctx)
	if err != nil {
		r.logFault(ctx, "get", err)
		return record.Fault[T](FaultMessage, err)
	}

	if predicate != nil {
		for _, item := range items {
			if predicate(item) {
				return record.Ok(item)
			}
		}
	}
	return record.Empty[T]("")
}

// CreateData inserts entity. The returned envelope carries the entity with
// the id assigned by the store.
func (r *CachedRepository[T]) CreateData(ctx context.Context, entity *T) record.ResponseMessage[T] {
	return r.write(ctx, "create", entity, r.durable.Add)
}

// EditData persists the modified entity.
func (r *CachedRepository[T]) EditData(ctx context.Context, entity *T) record.ResponseMessage[T] {
	return r.write(ctx, "edit", entity, r.durable.Update)
}

// DeleteData persists a soft delete. The row stays in the store; the entity
// is expected to carry the deleted flag already.
func (r *CachedRepository[T]) DeleteData(ctx context.Context, entity *T) record.ResponseMessage[T] {
	return r.write(ctx, "delete", entity, r.durable.Update)
}

func (r *CachedRepository[T]) load(ctx context.Context) ([]T, error) {
	if items, ok := cache.Get[[]T](ctx, r.cache, r.key); ok {
		if items == nil {
			items = []T{}
		}
		return items, nil
	}

	items, err := r.durable.List(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}

	cache.Set(ctx, r.cache, r.key, items, r.ttl)
	return items, nil
}

// write runs invalidate, commit and repopulate strictly in that order.
func (r *CachedRepository[T]) write(ctx context.Context, op string, entity *T, commit func(context.Context, *T) error) record.ResponseMessage[T] {
	if entity == nil {
		return record.Fail[T]("entity is required")
	}

	logger := r.logger.With(slog.String("op", op), slog.String("op_id", r.opID()))

	r.cache.Remove(ctx, r.key)
	logger.DebugContext(ctx, "cache invalidated")

	if err := commit(ctx, entity); err != nil {
		werr := errors.Wrap(err, errors.CategoryInternal, op+" commit failed")
		logger.LogAttrs(ctx, slog.LevelError, "durable write failed", errors.ToSlogAttributes(werr)...)
		return record.Fault[T](FaultMessage, err)
	}
	logger.DebugContext(ctx, "durable write committed", slog.Int64("id", (*entity).GetID()))

	// the commit already happened, so a failed re-read only leaves the key cold
	items, err := r.durable.List(ctx)
	if err != nil {
		werr := errors.Wrap(err, errors.CategoryInternal, op+" repopulate failed")
		logger.LogAttrs(ctx, slog.LevelWarn, "cache left invalidated", errors.ToSlogAttributes(werr)...)
		return record.Ok(*entity)
	}
	if items == nil {
		items = []T{}
	}

	cache.Set(ctx, r.cache, r.key, items, r.ttl)
	logger.DebugContext(ctx, "cache repopulated", slog.Int("count", len(items)))

	return record.Ok(*entity)
}

func (r *CachedRepository[T]) logFault(ctx context.Context, op string, err error) {
	werr := errors.Wrap(err, errors.CategoryInternal, op+" failed")
	attrs := append(errors.ToSlogAttributes(werr), slog.String("op", op))
	r.logger.LogAttrs(ctx, slog.LevelError, "durable read failed", attrs...)
}
