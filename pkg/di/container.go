package di

import (
	"context"
	"log/slog"

	"github.com/goliatone/go-cached-records/cache"
	"github.com/goliatone/go-cached-records/employee"
	"github.com/goliatone/go-cached-records/internal/config"
	"github.com/goliatone/go-cached-records/record"
	"github.com/goliatone/go-cached-records/repositorycache"
	"github.com/goliatone/go-cached-records/store"
	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// Container provides dependency injection for the records stack.
// It owns the database handle and the cache store, and provides factory
// methods for creating cached repositories and services on top of them.
type Container struct {
	config *config.Config
	logger *slog.Logger
	db     *bun.DB
	cache  *cache.Store
}

// Option customizes a Container.
type Option func(*Container)

// WithLogger sets the logger handed to every component.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Container) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewContainer opens the database and cache described by cfg.
func NewContainer(ctx context.Context, cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{
		config: cfg,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	db, err := store.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	cacheStore, err := cache.New(cfg.Cache, cache.WithLogger(c.logger))
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	if !cacheStore.Reachable(ctx) {
		c.logger.Warn("cache unreachable at startup, serving from the database",
			slog.String("cache_backend", cfg.Cache.Backend),
		)
	}

	c.db = db
	c.cache = cacheStore
	c.logger.Debug("container ready",
		slog.String("database", cfg.Database.Type),
		slog.String("cache_backend", cfg.Cache.Backend),
		slog.String("codec", cfg.Cache.Codec),
	)
	return c, nil
}

// NewContainerWithDefaults creates a container using config.Default.
func NewContainerWithDefaults(ctx context.Context, opts ...Option) (*Container, error) {
	return NewContainer(ctx, config.Default(), opts...)
}

// DB returns the shared database handle.
func (c *Container) DB() *bun.DB {
	return c.db
}

// Cache returns the shared cache store.
func (c *Container) Cache() *cache.Store {
	return c.cache
}

// Config returns the configuration the container was built from.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the container logger.
func (c *Container) Logger() *slog.Logger {
	return c.logger
}

// Migrate creates the tables for every model the container serves.
func (c *Container) Migrate(ctx context.Context) error {
	return store.Migrate(ctx, c.db, (*employee.Employee)(nil))
}

// NewCachedRepository wraps durable with the container cache, using the
// configured TTL and namespace.
//
// Since Go methods cannot have type parameters, this is provided as a package-level function.
// Example: NewCachedRepository[employee.Employee](container, durable)
func NewCachedRepository[T record.Entity](c *Container, durable store.Durable[T], opts ...repositorycache.Option) *repositorycache.CachedRepository[T] {
	base := []repositorycache.Option{
		repositorycache.WithTTL(c.config.Cache.TTL),
		repositorycache.WithNamespace(c.config.Cache.Namespace),
		repositorycache.WithLogger(c.logger),
	}
	return repositorycache.New(durable, c.cache, append(base, opts...)...)
}

// NewBunRepository returns a cached repository over the bun table of T.
func NewBunRepository[T record.Entity](c *Container, order ...string) *repositorycache.CachedRepository[T] {
	return NewCachedRepository[T](c, store.NewBun[T](c.db, store.WithOrder[T](order...)))
}

// NewEmployeeService wires the employee service over the employees table.
func (c *Container) NewEmployeeService(opts ...employee.Option) *employee.Service {
	repo := NewBunRepository[employee.Employee](c, "employee_id ASC")
	base := []employee.Option{employee.WithLogger(c.logger)}
	return employee.NewService(repo, append(base, opts...)...)
}

// Close releases the cache and the database.
func (c *Container) Close() error {
	var errs []error
	if c.cache != nil {
		if err := c.cache.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if c.db != nil {
		if err := c.db.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
