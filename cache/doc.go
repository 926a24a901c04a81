// Package cache provides the fail-open key/value store used by cached repositories.
//
// # Overview
//
// A Store wraps a Backend (in-process sturdyc, Redis, or a no-op backend) and
// a Codec (JSON or MessagePack). Its methods never return errors: any backend
// failure, timeout or undecodable payload is logged and reported as a miss.
// Callers treat the cache as an optimization only and always fall back to the
// durable store.
//
// # Basic Usage
//
//	store, err := cache.New(cache.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer store.Close()
//
//	key := cache.KeyFor[Employee]("")
//	cache.Set(ctx, store, key, employees, cache.DefaultTTL)
//
//	if list, ok := cache.Get[[]Employee](ctx, store, key); ok {
//		// served from cache
//	}
//
// # Keys
//
// KeyFor derives one key per entity type. The whole collection of an entity
// type lives under that key, so every process sharing a backend sees the same
// entry:
//
//	records::employee::<xxhash of the fully qualified type>
//
// # Backends
//
// The memory backend keeps an expiry next to every value so a Set with a
// shorter ttl than the configured client TTL is honored. The Redis backend
// connects lazily; an unreachable server shows up as warnings in the log and a
// permanently cold cache, never as a failed request.
package cache
