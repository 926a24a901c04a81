// Package repositorycache provides the generic cache-aside repository.
//
// # Overview
//
// A CachedRepository[T] sits between a service and a store.Durable[T]. It keeps
// the entire collection of T under one cache key derived from the type
// (cache.KeyFor). Reads try the cache first and fall back to the durable
// store, caching what they loaded. Writes follow a fixed order:
//
//  1. invalidate the key
//  2. commit to the durable store
//  3. re-read the collection and write it back under the key
//
// Concurrent writers are not serialized; the last repopulate wins.
//
// # Basic Usage
//
//	durable := store.NewBun[employee.Employee](db)
//	repo := repositorycache.New[employee.Employee](durable, cacheStore,
//		repositorycache.WithTTL(10*time.Minute),
//	)
//
//	res := repo.GetByID(ctx, func(e employee.Employee) bool { return e.EmployeeID == 42 })
//	if res.IsSuccess && res.HasData() {
//		// found
//	}
//
// # Failure Handling
//
// Nothing in this package returns an error or panics on a store failure.
// Durable store errors become an envelope with IsSuccess false, Message set to
// FaultMessage and ErrorMessage holding the root cause text. Cache failures are
// absorbed by cache.Store and only show up as a cold cache in the logs.
//
// A write whose commit succeeded but whose re-read failed is still reported
// as a success. The key stays invalidated and the next read repopulates it.
package repositorycache
