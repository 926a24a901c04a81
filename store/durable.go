// Package store holds the durable side of the cache-aside layer: the contract
// repositories write through and the implementations behind it.
package store

import (
	"context"

	"github.com/goliatone/go-errors"
)

// Durable is the system of record for one entity type. Every write commits
// before it returns.
type Durable[T any] interface {
	// List returns the full collection, soft deleted rows included.
	List(ctx context.Context) ([]T, error)
	// Add inserts entity and commits. The store assigns the id and writes it
	// back into entity.
	Add(ctx context.Context, entity *T) error
	// Update persists the current state of entity and commits.
	Update(ctx context.Context, entity *T) error
}

// ErrNotFound is returned by Update when no row matches the entity id.
var ErrNotFound = errors.New("record not found", errors.CategoryNotFound)
