package store

import (
	"context"
	"slices"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"
)

// Memory is an in-process Durable keyed by an int64 id. Values are copied
// in and out so callers never share state with the store.
type Memory[T any] struct {
	rows *xsync.MapOf[int64, T]
	seq  atomic.Int64
	id   func(*T) *int64
}

// NewMemory returns a store holding seed. id returns a pointer to the id
// field of an entity so the store can read and assign it.
//
// Seed rows that carry an id keep it. Rows without one are numbered
// afterwards from 1, skipping ids already taken, so a seed of {10, none}
// stores ids 10 and 1. Add continues after the highest stored id.
func NewMemory[T any](id func(*T) *int64, seed ...T) *Memory[T] {
	m := &Memory[T]{rows: xsync.NewMapOf[int64, T](), id: id}

	var pending []T
	for _, row := range seed {
		if *m.id(&row) == 0 {
			pending = append(pending, row)
			continue
		}
		m.rows.Store(*m.id(&row), row)
	}

	var next int64
	for _, row := range pending {
		for {
			next++
			if _, taken := m.rows.Load(next); !taken {
				break
			}
		}
		*m.id(&row) = next
		m.rows.Store(next, row)
	}

	m.rows.Range(func(id int64, _ T) bool {
		m.bump(id)
		return true
	})
	return m
}

// List returns every row ordered by id.
func (m *Memory[T]) List(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ids := make([]int64, 0, m.rows.Size())
	m.rows.Range(func(id int64, _ T) bool {
		ids = append(ids, id)
		return true
	})
	slices.Sort(ids)

	out := make([]T, 0, len(ids))
	for _, id := range ids {
		if row, ok := m.rows.Load(id); ok {
			out = append(out, row)
		}
	}
	return out, nil
}

// Add assigns the next id to entity and stores a copy.
func (m *Memory[T]) Add(ctx context.Context, entity *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	id := m.seq.Add(1)
	*m.id(entity) = id
	m.rows.Store(id, *entity)
	return nil
}

// Update replaces the stored row with the same id.
func (m *Memory[T]) Update(ctx context.Context, entity *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	id := *m.id(entity)
	if _, ok := m.rows.Load(id); !ok {
		return ErrNotFound
	}
	m.rows.Store(id, *entity)
	return nil
}

func (m *Memory[T]) bump(id int64) {
	for {
		cur := m.seq.Load()
		if id <= cur || m.seq.CompareAndSwap(cur, id) {
			return
		}
	}
}
