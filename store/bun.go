package store

import (
	"context"
	"database/sql"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// Bun is a Durable backed by a bun database handle. T must be a bun model
// with a primary key.
type Bun[T any] struct {
	db    bun.IDB
	order []string
}

// BunOption configures a Bun store.
type BunOption[T any] func(*Bun[T])

// WithOrder sets the ORDER BY used by List, e.g. "employee_id ASC".
func WithOrder[T any](orders ...string) BunOption[T] {
	return func(b *Bun[T]) {
		b.order = orders
	}
}

// NewBun returns a store over db. db may be a *bun.DB or a bun.Tx.
func NewBun[T any](db bun.IDB, opts ...BunOption[T]) *Bun[T] {
	b := &Bun[T]{db: db}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// List selects every row of the model table.
func (b *Bun[T]) List(ctx context.Context) ([]T, error) {
	items := make([]T, 0)

	q := b.db.NewSelect().Model(&items)
	if len(b.order) > 0 {
		q = q.Order(b.order...)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "list records")
	}
	return items, nil
}

// Add inserts entity in its own transaction. Auto increment keys are written
// back into entity.
func (b *Bun[T]) Add(ctx context.Context, entity *T) error {
	err := b.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().Model(entity).Exec(ctx)
		return err
	})
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "insert record")
	}
	return nil
}

// Update writes every column of entity by primary key in its own transaction.
// It returns ErrNotFound when no row was touched.
func (b *Bun[T]) Update(ctx context.Context, entity *T) error {
	err := b.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().Model(entity).WherePK().Exec(ctx)
		if err != nil {
			return err
		}
		return requireRows(res)
	})
	if err != nil {
		if errors.IsNotFound(err) {
			return err
		}
		return errors.Wrap(err, errors.CategoryInternal, "update record")
	}
	return nil
}

func requireRows(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
