package store

import (
	"context"

	"github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
)

// Repository is a Durable on top of a go-repository-bun repository.
type Repository[T any] struct {
	base     repository.Repository[*T]
	criteria []repository.SelectCriteria
}

// FromRepository adapts base. criteria are applied to every List, for
// example to set an order.
func FromRepository[T any](base repository.Repository[*T], criteria ...repository.SelectCriteria) *Repository[T] {
	return &Repository[T]{base: base, criteria: criteria}
}

func (r *Repository[T]) List(ctx context.Context) ([]T, error) {
	records, _, err := r.base.List(ctx, r.criteria...)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "list records")
	}

	out := make([]T, 0, len(records))
	for _, rec := range records {
		if rec != nil {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (r *Repository[T]) Add(ctx context.Context, entity *T) error {
	created, err := r.base.Create(ctx, entity)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "insert record")
	}
	if created != nil && created != entity {
		*entity = *created
	}
	return nil
}

func (r *Repository[T]) Update(ctx context.Context, entity *T) error {
	updated, err := r.base.Update(ctx, entity)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "update record")
	}
	if updated != nil && updated != entity {
		*entity = *updated
	}
	return nil
}
