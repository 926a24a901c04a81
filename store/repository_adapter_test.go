package store

import (
	"context"
	"testing"

	"github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepository overrides the calls the adapter makes. Any other method
// panics through the nil embedded interface.
type fakeRepository struct {
	repository.Repository[*widget]

	rows     []*widget
	err      error
	criteria int
}

func (f *fakeRepository) List(_ context.Context, criteria ...repository.SelectCriteria) ([]*widget, int, error) {
	f.criteria = len(criteria)
	if f.err != nil {
		return nil, 0, f.err
	}
	return f.rows, len(f.rows), nil
}

func (f *fakeRepository) Create(_ context.Context, rec *widget, _ ...repository.InsertCriteria) (*widget, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := *rec
	out.ID = int64(len(f.rows) + 1)
	f.rows = append(f.rows, &out)
	return &out, nil
}

func (f *fakeRepository) Update(_ context.Context, rec *widget, _ ...repository.UpdateCriteria) (*widget, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i, row := range f.rows {
		if row.ID == rec.ID {
			out := *rec
			f.rows[i] = &out
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func TestFromRepository(t *testing.T) {
	ctx := context.Background()
	base := &fakeRepository{}
	s := FromRepository[widget](base, nil)

	w := &widget{Name: "adapted"}
	require.NoError(t, s.Add(ctx, w))
	assert.Equal(t, int64(1), w.ID, "created record is copied back")

	w.Name = "changed"
	require.NoError(t, s.Update(ctx, w))

	rows, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "changed", rows[0].Name)
	assert.Equal(t, 1, base.criteria)
}

func TestFromRepository_WrapsErrors(t *testing.T) {
	ctx := context.Background()
	base := &fakeRepository{err: errors.New("db offline", errors.CategoryExternal)}
	s := FromRepository[widget](base)

	_, err := s.List(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db offline")

	assert.Error(t, s.Add(ctx, &widget{}))
	assert.Error(t, s.Update(ctx, &widget{ID: 1}))
}
