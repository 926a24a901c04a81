package store

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// Migrate creates the table of every model that does not exist yet. Models
// are pointers to bun model structs, e.g. (*employee.Employee)(nil).
func Migrate(ctx context.Context, db bun.IDB, models ...any) error {
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return errors.Wrap(err, errors.CategoryInternal, "create table")
		}
	}
	return nil
}
