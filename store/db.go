package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-errors"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/schema"
)

// Supported database types.
const (
	SQLite   = "sqlite"
	Postgres = "postgres"
)

// DefaultPingTimeout bounds the connectivity check in Open.
const DefaultPingTimeout = 5 * time.Second

// Config describes the durable database.
type Config struct {
	Type            string        `mapstructure:"type"`
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DefaultConfig points at a local sqlite file.
func DefaultConfig() Config {
	return Config{
		Type: SQLite,
		DSN:  "records.db",
	}
}

// Validate checks whether the configuration values are valid.
func (c Config) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Type, validation.Required, validation.In(SQLite, Postgres)),
		validation.Field(&c.DSN, validation.Required),
		validation.Field(&c.MaxOpenConns, validation.Min(0)),
		validation.Field(&c.MaxIdleConns, validation.Min(0)),
	)
	if err != nil {
		return errors.FromOzzoValidation(err, "invalid database configuration")
	}
	return nil
}

// Open connects to the configured database, applies pool settings and pings
// it. The returned handle owns the sql.DB; close it with db.Close.
func Open(ctx context.Context, cfg Config) (*bun.DB, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	driver, dialect := driverFor(cfg.Type)

	sqldb, err := sql.Open(driver, cfg.DSN)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "open "+cfg.Type+" connection")
	}

	configurePool(sqldb, cfg)

	pingCtx, cancel := context.WithTimeout(ctx, DefaultPingTimeout)
	defer cancel()
	if err := sqldb.PingContext(pingCtx); err != nil {
		_ = sqldb.Close()
		return nil, errors.Wrap(err, errors.CategoryInternal, "ping "+cfg.Type)
	}

	return bun.NewDB(sqldb, dialect), nil
}

func driverFor(kind string) (string, schema.Dialect) {
	if kind == Postgres {
		return "postgres", pgdialect.New()
	}
	return "sqlite3", sqlitedialect.New()
}

func configurePool(db *sql.DB, cfg Config) {
	// every connection to ":memory:" opens a fresh empty database
	if cfg.Type == SQLite && strings.Contains(cfg.DSN, ":memory:") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
		return
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
}
