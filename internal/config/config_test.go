package config

import (
	"os"
	"testing"
	"time"

	"github.com/goliatone/go-cached-records/cache"
	"github.com/goliatone/go-cached-records/pkg/testsupport"
	"github.com/goliatone/go-cached-records/store"
	"github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	defer func() { _ = os.Chdir(wd) }()

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, store.SQLite, cfg.Database.Type)
	assert.Equal(t, cache.BackendMemory, cfg.Cache.Backend)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
}

func TestLoad_File(t *testing.T) {
	path := testsupport.TempFile(t, "records.yaml", []byte(`
database:
  type: postgres
  dsn: postgres://records@localhost/records?sslmode=disable
  max_open_conns: 8
cache:
  backend: redis
  codec: msgpack
  ttl: 90s
  redis:
    addr: cache:6379
logging:
  level: debug
`))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, store.Postgres, cfg.Database.Type)
	assert.Equal(t, 8, cfg.Database.MaxOpenConns)
	assert.Equal(t, cache.BackendRedis, cfg.Cache.Backend)
	assert.Equal(t, "msgpack", cfg.Cache.Codec)
	assert.Equal(t, 90*time.Second, cfg.Cache.TTL)
	assert.Equal(t, "cache:6379", cfg.Cache.Redis.Addr)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// untouched keys keep their defaults
	assert.Equal(t, cache.DefaultNamespace, cfg.Cache.Namespace)
	assert.Equal(t, cache.DefaultConfig().Memory, cfg.Cache.Memory)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := testsupport.TempFile(t, "records.yaml", []byte("cache:\n  ttl: 90s\n"))
	t.Setenv("RECORDS_CACHE_TTL", "3m")
	t.Setenv("RECORDS_CACHE_BACKEND", "noop")
	t.Setenv("RECORDS_DATABASE_DSN", "file::memory:?cache=shared")
	t.Setenv("RECORDS_CACHE_MEMORY_CAPACITY", "64")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, cache.BackendNoop, cfg.Cache.Backend)
	assert.Equal(t, "file::memory:?cache=shared", cfg.Database.DSN)
	assert.Equal(t, 64, cfg.Cache.Memory.Capacity)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing explicit file", func(t *testing.T) {
		_, err := Load(t.TempDir() + "/absent.yaml")
		require.Error(t, err)
		assert.True(t, errors.IsValidation(err))
	})

	t.Run("invalid value", func(t *testing.T) {
		path := testsupport.TempFile(t, "records.yaml", []byte("database:\n  type: oracle\n"))
		_, err := Load(path)
		require.Error(t, err)
		assert.True(t, errors.IsValidation(err))
	})

	t.Run("bad duration", func(t *testing.T) {
		path := testsupport.TempFile(t, "records.yaml", []byte("cache:\n  ttl: soon\n"))
		_, err := Load(path)
		assert.Error(t, err)
	})
}
