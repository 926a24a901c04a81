package cache

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-cached-records/internal/cacheinfra"
	"github.com/goliatone/go-errors"
)

// Supported backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendNoop   = "noop"
)

const (
	// DefaultTTL is how long a cached collection lives after it is written.
	DefaultTTL = 10 * time.Minute
	// DefaultConnectTimeout bounds establishing a backend connection.
	DefaultConnectTimeout = 5 * time.Second
	// DefaultOperationTimeout bounds a single backend call.
	DefaultOperationTimeout = 5 * time.Second
)

// Config exposes cache configuration options for consumers of the cache package.
type Config struct {
	Backend          string        `mapstructure:"backend"`
	Namespace        string        `mapstructure:"namespace"`
	Codec            string        `mapstructure:"codec"`
	TTL              time.Duration `mapstructure:"ttl"`
	ConnectTimeout   time.Duration `mapstructure:"connect_timeout"`
	OperationTimeout time.Duration `mapstructure:"operation_timeout"`
	Memory           MemoryConfig  `mapstructure:"memory"`
	Redis            RedisConfig   `mapstructure:"redis"`
}

// MemoryConfig mirrors the underlying sturdyc sizing options.
type MemoryConfig struct {
	Capacity           int           `mapstructure:"capacity"`
	NumShards          int           `mapstructure:"num_shards"`
	EvictionPercentage int           `mapstructure:"eviction_percentage"`
	EvictionInterval   time.Duration `mapstructure:"eviction_interval"`
}

// RedisConfig locates the Redis server. URL wins over the discrete fields.
type RedisConfig struct {
	URL        string `mapstructure:"url"`
	Addr       string `mapstructure:"addr"`
	Username   string `mapstructure:"username"`
	Password   string `mapstructure:"password"`
	DB         int    `mapstructure:"db"`
	ClientName string `mapstructure:"client_name"`
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() Config {
	mem := cacheinfra.DefaultConfig()
	return Config{
		Backend:          BackendMemory,
		Namespace:        DefaultNamespace,
		Codec:            JSON.Name(),
		TTL:              DefaultTTL,
		ConnectTimeout:   DefaultConnectTimeout,
		OperationTimeout: DefaultOperationTimeout,
		Memory: MemoryConfig{
			Capacity:           mem.Capacity,
			NumShards:          mem.NumShards,
			EvictionPercentage: mem.EvictionPercentage,
			EvictionInterval:   mem.EvictionInterval,
		},
		Redis: RedisConfig{
			Addr:       "localhost:6379",
			ClientName: "go-cached-records",
		},
	}
}

// Validate checks whether the configuration values are valid.
func (c Config) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Backend, validation.Required, validation.In(BackendMemory, BackendRedis, BackendNoop)),
		validation.Field(&c.Codec, validation.In(JSON.Name(), MsgPack.Name())),
		validation.Field(&c.TTL, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.ConnectTimeout, validation.Min(time.Duration(0))),
		validation.Field(&c.OperationTimeout, validation.Min(time.Duration(0))),
	)
	if err != nil {
		return errors.FromOzzoValidation(err, "invalid cache configuration")
	}

	switch c.Backend {
	case BackendMemory:
		return c.memoryConfig().Validate()
	case BackendRedis:
		if c.Redis.URL == "" && c.Redis.Addr == "" {
			return errors.New("redis backend requires url or addr", errors.CategoryValidation)
		}
	}
	return nil
}

// NewBackend constructs the backend selected by cfg.Backend.
func NewBackend(cfg Config) (Backend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Backend {
	case BackendRedis:
		return cacheinfra.NewRedisBackend(cfg.redisConfig())
	case BackendNoop:
		return cacheinfra.NewNoopBackend(), nil
	default:
		return cacheinfra.NewSturdycBackend(cfg.memoryConfig())
	}
}

// New builds a Store from cfg, including backend and codec.
func New(cfg Config, opts ...StoreOption) (*Store, error) {
	backend, err := NewBackend(cfg)
	if err != nil {
		return nil, err
	}

	codec, err := CodecByName(cfg.Codec)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}

	base := []StoreOption{WithCodec(codec), WithOperationTimeout(cfg.OperationTimeout)}
	return NewStore(backend, append(base, opts...)...), nil
}

func (c Config) memoryConfig() cacheinfra.Config {
	return cacheinfra.Config{
		Capacity:           c.Memory.Capacity,
		NumShards:          c.Memory.NumShards,
		TTL:                c.TTL,
		EvictionPercentage: c.Memory.EvictionPercentage,
		EvictionInterval:   c.Memory.EvictionInterval,
	}
}

func (c Config) redisConfig() cacheinfra.RedisConfig {
	return cacheinfra.RedisConfig{
		URL:              c.Redis.URL,
		Addr:             c.Redis.Addr,
		Username:         c.Redis.Username,
		Password:         c.Redis.Password,
		DB:               c.Redis.DB,
		ClientName:       c.Redis.ClientName,
		ConnectTimeout:   c.ConnectTimeout,
		OperationTimeout: c.OperationTimeout,
	}
}
