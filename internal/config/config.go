// Package config loads process configuration for the records tooling.
package config

import (
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/goliatone/go-cached-records/cache"
	"github.com/goliatone/go-cached-records/internal/logging"
	"github.com/goliatone/go-cached-records/store"
	"github.com/goliatone/go-errors"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. RECORDS_CACHE_BACKEND.
const EnvPrefix = "RECORDS"

// Config aggregates configuration for the application.
// Each field is owned by its respective package.
type Config struct {
	Database store.Config   `mapstructure:"database"`
	Cache    cache.Config   `mapstructure:"cache"`
	Logging  logging.Config `mapstructure:"logging"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Database: store.DefaultConfig(),
		Cache:    cache.DefaultConfig(),
		Logging:  logging.DefaultConfig(),
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if err := c.Cache.Validate(); err != nil {
		return err
	}
	return c.Logging.Validate()
}

// Load reads configuration from a file and environment variables on top of
// the defaults. With an empty path, records.{yaml,json,toml} in the working
// directory is used when present. Environment variables use the prefix
// RECORDS and the dot in keys is replaced by an underscore: "cache.ttl"
// becomes RECORDS_CACHE_TTL.
func Load(path string) (*Config, error) {
	cfg := Default()

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("records")
		v.AddConfigPath(".")
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvs(v, cfg)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, errors.CategoryValidation, "read config")
		}
	}

	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(cfg, hook); err != nil {
		return nil, errors.Wrap(err, errors.CategoryValidation, "decode config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// bindEnvs registers all keys within cfg so that viper will look up
// corresponding environment variables when unmarshalling.
func bindEnvs(v *viper.Viper, cfg any, parts ...string) {
	val := reflect.ValueOf(cfg)
	typ := reflect.TypeOf(cfg)
	if typ.Kind() == reflect.Ptr {
		val = val.Elem()
		typ = typ.Elem()
	}
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		tag := f.Tag.Get("mapstructure")
		if tag == "" {
			tag = strings.ToLower(f.Name)
		}
		key := append(append([]string(nil), parts...), tag)
		if f.Type.Kind() == reflect.Struct {
			bindEnvs(v, val.Field(i).Interface(), key...)
			continue
		}
		_ = v.BindEnv(strings.Join(key, "."))
	}
}
