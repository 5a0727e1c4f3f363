// Package config loads cachectl configuration from a YAML file with
// environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/30675137/Cinema-Bussiness-Center-Platform-sub009/pkg/cache"
	"github.com/30675137/Cinema-Bussiness-Center-Platform-sub009/pkg/db"
	"github.com/30675137/Cinema-Bussiness-Center-Platform-sub009/pkg/logger"
	"github.com/30675137/Cinema-Bussiness-Center-Platform-sub009/pkg/redis"
	"github.com/30675137/Cinema-Bussiness-Center-Platform-sub009/pkg/storage"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CACHECTL"

// Store drivers.
const (
	DriverFile     = "file"
	DriverRedis    = "redis"
	DriverS3       = "s3"
	DriverPostgres = "postgres"
)

// Config is the full cachectl configuration.
type Config struct {
	Log    logger.Config       `yaml:"log"`
	Sentry logger.SentryConfig `yaml:"sentry"`
	Store  StoreConfig         `yaml:"store"`
	Codec  string              `yaml:"codec"`
	Cache  cache.Config        `yaml:"cache"`
	Caches []CacheRef          `yaml:"caches"`
	Server ServerConfig        `yaml:"server"`
}

// StoreConfig selects and configures the durable snapshot store.
// Postgres snapshots always live in storage.DefaultSnapshotTable, the table
// the db migrations create.
type StoreConfig struct {
	Driver   string         `yaml:"driver"`
	Dir      string         `yaml:"dir"`
	Prefix   string         `yaml:"prefix"`
	Redis    redis.Config   `yaml:"redis"`
	S3       storage.Config `yaml:"s3"`
	Postgres db.Config      `yaml:"postgres"`

	// TTL expires snapshots that are not rewritten in time. Only the redis
	// driver supports it; zero keeps snapshots until deleted.
	TTL time.Duration `yaml:"ttl"`
}

// CacheRef names a cache the server opens at startup.
type CacheRef struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`
}

// ServerConfig configures `cachectl serve`.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	HealthTimeout   time.Duration `yaml:"health_timeout"`
}

var (
	ErrReadConfig    = errors.New("config: failed to read file")
	ErrParseConfig   = errors.New("config: failed to parse file")
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Log:   logger.Config{Format: "json", Level: "info"},
		Store: StoreConfig{Driver: DriverFile, Dir: cache.DefaultLocalDir},
		Codec: cache.JSONCodec.Name(),
		Cache: cache.DefaultConfig(),
		Server: ServerConfig{
			Addr:            ":9090",
			ReadTimeout:     5 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			HealthTimeout:   2 * time.Second,
		},
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Join(ErrReadConfig, err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, errors.Join(ErrParseConfig, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch c.Store.Driver {
	case DriverFile:
		if c.Store.Dir == "" {
			return fmt.Errorf("%w: store.dir is required for the file driver", ErrInvalidConfig)
		}
	case DriverRedis:
		if c.Store.Redis.URL == "" {
			return fmt.Errorf("%w: store.redis.url is required for the redis driver", ErrInvalidConfig)
		}
	case DriverS3:
		if c.Store.S3.Bucket == "" {
			return fmt.Errorf("%w: store.s3.bucket is required for the s3 driver", ErrInvalidConfig)
		}
	case DriverPostgres:
		if c.Store.Postgres.ConnectionString == "" {
			return fmt.Errorf("%w: store.postgres.url is required for the postgres driver", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store driver %q", ErrInvalidConfig, c.Store.Driver)
	}

	if c.Store.TTL < 0 {
		return fmt.Errorf("%w: store.ttl must not be negative", ErrInvalidConfig)
	}
	if c.Store.TTL > 0 && c.Store.Driver != DriverRedis {
		return fmt.Errorf("%w: store.ttl is only supported by the redis driver", ErrInvalidConfig)
	}

	if _, err := c.CacheCodec(); err != nil {
		return err
	}
	for _, ref := range c.Caches {
		if ref.Name == "" {
			return fmt.Errorf("%w: cache name is required", ErrInvalidConfig)
		}
		if _, err := cache.ParseKind(ref.Kind); err != nil {
			return errors.Join(ErrInvalidConfig, err)
		}
	}
	return nil
}

// CacheCodec returns the snapshot codec named by Codec.
func (c Config) CacheCodec() (cache.Codec, error) {
	switch strings.ToLower(c.Codec) {
	case "", cache.JSONCodec.Name():
		return cache.JSONCodec, nil
	case cache.MsgpackCodec.Name():
		return cache.MsgpackCodec, nil
	default:
		return nil, fmt.Errorf("%w: unknown codec %q", ErrInvalidConfig, c.Codec)
	}
}

// applyEnv overrides fields from CACHECTL_* variables.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + "_" + name); ok && v != "" {
			*dst = v
		}
	}

	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)
	str("SENTRY_DSN", &c.Sentry.DSN)
	str("SENTRY_ENVIRONMENT", &c.Sentry.Environment)
	str("STORE_DRIVER", &c.Store.Driver)
	str("STORE_DIR", &c.Store.Dir)
	str("STORE_PREFIX", &c.Store.Prefix)
	str("REDIS_URL", &c.Store.Redis.URL)
	str("S3_BUCKET", &c.Store.S3.Bucket)
	str("S3_ACCESS_KEY", &c.Store.S3.AccessKey)
	str("S3_SECRET_KEY", &c.Store.S3.SecretKey)
	str("S3_ENDPOINT", &c.Store.S3.Endpoint)
	str("S3_REGION", &c.Store.S3.Region)
	str("DATABASE_URL", &c.Store.Postgres.ConnectionString)
	str("CODEC", &c.Codec)
	str("SERVER_ADDR", &c.Server.Addr)

	if v, ok := lookup(EnvPrefix + "_CACHE_MAX_ENTRIES"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s_CACHE_MAX_ENTRIES: %v", ErrInvalidConfig, EnvPrefix, err)
		}
		c.Cache.MaxEntries = n
	}
	if v, ok := lookup(EnvPrefix + "_STORE_TTL"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s_STORE_TTL: %v", ErrInvalidConfig, EnvPrefix, err)
		}
		c.Store.TTL = d
	}
	if v, ok := lookup(EnvPrefix + "_CACHE_DEFAULT_TTL"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s_CACHE_DEFAULT_TTL: %v", ErrInvalidConfig, EnvPrefix, err)
		}
		c.Cache.DefaultTTL = d
	}
	return nil
}
