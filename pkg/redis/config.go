package redis

import "time"

// Config holds Redis connection parameters for the snapshot store.
type Config struct {
	// URL is a redis:// or rediss:// (TLS) connection URL.
	URL string `yaml:"url"`

	// Pool sizing. Snapshot traffic is one GET or SET per save, so small
	// pools are enough.
	PoolSize     int `yaml:"pool_size"`
	MinIdleConns int `yaml:"min_idle_conns"`

	MaxIdleTime   time.Duration `yaml:"max_idle_time"`
	MaxActiveTime time.Duration `yaml:"max_active_time"`

	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`

	// Attempt i waits i*RetryInterval before the next ping.
	RetryAttempts int           `yaml:"retry_attempts"`
	RetryInterval time.Duration `yaml:"retry_interval"`
}

// Default configuration values.
const (
	DefaultPoolSize      = 4
	DefaultMinIdleConns  = 1
	DefaultMaxIdleTime   = 10 * time.Minute
	DefaultMaxActiveTime = 30 * time.Minute
	DefaultReadTimeout   = 3 * time.Second
	DefaultWriteTimeout  = 3 * time.Second
	DefaultDialTimeout   = 5 * time.Second
	DefaultRetryAttempts = 3
	DefaultRetryInterval = 2 * time.Second
)

func (c *Config) applyDefaults() {
	if c.PoolSize == 0 {
		c.PoolSize = DefaultPoolSize
	}
	if c.MinIdleConns == 0 {
		c.MinIdleConns = DefaultMinIdleConns
	}
	if c.MaxIdleTime == 0 {
		c.MaxIdleTime = DefaultMaxIdleTime
	}
	if c.MaxActiveTime == 0 {
		c.MaxActiveTime = DefaultMaxActiveTime
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = DefaultReadTimeout
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = DefaultWriteTimeout
	}
	if c.DialTimeout == 0 {
		c.DialTimeout = DefaultDialTimeout
	}
	if c.RetryAttempts == 0 {
		c.RetryAttempts = DefaultRetryAttempts
	}
	if c.RetryInterval == 0 {
		c.RetryInterval = DefaultRetryInterval
	}
}
