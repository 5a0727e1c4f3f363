package cache

import "time"

// Default configuration values.
const (
	DefaultTTL             = 5 * time.Minute
	DefaultMaxEntries      = 1000
	DefaultCleanupInterval = time.Minute
)

// Config controls expiration, eviction and background cleanup of a cache.
type Config struct {
	// DefaultTTL applies to Set calls without WithTTL or WithNoExpiry.
	DefaultTTL time.Duration `yaml:"default_ttl"`

	// MaxEntries is a soft bound enforced by Cleanup, never by Set.
	MaxEntries int `yaml:"max_entries"`

	// AutoCleanup runs Cleanup on CleanupSchedule, or every CleanupInterval.
	AutoCleanup     bool          `yaml:"auto_cleanup"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
	CleanupSchedule string        `yaml:"cleanup_schedule"`

	// StrictBound makes Cleanup evict until the cache is within MaxEntries.
	// By default a sweep evicts at most one entry.
	StrictBound bool `yaml:"strict_bound"`

	// EnableVersioning and StorageQuotaBytes are persisted with snapshots
	// but have no effect on cache behavior.
	EnableVersioning  bool  `yaml:"enable_versioning"`
	StorageQuotaBytes int64 `yaml:"storage_quota_bytes"`
}

// DefaultConfig returns the configuration used when none is supplied.
func DefaultConfig() Config {
	return Config{
		DefaultTTL:      DefaultTTL,
		MaxEntries:      DefaultMaxEntries,
		AutoCleanup:     true,
		CleanupInterval: DefaultCleanupInterval,
	}
}

func (c Config) withDefaults() Config {
	if c.DefaultTTL == 0 {
		c.DefaultTTL = DefaultTTL
	}
	if c.MaxEntries <= 0 {
		c.MaxEntries = DefaultMaxEntries
	}
	if c.CleanupInterval <= 0 {
		c.CleanupInterval = DefaultCleanupInterval
	}
	return c
}

// ConfigSnapshot is the configuration stored next to persisted entries.
// Durations are milliseconds.
type ConfigSnapshot struct {
	DefaultExpireTime int64  `json:"defaultExpireTime" msgpack:"defaultExpireTime"`
	MaxEntries        int    `json:"maxEntries" msgpack:"maxEntries"`
	AutoCleanup       bool   `json:"autoCleanup" msgpack:"autoCleanup"`
	CleanupInterval   int64  `json:"cleanupInterval" msgpack:"cleanupInterval"`
	CleanupSchedule   string `json:"cleanupSchedule,omitempty" msgpack:"cleanupSchedule,omitempty"`
	StrictBound       bool   `json:"strictBound,omitempty" msgpack:"strictBound,omitempty"`
	EnableVersioning  bool   `json:"enableVersioning" msgpack:"enableVersioning"`
	StorageQuota      int64  `json:"storageQuota" msgpack:"storageQuota"`
}

// Snapshot converts the configuration to its persisted form.
func (c Config) Snapshot() ConfigSnapshot {
	return ConfigSnapshot{
		DefaultExpireTime: c.DefaultTTL.Milliseconds(),
		MaxEntries:        c.MaxEntries,
		AutoCleanup:       c.AutoCleanup,
		CleanupInterval:   c.CleanupInterval.Milliseconds(),
		CleanupSchedule:   c.CleanupSchedule,
		StrictBound:       c.StrictBound,
		EnableVersioning:  c.EnableVersioning,
		StorageQuota:      c.StorageQuotaBytes,
	}
}

// Config converts a persisted snapshot back to a Config.
func (s ConfigSnapshot) Config() Config {
	return Config{
		DefaultTTL:        time.Duration(s.DefaultExpireTime) * time.Millisecond,
		MaxEntries:        s.MaxEntries,
		AutoCleanup:       s.AutoCleanup,
		CleanupInterval:   time.Duration(s.CleanupInterval) * time.Millisecond,
		CleanupSchedule:   s.CleanupSchedule,
		StrictBound:       s.StrictBound,
		EnableVersioning:  s.EnableVersioning,
		StorageQuotaBytes: s.StorageQuota,
	}
}
