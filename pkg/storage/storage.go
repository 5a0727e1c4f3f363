package storage

import "context"

// BlobStore is a durable key/value store for opaque byte blobs.
// Cache snapshots are written to a BlobStore as a single blob per cache.
type BlobStore interface {
	// Read returns the blob stored under key.
	// Returns ErrNotFound if nothing has been written yet.
	Read(ctx context.Context, key string) ([]byte, error)

	// Write replaces the blob stored under key.
	Write(ctx context.Context, key string, data []byte) error

	// Delete removes the blob stored under key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// Config holds S3-compatible storage configuration.
type Config struct {
	// Bucket is the S3 bucket name (required).
	Bucket string `yaml:"bucket"`

	// AccessKey is the AWS access key ID (required).
	AccessKey string `yaml:"access_key"`

	// SecretKey is the AWS secret access key (required).
	SecretKey string `yaml:"secret_key"`

	// Endpoint is the custom S3 endpoint URL (optional, for MinIO or other S3-compatible services).
	Endpoint string `yaml:"endpoint"`

	// Region is the AWS region (default: us-east-1).
	Region string `yaml:"region"`

	// Prefix is prepended to every object key, separated by "/".
	Prefix string `yaml:"prefix"`

	// PathStyle enables path-style URLs (required for MinIO).
	PathStyle bool `yaml:"path_style"`
}

// Default configuration values.
const (
	DefaultRegion      = "us-east-1"
	DefaultContentType = "application/octet-stream"
)

// applyDefaults fills in default values for empty config fields.
func (c *Config) applyDefaults() {
	if c.Region == "" {
		c.Region = DefaultRegion
	}
}

// validate checks that required configuration fields are set.
func (c *Config) validate() error {
	if c.Bucket == "" {
		return ErrInvalidConfig
	}
	if c.AccessKey == "" {
		return ErrInvalidConfig
	}
	if c.SecretKey == "" {
		return ErrInvalidConfig
	}
	return nil
}
