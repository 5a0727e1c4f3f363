package storage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfig_applyDefaults(t *testing.T) {
	t.Parallel()

	t.Run("empty region gets default", func(t *testing.T) {
		t.Parallel()

		cfg := &Config{}
		cfg.applyDefaults()
		require.Equal(t, DefaultRegion, cfg.Region)
	})

	t.Run("explicit region kept", func(t *testing.T) {
		t.Parallel()

		cfg := &Config{Region: "eu-central-1"}
		cfg.applyDefaults()
		require.Equal(t, "eu-central-1", cfg.Region)
	})
}

func TestConfig_validate(t *testing.T) {
	t.Parallel()

	valid := Config{Bucket: "snapshots", AccessKey: "ak", SecretKey: "sk"}
	require.NoError(t, valid.validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing bucket", func(c *Config) { c.Bucket = "" }},
		{"missing access key", func(c *Config) { c.AccessKey = "" }},
		{"missing secret key", func(c *Config) { c.SecretKey = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := valid
			tt.mutate(&cfg)
			require.ErrorIs(t, cfg.validate(), ErrInvalidConfig)
		})
	}
}
