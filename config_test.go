package s3stream

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/input-output-hk/catalyst-forge-libs/s3stream/errors"
)

func TestConfig_IsEnabled(t *testing.T) {
	assert.True(t, testConfig().IsEnabled())
	assert.False(t, Config{}.IsEnabled())
	assert.False(t, DefaultConfig().IsEnabled())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:   "valid",
			mutate: func(*Config) {},
		},
		{
			name:    "bad bucket",
			mutate:  func(c *Config) { c.Bucket = "Bad_Bucket" },
			wantErr: errors.ErrInvalidBucketName,
		},
		{
			name:    "endpoint without scheme",
			mutate:  func(c *Config) { c.Endpoint = "localhost:9000" },
			wantErr: errors.ErrInvalidConfig,
		},
		{
			name:    "prefix with trailing slash",
			mutate:  func(c *Config) { c.PathPrefix = "bot/" },
			wantErr: errors.ErrInvalidConfig,
		},
		{
			name:    "minio without endpoint",
			mutate:  func(c *Config) { c.Backend = BackendMinio },
			wantErr: errors.ErrInvalidConfig,
		},
		{
			name:    "unknown backend",
			mutate:  func(c *Config) { c.Backend = "gcs" },
			wantErr: errors.ErrInvalidConfig,
		},
		{
			name:    "negative expiry",
			mutate:  func(c *Config) { c.PresignedURLExpiry = -1 },
			wantErr: errors.ErrInvalidConfig,
		},
		{
			name:    "negative part size",
			mutate:  func(c *Config) { c.PartSize = -5 },
			wantErr: errors.ErrInvalidConfig,
		},
		{
			name:    "part size below minimum",
			mutate:  func(c *Config) { c.PartSize = 1024 },
			wantErr: errors.ErrInvalidConfig,
		},
		{
			name:    "part size one byte short",
			mutate:  func(c *Config) { c.PartSize = MinPartSize - 1 },
			wantErr: errors.ErrInvalidConfig,
		},
		{
			name:   "part size at minimum",
			mutate: func(c *Config) { c.PartSize = MinPartSize },
		},
		{
			name:   "larger part size",
			mutate: func(c *Config) { c.PartSize = 4 * MinPartSize },
		},
		{
			name:    "negative retries",
			mutate:  func(c *Config) { c.MaxRetries = -1 },
			wantErr: errors.ErrInvalidConfig,
		},
		{
			name: "minio with endpoint",
			mutate: func(c *Config) {
				c.Backend = BackendMinio
				c.Endpoint = "https://minio.example.com"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, errors.IsInvalidInput(err))
		})
	}
}

func TestConfig_WithDefaults(t *testing.T) {
	cfg := Config{Region: "ap-south-1", PresignedURLExpiry: 60}.withDefaults()

	assert.Equal(t, "ap-south-1", cfg.Region)
	assert.Equal(t, 60, cfg.PresignedURLExpiry)
	assert.Equal(t, BackendAWS, cfg.Backend)
	assert.Equal(t, DefaultConfig(), Config{}.withDefaults())
}
