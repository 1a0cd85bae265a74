package s3stream

import (
	"fmt"

	"github.com/input-output-hk/catalyst-forge-libs/s3stream/errors"
	"github.com/input-output-hk/catalyst-forge-libs/s3stream/internal/validation"
)

// Supported gateway backends.
const (
	BackendAWS   = "aws"
	BackendMinio = "minio"
)

const (
	// DefaultPresignedURLExpiry is the presigned URL lifetime in seconds.
	DefaultPresignedURLExpiry = 3600

	// DefaultRegion is used when no region is configured.
	DefaultRegion = "us-east-1"
)

// Config describes the bucket, credentials and URL policy of a Storage.
type Config struct {
	Bucket          string `mapstructure:"bucket"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`

	// Endpoint overrides the provider endpoint, e.g. for MinIO or LocalStack
	Endpoint string `mapstructure:"endpoint"`

	// PathPrefix is joined in front of every key with a single slash
	PathPrefix string `mapstructure:"path_prefix"`

	UsePathStyle  bool `mapstructure:"use_path_style"`
	UsePublicURLs bool `mapstructure:"use_public_urls"`

	// UsePathOnly makes FileURL return the bare object key
	UsePathOnly bool `mapstructure:"use_path_only"`

	// PresignedURLExpiry is the presigned URL lifetime in seconds
	PresignedURLExpiry int `mapstructure:"presigned_url_expiry"`

	// Backend selects the gateway implementation: "aws" (default) or "minio"
	Backend string `mapstructure:"backend"`

	// MaxRetries bounds the SDK retryer; zero keeps the SDK default
	MaxRetries int `mapstructure:"max_retries"`

	// PartSize overrides MinPartSize for streaming uploads; zero keeps the default.
	// Values below MinPartSize are rejected by Validate.
	PartSize int64 `mapstructure:"part_size"`
}

// DefaultConfig returns a Config with every default applied and no bucket.
func DefaultConfig() Config {
	return Config{
		Region:             DefaultRegion,
		PresignedURLExpiry: DefaultPresignedURLExpiry,
		Backend:            BackendAWS,
	}
}

// IsEnabled reports whether the bucket and both credentials are configured.
func (c Config) IsEnabled() bool {
	return c.Bucket != "" && c.AccessKeyID != "" && c.SecretAccessKey != ""
}

// Validate checks an enabled configuration for values the gateway would reject.
func (c Config) Validate() error {
	if err := validation.ValidateBucketName(c.Bucket); err != nil {
		return err
	}
	if err := validation.ValidateEndpoint(c.Endpoint); err != nil {
		return err
	}
	if err := validation.ValidatePathPrefix(c.PathPrefix); err != nil {
		return err
	}

	switch c.Backend {
	case "", BackendAWS:
	case BackendMinio:
		if c.Endpoint == "" {
			return errors.NewError("validateConfig", errors.ErrInvalidConfig).
				WithMessage("the minio backend requires an endpoint")
		}
	default:
		return errors.NewError("validateConfig", errors.ErrInvalidConfig).
			WithMessage("unknown backend " + c.Backend)
	}

	if c.PresignedURLExpiry < 0 {
		return errors.NewError("validateConfig", errors.ErrInvalidConfig).
			WithMessage("presigned URL expiry must be positive")
	}
	if c.PartSize < 0 {
		return errors.NewError("validateConfig", errors.ErrInvalidConfig).
			WithMessage("part size must not be negative")
	}
	if c.PartSize > 0 && c.PartSize < MinPartSize {
		return errors.NewError("validateConfig", errors.ErrInvalidConfig).
			WithMessage(fmt.Sprintf("part size %d is below the %d byte minimum", c.PartSize, MinPartSize))
	}
	if c.MaxRetries < 0 {
		return errors.NewError("validateConfig", errors.ErrInvalidConfig).
			WithMessage("max retries must not be negative")
	}
	return nil
}

// withDefaults fills zero values with their defaults.
func (c Config) withDefaults() Config {
	if c.Region == "" {
		c.Region = DefaultRegion
	}
	if c.PresignedURLExpiry == 0 {
		c.PresignedURLExpiry = DefaultPresignedURLExpiry
	}
	if c.Backend == "" {
		c.Backend = BackendAWS
	}
	return c
}
