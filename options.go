package s3stream

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/go-git/go-billy/v5"

	"github.com/input-output-hk/catalyst-forge-libs/s3stream/s3types"
)

// WithGateway injects the object store gateway, bypassing backend construction.
func WithGateway(gw s3types.Gateway) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.Gateway = gw
	}
}

// WithLogger sets the logger used by the storage and the uploads it creates.
func WithLogger(logger *slog.Logger) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.Logger = logger
	}
}

// WithFilesystem sets the filesystem UploadFile reads from.
// Default is the OS filesystem.
func WithFilesystem(fs billy.Filesystem) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.Filesystem = fs
	}
}

// WithRecorder sets the metrics recorder handed to every upload.
func WithRecorder(r s3types.UploadRecorder) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.Recorder = r
	}
}

// WithPartSize sets the part size for streaming uploads.
// Default is MinPartSize. Values below MinPartSize are ignored.
func WithPartSize(partSize int64) s3types.Option {
	return func(c *s3types.ClientConfig) {
		if partSize >= MinPartSize {
			c.PartSize = partSize
		}
	}
}

// WithAbortTimeout bounds the best-effort abort issued by Upload.Close.
// Default is 30 seconds.
func WithAbortTimeout(d time.Duration) s3types.Option {
	return func(c *s3types.ClientConfig) {
		if d > 0 {
			c.AbortTimeout = d
		}
	}
}

// WithAWSConfig supplies a ready AWS configuration for the aws backend.
// Credentials and region from Config are still applied on top of it.
func WithAWSConfig(cfg *aws.Config) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.CustomAWSConfig = cfg
	}
}

// WithHTTPClient sets the HTTP client used by the gateway.
func WithHTTPClient(client *http.Client) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.CustomHTTPClient = client
	}
}

// WithContentType sets the content type of a streaming upload.
// When unset it is derived from the key's extension.
func WithContentType(contentType string) s3types.UploadOption {
	return func(c *s3types.UploadOptionConfig) {
		c.ContentType = contentType
	}
}

// WithProgress attaches a progress tracker to a streaming upload.
func WithProgress(tracker s3types.ProgressTracker) s3types.UploadOption {
	return func(c *s3types.UploadOptionConfig) {
		c.ProgressTracker = tracker
	}
}

// WithUploadPartSize overrides the part size for a single upload. It is not
// checked against MinPartSize, so small parts only suit stores without that limit.
func WithUploadPartSize(partSize int64) s3types.UploadOption {
	return func(c *s3types.UploadOptionConfig) {
		if partSize > 0 {
			c.PartSize = partSize
		}
	}
}

// WithUploadLogger overrides the logger for a single upload.
func WithUploadLogger(logger *slog.Logger) s3types.UploadOption {
	return func(c *s3types.UploadOptionConfig) {
		c.Logger = logger
	}
}
