// Package s3types provides shared type definitions for the s3stream module.
package s3types

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/go-git/go-billy/v5"
)

// Gateway is the object store capability consumed by uploads and the storage facade.
// A Gateway is bound to one bucket and one credential scope; every key it receives
// is already fully qualified. Implementations must be safe for concurrent use.
type Gateway interface {
	// Bucket returns the bucket every request is issued against
	Bucket() string

	// CreateMultipartUpload starts a multipart upload transaction and returns its id
	CreateMultipartUpload(ctx context.Context, key, contentType string) (string, error)

	// UploadPart uploads one numbered part and returns its acknowledgment tag (ETag)
	UploadPart(ctx context.Context, key, uploadID string, partNumber int32, body []byte) (string, error)

	// CompleteMultipartUpload finalizes a transaction from its ordered parts
	CompleteMultipartUpload(ctx context.Context, key, uploadID string, parts []CompletedPart) error

	// AbortMultipartUpload discards a transaction and any parts stored for it
	AbortMultipartUpload(ctx context.Context, key, uploadID string) error

	// PutObject uploads a whole object in a single request
	PutObject(ctx context.Context, key string, body io.Reader, size int64, contentType string) error

	// HeadObject returns object metadata, or an error matching ErrObjectNotFound
	HeadObject(ctx context.Context, key string) (*ObjectMetadata, error)

	// DeleteObject removes an object
	DeleteObject(ctx context.Context, key string) error

	// PresignGetObject returns a time-limited GET URL for the object
	PresignGetObject(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// CompletedPart is the acknowledgment for one uploaded part of a multipart upload.
type CompletedPart struct {
	// PartNumber is the 1-based position of the part
	PartNumber int32

	// ETag is the opaque tag returned by the store for this part
	ETag string

	// Size is the number of bytes sent in the part
	Size int64
}

// ObjectMetadata contains metadata about a stored object.
type ObjectMetadata struct {
	// ContentType is the MIME type of the object
	ContentType string

	// ContentLength is the size of the object in bytes
	ContentLength int64

	// LastModified is when the object was last modified
	LastModified time.Time

	// ETag is the entity tag for the object
	ETag string

	// Metadata contains user-defined metadata
	Metadata map[string]string
}

// ProgressTracker defines the interface for tracking upload progress.
type ProgressTracker interface {
	// Update is called after each accepted write. totalBytes is -1 when unknown.
	Update(bytesTransferred, totalBytes int64)

	// Complete is called when the upload completes successfully
	Complete()

	// Error is called when the upload fails
	Error(err error)
}

// UploadRecorder receives engine events for metrics collection.
type UploadRecorder interface {
	// PartUploaded is called after each acknowledged part
	PartUploaded(size int64, duration time.Duration)

	// PartFailed is called when a part upload is rejected
	PartFailed()

	// UploadFinished is called once an upload reaches a terminal state
	UploadFinished(status string, uploadedBytes int64)
}

// ClientConfig holds configuration for the storage facade.
type ClientConfig struct {
	Gateway          Gateway
	Logger           *slog.Logger
	Filesystem       billy.Filesystem
	Recorder         UploadRecorder
	PartSize         int64
	AbortTimeout     time.Duration
	CustomAWSConfig  *aws.Config
	CustomHTTPClient *http.Client
}

// UploadOptionConfig holds configuration for a single streaming upload.
type UploadOptionConfig struct {
	ContentType     string
	ProgressTracker ProgressTracker
	PartSize        int64
	Logger          *slog.Logger
}

type (
	// Option is a functional option for configuring the storage facade.
	Option func(*ClientConfig)
	// UploadOption is a functional option for configuring a streaming upload.
	UploadOption func(*UploadOptionConfig)
)
