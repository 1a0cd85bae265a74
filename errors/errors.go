// Package errors provides error types and handling for streaming object-store uploads.
package errors

import (
	"errors"
	"fmt"
)

// Error represents a storage operation error with context about the operation that failed.
// It wraps the underlying gateway or engine error with the bucket and key involved.
type Error struct {
	// Op is the operation that failed (e.g., "init", "write", "uploadPart")
	Op string

	// Bucket is the bucket name (if applicable)
	Bucket string

	// Key is the object key (if applicable)
	Key string

	// Err is the underlying error
	Err error
}

// Error implements the error interface by providing a formatted error message.
func (e *Error) Error() string {
	if e.Bucket != "" && e.Key != "" {
		return fmt.Sprintf("s3stream.%s %s/%s: %v", e.Op, e.Bucket, e.Key, e.Err)
	}
	if e.Bucket != "" {
		return fmt.Sprintf("s3stream.%s bucket %s: %v", e.Op, e.Bucket, e.Err)
	}
	if e.Key != "" {
		return fmt.Sprintf("s3stream.%s object %s: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("s3stream.%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error chaining support.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithBucket adds bucket context to an existing error.
func (e *Error) WithBucket(bucket string) *Error {
	e.Bucket = bucket
	return e
}

// WithKey adds object key context to an existing error.
func (e *Error) WithKey(key string) *Error {
	e.Key = key
	return e
}

// WithMessage wraps the underlying error with a custom message.
func (e *Error) WithMessage(message string) *Error {
	e.Err = fmt.Errorf("%s: %w", message, e.Err)
	return e
}

// NewError creates a new Error with the given operation and underlying error.
func NewError(op string, err error) *Error {
	return &Error{
		Op:  op,
		Err: err,
	}
}

// NewObjectError creates a new Error with bucket and key context.
func NewObjectError(op, bucket, key string, err error) *Error {
	return &Error{
		Op:     op,
		Bucket: bucket,
		Key:    key,
		Err:    err,
	}
}

// NewGatewayError wraps a failure returned by the object store so that it matches
// ErrGateway as well as any classification sentinels passed in kinds.
func NewGatewayError(op, bucket, key string, err error, kinds ...error) *Error {
	wrapped := fmt.Errorf("%w: %w", ErrGateway, err)
	for _, kind := range kinds {
		if kind != nil {
			wrapped = fmt.Errorf("%w: %w", kind, wrapped)
		}
	}
	return NewObjectError(op, bucket, key, wrapped)
}

// Sentinel errors for upload and storage failures.
// These can be used with errors.Is() for error checking.
var (
	// ErrGateway indicates that a request against the object store failed
	ErrGateway = errors.New("s3stream: gateway request failed")

	// ErrInvalidState indicates an operation was attempted outside its valid upload state
	ErrInvalidState = errors.New("s3stream: invalid upload state")

	// ErrInsufficientBuffer indicates more bytes were requested from the buffer than it holds
	ErrInsufficientBuffer = errors.New("s3stream: insufficient buffered data")

	// ErrNoDataUploaded indicates completion was attempted without any uploaded part
	ErrNoDataUploaded = errors.New("s3stream: no data was uploaded")

	// ErrNotEnabled indicates the storage has no bucket or credentials configured
	ErrNotEnabled = errors.New("s3stream: storage is not enabled")

	// ErrObjectNotFound indicates that the requested object does not exist
	ErrObjectNotFound = errors.New("s3stream: object not found")

	// ErrBucketNotFound indicates that the requested bucket does not exist
	ErrBucketNotFound = errors.New("s3stream: bucket not found")

	// ErrUploadNotFound indicates the multipart upload id is unknown to the store
	ErrUploadNotFound = errors.New("s3stream: multipart upload not found")

	// ErrAccessDenied indicates that access to the resource is denied
	ErrAccessDenied = errors.New("s3stream: access denied")

	// ErrInvalidInput indicates that the provided input is invalid
	ErrInvalidInput = errors.New("s3stream: invalid input")

	// ErrInvalidBucketName indicates that the bucket name is invalid
	ErrInvalidBucketName = errors.New("s3stream: invalid bucket name")

	// ErrInvalidObjectKey indicates that the object key is invalid
	ErrInvalidObjectKey = errors.New("s3stream: invalid object key")

	// ErrInvalidConfig indicates that the storage configuration is invalid
	ErrInvalidConfig = errors.New("s3stream: invalid configuration")
)

// IsGatewayError reports whether err came from a failed object store request.
func IsGatewayError(err error) bool {
	return errors.Is(err, ErrGateway)
}

// IsInvalidState reports whether err was caused by calling an operation in the wrong state.
func IsInvalidState(err error) bool {
	return errors.Is(err, ErrInvalidState)
}

// IsNoDataUploaded reports whether err indicates a completion without any parts.
func IsNoDataUploaded(err error) bool {
	return errors.Is(err, ErrNoDataUploaded)
}

// IsNotEnabled reports whether err indicates a disabled storage.
func IsNotEnabled(err error) bool {
	return errors.Is(err, ErrNotEnabled)
}

// IsObjectNotFound checks if an error indicates that an object was not found.
func IsObjectNotFound(err error) bool {
	return errors.Is(err, ErrObjectNotFound)
}

// IsAccessDenied checks if an error indicates access was denied.
func IsAccessDenied(err error) bool {
	return errors.Is(err, ErrAccessDenied)
}

// IsInvalidInput checks if an error indicates invalid input.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidObjectKey) ||
		errors.Is(err, ErrInvalidBucketName) ||
		errors.Is(err, ErrInvalidConfig)
}
