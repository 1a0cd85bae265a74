package s3stream

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/input-output-hk/catalyst-forge-libs/s3stream/errors"
	"github.com/input-output-hk/catalyst-forge-libs/s3stream/internal/buffer"
	"github.com/input-output-hk/catalyst-forge-libs/s3stream/internal/contenttype"
	"github.com/input-output-hk/catalyst-forge-libs/s3stream/internal/pool"
	"github.com/input-output-hk/catalyst-forge-libs/s3stream/s3types"
)

const (
	// MinPartSize is the size of every non-final part, the smallest part size the
	// S3 multipart protocol accepts.
	MinPartSize int64 = 5 * 1024 * 1024

	// DefaultAbortTimeout bounds the abort Close issues for an abandoned upload.
	DefaultAbortTimeout = 30 * time.Second
)

// Status is the lifecycle state of an Upload.
type Status int

const (
	StatusNotStarted Status = iota
	StatusInProgress
	StatusCompleted
	StatusFailed
	StatusAborted
)

// String returns the lowercase name of the status.
func (s Status) String() string {
	switch s {
	case StatusNotStarted:
		return "not_started"
	case StatusInProgress:
		return "in_progress"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	case StatusAborted:
		return "aborted"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Upload streams data for one object key through a multipart upload.
//
// Writes are buffered and every time the buffer reaches the part size exactly one
// part of that size is shipped, so every part but the last has the same size.
// Parts are uploaded sequentially from the calling goroutine. An Upload is not safe
// for concurrent use and borrows its gateway, which must outlive it.
//
// Once an Upload leaves the in-progress state it cannot be restarted; a retry
// needs a new Upload.
type Upload struct {
	gateway      s3types.Gateway
	key          string
	contentType  string
	partSize     int64
	abortTimeout time.Duration
	logger       *slog.Logger
	progress     s3types.ProgressTracker
	recorder     s3types.UploadRecorder
	parts        []s3types.CompletedPart
	pending      buffer.Accumulator
	partBuffers  *pool.BufferPool

	uploadID      string
	uploadedBytes int64
	expectedSize  int64
	status        Status
	abortErr      error
}

// NewUpload creates an upload of key through gw. expectedSize is only reported to
// the progress tracker; pass -1 when unknown. No request is made until Init.
func NewUpload(gw s3types.Gateway, key string, expectedSize int64, opts ...s3types.UploadOption) *Upload {
	cfg := &s3types.UploadOptionConfig{
		PartSize: MinPartSize,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.ContentType == "" {
		cfg.ContentType = contenttype.FromKey(key)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.ProgressTracker == nil {
		cfg.ProgressTracker = noopProgress{}
	}

	return &Upload{
		gateway:      gw,
		key:          key,
		contentType:  cfg.ContentType,
		partSize:     cfg.PartSize,
		abortTimeout: DefaultAbortTimeout,
		logger:       cfg.Logger,
		progress:     cfg.ProgressTracker,
		recorder:     noopRecorder{},
		partBuffers:  pool.ForSize(int(cfg.PartSize)),
		expectedSize: expectedSize,
	}
}

// Init starts the multipart upload. It is valid only before any other operation.
func (u *Upload) Init(ctx context.Context) error {
	if u.status != StatusNotStarted {
		return u.stateError("init")
	}

	uploadID, err := u.gateway.CreateMultipartUpload(ctx, u.key, u.contentType)
	if err != nil {
		u.fail(err)
		return err
	}

	u.uploadID = uploadID
	u.status = StatusInProgress
	u.logger.Info("multipart upload started",
		"bucket", u.gateway.Bucket(),
		"key", u.key,
		"upload_id", uploadID,
		"content_type", u.contentType)
	return nil
}

// Write appends p to the upload and ships every full part now available.
//
// Data is always appended after previously written data; offset is informational
// and a mismatch with UploadedBytes is only logged. Bytes that do not yet fill a
// part stay in memory without limit until a later Write or Complete ships them.
// On a part failure the upload becomes failed and is not aborted; the server-side
// upload stays open until the caller aborts it or a lifecycle rule expires it.
func (u *Upload) Write(ctx context.Context, offset int64, p []byte) error {
	if u.status != StatusInProgress {
		return u.stateError("write")
	}

	if offset != u.uploadedBytes {
		u.logger.Warn("write offset does not match uploaded bytes, appending",
			"key", u.key,
			"offset", offset,
			"uploaded_bytes", u.uploadedBytes)
	}

	u.pending.Append(p)
	for int64(u.pending.Len()) >= u.partSize {
		if err := u.uploadPart(ctx, u.partSize); err != nil {
			u.fail(err)
			return err
		}
	}

	u.uploadedBytes += int64(len(p))
	u.progress.Update(u.uploadedBytes, u.expectedSize)
	return nil
}

// Complete ships any buffered remainder as the final part and finalizes the
// upload, returning the object key.
//
// Completing an upload that never received data aborts it and returns
// ErrNoDataUploaded. Any other failure leaves the upload failed without an abort.
func (u *Upload) Complete(ctx context.Context) (string, error) {
	if u.status != StatusInProgress {
		return "", u.stateError("complete")
	}

	if n := u.pending.Len(); n > 0 {
		if err := u.uploadPart(ctx, int64(n)); err != nil {
			u.fail(err)
			return "", err
		}
	}

	if len(u.parts) == 0 {
		u.abortRemote(ctx)
		u.pending.Reset()
		u.finish(StatusAborted)
		err := errors.NewObjectError("complete", u.gateway.Bucket(), u.key, errors.ErrNoDataUploaded)
		u.progress.Error(err)
		u.logger.Warn("multipart upload aborted, no data was written", "key", u.key, "upload_id", u.uploadID)
		return "", err
	}

	if err := u.gateway.CompleteMultipartUpload(ctx, u.key, u.uploadID, u.Parts()); err != nil {
		u.fail(err)
		return "", err
	}

	u.finish(StatusCompleted)
	u.progress.Complete()
	u.logger.Info("multipart upload completed",
		"key", u.key,
		"upload_id", u.uploadID,
		"parts", len(u.parts),
		"bytes", u.uploadedBytes)
	return u.key, nil
}

// Abort discards the upload. It never returns an error: a failure to abort on the
// server is logged and kept in AbortErr. Aborting a completed or aborted upload
// does nothing.
func (u *Upload) Abort(ctx context.Context) error {
	switch u.status {
	case StatusCompleted, StatusAborted:
		return nil
	}

	failed := u.status == StatusFailed
	if u.uploadID != "" {
		u.abortRemote(ctx)
	}
	u.parts = nil
	u.pending.Reset()
	if failed {
		// already recorded as failed
		u.status = StatusAborted
	} else {
		u.finish(StatusAborted)
	}
	u.logger.Info("multipart upload aborted", "key", u.key, "upload_id", u.uploadID)
	return nil
}

// Close aborts an upload that is still in progress, bounded by the abort timeout.
// Uploads in any other state are left untouched, including failed ones.
func (u *Upload) Close() error {
	if u.status != StatusInProgress {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), u.abortTimeout)
	defer cancel()
	return u.Abort(ctx)
}

// Status returns the current state.
func (u *Upload) Status() Status { return u.status }

// UploadedBytes returns the number of bytes accepted by Write.
func (u *Upload) UploadedBytes() int64 { return u.uploadedBytes }

// IsActive reports whether the upload can still make progress.
func (u *Upload) IsActive() bool {
	return u.status == StatusNotStarted || u.status == StatusInProgress
}

// Key returns the object key.
func (u *Upload) Key() string { return u.key }

// UploadID returns the server-side upload id, empty before Init.
func (u *Upload) UploadID() string { return u.uploadID }

// Parts returns a copy of the acknowledged parts in upload order.
func (u *Upload) Parts() []s3types.CompletedPart { return slices.Clone(u.parts) }

// Buffered returns the number of accepted bytes not yet shipped in a part.
func (u *Upload) Buffered() int { return u.pending.Len() }

// ExpectedSize returns the size hint given at creation, -1 when unknown.
func (u *Upload) ExpectedSize() int64 { return u.expectedSize }

// AbortErr returns the last error from a best-effort abort, if any.
func (u *Upload) AbortErr() error { return u.abortErr }

func (u *Upload) uploadPart(ctx context.Context, n int64) error {
	body, err := u.pending.TakeFront(u.partBuffers.Get(), int(n))
	if err != nil {
		return err
	}
	defer u.partBuffers.Put(body)

	partNumber := int32(len(u.parts) + 1)
	start := time.Now()

	etag, err := u.gateway.UploadPart(ctx, u.key, u.uploadID, partNumber, body)
	if err != nil {
		u.recorder.PartFailed()
		return err
	}

	elapsed := time.Since(start)
	u.parts = append(u.parts, s3types.CompletedPart{
		PartNumber: partNumber,
		ETag:       etag,
		Size:       n,
	})
	u.recorder.PartUploaded(n, elapsed)
	u.logger.Debug("part uploaded",
		"key", u.key,
		"part", partNumber,
		"size", n,
		"duration", elapsed)
	return nil
}

func (u *Upload) abortRemote(ctx context.Context) {
	if err := u.gateway.AbortMultipartUpload(ctx, u.key, u.uploadID); err != nil {
		u.abortErr = err
		u.logger.Warn("failed to abort multipart upload",
			"key", u.key,
			"upload_id", u.uploadID,
			"error", err)
	}
}

func (u *Upload) fail(err error) {
	u.finish(StatusFailed)
	u.progress.Error(err)
	u.logger.Error("multipart upload failed",
		"key", u.key,
		"upload_id", u.uploadID,
		"parts", len(u.parts),
		"error", err)
}

func (u *Upload) finish(status Status) {
	u.status = status
	u.recorder.UploadFinished(status.String(), u.uploadedBytes)
}

func (u *Upload) stateError(op string) error {
	return errors.NewObjectError(op, u.gateway.Bucket(), u.key, errors.ErrInvalidState).
		WithMessage("upload is " + u.status.String())
}

type noopProgress struct{}

func (noopProgress) Update(int64, int64) {}
func (noopProgress) Complete()           {}
func (noopProgress) Error(error)         {}

type noopRecorder struct{}

func (noopRecorder) PartUploaded(int64, time.Duration) {}
func (noopRecorder) PartFailed()                       {}
func (noopRecorder) UploadFinished(string, int64)      {}
