package testutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/input-output-hk/catalyst-forge-libs/s3stream/errors"
	"github.com/input-output-hk/catalyst-forge-libs/s3stream/s3types"
)

// MockGateway is an in-memory s3types.Gateway. Without overrides it behaves like a
// well-mannered object store: uploads get id "upload-1", part N gets ETag "etag-N",
// and completed uploads become readable objects. Every call is recorded.
type MockGateway struct {
	BucketName string

	CreateMultipartUploadFunc   func(ctx context.Context, key, contentType string) (string, error)
	UploadPartFunc              func(ctx context.Context, key, uploadID string, partNumber int32, body []byte) (string, error)
	CompleteMultipartUploadFunc func(ctx context.Context, key, uploadID string, parts []s3types.CompletedPart) error
	AbortMultipartUploadFunc    func(ctx context.Context, key, uploadID string) error
	PutObjectFunc               func(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	HeadObjectFunc              func(ctx context.Context, key string) (*s3types.ObjectMetadata, error)
	DeleteObjectFunc            func(ctx context.Context, key string) error
	PresignGetObjectFunc        func(ctx context.Context, key string, expiry time.Duration) (string, error)

	mu           sync.Mutex
	calls        []string
	parts        map[int32][]byte
	contentTypes map[string]string
	objects      map[string][]byte
	completed    []s3types.CompletedPart
}

// NewMockGateway returns a MockGateway bound to bucket.
func NewMockGateway(bucket string) *MockGateway {
	return &MockGateway{BucketName: bucket}
}

func (m *MockGateway) record(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, op)
}

// Bucket returns the configured bucket name.
func (m *MockGateway) Bucket() string {
	return m.BucketName
}

// CreateMultipartUpload records the call and returns "upload-1" by default.
func (m *MockGateway) CreateMultipartUpload(ctx context.Context, key, contentType string) (string, error) {
	m.record("CreateMultipartUpload")
	m.mu.Lock()
	if m.contentTypes == nil {
		m.contentTypes = make(map[string]string)
	}
	m.contentTypes[key] = contentType
	m.parts = make(map[int32][]byte)
	m.mu.Unlock()

	if m.CreateMultipartUploadFunc != nil {
		return m.CreateMultipartUploadFunc(ctx, key, contentType)
	}
	return "upload-1", nil
}

// UploadPart records a copy of the part body and returns "etag-N" by default.
func (m *MockGateway) UploadPart(
	ctx context.Context,
	key, uploadID string,
	partNumber int32,
	body []byte,
) (string, error) {
	m.record("UploadPart")

	if m.UploadPartFunc != nil {
		etag, err := m.UploadPartFunc(ctx, key, uploadID, partNumber, body)
		if err != nil {
			return "", err
		}
		m.storePart(partNumber, body)
		return etag, nil
	}

	m.storePart(partNumber, body)
	return fmt.Sprintf("etag-%d", partNumber), nil
}

func (m *MockGateway) storePart(partNumber int32, body []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.parts == nil {
		m.parts = make(map[int32][]byte)
	}
	m.parts[partNumber] = bytes.Clone(body)
}

// CompleteMultipartUpload records the parts and assembles the object.
func (m *MockGateway) CompleteMultipartUpload(
	ctx context.Context,
	key, uploadID string,
	parts []s3types.CompletedPart,
) error {
	m.record("CompleteMultipartUpload")
	m.mu.Lock()
	m.completed = slices.Clone(parts)
	m.mu.Unlock()

	if m.CompleteMultipartUploadFunc != nil {
		if err := m.CompleteMultipartUploadFunc(ctx, key, uploadID, parts); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	var obj []byte
	for _, p := range parts {
		obj = append(obj, m.parts[p.PartNumber]...)
	}
	m.putObjectLocked(key, obj)
	return nil
}

// AbortMultipartUpload records the call and discards stored parts.
func (m *MockGateway) AbortMultipartUpload(ctx context.Context, key, uploadID string) error {
	m.record("AbortMultipartUpload")
	if m.AbortMultipartUploadFunc != nil {
		if err := m.AbortMultipartUploadFunc(ctx, key, uploadID); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.parts = nil
	return nil
}

// PutObject stores the body under key.
func (m *MockGateway) PutObject(
	ctx context.Context,
	key string,
	body io.Reader,
	size int64,
	contentType string,
) error {
	m.record("PutObject")
	if m.PutObjectFunc != nil {
		return m.PutObjectFunc(ctx, key, body, size, contentType)
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.contentTypes == nil {
		m.contentTypes = make(map[string]string)
	}
	m.contentTypes[key] = contentType
	m.putObjectLocked(key, data)
	return nil
}

func (m *MockGateway) putObjectLocked(key string, data []byte) {
	if m.objects == nil {
		m.objects = make(map[string][]byte)
	}
	m.objects[key] = data
}

// HeadObject reports stored objects and returns a not-found gateway error otherwise.
func (m *MockGateway) HeadObject(ctx context.Context, key string) (*s3types.ObjectMetadata, error) {
	m.record("HeadObject")
	if m.HeadObjectFunc != nil {
		return m.HeadObjectFunc(ctx, key)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, errors.NewGatewayError("headObject", m.BucketName, key,
			fmt.Errorf("NotFound: 404"), errors.ErrObjectNotFound)
	}
	return &s3types.ObjectMetadata{
		ContentType:   m.contentTypes[key],
		ContentLength: int64(len(data)),
	}, nil
}

// DeleteObject removes a stored object.
func (m *MockGateway) DeleteObject(ctx context.Context, key string) error {
	m.record("DeleteObject")
	if m.DeleteObjectFunc != nil {
		return m.DeleteObjectFunc(ctx, key)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

// PresignGetObject returns a deterministic fake presigned URL.
func (m *MockGateway) PresignGetObject(ctx context.Context, key string, expiry time.Duration) (string, error) {
	m.record("PresignGetObject")
	if m.PresignGetObjectFunc != nil {
		return m.PresignGetObjectFunc(ctx, key, expiry)
	}
	return fmt.Sprintf("https://presigned.example.com/%s/%s?X-Amz-Expires=%d",
		m.BucketName, key, int64(expiry/time.Second)), nil
}

// Calls returns the names of every gateway operation invoked, in order.
func (m *MockGateway) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.calls)
}

// CallCount returns how many times op was invoked.
func (m *MockGateway) CallCount(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c == op {
			n++
		}
	}
	return n
}

// PartSizes returns the size of each accepted part ordered by part number.
func (m *MockGateway) PartSizes() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	sizes := make([]int, 0, len(m.parts))
	for i := int32(1); int(i) <= len(m.parts); i++ {
		sizes = append(sizes, len(m.parts[i]))
	}
	return sizes
}

// CompletedParts returns the part list passed to the last CompleteMultipartUpload.
func (m *MockGateway) CompletedParts() []s3types.CompletedPart {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.completed)
}

// Object returns the stored body of key.
func (m *MockGateway) Object(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	return data, ok
}

// ContentType returns the content type recorded for key.
func (m *MockGateway) ContentType(key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.contentTypes[key]
}

var _ s3types.Gateway = (*MockGateway)(nil)

// MockProgressTracker records progress callbacks.
type MockProgressTracker struct {
	mu        sync.Mutex
	Updates   []int64
	Totals    []int64
	Completed bool
	Err       error
}

// Update records a progress update.
func (m *MockProgressTracker) Update(transferred, total int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Updates = append(m.Updates, transferred)
	m.Totals = append(m.Totals, total)
}

// Complete records completion.
func (m *MockProgressTracker) Complete() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Completed = true
}

// Error records a failure.
func (m *MockProgressTracker) Error(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Err = err
}

// MockRecorder records upload metrics events.
type MockRecorder struct {
	mu        sync.Mutex
	PartSizes []int64
	Failures  int
	Finished  []string
	Accepted  int64
}

// PartUploaded records an acknowledged part.
func (m *MockRecorder) PartUploaded(size int64, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PartSizes = append(m.PartSizes, size)
}

// PartFailed records a rejected part.
func (m *MockRecorder) PartFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Failures++
}

// UploadFinished records a terminal transition.
func (m *MockRecorder) UploadFinished(status string, uploadedBytes int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Finished = append(m.Finished, status)
	m.Accepted = uploadedBytes
}

var (
	_ s3types.ProgressTracker = (*MockProgressTracker)(nil)
	_ s3types.UploadRecorder  = (*MockRecorder)(nil)
)
