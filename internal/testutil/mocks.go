// Package testutil provides test doubles and helpers shared by the module's tests.
package testutil

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/minio/minio-go/v7"

	"github.com/input-output-hk/catalyst-forge-libs/s3stream/internal/s3api"
)

// MockS3Client is a mock implementation of the S3API interface for testing.
// Each operation can be customized through its function field.
type MockS3Client struct {
	PutObjectFunc               func(context.Context, *s3.PutObjectInput, ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObjectFunc              func(context.Context, *s3.HeadObjectInput, ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObjectFunc            func(context.Context, *s3.DeleteObjectInput, ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	CreateMultipartUploadFunc   func(context.Context, *s3.CreateMultipartUploadInput, ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error)
	UploadPartFunc              func(context.Context, *s3.UploadPartInput, ...func(*s3.Options)) (*s3.UploadPartOutput, error)
	CompleteMultipartUploadFunc func(context.Context, *s3.CompleteMultipartUploadInput, ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error)
	AbortMultipartUploadFunc    func(context.Context, *s3.AbortMultipartUploadInput, ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error)
}

// PutObject mocks the S3 PutObject operation.
func (m *MockS3Client) PutObject(
	ctx context.Context,
	params *s3.PutObjectInput,
	optFns ...func(*s3.Options),
) (*s3.PutObjectOutput, error) {
	if m.PutObjectFunc != nil {
		return m.PutObjectFunc(ctx, params, optFns...)
	}
	return &s3.PutObjectOutput{}, nil
}

// HeadObject mocks the S3 HeadObject operation.
func (m *MockS3Client) HeadObject(
	ctx context.Context,
	params *s3.HeadObjectInput,
	optFns ...func(*s3.Options),
) (*s3.HeadObjectOutput, error) {
	if m.HeadObjectFunc != nil {
		return m.HeadObjectFunc(ctx, params, optFns...)
	}
	return &s3.HeadObjectOutput{}, nil
}

// DeleteObject mocks the S3 DeleteObject operation.
func (m *MockS3Client) DeleteObject(
	ctx context.Context,
	params *s3.DeleteObjectInput,
	optFns ...func(*s3.Options),
) (*s3.DeleteObjectOutput, error) {
	if m.DeleteObjectFunc != nil {
		return m.DeleteObjectFunc(ctx, params, optFns...)
	}
	return &s3.DeleteObjectOutput{}, nil
}

// CreateMultipartUpload mocks the S3 CreateMultipartUpload operation.
func (m *MockS3Client) CreateMultipartUpload(
	ctx context.Context,
	params *s3.CreateMultipartUploadInput,
	optFns ...func(*s3.Options),
) (*s3.CreateMultipartUploadOutput, error) {
	if m.CreateMultipartUploadFunc != nil {
		return m.CreateMultipartUploadFunc(ctx, params, optFns...)
	}
	return &s3.CreateMultipartUploadOutput{UploadId: StringPtr("upload-1")}, nil
}

// UploadPart mocks the S3 UploadPart operation.
func (m *MockS3Client) UploadPart(
	ctx context.Context,
	params *s3.UploadPartInput,
	optFns ...func(*s3.Options),
) (*s3.UploadPartOutput, error) {
	if m.UploadPartFunc != nil {
		return m.UploadPartFunc(ctx, params, optFns...)
	}
	etag := fmt.Sprintf("etag-%d", *params.PartNumber)
	return &s3.UploadPartOutput{ETag: &etag}, nil
}

// CompleteMultipartUpload mocks the S3 CompleteMultipartUpload operation.
func (m *MockS3Client) CompleteMultipartUpload(
	ctx context.Context,
	params *s3.CompleteMultipartUploadInput,
	optFns ...func(*s3.Options),
) (*s3.CompleteMultipartUploadOutput, error) {
	if m.CompleteMultipartUploadFunc != nil {
		return m.CompleteMultipartUploadFunc(ctx, params, optFns...)
	}
	return &s3.CompleteMultipartUploadOutput{}, nil
}

// AbortMultipartUpload mocks the S3 AbortMultipartUpload operation.
func (m *MockS3Client) AbortMultipartUpload(
	ctx context.Context,
	params *s3.AbortMultipartUploadInput,
	optFns ...func(*s3.Options),
) (*s3.AbortMultipartUploadOutput, error) {
	if m.AbortMultipartUploadFunc != nil {
		return m.AbortMultipartUploadFunc(ctx, params, optFns...)
	}
	return &s3.AbortMultipartUploadOutput{}, nil
}

// MockPresigner is a mock implementation of the PresignAPI interface.
type MockPresigner struct {
	PresignGetObjectFunc func(context.Context, *s3.GetObjectInput, ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// PresignGetObject mocks presigning a GetObject request.
func (m *MockPresigner) PresignGetObject(
	ctx context.Context,
	params *s3.GetObjectInput,
	optFns ...func(*s3.PresignOptions),
) (*v4.PresignedHTTPRequest, error) {
	if m.PresignGetObjectFunc != nil {
		return m.PresignGetObjectFunc(ctx, params, optFns...)
	}

	opts := s3.PresignOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &v4.PresignedHTTPRequest{
		Method: "GET",
		URL: fmt.Sprintf("https://%s.s3.amazonaws.com/%s?X-Amz-Expires=%d",
			*params.Bucket, *params.Key, int64(opts.Expires/time.Second)),
	}, nil
}

// MockMinioCore is a mock of the minio-go core client surface used by the Minio gateway.
type MockMinioCore struct {
	NewMultipartUploadFunc      func(ctx context.Context, bucket, object string, opts minio.PutObjectOptions) (string, error)
	PutObjectPartFunc           func(ctx context.Context, bucket, object, uploadID string, partID int, data io.Reader, size int64, opts minio.PutObjectPartOptions) (minio.ObjectPart, error)
	CompleteMultipartUploadFunc func(ctx context.Context, bucket, object, uploadID string, parts []minio.CompletePart, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	AbortMultipartUploadFunc    func(ctx context.Context, bucket, object, uploadID string) error
	PutObjectFunc               func(ctx context.Context, bucket, object string, data io.Reader, size int64, md5Base64, sha256Hex string, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	StatObjectFunc              func(ctx context.Context, bucket, object string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	RemoveObjectFunc            func(ctx context.Context, bucket, object string, opts minio.RemoveObjectOptions) error
	PresignedGetObjectFunc      func(ctx context.Context, bucket, object string, expires time.Duration, reqParams url.Values) (*url.URL, error)
}

// NewMultipartUpload mocks starting a multipart upload.
func (m *MockMinioCore) NewMultipartUpload(
	ctx context.Context,
	bucket, object string,
	opts minio.PutObjectOptions,
) (string, error) {
	if m.NewMultipartUploadFunc != nil {
		return m.NewMultipartUploadFunc(ctx, bucket, object, opts)
	}
	return "upload-1", nil
}

// PutObjectPart mocks uploading one part.
func (m *MockMinioCore) PutObjectPart(
	ctx context.Context,
	bucket, object, uploadID string,
	partID int,
	data io.Reader,
	size int64,
	opts minio.PutObjectPartOptions,
) (minio.ObjectPart, error) {
	if m.PutObjectPartFunc != nil {
		return m.PutObjectPartFunc(ctx, bucket, object, uploadID, partID, data, size, opts)
	}
	return minio.ObjectPart{PartNumber: partID, ETag: fmt.Sprintf("etag-%d", partID), Size: size}, nil
}

// CompleteMultipartUpload mocks completing a multipart upload.
func (m *MockMinioCore) CompleteMultipartUpload(
	ctx context.Context,
	bucket, object, uploadID string,
	parts []minio.CompletePart,
	opts minio.PutObjectOptions,
) (minio.UploadInfo, error) {
	if m.CompleteMultipartUploadFunc != nil {
		return m.CompleteMultipartUploadFunc(ctx, bucket, object, uploadID, parts, opts)
	}
	return minio.UploadInfo{Bucket: bucket, Key: object}, nil
}

// AbortMultipartUpload mocks aborting a multipart upload.
func (m *MockMinioCore) AbortMultipartUpload(ctx context.Context, bucket, object, uploadID string) error {
	if m.AbortMultipartUploadFunc != nil {
		return m.AbortMultipartUploadFunc(ctx, bucket, object, uploadID)
	}
	return nil
}

// PutObject mocks a single-request upload.
func (m *MockMinioCore) PutObject(
	ctx context.Context,
	bucket, object string,
	data io.Reader,
	size int64,
	md5Base64, sha256Hex string,
	opts minio.PutObjectOptions,
) (minio.UploadInfo, error) {
	if m.PutObjectFunc != nil {
		return m.PutObjectFunc(ctx, bucket, object, data, size, md5Base64, sha256Hex, opts)
	}
	return minio.UploadInfo{Bucket: bucket, Key: object, Size: size}, nil
}

// StatObject mocks reading object metadata.
func (m *MockMinioCore) StatObject(
	ctx context.Context,
	bucket, object string,
	opts minio.StatObjectOptions,
) (minio.ObjectInfo, error) {
	if m.StatObjectFunc != nil {
		return m.StatObjectFunc(ctx, bucket, object, opts)
	}
	return minio.ObjectInfo{Key: object}, nil
}

// RemoveObject mocks deleting an object.
func (m *MockMinioCore) RemoveObject(
	ctx context.Context,
	bucket, object string,
	opts minio.RemoveObjectOptions,
) error {
	if m.RemoveObjectFunc != nil {
		return m.RemoveObjectFunc(ctx, bucket, object, opts)
	}
	return nil
}

// PresignedGetObject mocks presigning a GET request.
func (m *MockMinioCore) PresignedGetObject(
	ctx context.Context,
	bucket, object string,
	expires time.Duration,
	reqParams url.Values,
) (*url.URL, error) {
	if m.PresignedGetObjectFunc != nil {
		return m.PresignedGetObjectFunc(ctx, bucket, object, expires, reqParams)
	}
	return &url.URL{
		Scheme:   "https",
		Host:     "minio.example.com",
		Path:     "/" + bucket + "/" + object,
		RawQuery: fmt.Sprintf("X-Amz-Expires=%d", int64(expires/time.Second)),
	}, nil
}

// Ensure the mocks implement the client interfaces
var (
	_ s3api.S3API      = (*MockS3Client)(nil)
	_ s3api.PresignAPI = (*MockPresigner)(nil)
)
