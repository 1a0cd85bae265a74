package gateway

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/input-output-hk/catalyst-forge-libs/s3stream/errors"
	"github.com/input-output-hk/catalyst-forge-libs/s3stream/s3types"
)

// MinioCore is the subset of *minio.Core used by the Minio gateway.
type MinioCore interface {
	NewMultipartUpload(ctx context.Context, bucket, object string, opts minio.PutObjectOptions) (string, error)
	PutObjectPart(
		ctx context.Context,
		bucket, object, uploadID string,
		partID int,
		data io.Reader,
		size int64,
		opts minio.PutObjectPartOptions,
	) (minio.ObjectPart, error)
	CompleteMultipartUpload(
		ctx context.Context,
		bucket, object, uploadID string,
		parts []minio.CompletePart,
		opts minio.PutObjectOptions,
	) (minio.UploadInfo, error)
	AbortMultipartUpload(ctx context.Context, bucket, object, uploadID string) error
	PutObject(
		ctx context.Context,
		bucket, object string,
		data io.Reader,
		size int64,
		md5Base64, sha256Hex string,
		opts minio.PutObjectOptions,
	) (minio.UploadInfo, error)
	StatObject(ctx context.Context, bucket, object string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	RemoveObject(ctx context.Context, bucket, object string, opts minio.RemoveObjectOptions) error
	PresignedGetObject(
		ctx context.Context,
		bucket, object string,
		expires time.Duration,
		reqParams url.Values,
	) (*url.URL, error)
}

// MinioOptions describes how to reach a MinIO or other S3-compatible endpoint.
type MinioOptions struct {
	// Endpoint is the service URL, e.g. https://minio.example.com:9000
	Endpoint string

	// Region is sent with signed requests; empty lets the client discover it
	Region string

	AccessKeyID     string
	SecretAccessKey string

	// PathStyle forces path-style bucket addressing
	PathStyle bool

	// Transport overrides the HTTP transport
	Transport http.RoundTripper
}

// Minio is a Gateway backed by the minio-go client.
type Minio struct {
	bucket string
	core   MinioCore
}

// NewMinio creates a gateway issuing requests for bucket through core.
func NewMinio(core MinioCore, bucket string) *Minio {
	return &Minio{
		bucket: bucket,
		core:   core,
	}
}

// NewMinioFromOptions dials a minio-go client for the given endpoint.
func NewMinioFromOptions(opts MinioOptions, bucket string) (*Minio, error) {
	u, err := url.Parse(opts.Endpoint)
	if err != nil || u.Host == "" {
		return nil, errors.NewError("newMinio", errors.ErrInvalidConfig).
			WithBucket(bucket).
			WithMessage("endpoint must be an absolute http(s) URL")
	}

	lookup := minio.BucketLookupAuto
	if opts.PathStyle {
		lookup = minio.BucketLookupPath
	}

	core, err := minio.NewCore(u.Host, &minio.Options{
		Creds:        credentials.NewStaticV4(opts.AccessKeyID, opts.SecretAccessKey, ""),
		Secure:       u.Scheme == "https",
		Region:       opts.Region,
		BucketLookup: lookup,
		Transport:    opts.Transport,
	})
	if err != nil {
		return nil, errors.NewError("newMinio", err).WithBucket(bucket)
	}

	return NewMinio(core, bucket), nil
}

// Bucket returns the bucket bound to the gateway.
func (g *Minio) Bucket() string {
	return g.bucket
}

// CreateMultipartUpload initiates a multipart upload.
func (g *Minio) CreateMultipartUpload(ctx context.Context, key, contentType string) (string, error) {
	uploadID, err := g.core.NewMultipartUpload(ctx, g.bucket, key, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", g.wrap("createMultipartUpload", key, err)
	}
	if uploadID == "" {
		return "", errors.NewGatewayError("createMultipartUpload", g.bucket, key,
			stderrors.New("store returned an empty upload id"))
	}
	return uploadID, nil
}

// UploadPart uploads one part and returns its ETag.
func (g *Minio) UploadPart(ctx context.Context, key, uploadID string, partNumber int32, body []byte) (string, error) {
	part, err := g.core.PutObjectPart(ctx, g.bucket, key, uploadID, int(partNumber),
		bytes.NewReader(body), int64(len(body)), minio.PutObjectPartOptions{})
	if err != nil {
		return "", g.wrap("uploadPart", key, err)
	}
	return part.ETag, nil
}

// CompleteMultipartUpload finalizes a multipart upload from its ordered parts.
func (g *Minio) CompleteMultipartUpload(ctx context.Context, key, uploadID string, parts []s3types.CompletedPart) error {
	completed := make([]minio.CompletePart, 0, len(parts))
	for _, p := range parts {
		completed = append(completed, minio.CompletePart{
			PartNumber: int(p.PartNumber),
			ETag:       p.ETag,
		})
	}

	if _, err := g.core.CompleteMultipartUpload(ctx, g.bucket, key, uploadID, completed, minio.PutObjectOptions{}); err != nil {
		return g.wrap("completeMultipartUpload", key, err)
	}
	return nil
}

// AbortMultipartUpload discards a multipart upload.
func (g *Minio) AbortMultipartUpload(ctx context.Context, key, uploadID string) error {
	if err := g.core.AbortMultipartUpload(ctx, g.bucket, key, uploadID); err != nil {
		return g.wrap("abortMultipartUpload", key, err)
	}
	return nil
}

// PutObject uploads a whole object in one request.
func (g *Minio) PutObject(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	_, err := g.core.PutObject(ctx, g.bucket, key, body, size, "", "", minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return g.wrap("putObject", key, err)
	}
	return nil
}

// HeadObject returns the metadata of an object.
func (g *Minio) HeadObject(ctx context.Context, key string) (*s3types.ObjectMetadata, error) {
	info, err := g.core.StatObject(ctx, g.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return nil, g.wrap("headObject", key, err)
	}

	return &s3types.ObjectMetadata{
		ContentType:   info.ContentType,
		ContentLength: info.Size,
		LastModified:  info.LastModified,
		ETag:          info.ETag,
		Metadata:      map[string]string(info.UserMetadata),
	}, nil
}

// DeleteObject removes an object.
func (g *Minio) DeleteObject(ctx context.Context, key string) error {
	if err := g.core.RemoveObject(ctx, g.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return g.wrap("deleteObject", key, err)
	}
	return nil
}

// PresignGetObject returns a presigned GET URL valid for expiry.
func (g *Minio) PresignGetObject(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := g.core.PresignedGetObject(ctx, g.bucket, key, expiry, url.Values{})
	if err != nil {
		return "", g.wrap("presignGetObject", key, err)
	}
	return u.String(), nil
}

func (g *Minio) wrap(op, key string, err error) error {
	return errors.NewGatewayError(op, g.bucket, key, err, classifyMinioError(err))
}

// classifyMinioError maps minio error responses onto the module's sentinel errors.
func classifyMinioError(err error) error {
	resp := minio.ToErrorResponse(err)
	switch resp.Code {
	case "NoSuchKey", "NotFound":
		return errors.ErrObjectNotFound
	case "NoSuchBucket":
		return errors.ErrBucketNotFound
	case "NoSuchUpload":
		return errors.ErrUploadNotFound
	case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
		return errors.ErrAccessDenied
	}
	if resp.StatusCode == http.StatusNotFound {
		return errors.ErrObjectNotFound
	}
	return nil
}

var (
	_ s3types.Gateway = (*Minio)(nil)
	_ MinioCore       = (*minio.Core)(nil)
)
