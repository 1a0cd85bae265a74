package gateway

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	awstypes "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/input-output-hk/catalyst-forge-libs/s3stream/errors"
	"github.com/input-output-hk/catalyst-forge-libs/s3stream/internal/s3api"
	"github.com/input-output-hk/catalyst-forge-libs/s3stream/s3types"
)

// AWS is a Gateway backed by the AWS SDK v2 S3 client.
type AWS struct {
	bucket    string
	client    s3api.S3API
	presigner s3api.PresignAPI
}

// NewAWS creates a gateway issuing requests for bucket through client.
// presigner may be nil, in which case PresignGetObject fails.
func NewAWS(client s3api.S3API, presigner s3api.PresignAPI, bucket string) *AWS {
	return &AWS{
		bucket:    bucket,
		client:    client,
		presigner: presigner,
	}
}

// NewAWSFromConfig builds the S3 and presign clients from an AWS configuration.
func NewAWSFromConfig(cfg aws.Config, bucket string, optFns ...func(*s3.Options)) *AWS {
	client := s3.NewFromConfig(cfg, optFns...)
	return NewAWS(client, s3.NewPresignClient(client), bucket)
}

// Bucket returns the bucket bound to the gateway.
func (g *AWS) Bucket() string {
	return g.bucket
}

// CreateMultipartUpload initiates a multipart upload.
func (g *AWS) CreateMultipartUpload(ctx context.Context, key, contentType string) (string, error) {
	input := &s3.CreateMultipartUploadInput{
		Bucket: aws.String(g.bucket),
		Key:    aws.String(key),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	output, err := g.client.CreateMultipartUpload(ctx, input)
	if err != nil {
		return "", g.wrap("createMultipartUpload", key, err)
	}

	uploadID := aws.ToString(output.UploadId)
	if uploadID == "" {
		return "", errors.NewGatewayError("createMultipartUpload", g.bucket, key,
			stderrors.New("store returned an empty upload id"))
	}
	return uploadID, nil
}

// UploadPart uploads one part and returns its ETag.
func (g *AWS) UploadPart(ctx context.Context, key, uploadID string, partNumber int32, body []byte) (string, error) {
	input := &s3.UploadPartInput{
		Bucket:        aws.String(g.bucket),
		Key:           aws.String(key),
		UploadId:      aws.String(uploadID),
		PartNumber:    aws.Int32(partNumber),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
	}

	output, err := g.client.UploadPart(ctx, input)
	if err != nil {
		return "", g.wrap("uploadPart", key, err)
	}
	return aws.ToString(output.ETag), nil
}

// CompleteMultipartUpload finalizes a multipart upload from its ordered parts.
func (g *AWS) CompleteMultipartUpload(ctx context.Context, key, uploadID string, parts []s3types.CompletedPart) error {
	completed := make([]awstypes.CompletedPart, 0, len(parts))
	for _, p := range parts {
		completed = append(completed, awstypes.CompletedPart{
			ETag:       aws.String(p.ETag),
			PartNumber: aws.Int32(p.PartNumber),
		})
	}

	input := &s3.CompleteMultipartUploadInput{
		Bucket:   aws.String(g.bucket),
		Key:      aws.String(key),
		UploadId: aws.String(uploadID),
		MultipartUpload: &awstypes.CompletedMultipartUpload{
			Parts: completed,
		},
	}

	if _, err := g.client.CompleteMultipartUpload(ctx, input); err != nil {
		return g.wrap("completeMultipartUpload", key, err)
	}
	return nil
}

// AbortMultipartUpload discards a multipart upload.
func (g *AWS) AbortMultipartUpload(ctx context.Context, key, uploadID string) error {
	input := &s3.AbortMultipartUploadInput{
		Bucket:   aws.String(g.bucket),
		Key:      aws.String(key),
		UploadId: aws.String(uploadID),
	}

	if _, err := g.client.AbortMultipartUpload(ctx, input); err != nil {
		return g.wrap("abortMultipartUpload", key, err)
	}
	return nil
}

// PutObject uploads a whole object in one request.
func (g *AWS) PutObject(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(g.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := g.client.PutObject(ctx, input); err != nil {
		return g.wrap("putObject", key, err)
	}
	return nil
}

// HeadObject returns the metadata of an object.
func (g *AWS) HeadObject(ctx context.Context, key string) (*s3types.ObjectMetadata, error) {
	output, err := g.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(g.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, g.wrap("headObject", key, err)
	}

	return &s3types.ObjectMetadata{
		ContentType:   aws.ToString(output.ContentType),
		ContentLength: aws.ToInt64(output.ContentLength),
		LastModified:  aws.ToTime(output.LastModified),
		ETag:          aws.ToString(output.ETag),
		Metadata:      output.Metadata,
	}, nil
}

// DeleteObject removes an object.
func (g *AWS) DeleteObject(ctx context.Context, key string) error {
	_, err := g.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(g.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return g.wrap("deleteObject", key, err)
	}
	return nil
}

// PresignGetObject returns a presigned GET URL valid for expiry.
func (g *AWS) PresignGetObject(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if g.presigner == nil {
		return "", errors.NewGatewayError("presignGetObject", g.bucket, key,
			stderrors.New("presigning is not configured"))
	}

	req, err := g.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(g.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expiry))
	if err != nil {
		return "", g.wrap("presignGetObject", key, err)
	}
	if req == nil || req.URL == "" {
		return "", errors.NewGatewayError("presignGetObject", g.bucket, key,
			stderrors.New("failed to generate presigned URL"))
	}
	return req.URL, nil
}

func (g *AWS) wrap(op, key string, err error) error {
	return errors.NewGatewayError(op, g.bucket, key, err, classifyAWSError(err))
}

// classifyAWSError maps AWS API error codes onto the module's sentinel errors.
// It returns nil when the error carries no recognised code.
func classifyAWSError(err error) error {
	var apiErr smithy.APIError
	if !stderrors.As(err, &apiErr) {
		return nil
	}

	switch apiErr.ErrorCode() {
	case "NotFound", "NoSuchKey":
		return errors.ErrObjectNotFound
	case "NoSuchBucket":
		return errors.ErrBucketNotFound
	case "NoSuchUpload":
		return errors.ErrUploadNotFound
	case "AccessDenied", "Forbidden", "InvalidAccessKeyId", "SignatureDoesNotMatch":
		return errors.ErrAccessDenied
	}
	return nil
}

var _ s3types.Gateway = (*AWS)(nil)
