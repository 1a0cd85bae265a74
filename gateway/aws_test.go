package gateway

import (
	"context"
	stderrors "errors"
	"io"
	"testing"
	"time"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	awstypes "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/s3stream/errors"
	"github.com/input-output-hk/catalyst-forge-libs/s3stream/internal/testutil"
	"github.com/input-output-hk/catalyst-forge-libs/s3stream/s3types"
)

func TestAWS_CreateMultipartUpload(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		output      *s3.CreateMultipartUploadOutput
		err         error
		wantID      string
		wantErr     bool
	}{
		{
			name:        "returns upload id",
			contentType: "video/mp4",
			output:      &s3.CreateMultipartUploadOutput{UploadId: testutil.StringPtr("abc")},
			wantID:      "abc",
		},
		{
			name:    "empty upload id is an error",
			output:  &s3.CreateMultipartUploadOutput{},
			wantErr: true,
		},
		{
			name:    "service error",
			err:     stderrors.New("throttled"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *s3.CreateMultipartUploadInput
			client := &testutil.MockS3Client{
				CreateMultipartUploadFunc: func(
					_ context.Context, in *s3.CreateMultipartUploadInput, _ ...func(*s3.Options),
				) (*s3.CreateMultipartUploadOutput, error) {
					got = in
					return tt.output, tt.err
				},
			}

			g := NewAWS(client, nil, "media")
			id, err := g.CreateMultipartUpload(context.Background(), "clips/a.mp4", tt.contentType)

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsGatewayError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, id)
			assert.Equal(t, "media", *got.Bucket)
			assert.Equal(t, "clips/a.mp4", *got.Key)
			assert.Equal(t, tt.contentType, *got.ContentType)
		})
	}
}

func TestAWS_UploadPart(t *testing.T) {
	body := testutil.GeneratePatternData(1024)
	var got *s3.UploadPartInput
	client := &testutil.MockS3Client{
		UploadPartFunc: func(
			_ context.Context, in *s3.UploadPartInput, _ ...func(*s3.Options),
		) (*s3.UploadPartOutput, error) {
			got = in
			return &s3.UploadPartOutput{ETag: testutil.StringPtr(`"etag-3"`)}, nil
		},
	}

	g := NewAWS(client, nil, "media")
	etag, err := g.UploadPart(context.Background(), "k", "upload-1", 3, body)
	require.NoError(t, err)

	assert.Equal(t, `"etag-3"`, etag)
	assert.Equal(t, int32(3), *got.PartNumber)
	assert.Equal(t, "upload-1", *got.UploadId)
	assert.Equal(t, int64(1024), *got.ContentLength)

	sent, err := io.ReadAll(got.Body)
	require.NoError(t, err)
	assert.Equal(t, body, sent)
}

func TestAWS_CompleteMultipartUpload(t *testing.T) {
	var got *s3.CompleteMultipartUploadInput
	client := &testutil.MockS3Client{
		CompleteMultipartUploadFunc: func(
			_ context.Context, in *s3.CompleteMultipartUploadInput, _ ...func(*s3.Options),
		) (*s3.CompleteMultipartUploadOutput, error) {
			got = in
			return &s3.CompleteMultipartUploadOutput{}, nil
		},
	}

	g := NewAWS(client, nil, "media")
	err := g.CompleteMultipartUpload(context.Background(), "k", "upload-1", []s3types.CompletedPart{
		{PartNumber: 1, ETag: "etag-1", Size: 5},
		{PartNumber: 2, ETag: "etag-2", Size: 1},
	})
	require.NoError(t, err)

	type part struct {
		N    int32
		ETag string
	}
	var sent []part
	for _, p := range got.MultipartUpload.Parts {
		sent = append(sent, part{N: *p.PartNumber, ETag: *p.ETag})
	}
	want := []part{{1, "etag-1"}, {2, "etag-2"}}
	if diff := cmp.Diff(want, sent); diff != "" {
		t.Errorf("completed parts mismatch (-want +got):\n%s", diff)
	}
}

func TestAWS_HeadObject(t *testing.T) {
	modified := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	client := &testutil.MockS3Client{
		HeadObjectFunc: func(
			_ context.Context, _ *s3.HeadObjectInput, _ ...func(*s3.Options),
		) (*s3.HeadObjectOutput, error) {
			return &s3.HeadObjectOutput{
				ContentType:   testutil.StringPtr("image/png"),
				ContentLength: testutil.Int64Ptr(42),
				LastModified:  testutil.TimePtr(modified),
				ETag:          testutil.StringPtr(`"x"`),
				Metadata:      map[string]string{"owner": "alice"},
			}, nil
		},
	}

	meta, err := NewAWS(client, nil, "media").HeadObject(context.Background(), "a.png")
	require.NoError(t, err)

	want := &s3types.ObjectMetadata{
		ContentType:   "image/png",
		ContentLength: 42,
		LastModified:  modified,
		ETag:          `"x"`,
		Metadata:      map[string]string{"owner": "alice"},
	}
	if diff := cmp.Diff(want, meta); diff != "" {
		t.Errorf("metadata mismatch (-want +got):\n%s", diff)
	}
}

func TestAWS_ErrorClassification(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"typed not found", &awstypes.NotFound{}, errors.IsObjectNotFound},
		{"no such key", &awstypes.NoSuchKey{}, errors.IsObjectNotFound},
		{"access denied", &smithy.GenericAPIError{Code: "AccessDenied"}, errors.IsAccessDenied},
		{"no such upload", &smithy.GenericAPIError{Code: "NoSuchUpload"}, func(err error) bool {
			return stderrors.Is(err, errors.ErrUploadNotFound)
		}},
		{"no such bucket", &smithy.GenericAPIError{Code: "NoSuchBucket"}, func(err error) bool {
			return stderrors.Is(err, errors.ErrBucketNotFound)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &testutil.MockS3Client{
				HeadObjectFunc: func(
					_ context.Context, _ *s3.HeadObjectInput, _ ...func(*s3.Options),
				) (*s3.HeadObjectOutput, error) {
					return nil, tt.err
				},
			}

			_, err := NewAWS(client, nil, "media").HeadObject(context.Background(), "k")
			require.Error(t, err)
			assert.True(t, errors.IsGatewayError(err))
			assert.True(t, tt.check(err))
		})
	}
}

func TestAWS_UnclassifiedError(t *testing.T) {
	client := &testutil.MockS3Client{
		DeleteObjectFunc: func(
			_ context.Context, _ *s3.DeleteObjectInput, _ ...func(*s3.Options),
		) (*s3.DeleteObjectOutput, error) {
			return nil, stderrors.New("connection reset")
		},
	}

	err := NewAWS(client, nil, "media").DeleteObject(context.Background(), "k")
	require.Error(t, err)
	assert.True(t, errors.IsGatewayError(err))
	assert.False(t, errors.IsObjectNotFound(err))
	assert.Equal(t, errors.CodeGateway, errors.CodeOf(err))
}

func TestAWS_PresignGetObject(t *testing.T) {
	t.Run("passes expiry", func(t *testing.T) {
		g := NewAWS(&testutil.MockS3Client{}, &testutil.MockPresigner{}, "media")
		u, err := g.PresignGetObject(context.Background(), "a/b.jpg", 15*time.Minute)
		require.NoError(t, err)
		assert.Equal(t, "https://media.s3.amazonaws.com/a/b.jpg?X-Amz-Expires=900", u)
	})

	t.Run("no presigner", func(t *testing.T) {
		g := NewAWS(&testutil.MockS3Client{}, nil, "media")
		_, err := g.PresignGetObject(context.Background(), "k", time.Minute)
		assert.True(t, errors.IsGatewayError(err))
	})

	t.Run("empty url", func(t *testing.T) {
		presigner := &testutil.MockPresigner{
			PresignGetObjectFunc: func(
				_ context.Context, _ *s3.GetObjectInput, _ ...func(*s3.PresignOptions),
			) (*v4.PresignedHTTPRequest, error) {
				return &v4.PresignedHTTPRequest{}, nil
			},
		}
		g := NewAWS(&testutil.MockS3Client{}, presigner, "media")
		_, err := g.PresignGetObject(context.Background(), "k", time.Minute)
		assert.Error(t, err)
	})
}

func TestAWS_PutObject(t *testing.T) {
	var got *s3.PutObjectInput
	client := &testutil.MockS3Client{
		PutObjectFunc: func(
			_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options),
		) (*s3.PutObjectOutput, error) {
			got = in
			return &s3.PutObjectOutput{}, nil
		},
	}

	err := NewAWS(client, nil, "media").PutObject(context.Background(), "a.json", nil, 0, "")
	require.NoError(t, err)
	assert.Nil(t, got.ContentType)
	assert.Equal(t, int64(0), *got.ContentLength)
}
