package gateway

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/s3stream/errors"
	"github.com/input-output-hk/catalyst-forge-libs/s3stream/internal/testutil"
	"github.com/input-output-hk/catalyst-forge-libs/s3stream/s3types"
)

var _ MinioCore = (*testutil.MockMinioCore)(nil)

func TestMinio_MultipartFlow(t *testing.T) {
	var (
		gotPartID   int
		gotSize     int64
		gotBody     []byte
		gotComplete []minio.CompletePart
	)
	core := &testutil.MockMinioCore{
		PutObjectPartFunc: func(
			_ context.Context, _, _, _ string, partID int, data io.Reader, size int64, _ minio.PutObjectPartOptions,
		) (minio.ObjectPart, error) {
			gotPartID, gotSize = partID, size
			gotBody, _ = io.ReadAll(data)
			return minio.ObjectPart{ETag: "e1", PartNumber: partID}, nil
		},
		CompleteMultipartUploadFunc: func(
			_ context.Context, _, _, _ string, parts []minio.CompletePart, _ minio.PutObjectOptions,
		) (minio.UploadInfo, error) {
			gotComplete = parts
			return minio.UploadInfo{}, nil
		},
	}

	g := NewMinio(core, "media")
	ctx := context.Background()

	id, err := g.CreateMultipartUpload(ctx, "k", "video/mp4")
	require.NoError(t, err)
	assert.Equal(t, "upload-1", id)

	etag, err := g.UploadPart(ctx, "k", id, 1, []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, "e1", etag)
	assert.Equal(t, 1, gotPartID)
	assert.Equal(t, int64(5), gotSize)
	assert.Equal(t, []byte("hello"), gotBody)

	err = g.CompleteMultipartUpload(ctx, "k", id, []s3types.CompletedPart{{PartNumber: 1, ETag: "e1", Size: 5}})
	require.NoError(t, err)
	if diff := cmp.Diff([]minio.CompletePart{{PartNumber: 1, ETag: "e1"}}, gotComplete); diff != "" {
		t.Errorf("complete parts mismatch (-want +got):\n%s", diff)
	}
}

func TestMinio_ErrorClassification(t *testing.T) {
	tests := []struct {
		name  string
		resp  minio.ErrorResponse
		check func(error) bool
	}{
		{"no such key", minio.ErrorResponse{Code: "NoSuchKey", StatusCode: http.StatusNotFound}, errors.IsObjectNotFound},
		{"bare 404", minio.ErrorResponse{StatusCode: http.StatusNotFound}, errors.IsObjectNotFound},
		{"access denied", minio.ErrorResponse{Code: "AccessDenied", StatusCode: http.StatusForbidden}, errors.IsAccessDenied},
		{"no such upload", minio.ErrorResponse{Code: "NoSuchUpload"}, func(err error) bool {
			return stderrors.Is(err, errors.ErrUploadNotFound)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core := &testutil.MockMinioCore{
				StatObjectFunc: func(
					_ context.Context, _, _ string, _ minio.StatObjectOptions,
				) (minio.ObjectInfo, error) {
					return minio.ObjectInfo{}, tt.resp
				},
			}

			_, err := NewMinio(core, "media").HeadObject(context.Background(), "k")
			require.Error(t, err)
			assert.True(t, errors.IsGatewayError(err))
			assert.True(t, tt.check(err))
		})
	}
}

func TestMinio_HeadObject(t *testing.T) {
	modified := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	core := &testutil.MockMinioCore{
		StatObjectFunc: func(
			_ context.Context, _, object string, _ minio.StatObjectOptions,
		) (minio.ObjectInfo, error) {
			return minio.ObjectInfo{
				Key:          object,
				Size:         7,
				ContentType:  "text/plain",
				ETag:         "abc",
				LastModified: modified,
			}, nil
		},
	}

	meta, err := NewMinio(core, "media").HeadObject(context.Background(), "notes.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(7), meta.ContentLength)
	assert.Equal(t, "text/plain", meta.ContentType)
	assert.Equal(t, modified, meta.LastModified)
}

func TestMinio_PresignGetObject(t *testing.T) {
	u, err := NewMinio(&testutil.MockMinioCore{}, "media").
		PresignGetObject(context.Background(), "a/b.jpg", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "https://minio.example.com/media/a/b.jpg?X-Amz-Expires=3600", u)
}

func TestNewMinioFromOptions(t *testing.T) {
	t.Run("valid endpoint", func(t *testing.T) {
		g, err := NewMinioFromOptions(MinioOptions{
			Endpoint:        "https://minio.example.com:9000",
			AccessKeyID:     "id",
			SecretAccessKey: "secret",
			PathStyle:       true,
		}, "media")
		require.NoError(t, err)
		assert.Equal(t, "media", g.Bucket())
	})

	t.Run("relative endpoint", func(t *testing.T) {
		_, err := NewMinioFromOptions(MinioOptions{Endpoint: "minio:9000"}, "media")
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrInvalidConfig)
	})
}
