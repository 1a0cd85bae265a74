package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/input-output-hk/catalyst-forge-libs/s3stream/errors"
)

func TestValidateBucketName(t *testing.T) {
	tests := []struct {
		name    string
		bucket  string
		wantErr bool
	}{
		{"valid simple", "my-bucket", false},
		{"valid with dots", "my.bucket.name", false},
		{"valid with numbers", "bucket123", false},
		{"empty", "", true},
		{"too short", "ab", true},
		{"too long", strings.Repeat("a", 64), true},
		{"uppercase", "MyBucket", true},
		{"underscore", "my_bucket", true},
		{"starts with hyphen", "-bucket", true},
		{"ends with dot", "bucket.", true},
		{"ip address", "192.168.1.1", true},
		{"adjacent dots", "my..bucket", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBucketName(tt.bucket)
			if tt.wantErr {
				assert.Error(t, err)
				assert.ErrorIs(t, err, errors.ErrInvalidBucketName)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateObjectKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{"simple", "file.txt", false},
		{"nested", "a/b/c/file.bin", false},
		{"unicode", "фото/猫.jpg", false},
		{"empty", "", true},
		{"traversal", "../etc/passwd", true},
		{"embedded traversal", "a/../../b", true},
		{"trailing traversal", "a/b/..", true},
		{"backslash traversal", `a\..\b`, true},
		{"double dot inside name", "photo..final.jpg", false},
		{"double dot segment prefix", "a/..hidden/b", false},
		{"absolute", "/etc/passwd", true},
		{"windows absolute", "C:/file", true},
		{"control char", "file\x00name", true},
		{"too long", strings.Repeat("k", MaxKeyLength+1), true},
		{"max length", strings.Repeat("k", MaxKeyLength), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateObjectKey(tt.key)
			if tt.wantErr {
				assert.ErrorIs(t, err, errors.ErrInvalidObjectKey)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePathPrefix(t *testing.T) {
	assert.NoError(t, ValidatePathPrefix(""))
	assert.NoError(t, ValidatePathPrefix("bot"))
	assert.NoError(t, ValidatePathPrefix("tenant/files"))
	assert.ErrorIs(t, ValidatePathPrefix("bot/"), errors.ErrInvalidConfig)
	assert.ErrorIs(t, ValidatePathPrefix("../up"), errors.ErrInvalidConfig)
}

func TestValidateEndpoint(t *testing.T) {
	assert.NoError(t, ValidateEndpoint(""))
	assert.NoError(t, ValidateEndpoint("https://minio.example.com"))
	assert.NoError(t, ValidateEndpoint("http://localhost:9000"))
	assert.ErrorIs(t, ValidateEndpoint("minio.example.com"), errors.ErrInvalidConfig)
	assert.ErrorIs(t, ValidateEndpoint("ftp://host"), errors.ErrInvalidConfig)
	assert.ErrorIs(t, ValidateEndpoint("https://"), errors.ErrInvalidConfig)
}
