// Package validation provides centralized input validation logic.
// Keys, bucket names and configuration values are checked before any request
// reaches the object store.
package validation

import (
	"net"
	"net/url"
	"strings"
	"unicode"

	"github.com/input-output-hk/catalyst-forge-libs/s3stream/errors"
)

// MaxKeyLength is the longest object key the store accepts, in bytes.
const MaxKeyLength = 1024

// ValidateBucketName checks that bucket is a DNS-compliant S3 bucket name.
// Failures match ErrInvalidBucketName.
func ValidateBucketName(bucket string) error {
	if msg := bucketNameProblem(bucket); msg != "" {
		return errors.NewError("validateBucketName", errors.ErrInvalidBucketName).
			WithBucket(bucket).
			WithMessage(msg)
	}
	return nil
}

// ValidateObjectKey validates that an object key is valid according to S3 rules.
// This includes preventing path traversal attacks and ensuring valid characters.
func ValidateObjectKey(key string) error {
	if key == "" {
		return errors.NewError("validateObjectKey", errors.ErrInvalidObjectKey).
			WithKey(key).
			WithMessage("object key cannot be empty")
	}

	if hasPathTraversal(key) {
		return errors.NewError("validateObjectKey", errors.ErrInvalidObjectKey).
			WithKey(key).
			WithMessage("object key cannot contain path traversal sequences")
	}

	if len(key) > MaxKeyLength {
		return errors.NewError("validateObjectKey", errors.ErrInvalidObjectKey).
			WithKey(key).
			WithMessage("object key cannot exceed 1024 characters")
	}

	if hasControlCharacters(key) {
		return errors.NewError("validateObjectKey", errors.ErrInvalidObjectKey).
			WithKey(key).
			WithMessage("object key cannot contain control characters")
	}

	return nil
}

// ValidatePathPrefix validates the namespace prefix joined in front of every key.
// An empty prefix is valid and disables namespacing.
func ValidatePathPrefix(prefix string) error {
	if prefix == "" {
		return nil
	}
	if strings.HasSuffix(prefix, "/") {
		return errors.NewError("validatePathPrefix", errors.ErrInvalidConfig).
			WithMessage("path prefix must not end with a slash")
	}
	if err := ValidateObjectKey(prefix); err != nil {
		return errors.NewError("validatePathPrefix", errors.ErrInvalidConfig).
			WithMessage(err.Error())
	}
	return nil
}

// ValidateEndpoint validates an endpoint override. An empty endpoint selects the
// provider default.
func ValidateEndpoint(endpoint string) error {
	if endpoint == "" {
		return nil
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return errors.NewError("validateEndpoint", errors.ErrInvalidConfig).
			WithMessage(err.Error())
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.NewError("validateEndpoint", errors.ErrInvalidConfig).
			WithMessage("endpoint must use http or https")
	}
	if u.Host == "" {
		return errors.NewError("validateEndpoint", errors.ErrInvalidConfig).
			WithMessage("endpoint must include a host")
	}
	return nil
}

func bucketNameProblem(bucket string) string {
	switch {
	case bucket == "":
		return "bucket name cannot be empty"
	case len(bucket) < 3 || len(bucket) > 63:
		return "bucket name must be between 3 and 63 characters long"
	case strings.IndexFunc(bucket, invalidBucketRune) >= 0:
		return "bucket name can only contain lowercase letters, numbers, dots, and hyphens"
	case strings.ContainsAny(bucket[:1], ".-") || strings.ContainsAny(bucket[len(bucket)-1:], ".-"):
		return "bucket name cannot start or end with a hyphen or dot"
	case strings.Contains(bucket, ".."):
		return "bucket name cannot contain two adjacent periods"
	case net.ParseIP(bucket) != nil:
		return "bucket name cannot be formatted as an IP address"
	}
	return ""
}

func invalidBucketRune(r rune) bool {
	return !(r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r == '.' || r == '-')
}

// hasPathTraversal reports whether key has a ".." path segment or is absolute.
// Dots inside a segment, as in "photo..final.jpg", are ordinary key characters.
func hasPathTraversal(key string) bool {
	for _, segment := range strings.FieldsFunc(key, isPathSeparator) {
		if segment == ".." {
			return true
		}
	}

	if strings.HasPrefix(key, "/") || strings.HasPrefix(key, `\`) {
		return true
	}

	// Windows-style absolute paths
	if len(key) >= 3 && key[1] == ':' && (key[2] == '\\' || key[2] == '/') {
		return true
	}

	return false
}

func isPathSeparator(r rune) bool {
	return r == '/' || r == '\\'
}

// hasControlCharacters checks for control characters in the key
func hasControlCharacters(key string) bool {
	for _, char := range key {
		if unicode.IsControl(char) {
			return true
		}
	}
	return false
}
