package errors

import "errors"

// ErrorCode is a stable, string-based classification of an error, suitable for
// logs, exit statuses and JSON output.
type ErrorCode string

const (
	// CodeNotFound indicates a requested object, bucket or upload does not exist.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeForbidden indicates the credentials lack permission for the operation.
	CodeForbidden ErrorCode = "FORBIDDEN"

	// CodeInvalidInput indicates the provided key, bucket or argument is invalid.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// CodeInvalidConfig indicates a configuration error prevents the operation.
	CodeInvalidConfig ErrorCode = "INVALID_CONFIGURATION"

	// CodeInvalidState indicates an upload operation was called in the wrong state.
	CodeInvalidState ErrorCode = "INVALID_STATE"

	// CodeNoData indicates an upload was completed without any data.
	CodeNoData ErrorCode = "NO_DATA_UPLOADED"

	// CodeDisabled indicates storage is not configured.
	CodeDisabled ErrorCode = "DISABLED"

	// CodeGateway indicates the object store rejected or failed a request.
	CodeGateway ErrorCode = "GATEWAY_ERROR"

	// CodeInternal indicates an internal invariant was violated.
	CodeInternal ErrorCode = "INTERNAL_ERROR"

	// CodeUnknown indicates an unknown or unclassified error occurred.
	CodeUnknown ErrorCode = "UNKNOWN"
)

// CodeOf classifies err. The most specific classification wins, so a gateway
// failure that was recognised as a missing object reports CodeNotFound.
func CodeOf(err error) ErrorCode {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrObjectNotFound),
		errors.Is(err, ErrBucketNotFound),
		errors.Is(err, ErrUploadNotFound):
		return CodeNotFound
	case errors.Is(err, ErrAccessDenied):
		return CodeForbidden
	case errors.Is(err, ErrInvalidConfig):
		return CodeInvalidConfig
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrInvalidObjectKey),
		errors.Is(err, ErrInvalidBucketName):
		return CodeInvalidInput
	case errors.Is(err, ErrInvalidState):
		return CodeInvalidState
	case errors.Is(err, ErrNoDataUploaded):
		return CodeNoData
	case errors.Is(err, ErrNotEnabled):
		return CodeDisabled
	case errors.Is(err, ErrGateway):
		return CodeGateway
	case errors.Is(err, ErrInsufficientBuffer):
		return CodeInternal
	default:
		return CodeUnknown
	}
}
