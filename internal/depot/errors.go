package depot

import "errors"

// Error kinds returned by the service layer. Callers classify failures with
// errors.Is; the concrete message carries the operation-specific detail.
var (
	// ErrNotFound indicates a file, version, or metadata key does not exist.
	ErrNotFound = errors.New("not found")

	// ErrPermissionDenied indicates an ownership or grant check failed.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrValidation indicates a required upload field was missing.
	ErrValidation = errors.New("validation failed")

	// ErrIO indicates a blob could not be read or written.
	ErrIO = errors.New("blob i/o failed")

	// ErrUploadFailed indicates an upload aborted mid-operation (hashing or
	// the transactional write). No partial file or version is left visible.
	ErrUploadFailed = errors.New("upload failed")
)
