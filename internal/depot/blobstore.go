package depot

import "io"

// BlobStore provides an interface for blob storage backends. Storage keys are
// opaque strings unrelated to logical file identity; one key addresses one
// immutable blob. All operations use io.Reader/io.Writer for streaming to
// support large blobs without loading them entirely into memory.
type BlobStore interface {
	// Put stores the bytes read from r under key and returns the number of
	// bytes written. Keys are never reused, so Put need not be idempotent.
	Put(key string, r io.Reader) (int64, error)

	// Get retrieves the blob stored under key and writes it to w.
	Get(key string, w io.Writer) error

	// Exists reports whether a blob is stored under key.
	Exists(key string) (bool, error)

	// Remove deletes the blob stored under key. Removing a missing key is not
	// an error.
	Remove(key string) error

	// ValidateSetup verifies that the store is accessible and properly configured.
	ValidateSetup() error
}
