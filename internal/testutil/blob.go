package testutil

import (
	"strings"
	"testing"

	"depot/internal/blob"
	"depot/internal/depot"
)

// NewTestBlobStore creates a new in-memory blob store for testing.
func NewTestBlobStore() depot.BlobStore {
	return blob.NewMemoryStore("test-store")
}

// PutBlob stores content under key and fails the test on error.
func PutBlob(t *testing.T, store depot.BlobStore, key, content string) {
	t.Helper()
	if _, err := store.Put(key, strings.NewReader(content)); err != nil {
		t.Fatalf("failed to store blob %s: %v", key, err)
	}
}
