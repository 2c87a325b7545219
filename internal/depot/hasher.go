package depot

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
)

// Hasher computes a stable content digest for a stored blob.
type Hasher interface {
	// Hash returns the lowercase hex digest of the blob stored under key.
	Hash(storageKey string) (string, error)
}

// MD5Hasher streams a blob through MD5 and returns the hex digest.
// MD5 is a deduplication fingerprint here, not a security boundary.
type MD5Hasher struct {
	blobs BlobStore
}

// NewMD5Hasher creates a hasher reading from the given blob store.
func NewMD5Hasher(blobs BlobStore) *MD5Hasher {
	return &MD5Hasher{blobs: blobs}
}

// Hash streams the blob into the digest without buffering it in memory.
func (h *MD5Hasher) Hash(storageKey string) (string, error) {
	sum := md5.New()
	if err := h.blobs.Get(storageKey, sum); err != nil {
		return "", fmt.Errorf("%w: reading blob %s: %w", ErrIO, storageKey, err)
	}
	return hex.EncodeToString(sum.Sum(nil)), nil
}

var _ Hasher = (*MD5Hasher)(nil)
