package blob

import (
	"fmt"
	"io"

	"depot/internal/depot"
)

// EncryptedStore wraps another BlobStore and encrypts content at rest.
// Writes stream through the encryptor into the inner store; reads stream out
// of the inner store through the decryption context. The wrapper must be
// unlocked with a passphrase before any read can succeed.
//
// Content hashes are computed over plaintext by reading back through this
// wrapper, so encryption does not disturb duplicate detection.
type EncryptedStore struct {
	inner      depot.BlobStore
	encryptor  depot.Encryptor
	decryptCtx depot.DecryptionContext
}

// NewEncryptedStore wraps inner with at-rest encryption using the given encryptor.
func NewEncryptedStore(inner depot.BlobStore, encryptor depot.Encryptor) *EncryptedStore {
	return &EncryptedStore{
		inner:     inner,
		encryptor: encryptor,
	}
}

// Unlock decrypts the private key with the passphrase, enabling reads.
func (s *EncryptedStore) Unlock(passphrase string) error {
	ctx, err := s.encryptor.Unlock(passphrase)
	if err != nil {
		return fmt.Errorf("unlocking store: %w", err)
	}
	s.decryptCtx = ctx
	return nil
}

// Put encrypts content from r and stores the ciphertext under the given key.
// The returned count is the number of ciphertext bytes written.
func (s *EncryptedStore) Put(key string, r io.Reader) (int64, error) {
	pr, pw := io.Pipe()
	go func() {
		err := s.encryptor.Encrypt(r, pw)
		pw.CloseWithError(err)
	}()

	written, err := s.inner.Put(key, pr)
	pr.CloseWithError(err) // unblock goroutine if Put failed early
	if err != nil {
		return 0, err
	}
	return written, nil
}

// Get retrieves ciphertext from the inner store and writes plaintext to w.
func (s *EncryptedStore) Get(key string, w io.Writer) error {
	if s.decryptCtx == nil {
		return fmt.Errorf("store is locked: no passphrase provided")
	}

	pr, pw := io.Pipe()
	innerErrCh := make(chan error, 1)
	go func() {
		err := s.inner.Get(key, pw)
		pw.CloseWithError(err)
		innerErrCh <- err
	}()

	decryptErr := s.decryptCtx.Decrypt(pr, w)
	pr.CloseWithError(decryptErr) // unblock goroutine if Decrypt failed early
	innerErr := <-innerErrCh      // wait for goroutine to finish (no leak)

	if innerErr != nil {
		return innerErr
	}
	if decryptErr != nil {
		return fmt.Errorf("decrypting blob: %w", decryptErr)
	}
	return nil
}

// Exists reports whether a blob is stored under the given key.
func (s *EncryptedStore) Exists(key string) (bool, error) {
	return s.inner.Exists(key)
}

// Remove deletes the blob stored under the given key.
func (s *EncryptedStore) Remove(key string) error {
	return s.inner.Remove(key)
}

// ValidateSetup verifies the inner store and that key material is present.
func (s *EncryptedStore) ValidateSetup() error {
	if !s.encryptor.IsConfigured() {
		return fmt.Errorf("encryption enabled but key material is missing")
	}
	return s.inner.ValidateSetup()
}

// Compile-time check that EncryptedStore implements depot.BlobStore interface
var _ depot.BlobStore = (*EncryptedStore)(nil)
