package depot

import "io"

// Encryptor provides at-rest encryption for blob content.
type Encryptor interface {
	// Setup generates and stores the key material, protecting the private key
	// with the given passphrase.
	Setup(passphrase string) error

	// Encrypt reads plaintext from r and writes ciphertext to w.
	Encrypt(r io.Reader, w io.Writer) error

	// Unlock decrypts the private key with the passphrase and returns a
	// context able to decrypt blob content.
	Unlock(passphrase string) (DecryptionContext, error)

	// IsConfigured returns true if key material is present.
	IsConfigured() bool
}

// DecryptionContext holds unlocked key material for decrypting blob content.
type DecryptionContext interface {
	// Decrypt reads ciphertext from r and writes plaintext to w.
	Decrypt(r io.Reader, w io.Writer) error
}
