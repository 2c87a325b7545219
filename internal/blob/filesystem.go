package blob

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"depot/internal/depot"
)

// FileSystemStore is a filesystem-based implementation of the BlobStore interface.
// It stores uploaded content as files in a flat directory structure:
//
//	<root>/
//	  content/
//	    <storageKey>   (content files, named by their storage key)
type FileSystemStore struct {
	name       string
	root       string
	contentDir string
}

// NewFileSystemStore creates a new filesystem store rooted at the given path.
func NewFileSystemStore(name, root string) (*FileSystemStore, error) {
	contentDir := filepath.Join(root, "content")

	if err := os.MkdirAll(contentDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create content directory: %w", err)
	}

	return &FileSystemStore{
		name:       name,
		root:       root,
		contentDir: contentDir,
	}, nil
}

// Put stores content under the given storage key and returns the number of
// bytes written. An existing blob under the same key is replaced atomically.
func (s *FileSystemStore) Put(key string, r io.Reader) (int64, error) {
	destPath := filepath.Join(s.contentDir, key)
	return s.writeFile(destPath, r)
}

// Get retrieves content by storage key and writes it to w.
func (s *FileSystemStore) Get(key string, w io.Writer) error {
	srcPath := filepath.Join(s.contentDir, key)

	f, err := os.Open(srcPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("blob not found: %s", key)
		}
		return fmt.Errorf("failed to open blob: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to read blob: %w", err)
	}

	return nil
}

// Exists reports whether a blob is stored under the given key.
func (s *FileSystemStore) Exists(key string) (bool, error) {
	_, err := os.Stat(filepath.Join(s.contentDir, key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat blob: %w", err)
	}
	return true, nil
}

// Remove deletes the blob stored under the given key.
// Removing a key that does not exist is not an error.
func (s *FileSystemStore) Remove(key string) error {
	err := os.Remove(filepath.Join(s.contentDir, key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove blob: %w", err)
	}
	return nil
}

// ValidateSetup verifies that the store directories are accessible.
func (s *FileSystemStore) ValidateSetup() error {
	info, err := os.Stat(s.root)
	if err != nil {
		return fmt.Errorf("store root not accessible: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("store root is not a directory: %s", s.root)
	}

	info, err = os.Stat(s.contentDir)
	if err != nil {
		return fmt.Errorf("content directory not accessible: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("content path is not a directory: %s", s.contentDir)
	}

	return nil
}

// writeFile writes data from r to the specified path using atomic write (temp file + rename).
func (s *FileSystemStore) writeFile(destPath string, r io.Reader) (int64, error) {
	// Create temp file in the same directory to ensure atomic rename works
	dir := filepath.Dir(destPath)
	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	// Clean up temp file on failure
	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	written, err := io.Copy(tmpFile, r)
	if err != nil {
		tmpFile.Close()
		return 0, fmt.Errorf("failed to write data: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return 0, fmt.Errorf("failed to close temp file: %w", err)
	}

	// Atomic rename
	if err := os.Rename(tmpPath, destPath); err != nil {
		return 0, fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return written, nil
}

// Compile-time check that FileSystemStore implements depot.BlobStore interface
var _ depot.BlobStore = (*FileSystemStore)(nil)
