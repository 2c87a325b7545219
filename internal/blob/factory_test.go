package blob

import (
	"testing"

	"depot/internal/config"
)

func TestNewStoreFromConfig(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		store, err := NewStoreFromConfig(config.BlobConfig{Type: "memory", Name: "m"})
		if err != nil {
			t.Fatalf("NewStoreFromConfig() error = %v", err)
		}
		if _, ok := store.(*MemoryStore); !ok {
			t.Errorf("store = %T, want *MemoryStore", store)
		}
	})

	t.Run("filesystem", func(t *testing.T) {
		store, err := NewStoreFromConfig(config.BlobConfig{
			Type:   "filesystem",
			Name:   "fs",
			FSRoot: t.TempDir(),
		})
		if err != nil {
			t.Fatalf("NewStoreFromConfig() error = %v", err)
		}
		if _, ok := store.(*FileSystemStore); !ok {
			t.Errorf("store = %T, want *FileSystemStore", store)
		}
	})

	t.Run("filesystem without root fails", func(t *testing.T) {
		if _, err := NewStoreFromConfig(config.BlobConfig{Type: "filesystem"}); err == nil {
			t.Error("NewStoreFromConfig() expected error without fs_root")
		}
	})

	t.Run("s3 without bucket fails", func(t *testing.T) {
		if _, err := NewStoreFromConfig(config.BlobConfig{Type: "s3"}); err == nil {
			t.Error("NewStoreFromConfig() expected error without s3_bucket")
		}
	})

	t.Run("unknown type fails", func(t *testing.T) {
		if _, err := NewStoreFromConfig(config.BlobConfig{Type: "tape"}); err == nil {
			t.Error("NewStoreFromConfig() expected error for unknown type")
		}
	})
}
