package depot_test

import (
	"errors"
	"testing"

	"depot/internal/depot"
)

func TestService_Metadata(t *testing.T) {
	t.Run("set then list returns entries ordered by key", func(t *testing.T) {
		svc, blobs := newTestService(t)
		file := upload(t, svc, blobs, "alice", "notes.txt", "/", "content")

		if _, err := svc.SetMetadata(file.ID, "project", "atlas"); err != nil {
			t.Fatalf("SetMetadata() error = %v", err)
		}
		if _, err := svc.SetMetadata(file.ID, "category", "work"); err != nil {
			t.Fatalf("SetMetadata() error = %v", err)
		}

		entries, err := svc.Metadata(file.ID)
		if err != nil {
			t.Fatalf("Metadata() error = %v", err)
		}
		if len(entries) != 2 {
			t.Fatalf("len(entries) = %d, want 2", len(entries))
		}
		if entries[0].Key != "category" || entries[1].Key != "project" {
			t.Errorf("keys = %s, %s; want category, project", entries[0].Key, entries[1].Key)
		}
	})

	t.Run("set overwrites an existing key", func(t *testing.T) {
		svc, blobs := newTestService(t)
		file := upload(t, svc, blobs, "alice", "notes.txt", "/", "content")

		if _, err := svc.SetMetadata(file.ID, "status", "draft"); err != nil {
			t.Fatalf("SetMetadata() error = %v", err)
		}
		entry, err := svc.SetMetadata(file.ID, "status", "final")
		if err != nil {
			t.Fatalf("SetMetadata() error = %v", err)
		}
		if entry.Value != "final" {
			t.Errorf("Value = %s, want final", entry.Value)
		}

		entries, err := svc.Metadata(file.ID)
		if err != nil {
			t.Fatalf("Metadata() error = %v", err)
		}
		if len(entries) != 1 {
			t.Errorf("len(entries) = %d, want 1 after overwrite", len(entries))
		}
	})

	t.Run("empty key fails validation", func(t *testing.T) {
		svc, blobs := newTestService(t)
		file := upload(t, svc, blobs, "alice", "notes.txt", "/", "content")

		_, err := svc.SetMetadata(file.ID, "", "value")
		if !errors.Is(err, depot.ErrValidation) {
			t.Errorf("SetMetadata() error = %v, want ErrValidation", err)
		}
	})

	t.Run("value lookup for missing key is not found", func(t *testing.T) {
		svc, blobs := newTestService(t)
		file := upload(t, svc, blobs, "alice", "notes.txt", "/", "content")

		_, err := svc.MetadataValue(file.ID, "absent")
		if !errors.Is(err, depot.ErrNotFound) {
			t.Errorf("MetadataValue() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("delete removes the entry", func(t *testing.T) {
		svc, blobs := newTestService(t)
		file := upload(t, svc, blobs, "alice", "notes.txt", "/", "content")

		if _, err := svc.SetMetadata(file.ID, "temp", "yes"); err != nil {
			t.Fatalf("SetMetadata() error = %v", err)
		}
		if err := svc.DeleteMetadata(file.ID, "temp"); err != nil {
			t.Fatalf("DeleteMetadata() error = %v", err)
		}

		_, err := svc.MetadataValue(file.ID, "temp")
		if !errors.Is(err, depot.ErrNotFound) {
			t.Errorf("MetadataValue() after delete error = %v, want ErrNotFound", err)
		}
	})

	t.Run("delete of missing key is not found", func(t *testing.T) {
		svc, blobs := newTestService(t)
		file := upload(t, svc, blobs, "alice", "notes.txt", "/", "content")

		err := svc.DeleteMetadata(file.ID, "absent")
		if !errors.Is(err, depot.ErrNotFound) {
			t.Errorf("DeleteMetadata() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("operations on unknown files are not found", func(t *testing.T) {
		svc, _ := newTestService(t)

		if _, err := svc.SetMetadata("missing", "k", "v"); !errors.Is(err, depot.ErrNotFound) {
			t.Errorf("SetMetadata() error = %v, want ErrNotFound", err)
		}
		if _, err := svc.Metadata("missing"); !errors.Is(err, depot.ErrNotFound) {
			t.Errorf("Metadata() error = %v, want ErrNotFound", err)
		}
	})
}
