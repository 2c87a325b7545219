package depot_test

import (
	"bytes"
	"errors"
	"testing"

	"depot/internal/depot"
	"depot/internal/testutil"
)

func TestService_ListVersions(t *testing.T) {
	t.Run("returns versions oldest first", func(t *testing.T) {
		svc, blobs := newTestService(t)
		file := upload(t, svc, blobs, "alice", "notes.txt", "/", "v0")
		upload(t, svc, blobs, "alice", "notes.txt", "/", "v1")
		upload(t, svc, blobs, "alice", "notes.txt", "/", "v2")

		fv, err := svc.ListVersions(file.ID, "alice")
		if err != nil {
			t.Fatalf("ListVersions() error = %v", err)
		}
		if len(fv.Versions) != 3 {
			t.Fatalf("len(Versions) = %d, want 3", len(fv.Versions))
		}
		for i, v := range fv.Versions {
			if v.Version != int64(i) {
				t.Errorf("Versions[%d].Version = %d, want %d", i, v.Version, i)
			}
		}
		if want := testutil.MD5Hex([]byte("v1")); fv.Versions[1].Hash != want {
			t.Errorf("Versions[1].Hash = %s, want %s", fv.Versions[1].Hash, want)
		}
	})

	t.Run("non-owner is denied even with a read grant", func(t *testing.T) {
		svc, blobs := newTestService(t)
		file := upload(t, svc, blobs, "alice", "notes.txt", "/", "content")
		if _, err := svc.Grant("alice", file.ID, "bob", true, false, false); err != nil {
			t.Fatalf("Grant() error = %v", err)
		}

		_, err := svc.ListVersions(file.ID, "bob")
		if !errors.Is(err, depot.ErrPermissionDenied) {
			t.Errorf("ListVersions() error = %v, want ErrPermissionDenied", err)
		}
	})

	t.Run("unknown file is not found", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.ListVersions("missing", "alice")
		if !errors.Is(err, depot.ErrNotFound) {
			t.Errorf("ListVersions() error = %v, want ErrNotFound", err)
		}
	})
}

func TestService_Restore(t *testing.T) {
	t.Run("rewinds current pointer without touching history", func(t *testing.T) {
		svc, blobs := newTestService(t)
		file := upload(t, svc, blobs, "alice", "notes.txt", "/", "v0")
		upload(t, svc, blobs, "alice", "notes.txt", "/", "v1")
		upload(t, svc, blobs, "alice", "notes.txt", "/", "v2")

		restored, err := svc.Restore(file.ID, 0, "alice")
		if err != nil {
			t.Fatalf("Restore() error = %v", err)
		}
		if restored.Version != 0 {
			t.Errorf("restored.Version = %d, want 0", restored.Version)
		}

		got, err := svc.Get(file.ID, "alice")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got.CurrentVersion != 0 {
			t.Errorf("CurrentVersion = %d, want 0", got.CurrentVersion)
		}
		if want := testutil.MD5Hex([]byte("v0")); got.CurrentHash != want {
			t.Errorf("CurrentHash = %s, want %s", got.CurrentHash, want)
		}

		fv, err := svc.ListVersions(file.ID, "alice")
		if err != nil {
			t.Fatalf("ListVersions() error = %v", err)
		}
		if len(fv.Versions) != 3 {
			t.Errorf("len(Versions) = %d, want 3 (restore must not drop history)", len(fv.Versions))
		}
	})

	t.Run("can move forward again after a rewind", func(t *testing.T) {
		svc, blobs := newTestService(t)
		file := upload(t, svc, blobs, "alice", "notes.txt", "/", "v0")
		upload(t, svc, blobs, "alice", "notes.txt", "/", "v1")

		if _, err := svc.Restore(file.ID, 0, "alice"); err != nil {
			t.Fatalf("Restore(0) error = %v", err)
		}
		if _, err := svc.Restore(file.ID, 1, "alice"); err != nil {
			t.Fatalf("Restore(1) error = %v", err)
		}

		got, err := svc.Get(file.ID, "alice")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got.CurrentVersion != 1 {
			t.Errorf("CurrentVersion = %d, want 1", got.CurrentVersion)
		}
	})

	t.Run("next upload after restore still gets a dense version number", func(t *testing.T) {
		svc, blobs := newTestService(t)
		file := upload(t, svc, blobs, "alice", "notes.txt", "/", "v0")
		upload(t, svc, blobs, "alice", "notes.txt", "/", "v1")

		if _, err := svc.Restore(file.ID, 0, "alice"); err != nil {
			t.Fatalf("Restore() error = %v", err)
		}

		next := upload(t, svc, blobs, "alice", "notes.txt", "/", "v2")
		if next.CurrentVersion != 2 {
			t.Errorf("CurrentVersion = %d, want 2", next.CurrentVersion)
		}
	})

	t.Run("unknown version is not found", func(t *testing.T) {
		svc, blobs := newTestService(t)
		file := upload(t, svc, blobs, "alice", "notes.txt", "/", "v0")

		_, err := svc.Restore(file.ID, 7, "alice")
		if !errors.Is(err, depot.ErrNotFound) {
			t.Errorf("Restore() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("non-owner is denied", func(t *testing.T) {
		svc, blobs := newTestService(t)
		file := upload(t, svc, blobs, "alice", "notes.txt", "/", "v0")

		_, err := svc.Restore(file.ID, 0, "bob")
		if !errors.Is(err, depot.ErrPermissionDenied) {
			t.Errorf("Restore() error = %v, want ErrPermissionDenied", err)
		}
	})
}

func TestService_DownloadVersion(t *testing.T) {
	t.Run("streams the requested version regardless of current pointer", func(t *testing.T) {
		svc, blobs := newTestService(t)
		file := upload(t, svc, blobs, "alice", "notes.txt", "/", "old bytes")
		upload(t, svc, blobs, "alice", "notes.txt", "/", "new bytes")

		var buf bytes.Buffer
		v, err := svc.DownloadVersion(file.ID, 0, "alice", &buf)
		if err != nil {
			t.Fatalf("DownloadVersion() error = %v", err)
		}
		if buf.String() != "old bytes" {
			t.Errorf("content = %q, want %q", buf.String(), "old bytes")
		}
		if v.Version != 0 {
			t.Errorf("version record = %d, want 0", v.Version)
		}
	})

	t.Run("non-owner is denied", func(t *testing.T) {
		svc, blobs := newTestService(t)
		file := upload(t, svc, blobs, "alice", "notes.txt", "/", "content")

		var buf bytes.Buffer
		_, err := svc.DownloadVersion(file.ID, 0, "bob", &buf)
		if !errors.Is(err, depot.ErrPermissionDenied) {
			t.Errorf("DownloadVersion() error = %v, want ErrPermissionDenied", err)
		}
	})

	t.Run("unknown version is not found", func(t *testing.T) {
		svc, blobs := newTestService(t)
		file := upload(t, svc, blobs, "alice", "notes.txt", "/", "content")

		var buf bytes.Buffer
		_, err := svc.DownloadVersion(file.ID, 3, "alice", &buf)
		if !errors.Is(err, depot.ErrNotFound) {
			t.Errorf("DownloadVersion() error = %v, want ErrNotFound", err)
		}
	})
}

func TestService_DownloadLatest(t *testing.T) {
	t.Run("streams current content for the owner", func(t *testing.T) {
		svc, blobs := newTestService(t)
		file := upload(t, svc, blobs, "alice", "notes.txt", "/", "v0")
		upload(t, svc, blobs, "alice", "notes.txt", "/", "v1")

		var buf bytes.Buffer
		if _, err := svc.DownloadLatest(file.ID, "alice", &buf); err != nil {
			t.Fatalf("DownloadLatest() error = %v", err)
		}
		if buf.String() != "v1" {
			t.Errorf("content = %q, want %q", buf.String(), "v1")
		}
	})

	t.Run("read grant allows download", func(t *testing.T) {
		svc, blobs := newTestService(t)
		file := upload(t, svc, blobs, "alice", "notes.txt", "/", "content")
		if _, err := svc.Grant("alice", file.ID, "bob", true, false, false); err != nil {
			t.Fatalf("Grant() error = %v", err)
		}

		var buf bytes.Buffer
		if _, err := svc.DownloadLatest(file.ID, "bob", &buf); err != nil {
			t.Fatalf("DownloadLatest() error = %v", err)
		}
		if buf.String() != "content" {
			t.Errorf("content = %q, want %q", buf.String(), "content")
		}
	})

	t.Run("no grant means denied", func(t *testing.T) {
		svc, blobs := newTestService(t)
		file := upload(t, svc, blobs, "alice", "notes.txt", "/", "content")

		var buf bytes.Buffer
		_, err := svc.DownloadLatest(file.ID, "bob", &buf)
		if !errors.Is(err, depot.ErrPermissionDenied) {
			t.Errorf("DownloadLatest() error = %v, want ErrPermissionDenied", err)
		}
	})

	t.Run("reflects a restore", func(t *testing.T) {
		svc, blobs := newTestService(t)
		file := upload(t, svc, blobs, "alice", "notes.txt", "/", "v0")
		upload(t, svc, blobs, "alice", "notes.txt", "/", "v1")
		if _, err := svc.Restore(file.ID, 0, "alice"); err != nil {
			t.Fatalf("Restore() error = %v", err)
		}

		var buf bytes.Buffer
		if _, err := svc.DownloadLatest(file.ID, "alice", &buf); err != nil {
			t.Fatalf("DownloadLatest() error = %v", err)
		}
		if buf.String() != "v0" {
			t.Errorf("content = %q, want %q", buf.String(), "v0")
		}
	})
}
