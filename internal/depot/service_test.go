package depot_test

import (
	"errors"
	"fmt"
	"testing"

	"depot/internal/database/sqlc"
	"depot/internal/depot"
	"depot/internal/testutil"
)

func newTestService(t *testing.T) (*depot.Service, depot.BlobStore) {
	t.Helper()
	db := testutil.NewTestDatabase(t)
	blobs := testutil.NewTestBlobStore()
	svc := depot.NewService(db, blobs, depot.NewMD5Hasher(blobs),
		depot.NewNopLogger(), testutil.FixedClock(), testutil.NewStubIDGenerator())
	return svc, blobs
}

// upload stores content under a fresh key and registers it.
func upload(t *testing.T, svc *depot.Service, blobs depot.BlobStore, owner, name, virtualPath, content string) *sqlc.File {
	t.Helper()
	key := fmt.Sprintf("%s-%s-%s-%s", owner, name, virtualPath, testutil.MD5Hex([]byte(content)))
	testutil.PutBlob(t, blobs, key, content)

	file, err := svc.Upload(depot.UploadParams{
		OwnerID:      owner,
		OriginalName: name,
		VirtualPath:  virtualPath,
		StorageKey:   key,
		Size:         int64(len(content)),
	})
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	return file
}

func TestService_Upload(t *testing.T) {
	t.Run("creates new file at version zero", func(t *testing.T) {
		svc, blobs := newTestService(t)

		file := upload(t, svc, blobs, "alice", "notes.txt", "/", "hello")

		if file.CurrentVersion != 0 {
			t.Errorf("CurrentVersion = %d, want 0", file.CurrentVersion)
		}
		if want := testutil.MD5Hex([]byte("hello")); file.CurrentHash != want {
			t.Errorf("CurrentHash = %s, want %s", file.CurrentHash, want)
		}
		if file.OwnerID != "alice" {
			t.Errorf("OwnerID = %s, want alice", file.OwnerID)
		}
	})

	t.Run("same name and path appends a version", func(t *testing.T) {
		svc, blobs := newTestService(t)

		first := upload(t, svc, blobs, "alice", "notes.txt", "/", "v0 content")
		second := upload(t, svc, blobs, "alice", "notes.txt", "/", "v1 content")

		if second.ID != first.ID {
			t.Errorf("second upload created a new file (%s != %s)", second.ID, first.ID)
		}
		if second.CurrentVersion != 1 {
			t.Errorf("CurrentVersion = %d, want 1", second.CurrentVersion)
		}
		if want := testutil.MD5Hex([]byte("v1 content")); second.CurrentHash != want {
			t.Errorf("CurrentHash = %s, want %s", second.CurrentHash, want)
		}
	})

	t.Run("same name at different virtual path is a separate file", func(t *testing.T) {
		svc, blobs := newTestService(t)

		a := upload(t, svc, blobs, "alice", "notes.txt", "/", "content")
		b := upload(t, svc, blobs, "alice", "notes.txt", "/work", "content")

		if a.ID == b.ID {
			t.Error("files at different virtual paths should be distinct")
		}
		if b.CurrentVersion != 0 {
			t.Errorf("CurrentVersion = %d, want 0", b.CurrentVersion)
		}
	})

	t.Run("same name for a different owner is a separate file", func(t *testing.T) {
		svc, blobs := newTestService(t)

		a := upload(t, svc, blobs, "alice", "notes.txt", "/", "content")
		b := upload(t, svc, blobs, "bob", "notes.txt", "/", "content")

		if a.ID == b.ID {
			t.Error("files owned by different users should be distinct")
		}
	})

	t.Run("version numbers stay dense across many uploads", func(t *testing.T) {
		svc, blobs := newTestService(t)

		var file *sqlc.File
		for i := 0; i < 5; i++ {
			file = upload(t, svc, blobs, "alice", "notes.txt", "/", fmt.Sprintf("content %d", i))
		}
		if file.CurrentVersion != 4 {
			t.Fatalf("CurrentVersion = %d, want 4", file.CurrentVersion)
		}

		fv, err := svc.ListVersions(file.ID, "alice")
		if err != nil {
			t.Fatalf("ListVersions() error = %v", err)
		}
		if len(fv.Versions) != 5 {
			t.Fatalf("len(Versions) = %d, want 5", len(fv.Versions))
		}
		for i, v := range fv.Versions {
			if v.Version != int64(i) {
				t.Errorf("Versions[%d].Version = %d, want %d", i, v.Version, i)
			}
		}
	})

	t.Run("missing required fields fail validation", func(t *testing.T) {
		svc, _ := newTestService(t)

		cases := []depot.UploadParams{
			{OriginalName: "a.txt", StorageKey: "k"},
			{OwnerID: "alice", StorageKey: "k"},
			{OwnerID: "alice", OriginalName: "a.txt"},
		}
		for _, p := range cases {
			if _, err := svc.Upload(p); !errors.Is(err, depot.ErrValidation) {
				t.Errorf("Upload(%+v) error = %v, want ErrValidation", p, err)
			}
		}
	})

	t.Run("missing blob fails the upload before any record exists", func(t *testing.T) {
		svc, blobs := newTestService(t)

		_, err := svc.Upload(depot.UploadParams{
			OwnerID:      "alice",
			OriginalName: "ghost.txt",
			StorageKey:   "never-stored",
		})
		if !errors.Is(err, depot.ErrUploadFailed) {
			t.Fatalf("Upload() error = %v, want ErrUploadFailed", err)
		}

		// A retry with the blob in place starts cleanly at version zero.
		file := upload(t, svc, blobs, "alice", "ghost.txt", "/", "now present")
		if file.CurrentVersion != 0 {
			t.Errorf("CurrentVersion after retry = %d, want 0", file.CurrentVersion)
		}
	})

	t.Run("empty virtual path defaults to root", func(t *testing.T) {
		svc, blobs := newTestService(t)

		testutil.PutBlob(t, blobs, "key-root", "content")
		file, err := svc.Upload(depot.UploadParams{
			OwnerID:      "alice",
			OriginalName: "notes.txt",
			StorageKey:   "key-root",
		})
		if err != nil {
			t.Fatalf("Upload() error = %v", err)
		}
		if file.VirtualPath != "/" {
			t.Errorf("VirtualPath = %s, want /", file.VirtualPath)
		}
	})

	t.Run("optional attributes persist on create", func(t *testing.T) {
		svc, blobs := newTestService(t)

		testutil.PutBlob(t, blobs, "key-attrs", "content")
		file, err := svc.Upload(depot.UploadParams{
			OwnerID:      "alice",
			OriginalName: "notes.txt",
			StorageKey:   "key-attrs",
			Description:  "meeting notes",
			Size:         7,
			ContentType:  "text/plain",
		})
		if err != nil {
			t.Fatalf("Upload() error = %v", err)
		}
		if !file.Description.Valid || file.Description.String != "meeting notes" {
			t.Errorf("Description = %+v, want meeting notes", file.Description)
		}
		if !file.Size.Valid || file.Size.Int64 != 7 {
			t.Errorf("Size = %+v, want 7", file.Size)
		}
		if !file.ContentType.Valid || file.ContentType.String != "text/plain" {
			t.Errorf("ContentType = %+v, want text/plain", file.ContentType)
		}
	})

	t.Run("append without attributes keeps existing ones", func(t *testing.T) {
		svc, blobs := newTestService(t)

		testutil.PutBlob(t, blobs, "key-a1", "first")
		if _, err := svc.Upload(depot.UploadParams{
			OwnerID:      "alice",
			OriginalName: "notes.txt",
			StorageKey:   "key-a1",
			Description:  "original description",
		}); err != nil {
			t.Fatalf("Upload() error = %v", err)
		}

		testutil.PutBlob(t, blobs, "key-a2", "second")
		updated, err := svc.Upload(depot.UploadParams{
			OwnerID:      "alice",
			OriginalName: "notes.txt",
			StorageKey:   "key-a2",
		})
		if err != nil {
			t.Fatalf("Upload() error = %v", err)
		}
		if !updated.Description.Valid || updated.Description.String != "original description" {
			t.Errorf("Description = %+v, want original description", updated.Description)
		}
	})
}

func TestService_Get(t *testing.T) {
	t.Run("owner reads own file", func(t *testing.T) {
		svc, blobs := newTestService(t)
		file := upload(t, svc, blobs, "alice", "notes.txt", "/", "content")

		got, err := svc.Get(file.ID, "alice")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got.ID != file.ID {
			t.Errorf("Get() ID = %s, want %s", got.ID, file.ID)
		}
	})

	t.Run("unknown file is not found", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.Get("missing", "alice")
		if !errors.Is(err, depot.ErrNotFound) {
			t.Errorf("Get() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("non-owner without grant is denied", func(t *testing.T) {
		svc, blobs := newTestService(t)
		file := upload(t, svc, blobs, "alice", "notes.txt", "/", "content")

		_, err := svc.Get(file.ID, "bob")
		if !errors.Is(err, depot.ErrPermissionDenied) {
			t.Errorf("Get() error = %v, want ErrPermissionDenied", err)
		}
	})

	t.Run("non-owner with read grant succeeds", func(t *testing.T) {
		svc, blobs := newTestService(t)
		file := upload(t, svc, blobs, "alice", "notes.txt", "/", "content")

		if _, err := svc.Grant("alice", file.ID, "bob", true, false, false); err != nil {
			t.Fatalf("Grant() error = %v", err)
		}

		if _, err := svc.Get(file.ID, "bob"); err != nil {
			t.Errorf("Get() error = %v", err)
		}
	})
}

func TestService_ListForUser(t *testing.T) {
	t.Run("lists only own files in insertion order", func(t *testing.T) {
		svc, blobs := newTestService(t)
		upload(t, svc, blobs, "alice", "a.txt", "/", "aaa")
		upload(t, svc, blobs, "alice", "b.txt", "/", "bbb")
		shared := upload(t, svc, blobs, "bob", "c.txt", "/", "ccc")
		if _, err := svc.Grant("bob", shared.ID, "alice", true, false, false); err != nil {
			t.Fatalf("Grant() error = %v", err)
		}

		files, err := svc.ListForUser("alice")
		if err != nil {
			t.Fatalf("ListForUser() error = %v", err)
		}
		if len(files) != 2 {
			t.Fatalf("len(files) = %d, want 2", len(files))
		}
		if files[0].OriginalName != "a.txt" || files[1].OriginalName != "b.txt" {
			t.Errorf("files out of order: %s, %s", files[0].OriginalName, files[1].OriginalName)
		}
	})

	t.Run("empty list for user with no files", func(t *testing.T) {
		svc, _ := newTestService(t)

		files, err := svc.ListForUser("nobody")
		if err != nil {
			t.Fatalf("ListForUser() error = %v", err)
		}
		if len(files) != 0 {
			t.Errorf("len(files) = %d, want 0", len(files))
		}
	})
}

func TestService_UpdateDescription(t *testing.T) {
	t.Run("owner updates description", func(t *testing.T) {
		svc, blobs := newTestService(t)
		file := upload(t, svc, blobs, "alice", "notes.txt", "/", "content")

		updated, err := svc.UpdateDescription(file.ID, "alice", "new words")
		if err != nil {
			t.Fatalf("UpdateDescription() error = %v", err)
		}
		if !updated.Description.Valid || updated.Description.String != "new words" {
			t.Errorf("Description = %+v, want new words", updated.Description)
		}
	})

	t.Run("non-owner is denied", func(t *testing.T) {
		svc, blobs := newTestService(t)
		file := upload(t, svc, blobs, "alice", "notes.txt", "/", "content")

		_, err := svc.UpdateDescription(file.ID, "bob", "sneaky")
		if !errors.Is(err, depot.ErrPermissionDenied) {
			t.Errorf("UpdateDescription() error = %v, want ErrPermissionDenied", err)
		}
	})

	t.Run("unknown file is not found", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.UpdateDescription("missing", "alice", "words")
		if !errors.Is(err, depot.ErrNotFound) {
			t.Errorf("UpdateDescription() error = %v, want ErrNotFound", err)
		}
	})
}

func TestService_Delete(t *testing.T) {
	t.Run("removes file, versions, and blobs", func(t *testing.T) {
		svc, blobs := newTestService(t)
		file := upload(t, svc, blobs, "alice", "notes.txt", "/", "v0")
		upload(t, svc, blobs, "alice", "notes.txt", "/", "v1")

		if err := svc.Delete(file.ID, "alice"); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}

		if _, err := svc.Get(file.ID, "alice"); !errors.Is(err, depot.ErrNotFound) {
			t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
		}
		if exists, _ := blobs.Exists(file.CurrentStorageKey); exists {
			t.Error("version zero blob still present after delete")
		}
	})

	t.Run("non-owner cannot delete even with delete grant", func(t *testing.T) {
		// A delete grant governs capability checks, but the delete operation
		// itself is owner-only.
		svc, blobs := newTestService(t)
		file := upload(t, svc, blobs, "alice", "notes.txt", "/", "content")
		if _, err := svc.Grant("alice", file.ID, "bob", false, false, true); err != nil {
			t.Fatalf("Grant() error = %v", err)
		}

		err := svc.Delete(file.ID, "bob")
		if !errors.Is(err, depot.ErrPermissionDenied) {
			t.Errorf("Delete() error = %v, want ErrPermissionDenied", err)
		}
	})

	t.Run("unknown file is not found", func(t *testing.T) {
		svc, _ := newTestService(t)

		err := svc.Delete("missing", "alice")
		if !errors.Is(err, depot.ErrNotFound) {
			t.Errorf("Delete() error = %v, want ErrNotFound", err)
		}
	})
}
