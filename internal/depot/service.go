package depot

import (
	"database/sql"
	"fmt"

	"depot/internal/database/sqlc"
)

// Service is the orchestration layer for the file registry, version store,
// permission ledger, and duplicate index. Every request-facing operation takes
// the verified identity of the caller; credential validation happens upstream.
type Service struct {
	database Database
	blobs    BlobStore
	hasher   Hasher
	logger   Logger
	clock    Clock
	idgen    IDGenerator
}

// NewService creates a Service with the provided dependencies.
func NewService(database Database, blobs BlobStore, hasher Hasher, logger Logger, clock Clock, idgen IDGenerator) *Service {
	return &Service{
		database: database,
		blobs:    blobs,
		hasher:   hasher,
		logger:   logger,
		clock:    clock,
		idgen:    idgen,
	}
}

// UploadParams describes one upload request. The blob has already been fully
// stored under StorageKey; Description, Size, and ContentType are optional
// (zero values leave existing attributes untouched on a version append).
type UploadParams struct {
	OwnerID      string
	OriginalName string
	VirtualPath  string // defaults to "/"
	StorageKey   string
	Description  string
	Size         int64
	ContentType  string
}

// Upload resolves whether the request is a new logical file or a new version
// of an existing one, keyed by the unique (owner, name, virtual path) triple.
//
// New file: the file record and its version-0 record are created atomically.
// Existing file: the next version number is the count of existing version
// records; the version record is appended and the file's current pointer
// fields are updated in one transaction. Prior versions are never touched.
//
// The content hash is computed exactly once per upload, over the newly stored
// blob only. A hashing failure aborts before any database mutation.
func (s *Service) Upload(p UploadParams) (*sqlc.File, error) {
	if p.OwnerID == "" || p.OriginalName == "" || p.StorageKey == "" {
		return nil, fmt.Errorf("%w: ownerId, originalName, and storageKey are required", ErrValidation)
	}
	if p.VirtualPath == "" {
		p.VirtualPath = "/"
	}

	existing, err := s.database.FindFileByOwnerNamePath(p.OwnerID, p.OriginalName, p.VirtualPath)
	if err != nil {
		return nil, fmt.Errorf("looking up file: %w", err)
	}

	hash, err := s.hasher.Hash(p.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("%w: computing content hash: %w", ErrUploadFailed, err)
	}

	now := s.clock.Now()

	if existing == nil {
		file := &sqlc.File{
			ID:                s.idgen.New(),
			OwnerID:           p.OwnerID,
			OriginalName:      p.OriginalName,
			VirtualPath:       p.VirtualPath,
			CurrentHash:       hash,
			CurrentVersion:    0,
			CurrentStorageKey: p.StorageKey,
			Description:       optionalString(p.Description),
			Size:              optionalInt64(p.Size),
			ContentType:       optionalString(p.ContentType),
			CreatedAt:         now,
		}
		version := &sqlc.FileVersion{
			ID:         s.idgen.New(),
			FileID:     file.ID,
			Version:    0,
			StorageKey: p.StorageKey,
			Hash:       hash,
			CreatedAt:  now,
		}
		if err := s.database.CreateFileWithInitialVersion(file, version); err != nil {
			return nil, fmt.Errorf("%w: creating file: %w", ErrUploadFailed, err)
		}
		s.logger.Info("file created", "file", file.ID, "owner", p.OwnerID, "hash", hash)
		return file, nil
	}

	version := &sqlc.FileVersion{
		ID:         s.idgen.New(),
		FileID:     existing.ID,
		StorageKey: p.StorageKey,
		Hash:       hash,
		CreatedAt:  now,
	}
	updates := FileUpdates{
		Description: optionalString(p.Description),
		Size:        optionalInt64(p.Size),
		ContentType: optionalString(p.ContentType),
	}
	updated, err := s.database.AppendFileVersion(existing.ID, version, updates)
	if err != nil {
		return nil, fmt.Errorf("%w: appending version: %w", ErrUploadFailed, err)
	}
	s.logger.Info("version appended", "file", updated.ID, "version", updated.CurrentVersion, "hash", hash)
	return updated, nil
}

// Get returns file metadata without blob bytes. Non-owners need a read grant.
func (s *Service) Get(fileID, requesterID string) (*sqlc.File, error) {
	file, err := s.database.FindFileByID(fileID)
	if err != nil {
		return nil, fmt.Errorf("finding file: %w", err)
	}
	if file == nil {
		return nil, fmt.Errorf("%w: file %s", ErrNotFound, fileID)
	}

	if file.OwnerID != requesterID {
		ok, err := s.Check(requesterID, fileID, CapabilityRead)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: no read access to file %s", ErrPermissionDenied, fileID)
		}
	}

	return file, nil
}

// ListForUser returns an id/name/storage-key projection of the user's own
// files in insertion order. Files merely granted to the user are not listed.
func (s *Service) ListForUser(ownerID string) ([]sqlc.GetFilesByOwnerIDRow, error) {
	files, err := s.database.ListFilesByOwner(ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}
	return files, nil
}

// UpdateDescription sets the file's description. Owner only.
func (s *Service) UpdateDescription(fileID, requesterID, description string) (*sqlc.File, error) {
	file, err := s.database.FindFileByID(fileID)
	if err != nil {
		return nil, fmt.Errorf("finding file: %w", err)
	}
	if file == nil {
		return nil, fmt.Errorf("%w: file %s", ErrNotFound, fileID)
	}
	if file.OwnerID != requesterID {
		return nil, fmt.Errorf("%w: only the owner can update the description", ErrPermissionDenied)
	}

	updated, err := s.database.UpdateFileDescription(fileID, description)
	if err != nil {
		return nil, fmt.Errorf("updating description: %w", err)
	}
	return updated, nil
}

// Delete removes the file with all its versions, grants, and metadata as one
// database transaction, then reclaims the backing blobs best-effort. Blob
// removal failures are logged and swallowed; the records are already gone.
func (s *Service) Delete(fileID, requesterID string) error {
	file, err := s.database.FindFileByID(fileID)
	if err != nil {
		return fmt.Errorf("finding file: %w", err)
	}
	if file == nil {
		return fmt.Errorf("%w: file %s", ErrNotFound, fileID)
	}
	if file.OwnerID != requesterID {
		return fmt.Errorf("%w: only the owner can delete file %s", ErrPermissionDenied, fileID)
	}

	versions, err := s.database.ListFileVersions(fileID)
	if err != nil {
		return fmt.Errorf("listing versions: %w", err)
	}

	if err := s.database.DeleteFile(fileID); err != nil {
		return fmt.Errorf("deleting file: %w", err)
	}

	for _, v := range versions {
		if err := s.blobs.Remove(v.StorageKey); err != nil {
			s.logger.Warn("blob reclamation failed", "file", fileID, "key", v.StorageKey, "error", err)
		}
	}

	s.logger.Info("file deleted", "file", fileID, "versions", len(versions))
	return nil
}

// optionalString maps the empty string to a NULL value.
func optionalString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// optionalInt64 maps zero to a NULL value.
func optionalInt64(n int64) sql.NullInt64 {
	if n == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: n, Valid: true}
}
