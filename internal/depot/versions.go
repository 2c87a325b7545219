package depot

import (
	"fmt"
	"io"

	"depot/internal/database/sqlc"
)

// FileWithVersions pairs a file with its full ordered version history.
type FileWithVersions struct {
	File     *sqlc.File
	Versions []*sqlc.FileVersion
}

// ListVersions returns the file and its versions ordered ascending.
// Owner only; read grants do not extend to version history.
func (s *Service) ListVersions(fileID, requesterID string) (*FileWithVersions, error) {
	file, err := s.ownedFile(fileID, requesterID)
	if err != nil {
		return nil, err
	}

	versions, err := s.database.ListFileVersions(fileID)
	if err != nil {
		return nil, fmt.Errorf("listing versions: %w", err)
	}

	return &FileWithVersions{File: file, Versions: versions}, nil
}

// Restore rewinds the file's current pointer to the given version. Versions
// newer than the target stay in history, so a later restore can move forward
// again. Owner only, resolved through the file relation.
func (s *Service) Restore(fileID string, versionNumber int64, requesterID string) (*sqlc.FileVersion, error) {
	if _, err := s.ownedFile(fileID, requesterID); err != nil {
		return nil, err
	}

	version, err := s.database.FindFileVersion(fileID, versionNumber)
	if err != nil {
		return nil, fmt.Errorf("finding version: %w", err)
	}
	if version == nil {
		return nil, fmt.Errorf("%w: version %d of file %s", ErrNotFound, versionNumber, fileID)
	}

	if err := s.database.UpdateFileCurrentVersion(fileID, version.Hash, version.Version, version.StorageKey); err != nil {
		return nil, fmt.Errorf("restoring version: %w", err)
	}

	s.logger.Info("version restored", "file", fileID, "version", versionNumber)
	return version, nil
}

// DownloadVersion streams the blob of one specific version to w and returns
// the version record, whose storage key names the download. The current
// pointer is irrelevant here. Owner only, resolved through the file relation;
// grantees must use DownloadLatest.
func (s *Service) DownloadVersion(fileID string, versionNumber int64, requesterID string, w io.Writer) (*sqlc.FileVersion, error) {
	if _, err := s.ownedFile(fileID, requesterID); err != nil {
		return nil, err
	}

	version, err := s.database.FindFileVersion(fileID, versionNumber)
	if err != nil {
		return nil, fmt.Errorf("finding version: %w", err)
	}
	if version == nil {
		return nil, fmt.Errorf("%w: version %d of file %s", ErrNotFound, versionNumber, fileID)
	}

	if err := s.blobs.Get(version.StorageKey, w); err != nil {
		return nil, fmt.Errorf("%w: streaming blob %s: %w", ErrIO, version.StorageKey, err)
	}

	return version, nil
}

// DownloadLatest streams the blob at the file's current storage key to w.
// Allowed for the owner or any user holding a read grant.
func (s *Service) DownloadLatest(fileID, requesterID string, w io.Writer) (*sqlc.File, error) {
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

	if err := s.blobs.Get(file.CurrentStorageKey, w); err != nil {
		return nil, fmt.Errorf("%w: streaming blob %s: %w", ErrIO, file.CurrentStorageKey, err)
	}

	return file, nil
}

// ownedFile loads a file and enforces that requesterID is its owner.
func (s *Service) ownedFile(fileID, requesterID string) (*sqlc.File, error) {
	file, err := s.database.FindFileByID(fileID)
	if err != nil {
		return nil, fmt.Errorf("finding file: %w", err)
	}
	if file == nil {
		return nil, fmt.Errorf("%w: file %s", ErrNotFound, fileID)
	}
	if file.OwnerID != requesterID {
		return nil, fmt.Errorf("%w: file %s is not owned by requester", ErrPermissionDenied, fileID)
	}
	return file, nil
}
