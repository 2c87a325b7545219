package depot

import (
	"database/sql"

	"depot/internal/database/sqlc"
)

// FileUpdates carries the optional mutable attributes an upload may set on an
// existing file. Invalid fields leave the stored value untouched.
type FileUpdates struct {
	Description sql.NullString
	Size        sql.NullInt64
	ContentType sql.NullString
}

// Database provides an interface for metadata storage operations.
// All methods should be implemented with appropriate transaction handling.
type Database interface {
	// File registry operations

	// FindFileByOwnerNamePath returns the file matching the unique
	// (owner, original name, virtual path) triple, or nil if none exists.
	FindFileByOwnerNamePath(ownerID, originalName, virtualPath string) (*sqlc.File, error)

	// FindFileByID returns a file by its id, or nil if none exists.
	FindFileByID(id string) (*sqlc.File, error)

	// ListFilesByOwner returns an id/name/storage-key projection of all files
	// owned by ownerID, in insertion order.
	ListFilesByOwner(ownerID string) ([]sqlc.GetFilesByOwnerIDRow, error)

	// CreateFileWithInitialVersion atomically creates a file record and its
	// version-0 record as a single transaction.
	CreateFileWithInitialVersion(file *sqlc.File, version *sqlc.FileVersion) error

	// AppendFileVersion assigns the next version number (the count of existing
	// version records), inserts the version record, and updates the file's
	// current hash/version/storage-key pointer fields, all in one transaction.
	// updates applies optional attribute changes in the same transaction.
	// Returns the freshly updated file.
	AppendFileVersion(fileID string, version *sqlc.FileVersion, updates FileUpdates) (*sqlc.File, error)

	// UpdateFileDescription sets the description and returns the updated file.
	UpdateFileDescription(fileID, description string) (*sqlc.File, error)

	// UpdateFileCurrentVersion rewinds the file's current pointer fields.
	// Version history is never touched.
	UpdateFileCurrentVersion(fileID, hash string, version int64, storageKey string) error

	// DeleteFile removes the file row; version, permission, and metadata rows
	// are removed by cascade in the same transaction.
	DeleteFile(fileID string) error

	// Version operations

	// ListFileVersions returns all versions of a file, ordered by version ascending.
	ListFileVersions(fileID string) ([]*sqlc.FileVersion, error)

	// FindFileVersion returns the version record for (fileID, version),
	// or nil if none exists.
	FindFileVersion(fileID string, version int64) (*sqlc.FileVersion, error)

	// Permission operations

	// FindPermission returns the single grant row for (fileID, userID),
	// or nil if none exists.
	FindPermission(fileID, userID string) (*sqlc.FilePermission, error)

	// UpsertPermission creates the grant row or fully replaces all three
	// capability flags if it already exists.
	UpsertPermission(fileID, userID string, canRead, canWrite, canDelete bool) (*sqlc.FilePermission, error)

	// Metadata operations

	ListMetadata(fileID string) ([]*sqlc.MetadataEntry, error)
	FindMetadata(fileID, key string) (*sqlc.MetadataEntry, error)
	UpsertMetadata(fileID, key, value string) (*sqlc.MetadataEntry, error)
	DeleteMetadata(fileID, key string) error

	// Duplicate index and search

	// ListFilesByOwnerOrderedByHash returns all of an owner's files ordered by
	// current hash ascending, then insertion order.
	ListFilesByOwnerOrderedByHash(ownerID string) ([]sqlc.File, error)

	// ListFilesByOwnerAndHash returns the owner's files sharing the given
	// current hash, excluding excludeID, in insertion order.
	ListFilesByOwnerAndHash(ownerID, hash, excludeID string) ([]sqlc.File, error)

	// SearchFiles returns the owner's files matching all supplied filters.
	SearchFiles(arg sqlc.SearchFilesParams) ([]sqlc.File, error)

	// Operation audit log

	CreateOperation(operation, parameters string) (*sqlc.Operation, error)
	FinishOperation(id int64, status string) error
	ListOperations(limit int) ([]*sqlc.Operation, error)

	// CheckMigrations verifies the database schema is up-to-date.
	CheckMigrations() error

	// Close closes the database connection.
	Close() error
}
