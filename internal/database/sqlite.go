package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"depot/internal/database/migrations"
	"depot/internal/database/sqlc"
	"depot/internal/depot"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteDatabase implements the Database interface using SQLite.
type SQLiteDatabase struct {
	db      *sql.DB
	queries *sqlc.Queries
	path    string
}

// NewSQLiteDatabase creates a new SQLite database connection.
// path can be a file path or ":memory:" for an in-memory database.
func NewSQLiteDatabase(path string) (*SQLiteDatabase, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	return &SQLiteDatabase{
		db:      db,
		queries: sqlc.New(db),
		path:    path,
	}, nil
}

// NewSQLiteDatabaseFromDB wraps an existing database connection.
// The caller is responsible for ensuring the connection is properly configured.
func NewSQLiteDatabaseFromDB(db *sql.DB) *SQLiteDatabase {
	return &SQLiteDatabase{
		db:      db,
		queries: sqlc.New(db),
		path:    "",
	}
}

// OpenConnection opens and configures a SQLite database connection with appropriate PRAGMAs.
// This is exported for use in tools and tests that need a properly configured SQLite connection.
// path can be a file path or ":memory:" for an in-memory database.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign key constraints so file deletion cascades to versions,
	// permissions, and metadata (SQLite default is OFF for backward compatibility).
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Wait for writer locks instead of failing immediately under concurrent requests.
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return db, nil
}

// File registry operations

func (s *SQLiteDatabase) FindFileByOwnerNamePath(ownerID, originalName, virtualPath string) (*sqlc.File, error) {
	file, err := s.queries.GetFileByOwnerNameAndPath(context.Background(), sqlc.GetFileByOwnerNameAndPathParams{
		OwnerID:      ownerID,
		OriginalName: originalName,
		VirtualPath:  virtualPath,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("finding file by owner/name/path: %w", err)
	}
	return &file, nil
}

func (s *SQLiteDatabase) FindFileByID(id string) (*sqlc.File, error) {
	file, err := s.queries.GetFileByID(context.Background(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("finding file by id: %w", err)
	}
	return &file, nil
}

func (s *SQLiteDatabase) ListFilesByOwner(ownerID string) ([]sqlc.GetFilesByOwnerIDRow, error) {
	files, err := s.queries.GetFilesByOwnerID(context.Background(), ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing files by owner: %w", err)
	}
	return files, nil
}

// CreateFileWithInitialVersion atomically creates the file record and its
// version-0 record in a single transaction. Neither row is visible to readers
// unless both inserts succeed.
func (s *SQLiteDatabase) CreateFileWithInitialVersion(file *sqlc.File, version *sqlc.FileVersion) error {
	ctx := context.Background()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := s.queries.WithTx(tx)

	created, err := qtx.InsertFile(ctx, sqlc.InsertFileParams{
		ID:                file.ID,
		OwnerID:           file.OwnerID,
		OriginalName:      file.OriginalName,
		VirtualPath:       file.VirtualPath,
		CurrentHash:       file.CurrentHash,
		CurrentVersion:    file.CurrentVersion,
		CurrentStorageKey: file.CurrentStorageKey,
		Description:       file.Description,
		Size:              file.Size,
		ContentType:       file.ContentType,
		CreatedAt:         file.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("inserting file: %w", err)
	}

	createdVersion, err := qtx.InsertFileVersion(ctx, sqlc.InsertFileVersionParams{
		ID:         version.ID,
		FileID:     created.ID,
		Version:    0,
		StorageKey: version.StorageKey,
		Hash:       version.Hash,
		CreatedAt:  version.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("inserting initial version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	*file = created
	*version = createdVersion
	return nil
}

// AppendFileVersion assigns the next version number and records it in a single
// transaction:
//  1. The new version number is the count of existing version records.
//  2. The version record is inserted at that number.
//  3. The file's current hash/version/storage-key pointer is updated, along
//     with any optional attribute changes.
//
// Counting and inserting inside one transaction closes the race between
// concurrent uploads to the same file: SQLite serializes writers, so two
// appends cannot observe the same count.
func (s *SQLiteDatabase) AppendFileVersion(fileID string, version *sqlc.FileVersion, updates depot.FileUpdates) (*sqlc.File, error) {
	ctx := context.Background()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := s.queries.WithTx(tx)

	count, err := qtx.CountFileVersions(ctx, fileID)
	if err != nil {
		return nil, fmt.Errorf("counting versions: %w", err)
	}

	created, err := qtx.InsertFileVersion(ctx, sqlc.InsertFileVersionParams{
		ID:         version.ID,
		FileID:     fileID,
		Version:    count,
		StorageKey: version.StorageKey,
		Hash:       version.Hash,
		CreatedAt:  version.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("inserting version: %w", err)
	}

	err = qtx.UpdateFileCurrentVersion(ctx, sqlc.UpdateFileCurrentVersionParams{
		CurrentHash:       created.Hash,
		CurrentVersion:    created.Version,
		CurrentStorageKey: created.StorageKey,
		ID:                fileID,
	})
	if err != nil {
		return nil, fmt.Errorf("updating current version: %w", err)
	}

	if updates.Description.Valid || updates.Size.Valid || updates.ContentType.Valid {
		err = qtx.UpdateFileAttributes(ctx, sqlc.UpdateFileAttributesParams{
			Description: updates.Description,
			Size:        updates.Size,
			ContentType: updates.ContentType,
			ID:          fileID,
		})
		if err != nil {
			return nil, fmt.Errorf("updating attributes: %w", err)
		}
	}

	file, err := qtx.GetFileByID(ctx, fileID)
	if err != nil {
		return nil, fmt.Errorf("reloading file: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	*version = created
	return &file, nil
}

func (s *SQLiteDatabase) UpdateFileDescription(fileID, description string) (*sqlc.File, error) {
	file, err := s.queries.UpdateFileDescription(context.Background(), sqlc.UpdateFileDescriptionParams{
		Description: sql.NullString{String: description, Valid: true},
		ID:          fileID,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("updating file description: %w", err)
	}
	return &file, nil
}

func (s *SQLiteDatabase) UpdateFileCurrentVersion(fileID, hash string, version int64, storageKey string) error {
	err := s.queries.UpdateFileCurrentVersion(context.Background(), sqlc.UpdateFileCurrentVersionParams{
		CurrentHash:       hash,
		CurrentVersion:    version,
		CurrentStorageKey: storageKey,
		ID:                fileID,
	})
	if err != nil {
		return fmt.Errorf("updating current version: %w", err)
	}
	return nil
}

// DeleteFile removes the file row. Version, permission, and metadata rows go
// with it through ON DELETE CASCADE, so the removal is atomic.
func (s *SQLiteDatabase) DeleteFile(fileID string) error {
	if err := s.queries.DeleteFileByID(context.Background(), fileID); err != nil {
		return fmt.Errorf("deleting file: %w", err)
	}
	return nil
}

// Version operations

func (s *SQLiteDatabase) ListFileVersions(fileID string) ([]*sqlc.FileVersion, error) {
	versions, err := s.queries.GetFileVersionsByFileID(context.Background(), fileID)
	if err != nil {
		return nil, fmt.Errorf("listing file versions: %w", err)
	}

	result := make([]*sqlc.FileVersion, len(versions))
	for i := range versions {
		result[i] = &versions[i]
	}
	return result, nil
}

func (s *SQLiteDatabase) FindFileVersion(fileID string, version int64) (*sqlc.FileVersion, error) {
	v, err := s.queries.GetFileVersionByFileAndVersion(context.Background(), sqlc.GetFileVersionByFileAndVersionParams{
		FileID:  fileID,
		Version: version,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("finding file version: %w", err)
	}
	return &v, nil
}

// Permission operations

func (s *SQLiteDatabase) FindPermission(fileID, userID string) (*sqlc.FilePermission, error) {
	grant, err := s.queries.GetPermissionByFileAndUser(context.Background(), sqlc.GetPermissionByFileAndUserParams{
		FileID: fileID,
		UserID: userID,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("finding permission: %w", err)
	}
	return &grant, nil
}

func (s *SQLiteDatabase) UpsertPermission(fileID, userID string, canRead, canWrite, canDelete bool) (*sqlc.FilePermission, error) {
	grant, err := s.queries.UpsertPermission(context.Background(), sqlc.UpsertPermissionParams{
		FileID:    fileID,
		UserID:    userID,
		CanRead:   canRead,
		CanWrite:  canWrite,
		CanDelete: canDelete,
	})
	if err != nil {
		return nil, fmt.Errorf("upserting permission: %w", err)
	}
	return &grant, nil
}

// Metadata operations

func (s *SQLiteDatabase) ListMetadata(fileID string) ([]*sqlc.MetadataEntry, error) {
	entries, err := s.queries.GetMetadataByFileID(context.Background(), fileID)
	if err != nil {
		return nil, fmt.Errorf("listing metadata: %w", err)
	}

	result := make([]*sqlc.MetadataEntry, len(entries))
	for i := range entries {
		result[i] = &entries[i]
	}
	return result, nil
}

func (s *SQLiteDatabase) FindMetadata(fileID, key string) (*sqlc.MetadataEntry, error) {
	entry, err := s.queries.GetMetadataEntry(context.Background(), sqlc.GetMetadataEntryParams{
		FileID: fileID,
		Key:    key,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("finding metadata entry: %w", err)
	}
	return &entry, nil
}

func (s *SQLiteDatabase) UpsertMetadata(fileID, key, value string) (*sqlc.MetadataEntry, error) {
	entry, err := s.queries.UpsertMetadataEntry(context.Background(), sqlc.UpsertMetadataEntryParams{
		FileID: fileID,
		Key:    key,
		Value:  value,
	})
	if err != nil {
		return nil, fmt.Errorf("upserting metadata entry: %w", err)
	}
	return &entry, nil
}

func (s *SQLiteDatabase) DeleteMetadata(fileID, key string) error {
	err := s.queries.DeleteMetadataEntry(context.Background(), sqlc.DeleteMetadataEntryParams{
		FileID: fileID,
		Key:    key,
	})
	if err != nil {
		return fmt.Errorf("deleting metadata entry: %w", err)
	}
	return nil
}

// Duplicate index and search

func (s *SQLiteDatabase) ListFilesByOwnerOrderedByHash(ownerID string) ([]sqlc.File, error) {
	files, err := s.queries.GetFilesByOwnerOrderedByHash(context.Background(), ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing files by hash: %w", err)
	}
	return files, nil
}

func (s *SQLiteDatabase) ListFilesByOwnerAndHash(ownerID, hash, excludeID string) ([]sqlc.File, error) {
	files, err := s.queries.GetFilesByOwnerAndHash(context.Background(), sqlc.GetFilesByOwnerAndHashParams{
		OwnerID:     ownerID,
		CurrentHash: hash,
		ID:          excludeID,
	})
	if err != nil {
		return nil, fmt.Errorf("listing files by hash: %w", err)
	}
	return files, nil
}

func (s *SQLiteDatabase) SearchFiles(arg sqlc.SearchFilesParams) ([]sqlc.File, error) {
	files, err := s.queries.SearchFiles(context.Background(), arg)
	if err != nil {
		return nil, fmt.Errorf("searching files: %w", err)
	}
	return files, nil
}

// Operation audit log

func (s *SQLiteDatabase) CreateOperation(operation, parameters string) (*sqlc.Operation, error) {
	op, err := s.queries.InsertOperation(context.Background(), sqlc.InsertOperationParams{
		StartedAt:  time.Now(),
		Operation:  operation,
		Parameters: parameters,
	})
	if err != nil {
		return nil, fmt.Errorf("creating operation: %w", err)
	}
	return &op, nil
}

func (s *SQLiteDatabase) FinishOperation(id int64, status string) error {
	err := s.queries.UpdateOperationFinished(context.Background(), sqlc.UpdateOperationFinishedParams{
		FinishedAt: sql.NullTime{Time: time.Now(), Valid: true},
		Status:     status,
		ID:         id,
	})
	if err != nil {
		return fmt.Errorf("finishing operation: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) ListOperations(limit int) ([]*sqlc.Operation, error) {
	ops, err := s.queries.GetOperations(context.Background(), int64(limit))
	if err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}

	result := make([]*sqlc.Operation, len(ops))
	for i := range ops {
		result[i] = &ops[i]
	}
	return result, nil
}

// Path returns the database file path (or ":memory:" for in-memory databases).
func (s *SQLiteDatabase) Path() string {
	return s.path
}

// CheckMigrations verifies the database schema is up-to-date.
func (s *SQLiteDatabase) CheckMigrations() error {
	return migrations.CheckDBMigrationStatus(s.db)
}

// Close closes the database connection.
func (s *SQLiteDatabase) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Compile-time check that SQLiteDatabase implements the depot.Database interface
var _ depot.Database = (*SQLiteDatabase)(nil)
