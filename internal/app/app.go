package app

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"depot/internal/blob"
	"depot/internal/config"
	"depot/internal/database"
	"depot/internal/database/sqlc"
	"depot/internal/depot"
	"depot/internal/encryption"
)

// DepotApp is the application layer between the CLI and the Service.
// It constructs all dependencies from config, exposes high-level operations
// that accept raw local paths, and manages the DB lifecycle on Close.
type DepotApp struct {
	cfg       *config.Config
	db        depot.Database
	blobs     depot.BlobStore
	encrypted *blob.EncryptedStore // nil when encryption is disabled
	encryptor depot.Encryptor
	service   *depot.Service
	op        *Operation
	logFile   *os.File
}

// NewDepotApp creates a fully wired DepotApp from the given config.
// operation identifies the CLI command being run (e.g. "Upload", "Restore").
// The caller must call Close when done.
func NewDepotApp(cfg *config.Config, operation string) (*DepotApp, error) {
	blobs, err := blob.NewStoreFromConfig(cfg.Blob)
	if err != nil {
		return nil, fmt.Errorf("creating blob store: %w", err)
	}

	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		return nil, fmt.Errorf("creating encryptor: %w", err)
	}

	var encrypted *blob.EncryptedStore
	if cfg.Encryption.Enabled {
		encrypted = blob.NewEncryptedStore(blobs, enc)
		blobs = encrypted
	}

	db, err := database.NewDatabaseFromConfig(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("creating database: %w", err)
	}

	if err := db.CheckMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database schema out of date: %w", err)
	}

	opID := time.Now().UTC().Format("20060102T150405Z")
	logger, logFile, err := newLogger(cfg.LogDir, opID)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	svc := depot.NewService(db, blobs, depot.NewMD5Hasher(blobs),
		&slogAdapter{l: logger}, depot.RealClock{}, depot.UUIDGenerator{})
	op := NewOperation(operation, "")

	return &DepotApp{
		cfg:       cfg,
		db:        db,
		blobs:     blobs,
		encrypted: encrypted,
		encryptor: enc,
		service:   svc,
		op:        op,
		logFile:   logFile,
	}, nil
}

// Unlock enables reads from an encrypted blob store. A passphrase is required
// for every command that hashes or downloads content when encryption is on.
func (a *DepotApp) Unlock(passphrase string) error {
	if a.encrypted == nil {
		return nil
	}
	return a.encrypted.Unlock(passphrase)
}

// SetupEncryption generates key material protected by the passphrase.
func (a *DepotApp) SetupEncryption(passphrase string) error {
	return a.encryptor.Setup(passphrase)
}

// EncryptionEnabled reports whether the blob store is wrapped with encryption.
func (a *DepotApp) EncryptionEnabled() bool {
	return a.encrypted != nil
}

// EncryptionConfigured reports whether encryption key material is present.
func (a *DepotApp) EncryptionConfigured() bool {
	return a.encryptor.IsConfigured()
}

// persistOperation saves the operation to the database, giving it an auto-increment ID.
// This should only be called for DB-mutating commands.
func (a *DepotApp) persistOperation() error {
	if a.op.Persisted() {
		return nil // already persisted
	}
	dbOp, err := a.db.CreateOperation(a.op.Operation, a.op.Parameters)
	if err != nil {
		return fmt.Errorf("persisting operation: %w", err)
	}
	a.op.ID = dbOp.ID
	return nil
}

// SetError marks the current operation as failed.
func (a *DepotApp) SetError() {
	a.op.Status = "error"
}

// Upload stores a local file's content in the blob store under a fresh storage
// key and registers it (or a new version of it) for the given user. The
// storage key is a random UUID carrying the original file extension.
func (a *DepotApp) Upload(userID, localPath, virtualPath, description string) (*sqlc.File, error) {
	if err := a.persistOperation(); err != nil {
		return nil, err
	}

	f, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", localPath)
	}

	name := filepath.Base(localPath)
	ext := filepath.Ext(name)
	storageKey := uuid.New().String() + ext

	if _, err := a.blobs.Put(storageKey, f); err != nil {
		return nil, fmt.Errorf("storing blob: %w", err)
	}

	file, err := a.service.Upload(depot.UploadParams{
		OwnerID:      userID,
		OriginalName: name,
		VirtualPath:  virtualPath,
		StorageKey:   storageKey,
		Description:  description,
		Size:         info.Size(),
		ContentType:  mime.TypeByExtension(ext),
	})
	if err != nil {
		// The registry was not updated; reclaim the orphaned blob.
		a.blobs.Remove(storageKey)
		return nil, err
	}

	return file, nil
}

// List returns the user's files.
func (a *DepotApp) List(userID string) ([]sqlc.GetFilesByOwnerIDRow, error) {
	return a.service.ListForUser(userID)
}

// Info returns one file's metadata, including its key/value entries.
func (a *DepotApp) Info(fileID, userID string) (*sqlc.File, []*sqlc.MetadataEntry, error) {
	file, err := a.service.Get(fileID, userID)
	if err != nil {
		return nil, nil, err
	}
	entries, err := a.service.Metadata(fileID)
	if err != nil {
		return nil, nil, err
	}
	return file, entries, nil
}

// Download streams the file's current content to outPath.
// If outPath is empty, the original name in the current directory is used.
// Returns the path written.
func (a *DepotApp) Download(fileID, userID, outPath string) (string, error) {
	file, err := a.service.Get(fileID, userID)
	if err != nil {
		return "", err
	}
	if outPath == "" {
		outPath = file.OriginalName
	}

	out, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("creating output file: %w", err)
	}
	defer out.Close()

	if _, err := a.service.DownloadLatest(fileID, userID, out); err != nil {
		os.Remove(outPath)
		return "", err
	}
	return outPath, nil
}

// DownloadVersion streams one specific version's content to outPath.
func (a *DepotApp) DownloadVersion(fileID string, version int64, userID, outPath string) (string, error) {
	if outPath == "" {
		file, err := a.service.Get(fileID, userID)
		if err != nil {
			return "", err
		}
		outPath = fmt.Sprintf("%s.v%d", file.OriginalName, version)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("creating output file: %w", err)
	}
	defer out.Close()

	if _, err := a.service.DownloadVersion(fileID, version, userID, out); err != nil {
		os.Remove(outPath)
		return "", err
	}
	return outPath, nil
}

// Versions returns the file and its full version history.
func (a *DepotApp) Versions(fileID, userID string) (*depot.FileWithVersions, error) {
	return a.service.ListVersions(fileID, userID)
}

// Restore rewinds the file's current pointer to the given version.
func (a *DepotApp) Restore(fileID string, version int64, userID string) (*sqlc.FileVersion, error) {
	if err := a.persistOperation(); err != nil {
		return nil, err
	}
	return a.service.Restore(fileID, version, userID)
}

// Remove deletes the file with all versions, grants, and metadata.
func (a *DepotApp) Remove(fileID, userID string) error {
	if err := a.persistOperation(); err != nil {
		return err
	}
	return a.service.Delete(fileID, userID)
}

// UpdateDescription sets the file's description.
func (a *DepotApp) UpdateDescription(fileID, userID, description string) (*sqlc.File, error) {
	if err := a.persistOperation(); err != nil {
		return nil, err
	}
	return a.service.UpdateDescription(fileID, userID, description)
}

// Grant creates or replaces a permission grant on a file.
func (a *DepotApp) Grant(ownerID, fileID, granteeID string, canRead, canWrite, canDelete bool) (*sqlc.FilePermission, error) {
	if err := a.persistOperation(); err != nil {
		return nil, err
	}
	return a.service.Grant(ownerID, fileID, granteeID, canRead, canWrite, canDelete)
}

// Check reports whether the user holds the named capability on the file.
func (a *DepotApp) Check(userID, fileID string, capability depot.Capability) (bool, error) {
	return a.service.Check(userID, fileID, capability)
}

// Duplicates returns groups of the user's files sharing identical content.
func (a *DepotApp) Duplicates(userID string) ([][]sqlc.File, error) {
	return a.service.DuplicatesForUser(userID)
}

// DuplicatesOf returns the user's other files with the same content as fileID.
func (a *DepotApp) DuplicatesOf(fileID, userID string) ([]sqlc.File, error) {
	return a.service.DuplicatesOf(fileID, userID)
}

// Search returns the user's files matching the given filters.
func (a *DepotApp) Search(userID string, p depot.SearchParams) ([]sqlc.File, error) {
	return a.service.Search(userID, p)
}

// Metadata returns all key/value entries attached to a file.
func (a *DepotApp) Metadata(fileID string) ([]*sqlc.MetadataEntry, error) {
	return a.service.Metadata(fileID)
}

// MetadataValue returns one metadata entry by key.
func (a *DepotApp) MetadataValue(fileID, key string) (*sqlc.MetadataEntry, error) {
	return a.service.MetadataValue(fileID, key)
}

// SetMetadata creates or overwrites one metadata entry.
func (a *DepotApp) SetMetadata(fileID, key, value string) (*sqlc.MetadataEntry, error) {
	if err := a.persistOperation(); err != nil {
		return nil, err
	}
	return a.service.SetMetadata(fileID, key, value)
}

// DeleteMetadata removes one metadata entry.
func (a *DepotApp) DeleteMetadata(fileID, key string) error {
	if err := a.persistOperation(); err != nil {
		return err
	}
	return a.service.DeleteMetadata(fileID, key)
}

// History returns the most recent operations.
func (a *DepotApp) History(limit int) ([]*sqlc.Operation, error) {
	return a.db.ListOperations(limit)
}

// Close finalizes the operation record (for persisted operations) and closes
// all resources.
func (a *DepotApp) Close() error {
	var firstErr error

	if a.op.Persisted() {
		if err := a.db.FinishOperation(a.op.ID, a.op.Status); err != nil {
			firstErr = fmt.Errorf("finishing operation: %w", err)
		}
	}

	if err := a.db.Close(); err != nil {
		if firstErr == nil {
			firstErr = fmt.Errorf("closing database: %w", err)
		}
	}

	if a.logFile != nil {
		a.logFile.Close()
	}

	return firstErr
}
