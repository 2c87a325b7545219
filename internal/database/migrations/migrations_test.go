package migrations

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func TestMigrateUp_FreshDatabase(t *testing.T) {
	db := openTestDB(t)
	defer db.Close()

	// Migrate up
	err := MigrateUp(db)
	if err != nil {
		t.Fatalf("MigrateUp() failed: %v", err)
	}

	// Verify tables were created
	tables := []string{"files", "file_versions", "file_permissions", "metadata_entries", "operations", "schema_migrations"}
	for _, table := range tables {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("Table %s was not created: %v", table, err)
		}
	}
}

func TestCheckDBMigrationStatus_FreshDatabase(t *testing.T) {
	db := openTestDB(t)
	defer db.Close()

	// Fresh database should need migration
	err := CheckDBMigrationStatus(db)
	if err == nil {
		t.Error("CheckDBMigrationStatus() expected error for fresh database, got nil")
	}

	// Error should mention needing migration
	if err.Error() != "database has no schema version (needs migration)" {
		t.Errorf("CheckDBMigrationStatus() error = %q, want error about needing migration", err.Error())
	}
}

func TestCheckDBMigrationStatus_AfterMigration(t *testing.T) {
	db := openTestDB(t)
	defer db.Close()

	// Migrate up
	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() failed: %v", err)
	}

	// Status should be OK now
	err := CheckDBMigrationStatus(db)
	if err != nil {
		t.Errorf("CheckDBMigrationStatus() after migration returned error: %v", err)
	}
}

func TestMigrateUp_Idempotent(t *testing.T) {
	db := openTestDB(t)
	defer db.Close()

	// Run migration twice
	if err := MigrateUp(db); err != nil {
		t.Fatalf("First MigrateUp() failed: %v", err)
	}

	if err := MigrateUp(db); err != nil {
		t.Errorf("Second MigrateUp() failed: %v (should be idempotent)", err)
	}

	// Status should still be OK
	if err := CheckDBMigrationStatus(db); err != nil {
		t.Errorf("CheckDBMigrationStatus() after double migration returned error: %v", err)
	}
}

func TestForeignKeyConstraints(t *testing.T) {
	db := openTestDB(t)
	defer db.Close()

	// Migrate
	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() failed: %v", err)
	}

	// Try to insert a version for a non-existent file (should fail due to FK constraint)
	_, err := db.Exec(`
		INSERT INTO file_versions (id, file_id, version, storage_key, hash, created_at)
		VALUES ('ver-1', 'no-such-file', 0, 'key-1', 'abc', datetime('now'))
	`)

	if err == nil {
		t.Error("Expected foreign key constraint violation, but insert succeeded")
	}
}

func TestSchema_FileTripleUnique(t *testing.T) {
	db := openTestDB(t)
	defer db.Close()

	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() failed: %v", err)
	}

	// Insert first file
	_, err := db.Exec(`
		INSERT INTO files (id, owner_id, original_name, virtual_path, current_hash, current_version, current_storage_key, created_at)
		VALUES ('file-1', 'alice', 'report.pdf', '/docs', 'abc', 0, 'key-1', datetime('now'))
	`)
	if err != nil {
		t.Fatalf("Failed to insert first file: %v", err)
	}

	// Duplicate (owner, name, path) triple should fail due to UNIQUE constraint
	_, err = db.Exec(`
		INSERT INTO files (id, owner_id, original_name, virtual_path, current_hash, current_version, current_storage_key, created_at)
		VALUES ('file-2', 'alice', 'report.pdf', '/docs', 'def', 0, 'key-2', datetime('now'))
	`)
	if err == nil {
		t.Error("Expected unique constraint violation for duplicate file triple, but insert succeeded")
	}

	// Same name under a different owner is fine
	_, err = db.Exec(`
		INSERT INTO files (id, owner_id, original_name, virtual_path, current_hash, current_version, current_storage_key, created_at)
		VALUES ('file-3', 'bob', 'report.pdf', '/docs', 'abc', 0, 'key-3', datetime('now'))
	`)
	if err != nil {
		t.Errorf("Failed to insert same triple for different owner: %v", err)
	}
}

func TestSchema_VersionCascadeDelete(t *testing.T) {
	db := openTestDB(t)
	defer db.Close()

	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() failed: %v", err)
	}

	if _, err := db.Exec(`
		INSERT INTO files (id, owner_id, original_name, virtual_path, current_hash, current_version, current_storage_key, created_at)
		VALUES ('file-1', 'alice', 'a.txt', '/', 'abc', 0, 'key-1', datetime('now'))
	`); err != nil {
		t.Fatalf("Failed to insert file: %v", err)
	}
	if _, err := db.Exec(`
		INSERT INTO file_versions (id, file_id, version, storage_key, hash, created_at)
		VALUES ('ver-1', 'file-1', 0, 'key-1', 'abc', datetime('now'))
	`); err != nil {
		t.Fatalf("Failed to insert version: %v", err)
	}

	if _, err := db.Exec("DELETE FROM files WHERE id = 'file-1'"); err != nil {
		t.Fatalf("Failed to delete file: %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM file_versions WHERE file_id = 'file-1'").Scan(&count); err != nil {
		t.Fatalf("Failed to count versions: %v", err)
	}
	if count != 0 {
		t.Errorf("file_versions count = %d after deleting file, want 0", count)
	}
}

// openTestDB opens an in-memory SQLite database for testing.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}

	return db
}
