package database

import _ "embed"

// Schema is the full SQL schema extracted from the migration files.
// It is regenerated by 'go generate ./internal/database' and is applied
// directly by tests that want a schema without running migrations.
//
//go:embed sqlc/schema.sql
var Schema string
