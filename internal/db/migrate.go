package db

import (
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

const (
	migrationsDir = "migrations"
	// versionTable keeps the schema ledger out of the ACM's own namespace
	// so it never collides with a protected object table.
	versionTable = "acm_schema_version"
)

// RunMigrations brings the ACM store up to the newest embedded schema.
// Safe to call on every boot; applied migrations are skipped.
func RunMigrations(db *sql.DB) error {
	goose.SetBaseFS(EmbedMigrations)
	goose.SetTableName(versionTable)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("migrate acm store: %w", err)
	}
	if err := goose.Up(db, migrationsDir); err != nil {
		return fmt.Errorf("migrate acm store: %w", err)
	}
	return nil
}
