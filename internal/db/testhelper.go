package db

import (
	"database/sql"
	"path/filepath"
	"testing"
)

// OpenTestSQLite opens a throwaway ACM store in t.TempDir(), migrated to the
// newest schema, and returns the write/read pool pair. Closing is registered
// on t. The ACM's cascade deletes rely on enforced foreign keys, so the
// helper fails fast when the pragma did not take.
//
// Tests that don't care about the read/write split can use writeDB for both.
func OpenTestSQLite(t *testing.T) (writeDB, readDB *sql.DB) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "acm.sqlite")

	writeDB, readDB, err := OpenSQLitePair(path, 4)
	if err != nil {
		t.Fatalf("open acm test store: %v", err)
	}
	t.Cleanup(func() {
		_ = readDB.Close()
		_ = writeDB.Close()
	})

	var fk int
	if err := writeDB.QueryRow(`PRAGMA foreign_keys`).Scan(&fk); err != nil || fk != 1 {
		t.Fatalf("acm test store must enforce foreign keys (on=%d, err=%v)", fk, err)
	}

	if err := RunMigrations(writeDB); err != nil {
		t.Fatalf("migrate acm test store: %v", err)
	}

	return writeDB, readDB
}
