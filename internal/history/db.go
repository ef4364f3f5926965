// Package history keeps every distinct snapshot collected from each device
// in a local SQLite database.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// FileName is the database file created inside the config directory.
const FileName = "history.db"

// DB wraps the SQLite history database.
type DB struct {
	db   *sql.DB
	path string

	// Now stamps recorded snapshots. Tests replace it.
	Now func() time.Time
}

// Open opens (or creates) the history database in dir.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	dbPath := filepath.Join(dir, FileName)
	// Pragmas in the DSN apply to every pooled connection. busy_timeout
	// makes a writer from another process wait instead of failing.
	dsn := "file:" + dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// One connection serializes writers inside this process, so the
	// digest check and insert in Record never race each other.
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("open db: %w", err)
	}
	h := &DB{db: sqlDB, path: dbPath, Now: time.Now}
	if err := h.migrate(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return h, nil
}

// Close closes the database.
func (h *DB) Close() error {
	return h.db.Close()
}

// Path returns the path to the database file.
func (h *DB) Path() string {
	return h.path
}

// Checkpoint folds the write-ahead log into the database file so the
// file alone holds every recorded snapshot.
func (h *DB) Checkpoint() error {
	if _, err := h.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return fmt.Errorf("checkpoint: %w", err)
	}
	return nil
}

func (h *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		id TEXT PRIMARY KEY,
		device_id TEXT NOT NULL,
		taken_at INTEGER NOT NULL,
		digest TEXT NOT NULL,
		body BLOB NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_device ON snapshots(device_id, taken_at);
	`
	if _, err := h.db.Exec(schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
