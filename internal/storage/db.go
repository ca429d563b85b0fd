package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"tokenlint/internal/errors"
	"tokenlint/internal/logging"
)

// DB is a handle to one index database. It is opened once at command entry
// and must be released via Close on every exit path.
type DB struct {
	conn          *sql.DB
	logger        *logging.Logger
	path          string
	schemaVersion int
}

// Create creates a fresh index database at path with the current schema.
// Any existing file at path is removed first; the index builder creates at
// a temporary path and renames over the live index, so a build never
// leaves a partially-written index behind.
func Create(path string, logger *logging.Logger) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("removing stale index file: %w", err)
	}

	conn, err := connect(path)
	if err != nil {
		return nil, err
	}

	db := &DB{conn: conn, logger: logger, path: path, schemaVersion: CurrentSchemaVersion}
	if err := db.initializeSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	return db, nil
}

// Open opens an existing index database. A missing file is an IndexMissing
// error; the stored schema version is read once so feature gating never
// re-queries it.
func Open(path string, logger *logging.Logger) (*DB, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.IndexMissing,
				fmt.Sprintf("no index found at %s", path), err, nil)
		}
		return nil, fmt.Errorf("checking index file: %w", err)
	}

	conn, err := connect(path)
	if err != nil {
		return nil, err
	}

	db := &DB{conn: conn, logger: logger, path: path}
	version, err := db.readSchemaVersion()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("reading schema version: %w", err)
	}
	db.schemaVersion = version

	logger.Debug("Opened index", logging.Fields{
		"path":          path,
		"schemaVersion": version,
	})
	return db, nil
}

func connect(path string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("setting pragma: %w", err)
		}
	}
	return conn, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// Path returns the index file path.
func (db *DB) Path() string {
	return db.path
}

// SchemaVersion returns the schema version read when the index was opened.
func (db *DB) SchemaVersion() int {
	return db.schemaVersion
}

// WithTx executes fn within a transaction, rolling back on error or panic.
func (db *DB) WithTx(fn func(*sql.Tx) error) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			db.logger.Error("failed to rollback transaction", logging.Fields{
				"error":         err.Error(),
				"rollbackError": rbErr.Error(),
			})
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Exec executes a statement without returning rows.
func (db *DB) Exec(query string, args ...any) (sql.Result, error) {
	return db.conn.Exec(query, args...)
}

// Query executes a query returning rows.
func (db *DB) Query(query string, args ...any) (*sql.Rows, error) {
	return db.conn.Query(query, args...)
}

// QueryRow executes a query returning at most one row.
func (db *DB) QueryRow(query string, args ...any) *sql.Row {
	return db.conn.QueryRow(query, args...)
}
