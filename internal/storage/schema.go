package storage

import (
	"database/sql"
	"fmt"

	"tokenlint/internal/logging"
)

// CurrentSchemaVersion is the schema written by a fresh build.
// v1: tokens, usages, patterns, token_graph.
// v2: adds token_themes and component_graph.
const CurrentSchemaVersion = 2

// initializeSchema creates all relations for a new index.
func (db *DB) initializeSchema() error {
	return db.WithTx(func(tx *sql.Tx) error {
		creators := []func(*sql.Tx) error{
			createSchemaVersionTable,
			createMetaTable,
			createTokensTable,
			createTokenThemesTable,
			createUsagesTable,
			createPatternsTable,
			createTokenGraphTable,
			createComponentGraphTable,
		}
		for _, create := range creators {
			if err := create(tx); err != nil {
				return err
			}
		}

		if err := setSchemaVersion(tx, CurrentSchemaVersion); err != nil {
			return err
		}

		db.logger.Debug("Index schema initialized", logging.Fields{
			"version": CurrentSchemaVersion,
		})
		return nil
	})
}

// readSchemaVersion reads the stored schema version. A database without a
// schema_version table (or without a row) is version 0 and supports no
// features.
func (db *DB) readSchemaVersion() (int, error) {
	var tableName string
	err := db.QueryRow(`
		SELECT name FROM sqlite_master
		WHERE type='table' AND name='schema_version'
	`).Scan(&tableName)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	var version int
	err = db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return version, nil
}

func setSchemaVersion(tx *sql.Tx, version int) error {
	if _, err := tx.Exec("DELETE FROM schema_version"); err != nil {
		return err
	}
	_, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", version)
	return err
}

func createSchemaVersionTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)
	`)
	return err
}

func createMetaTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS index_meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`)
	return err
}

func createTokensTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS tokens (
			name TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			file TEXT NOT NULL,
			line INTEGER NOT NULL,
			layer INTEGER NOT NULL,
			computed_value TEXT
		)
	`)
	if err != nil {
		return fmt.Errorf("creating tokens table: %w", err)
	}
	return createIndexes(tx,
		"CREATE INDEX IF NOT EXISTS idx_tokens_file ON tokens(file)",
	)
}

func createTokenThemesTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS token_themes (
			token_name TEXT NOT NULL,
			theme TEXT NOT NULL CHECK(theme IN ('light', 'dark')),
			value TEXT NOT NULL,
			source TEXT NOT NULL,

			PRIMARY KEY (token_name, theme)
		)
	`)
	if err != nil {
		return fmt.Errorf("creating token_themes table: %w", err)
	}
	return nil
}

func createUsagesTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS usages (
			file TEXT NOT NULL,
			line INTEGER NOT NULL,
			col INTEGER NOT NULL,
			class_name TEXT NOT NULL,
			resolved_token TEXT,
			context TEXT NOT NULL CHECK(context IN ('primitive', 'composed', 'layout')),
			component TEXT
		)
	`)
	if err != nil {
		return fmt.Errorf("creating usages table: %w", err)
	}
	return createIndexes(tx,
		"CREATE INDEX IF NOT EXISTS idx_usages_class_name ON usages(class_name)",
		"CREATE INDEX IF NOT EXISTS idx_usages_resolved_token ON usages(resolved_token)",
		"CREATE INDEX IF NOT EXISTS idx_usages_file ON usages(file)",
	)
}

func createPatternsTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS patterns (
			hash TEXT PRIMARY KEY,
			classes_json TEXT NOT NULL,
			count INTEGER NOT NULL,
			locations_json TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("creating patterns table: %w", err)
	}
	return createIndexes(tx,
		"CREATE INDEX IF NOT EXISTS idx_patterns_count ON patterns(count)",
	)
}

func createTokenGraphTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS token_graph (
			ancestor TEXT NOT NULL,
			descendant TEXT NOT NULL,
			depth INTEGER NOT NULL CHECK(depth >= 1),
			path_json TEXT NOT NULL,

			PRIMARY KEY (ancestor, descendant),
			CHECK(ancestor != descendant)
		)
	`)
	if err != nil {
		return fmt.Errorf("creating token_graph table: %w", err)
	}
	return createIndexes(tx,
		"CREATE INDEX IF NOT EXISTS idx_token_graph_descendant ON token_graph(descendant)",
	)
}

func createComponentGraphTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS component_graph (
			component TEXT NOT NULL,
			depends_on TEXT NOT NULL,
			file TEXT NOT NULL,

			PRIMARY KEY (component, depends_on)
		)
	`)
	if err != nil {
		return fmt.Errorf("creating component_graph table: %w", err)
	}
	return createIndexes(tx,
		"CREATE INDEX IF NOT EXISTS idx_component_graph_depends_on ON component_graph(depends_on)",
	)
}

func createIndexes(tx *sql.Tx, statements ...string) error {
	for _, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("creating index: %w", err)
		}
	}
	return nil
}
