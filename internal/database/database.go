package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// Open creates and opens the SQLite database at path with proper pragmas
// and runs migrations.
func Open(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// RunMigrations creates all necessary tables
func RunMigrations(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS local_storage (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS query_cache (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS reflection_drafts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		log_id TEXT NOT NULL DEFAULT '',
		project_id TEXT NOT NULL DEFAULT '',
		space_id TEXT NOT NULL DEFAULT '',
		template_id TEXT,
		cycle TEXT NOT NULL DEFAULT 'weekly',
		content TEXT NOT NULL DEFAULT '',
		mood TEXT NOT NULL DEFAULT 'good',
		progress_score INTEGER NOT NULL DEFAULT 5,
		answers TEXT NOT NULL DEFAULT '[]',
		last_error TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		CHECK(mood IN ('great', 'good', 'normal', 'bad', 'terrible')),
		CHECK(progress_score BETWEEN 1 AND 10),
		CHECK(cycle IN ('daily', 'weekly', 'biweekly', 'monthly'))
	);

	CREATE INDEX IF NOT EXISTS idx_query_cache_updated ON query_cache(updated_at);
	`

	if _, err := db.Exec(schema); err != nil {
		return err
	}
	// Databases created before drafts carried their context ids.
	for _, col := range []string{"log_id", "project_id", "space_id"} {
		if err := addColumn(db, "reflection_drafts", col, "TEXT NOT NULL DEFAULT ''"); err != nil {
			return err
		}
	}
	return nil
}

func addColumn(db *sql.DB, table, column, decl string) error {
	rows, err := db.Query(`SELECT name FROM pragma_table_info(?)`, table)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return err
		}
		if name == column {
			return nil
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	_, err = db.Exec(fmt.Sprintf(`ALTER TABLE %s ADD COLUMN %s %s`, table, column, decl))
	return err
}
