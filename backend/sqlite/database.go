package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"qatrack/internal/utils"

	_ "modernc.org/sqlite" // SQLite driver
)

// Database wraps sql.DB with helper methods for schema management
type Database struct {
	*sql.DB
	path string
}

// Open opens (creating if needed) the SQLite database at customPath, or at the
// default location for name when customPath is empty, and sets up all tables.
func Open(customPath, name string) (*Database, error) {
	dbPath, err := DatabasePath(customPath, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get database path: %w", err)
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// pragmas are per connection
	db.SetMaxOpenConns(1)

	database := &Database{
		DB:   db,
		path: dbPath,
	}

	if err := database.initializeSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return database, nil
}

// DatabasePath returns the path to the SQLite database file
// Priority: customPath > $XDG_DATA_HOME/qatrack/<name> > ~/.local/share/qatrack/<name>
func DatabasePath(customPath, name string) (string, error) {
	if customPath != "" {
		return customPath, nil
	}
	dir, err := utils.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// initializeSchema creates all tables, indexes, and sets pragmas
func (db *Database) initializeSchema() error {
	for _, pragma := range PragmaStatements() {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute pragma %q: %w", pragma, err)
		}
	}

	for _, schema := range AllTableSchemas() {
		if _, err := db.Exec(schema); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	for _, index := range AllIndexes() {
		if _, err := db.Exec(index); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	if err := db.recordSchemaVersion(); err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}

	return nil
}

// recordSchemaVersion records the current schema version in the database
func (db *Database) recordSchemaVersion() error {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM schema_version WHERE version = ?", SchemaVersion).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to check schema version: %w", err)
	}

	if count > 0 {
		return nil
	}

	_, err = db.Exec(
		"INSERT INTO schema_version (version, applied_at) VALUES (?, ?)",
		SchemaVersion,
		time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert schema version: %w", err)
	}

	return nil
}

// GetSchemaVersion returns the current schema version from the database
func (db *Database) GetSchemaVersion() (int, error) {
	var version int
	err := db.QueryRow("SELECT MAX(version) FROM schema_version").Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}

// Path returns the filesystem path to the database file
func (db *Database) Path() string {
	return db.path
}

// Vacuum runs VACUUM to optimize the database
func (db *Database) Vacuum() error {
	_, err := db.Exec("VACUUM")
	return err
}

// GetStats returns basic database statistics
func (db *Database) GetStats() (DatabaseStats, error) {
	stats := DatabaseStats{}

	counts := []struct {
		query string
		dest  *int
		what  string
	}{
		{"SELECT COUNT(*) FROM suites", &stats.SuiteCount, "suites"},
		{"SELECT COUNT(*) FROM test_cases", &stats.CaseCount, "test cases"},
		{"SELECT COUNT(*) FROM test_cases WHERE sync_state != 'synced'", &stats.Unsynced, "unsynced cases"},
		{"SELECT COUNT(*) FROM categories", &stats.CategoryCount, "categories"},
		{"SELECT COUNT(*) FROM remote_cases", &stats.RemoteCount, "remote cases"},
	}
	for _, c := range counts {
		if err := db.QueryRow(c.query).Scan(c.dest); err != nil {
			return stats, fmt.Errorf("failed to count %s: %w", c.what, err)
		}
	}

	fileInfo, err := os.Stat(db.path)
	if err != nil {
		return stats, fmt.Errorf("failed to stat database file: %w", err)
	}
	stats.DatabaseSize = fileInfo.Size()

	return stats, nil
}

// DatabaseStats holds statistics about the database
type DatabaseStats struct {
	SuiteCount    int   `json:"suites" yaml:"suites"`
	CaseCount     int   `json:"cases" yaml:"cases"`
	Unsynced      int   `json:"unsynced" yaml:"unsynced"`
	CategoryCount int   `json:"categories" yaml:"categories"`
	RemoteCount   int   `json:"remote_cases" yaml:"remote_cases"`
	DatabaseSize  int64 `json:"size_bytes" yaml:"size_bytes"`
}

// String returns a human-readable representation of database statistics
func (s DatabaseStats) String() string {
	sizeMB := float64(s.DatabaseSize) / (1024 * 1024)
	return fmt.Sprintf(
		"Suites: %d | Cases: %d | Unsynced: %d | Categories: %d | Size: %.2f MB",
		s.SuiteCount, s.CaseCount, s.Unsynced, s.CategoryCount, sizeMB,
	)
}
