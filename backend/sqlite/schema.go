package sqlite

// Schema version for migration management
const SchemaVersion = 1

// SQL statements for database schema creation

// SuitesTableSQL stores the suite registry of the local snapshot
const SuitesTableSQL = `
CREATE TABLE IF NOT EXISTS suites (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    icon TEXT,
    position INTEGER NOT NULL
);
`

// TestCasesTableSQL stores the local copy of every test case, including its sync state
const TestCasesTableSQL = `
CREATE TABLE IF NOT EXISTS test_cases (
    id TEXT PRIMARY KEY,
    test_id TEXT NOT NULL,
    suite_id TEXT NOT NULL,
    title TEXT NOT NULL,
    description TEXT,
    status TEXT NOT NULL CHECK(status IN ('pending', 'success', 'error', 'warning', 'skipped')),
    note TEXT,
    sync_state TEXT NOT NULL CHECK(sync_state IN ('synced', 'pendingSync', 'syncFailed')),
    last_sync_error TEXT,
    created_at INTEGER,
    modified_at INTEGER,
    position INTEGER NOT NULL,

    FOREIGN KEY(suite_id) REFERENCES suites(id) ON DELETE CASCADE
);
`

// CategoriesTableSQL stores flat category records. parent is not a foreign key:
// records may reference missing or cyclic parents and the tree copes with that.
const CategoriesTableSQL = `
CREATE TABLE IF NOT EXISTS categories (
    name TEXT PRIMARY KEY,
    parent TEXT,
    count INTEGER DEFAULT 0 CHECK(count >= 0),
    position INTEGER NOT NULL
);
`

// RemoteCasesTableSQL is the server side table used by the sqlite gateway
const RemoteCasesTableSQL = `
CREATE TABLE IF NOT EXISTS remote_cases (
    id TEXT PRIMARY KEY,
    test_id TEXT NOT NULL,
    suite_id TEXT NOT NULL,
    title TEXT NOT NULL,
    description TEXT,
    status TEXT NOT NULL,
    note TEXT,
    created_at INTEGER,
    modified_at INTEGER
);
`

// SchemaVersionTableSQL creates the schema version table for migration tracking
const SchemaVersionTableSQL = `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at INTEGER NOT NULL
);
`

// Index creation statements for performance optimization

// TestCasesIndexesSQL creates indexes on test_cases for common queries
const TestCasesIndexesSQL = `
CREATE INDEX IF NOT EXISTS idx_test_cases_suite_id ON test_cases(suite_id);
CREATE INDEX IF NOT EXISTS idx_test_cases_sync_state ON test_cases(sync_state);
CREATE INDEX IF NOT EXISTS idx_test_cases_position ON test_cases(position);
`

// RemoteCasesIndexesSQL creates indexes on remote_cases
const RemoteCasesIndexesSQL = `
CREATE INDEX IF NOT EXISTS idx_remote_cases_suite_id ON remote_cases(suite_id);
`

// AllTableSchemas returns all table creation statements in order
func AllTableSchemas() []string {
	return []string{
		SchemaVersionTableSQL,
		SuitesTableSQL,
		TestCasesTableSQL,
		CategoriesTableSQL,
		RemoteCasesTableSQL,
	}
}

// AllIndexes returns all index creation statements
func AllIndexes() []string {
	return []string{
		TestCasesIndexesSQL,
		RemoteCasesIndexesSQL,
	}
}

// PragmaStatements returns pragma statements to execute on database connection
func PragmaStatements() []string {
	return []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",   // Write-Ahead Logging for better concurrency
		"PRAGMA synchronous = NORMAL", // Balance between safety and performance
		"PRAGMA busy_timeout = 5000",
	}
}
