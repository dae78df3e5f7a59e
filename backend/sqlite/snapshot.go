package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"qatrack/backend"
	"qatrack/internal/category"
)

// Snapshot is everything persisted locally between runs
type Snapshot struct {
	Suites     []backend.TestSuite
	Cases      []backend.TestCase
	Categories []category.Record
}

// SaveSnapshot replaces the stored snapshot in a single transaction.
// Slice order is kept through the position column.
func (db *Database) SaveSnapshot(ctx context.Context, snap Snapshot) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	for _, table := range []string{"test_cases", "suites", "categories"} {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for i, s := range snap.Suites {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO suites (id, name, icon, position) VALUES (?, ?, ?, ?)",
			s.ID, s.Name, s.Icon, i,
		)
		if err != nil {
			return fmt.Errorf("failed to save suite %s: %w", s.Name, err)
		}
	}

	for i, c := range snap.Cases {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO test_cases (id, test_id, suite_id, title, description, status, note,
				sync_state, last_sync_error, created_at, modified_at, position)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ID, c.TestID, c.SuiteID, c.Title, c.Description, string(c.Status), c.Note,
			string(c.SyncState), c.LastSyncError, unixOrNull(c.Created), unixOrNull(c.Modified), i,
		)
		if err != nil {
			return fmt.Errorf("failed to save case %s: %w", c.TestID, err)
		}
	}

	for i, r := range snap.Categories {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO categories (name, parent, count, position) VALUES (?, ?, ?, ?)",
			r.Name, nullString(r.Parent), r.Count, i,
		)
		if err != nil {
			return fmt.Errorf("failed to save category %s: %w", r.Name, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot reads the stored snapshot. An empty database yields an empty snapshot.
func (db *Database) LoadSnapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot

	rows, err := db.QueryContext(ctx, "SELECT id, name, icon FROM suites ORDER BY position")
	if err != nil {
		return snap, fmt.Errorf("failed to query suites: %w", err)
	}
	for rows.Next() {
		var s backend.TestSuite
		var icon sql.NullString
		if err := rows.Scan(&s.ID, &s.Name, &icon); err != nil {
			rows.Close()
			return snap, fmt.Errorf("failed to scan suite: %w", err)
		}
		s.Icon = icon.String
		snap.Suites = append(snap.Suites, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return snap, err
	}

	rows, err = db.QueryContext(ctx, `
		SELECT id, test_id, suite_id, title, description, status, note,
			sync_state, last_sync_error, created_at, modified_at
		FROM test_cases ORDER BY position`)
	if err != nil {
		return snap, fmt.Errorf("failed to query test cases: %w", err)
	}
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			rows.Close()
			return snap, err
		}
		snap.Cases = append(snap.Cases, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return snap, err
	}

	rows, err = db.QueryContext(ctx, "SELECT name, parent, count FROM categories ORDER BY position")
	if err != nil {
		return snap, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var r category.Record
		var parent sql.NullString
		if err := rows.Scan(&r.Name, &parent, &r.Count); err != nil {
			return snap, fmt.Errorf("failed to scan category: %w", err)
		}
		r.Parent = parent.String
		snap.Categories = append(snap.Categories, r)
	}
	return snap, rows.Err()
}

func scanCase(rows *sql.Rows) (backend.TestCase, error) {
	var (
		c                              backend.TestCase
		description, note, lastSyncErr sql.NullString
		status, syncState              string
		createdAt, modifiedAt          sql.NullInt64
	)
	err := rows.Scan(&c.ID, &c.TestID, &c.SuiteID, &c.Title, &description, &status, &note,
		&syncState, &lastSyncErr, &createdAt, &modifiedAt)
	if err != nil {
		return c, fmt.Errorf("failed to scan test case: %w", err)
	}
	c.Description = description.String
	c.Note = note.String
	c.LastSyncError = lastSyncErr.String
	c.Status = backend.Status(status)
	c.SyncState = backend.SyncState(syncState)
	c.Created = fromUnix(createdAt)
	c.Modified = fromUnix(modifiedAt)
	return c, nil
}

func unixOrNull(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.Unix()
}

func fromUnix(v sql.NullInt64) time.Time {
	if !v.Valid {
		return time.Time{}
	}
	return time.Unix(v.Int64, 0)
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
