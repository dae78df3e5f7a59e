package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"qatrack/backend"
	"qatrack/internal/utils"

	"github.com/google/uuid"
)

// RemoteDBName is the default file for the sqlite gateway's server-side table
const RemoteDBName = "remote.db"

func init() {
	backend.RegisterType("sqlite", func(config backend.GatewayConfig) (backend.Gateway, error) {
		path, err := utils.ExpandPath(config.DBPath)
		if err != nil {
			return nil, fmt.Errorf("invalid remote db_path: %w", err)
		}
		db, err := Open(path, RemoteDBName)
		if err != nil {
			return nil, err
		}
		return NewGateway(db), nil
	})
}

// Gateway is a backend.Gateway that keeps the remote copy of every case in a
// SQLite table. It stands in for a QA server when none is available.
type Gateway struct {
	db  *Database
	now func() time.Time
}

// NewGateway creates a gateway on db
func NewGateway(db *Database) *Gateway {
	return &Gateway{db: db, now: time.Now}
}

// Close closes the underlying database
func (g *Gateway) Close() error {
	return g.db.Close()
}

// CreateCase stores c under a fresh UUID
func (g *Gateway) CreateCase(ctx context.Context, c backend.TestCase) (backend.TestCase, error) {
	c.ID = uuid.NewString()
	c.Modified = g.now()
	if c.Created.IsZero() {
		c.Created = c.Modified
	}

	_, err := g.db.ExecContext(ctx, `
		INSERT INTO remote_cases (id, test_id, suite_id, title, description, status, note, created_at, modified_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.TestID, c.SuiteID, c.Title, c.Description, string(c.Status), c.Note,
		c.Created.Unix(), c.Modified.Unix(),
	)
	if err != nil {
		return backend.TestCase{}, dbError("CreateCase", c.TestID, err)
	}

	utils.Debugf("sqlite gateway: created %s as %s", c.TestID, c.ID)
	return c, nil
}

// UpdateCase overwrites the content fields of an existing case
func (g *Gateway) UpdateCase(ctx context.Context, c backend.TestCase) (backend.TestCase, error) {
	c.Modified = g.now()

	res, err := g.db.ExecContext(ctx, `
		UPDATE remote_cases
		SET title = ?, description = ?, status = ?, note = ?, modified_at = ?
		WHERE id = ?`,
		c.Title, c.Description, string(c.Status), c.Note, c.Modified.Unix(), c.ID,
	)
	if err != nil {
		return backend.TestCase{}, dbError("UpdateCase", c.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return backend.TestCase{}, notFound("UpdateCase", c.ID)
	}
	return c, nil
}

// DeleteCase removes a case; unknown IDs report 404
func (g *Gateway) DeleteCase(ctx context.Context, id string) error {
	res, err := g.db.ExecContext(ctx, "DELETE FROM remote_cases WHERE id = ?", id)
	if err != nil {
		return dbError("DeleteCase", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("DeleteCase", id)
	}
	return nil
}

// GetCase reads one remote case
func (g *Gateway) GetCase(ctx context.Context, id string) (backend.TestCase, error) {
	row := g.db.QueryRowContext(ctx, `
		SELECT id, test_id, suite_id, title, description, status, note, created_at, modified_at
		FROM remote_cases WHERE id = ?`, id)

	var (
		c                 backend.TestCase
		description, note sql.NullString
		status            string
		created, modified int64
	)
	err := row.Scan(&c.ID, &c.TestID, &c.SuiteID, &c.Title, &description, &status, &note, &created, &modified)
	if errors.Is(err, sql.ErrNoRows) {
		return backend.TestCase{}, notFound("GetCase", id)
	}
	if err != nil {
		return backend.TestCase{}, dbError("GetCase", id, err)
	}
	c.Description = description.String
	c.Note = note.String
	c.Status = backend.Status(status)
	c.SyncState = backend.Synced
	c.Created = time.Unix(created, 0)
	c.Modified = time.Unix(modified, 0)
	return c, nil
}

func notFound(op, id string) error {
	return backend.NewRemoteError(op, http.StatusNotFound, "case not found").WithCaseID(id)
}

func dbError(op, id string, err error) error {
	return backend.NewRemoteError(op, http.StatusInternalServerError, "database error").WithCaseID(id).WithError(err)
}
