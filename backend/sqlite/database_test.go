package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"qatrack/backend"
	"qatrack/internal/category"
)

func openTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"), "unused.db")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpen_CreatesFileAndSchema(t *testing.T) {
	db := openTestDB(t)

	if _, err := os.Stat(db.Path()); err != nil {
		t.Fatalf("database file missing: %v", err)
	}
	version, err := db.GetSchemaVersion()
	if err != nil {
		t.Fatal(err)
	}
	if version != SchemaVersion {
		t.Errorf("schema version = %d, want %d", version, SchemaVersion)
	}
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	for i := 0; i < 2; i++ {
		db, err := Open(path, "")
		if err != nil {
			t.Fatalf("open #%d failed: %v", i+1, err)
		}
		db.Close()
	}
}

func TestDatabasePath(t *testing.T) {
	got, err := DatabasePath("/tmp/custom.db", "local.db")
	if err != nil || got != "/tmp/custom.db" {
		t.Errorf("custom path = %q, %v", got, err)
	}

	t.Setenv("XDG_DATA_HOME", "/xdg")
	got, err = DatabasePath("", "local.db")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/xdg", "qatrack", "local.db"); got != want {
		t.Errorf("XDG path = %q, want %q", got, want)
	}
}

func TestSnapshot_RoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	created := time.Unix(1760000000, 0)

	snap := Snapshot{
		Suites: []backend.TestSuite{
			{ID: "s2", Name: "Checkout", Icon: "cart"},
			{ID: "s1", Name: "Login"},
		},
		Cases: []backend.TestCase{
			{
				ID: "R-1", TestID: "LO-LDD001", SuiteID: "s1", Title: "Login dialog displays",
				Status: backend.StatusSuccess, SyncState: backend.Synced, Created: created, Modified: created,
			},
			{
				ID: "local-2", TestID: "CH-PBC001", SuiteID: "s2", Title: "Pay by card",
				Description: "steps", Note: "flaky", Status: backend.StatusError,
				SyncState: backend.SyncFailed, LastSyncError: "UpdateCase failed with status 500: boom",
				Created: created, Modified: created.Add(time.Minute),
			},
		},
		Categories: []category.Record{
			{Name: "Web"},
			{Name: "Login", Parent: "Web", Count: 4},
			{Name: "Loop", Parent: "Loop"},
		},
	}

	if err := db.SaveSnapshot(ctx, snap); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	got, err := db.LoadSnapshot(ctx)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}

	if !reflect.DeepEqual(got.Suites, snap.Suites) {
		t.Errorf("suites = %+v, want %+v", got.Suites, snap.Suites)
	}
	if !reflect.DeepEqual(got.Categories, snap.Categories) {
		t.Errorf("categories = %+v, want %+v", got.Categories, snap.Categories)
	}
	if len(got.Cases) != 2 {
		t.Fatalf("expected 2 cases, got %d", len(got.Cases))
	}
	for i := range snap.Cases {
		want, have := snap.Cases[i], got.Cases[i]
		if !have.Created.Equal(want.Created) || !have.Modified.Equal(want.Modified) {
			t.Errorf("case %d timestamps = %v/%v", i, have.Created, have.Modified)
		}
		have.Created, have.Modified = want.Created, want.Modified
		if have != want {
			t.Errorf("case %d = %+v, want %+v", i, have, want)
		}
	}
}

func TestSnapshot_SaveReplaces(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	first := Snapshot{
		Suites: []backend.TestSuite{{ID: "s1", Name: "Login"}},
		Cases: []backend.TestCase{
			{ID: "R-1", TestID: "LO-A00001", SuiteID: "s1", Title: "A", Status: backend.StatusPending, SyncState: backend.Synced},
		},
	}
	if err := db.SaveSnapshot(ctx, first); err != nil {
		t.Fatal(err)
	}
	if err := db.SaveSnapshot(ctx, Snapshot{}); err != nil {
		t.Fatal(err)
	}

	got, err := db.LoadSnapshot(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Suites) != 0 || len(got.Cases) != 0 || len(got.Categories) != 0 {
		t.Errorf("expected empty snapshot, got %+v", got)
	}
}

func TestSnapshot_RejectsInvalidStatus(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	bad := Snapshot{
		Suites: []backend.TestSuite{{ID: "s1", Name: "Login"}},
		Cases: []backend.TestCase{
			{ID: "R-1", TestID: "LO-A00001", SuiteID: "s1", Title: "A", Status: "done", SyncState: backend.Synced},
		},
	}
	if err := db.SaveSnapshot(ctx, bad); err == nil {
		t.Fatal("expected error for invalid status")
	}

	got, err := db.LoadSnapshot(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Suites) != 0 {
		t.Errorf("failed save must roll back, got %+v", got.Suites)
	}
}

func TestGetStats(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	err := db.SaveSnapshot(ctx, Snapshot{
		Suites: []backend.TestSuite{{ID: "s1", Name: "Login"}},
		Cases: []backend.TestCase{
			{ID: "R-1", TestID: "LO-A00001", SuiteID: "s1", Title: "A", Status: backend.StatusPending, SyncState: backend.Synced},
			{ID: "local-1", TestID: "LO-B00002", SuiteID: "s1", Title: "B", Status: backend.StatusPending, SyncState: backend.SyncFailed},
		},
		Categories: []category.Record{{Name: "Web"}},
	})
	if err != nil {
		t.Fatal(err)
	}

	stats, err := db.GetStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.SuiteCount != 1 || stats.CaseCount != 2 || stats.Unsynced != 1 || stats.CategoryCount != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}
	if stats.DatabaseSize <= 0 {
		t.Errorf("expected non-zero size, got %d", stats.DatabaseSize)
	}
}
