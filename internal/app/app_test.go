package app

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"qatrack/backend"
	"qatrack/internal/config"
	"qatrack/internal/store"
	"qatrack/internal/utils"

	"github.com/zalando/go-keyring"
)

// testConfig points the local and remote databases and the cache into t's temp dir
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))

	return &config.Config{
		Remote: backend.GatewayConfig{
			Type:           "sqlite",
			DBPath:         filepath.Join(dir, "remote.db"),
			TimeoutSeconds: 10,
		},
		DBPath:   filepath.Join(dir, "local.db"),
		IDWidth:  3,
		Settings: config.DefaultSettings,
	}
}

func openApp(t *testing.T, cfg *config.Config) *App {
	t.Helper()
	a, err := NewWithConfig(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewWithConfig() error = %v", err)
	}
	return a
}

func TestNewWithConfig_Empty(t *testing.T) {
	a := openApp(t, testConfig(t))
	defer a.Close()

	if n := len(a.Store().Cases()); n != 0 {
		t.Errorf("new app has %d cases, want 0", n)
	}
	if a.Projection().PageSize() != config.DefaultSettings.PageSize {
		t.Errorf("page size = %d, want %d", a.Projection().PageSize(), config.DefaultSettings.PageSize)
	}
	if _, err := a.ResolveSuite("anything"); err == nil {
		t.Error("ResolveSuite() on an empty store should fail")
	}
}

func TestNewWithConfig_UnknownGateway(t *testing.T) {
	cfg := testConfig(t)
	cfg.Remote.Type = "carrier-pigeon"

	_, err := NewWithConfig(context.Background(), cfg)
	var suggestion *utils.ErrorWithSuggestion
	if !errors.As(err, &suggestion) {
		t.Fatalf("NewWithConfig() error = %v, want ErrorWithSuggestion", err)
	}
}

func TestNewWithConfig_DatabaseLocked(t *testing.T) {
	old := lockTimeout
	lockTimeout = 200 * time.Millisecond
	defer func() { lockTimeout = old }()

	cfg := testConfig(t)
	first := openApp(t, cfg)

	_, err := NewWithConfig(context.Background(), cfg)
	var sugg *utils.ErrorWithSuggestion
	if !errors.As(err, &sugg) {
		t.Fatalf("second open error = %v, want ErrorWithSuggestion", err)
	}

	if err := first.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	second := openApp(t, cfg)
	second.Close()
}

func TestSaveAndReopen(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	a := openApp(t, cfg)
	suite, err := a.Store().AddSuite(backend.TestSuite{Name: "Login", Icon: "key"})
	if err != nil {
		t.Fatalf("AddSuite() error = %v", err)
	}
	created, err := a.Store().Create(ctx, suite.ID, "Valid password accepted", "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := a.Catalog().Create("Auth", ""); err != nil {
		t.Fatalf("Catalog().Create() error = %v", err)
	}
	a.Projection().SetSuite(suite.ID)

	if err := a.Shutdown(); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}

	b := openApp(t, cfg)
	defer b.Close()

	cases := b.Store().Cases()
	if len(cases) != 1 {
		t.Fatalf("reopened app has %d cases, want 1", len(cases))
	}
	got := cases[0]
	if got.TestID != created.TestID || got.Title != created.Title {
		t.Errorf("reopened case = %s %q, want %s %q", got.TestID, got.Title, created.TestID, created.Title)
	}
	if got.SyncState != backend.Synced {
		t.Errorf("reopened case sync state = %s, want synced", got.SyncState)
	}
	if got.ID == created.ID {
		t.Errorf("case kept local ID %s after reconcile", got.ID)
	}
	if b.Catalog().Len() != 1 {
		t.Errorf("reopened catalog has %d records, want 1", b.Catalog().Len())
	}
	if b.Projection().SuiteID() != suite.ID {
		t.Errorf("restored suite = %q, want %q", b.Projection().SuiteID(), suite.ID)
	}
}

func TestResolveCase(t *testing.T) {
	ctx := context.Background()
	a := openApp(t, testConfig(t))
	defer a.Close()

	suite, _ := a.Store().AddSuite(backend.TestSuite{Name: "Checkout"})
	c, err := a.Store().Create(ctx, suite.ID, "Pay with card", "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	tests := []struct {
		name    string
		ref     string
		wantErr bool
	}{
		{"by key", c.ID, false},
		{"by test id", c.TestID, false},
		{"unknown", "nope", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := a.ResolveCase(tt.ref)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ResolveCase(%q) error = %v, wantErr %v", tt.ref, err, tt.wantErr)
			}
			if !tt.wantErr && got.TestID != c.TestID {
				t.Errorf("ResolveCase(%q) = %s, want %s", tt.ref, got.TestID, c.TestID)
			}
		})
	}

	if err := a.Store().Reconcile(ctx); err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
}

func TestSettingsReachProjection(t *testing.T) {
	a := openApp(t, testConfig(t))
	defer a.Close()

	s := a.Settings().Current()
	s.PageSize = 10
	if err := a.Settings().Publish(s); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if a.Projection().PageSize() != 10 {
		t.Errorf("projection page size = %d, want 10", a.Projection().PageSize())
	}
}

func TestSuiteStats(t *testing.T) {
	ctx := context.Background()
	a := openApp(t, testConfig(t))
	defer a.Close()

	suite, _ := a.Store().AddSuite(backend.TestSuite{Name: "Search"})
	c, _ := a.Store().Create(ctx, suite.ID, "Empty query", "")
	failed := backend.StatusError
	if _, err := a.Store().Update(ctx, c.ID, store.CaseUpdate{Status: &failed}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if err := a.Store().Reconcile(ctx); err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}

	stats := a.SuiteStats()
	if len(stats) != 1 || stats[0].Failed != 1 || stats[0].Total != 1 {
		t.Errorf("SuiteStats() = %+v, want one suite with 1 failed", stats)
	}
}

func TestResolveRemote(t *testing.T) {
	keyring.MockInit()
	t.Setenv("QATRACK_HTTP_TOKEN", "env-token")
	t.Setenv("QATRACK_HTTP_URL", "https://override.example.com")

	got := resolveRemote(backend.GatewayConfig{Type: "http", URL: "https://qa.example.com", Token: "config-token"})
	if got.URL != "https://override.example.com" {
		t.Errorf("URL = %q, want the environment override", got.URL)
	}
	if got.Token != "env-token" {
		t.Errorf("Token = %q, want env-token", got.Token)
	}

	local := backend.GatewayConfig{Type: "sqlite", DBPath: "/tmp/remote.db"}
	if resolveRemote(local) != local {
		t.Error("sqlite gateway config should pass through unchanged")
	}
}
