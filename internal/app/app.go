package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"qatrack/backend"
	_ "qatrack/backend/rest" // registers the http gateway
	"qatrack/backend/sqlite"
	"qatrack/internal/cache"
	"qatrack/internal/category"
	"qatrack/internal/config"
	"qatrack/internal/credentials"
	"qatrack/internal/identifier"
	"qatrack/internal/store"
	"qatrack/internal/utils"
	"qatrack/internal/views"

	"github.com/gofrs/flock"
)

// LocalDBName is the default file for the local snapshot database
const LocalDBName = "qatrack.db"

// lockTimeout bounds how long NewWithConfig waits for another process to release the database
var lockTimeout = 5 * time.Second

const lockRetryInterval = 100 * time.Millisecond

// App holds the application state
type App struct {
	config     *config.Config
	db         *sqlite.Database
	lock       *flock.Flock
	gateway    backend.Gateway
	store      *store.Store
	catalog    *category.Catalog
	settings   *config.SettingsHub
	projection *views.Projection

	unsubscribe func()
	closed      bool
}

// NewApp creates and initializes a new App instance from the user configuration
func NewApp(ctx context.Context) (*App, error) {
	return NewWithConfig(ctx, config.GetConfig())
}

// NewWithConfig opens the local database, connects the remote gateway and
// loads the last snapshot into the store
func NewWithConfig(ctx context.Context, cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}

	dbPath, err := cfg.ExpandedDBPath()
	if err != nil {
		return nil, fmt.Errorf("invalid db_path: %w", err)
	}
	db, err := sqlite.Open(dbPath, LocalDBName)
	if err != nil {
		return nil, fmt.Errorf("failed to open local database: %w", err)
	}

	lock, err := acquireLock(ctx, db.Path())
	if err != nil {
		db.Close()
		return nil, err
	}
	release := func() {
		db.Close()
		lock.Unlock()
	}

	if _, err := backend.GetTypeConstructor(cfg.Remote.Type); err != nil {
		release()
		return nil, utils.ErrGatewayNotConfigured(cfg.Remote.Type)
	}
	gw, err := backend.NewGateway(resolveRemote(cfg.Remote))
	if err != nil {
		release()
		return nil, fmt.Errorf("failed to create remote gateway: %w", err)
	}

	snap, err := db.LoadSnapshot(ctx)
	if err != nil {
		closeGateway(gw)
		release()
		return nil, fmt.Errorf("failed to load local data: %w", err)
	}

	st := store.New(gw, store.WithIDWidth(identifier.ParseWidth(cfg.IDWidth)))
	st.Load(snap.Suites, snap.Cases)
	utils.Debugf("app: loaded %d suites, %d cases, %d categories from %s",
		len(snap.Suites), len(snap.Cases), len(snap.Categories), db.Path())

	a := &App{
		config:   cfg,
		db:       db,
		lock:     lock,
		gateway:  gw,
		store:    st,
		catalog:  category.NewCatalog(snap.Categories, cfg.LocaleTag()),
		settings: config.NewSettingsHub(cfg.Settings),
	}
	a.restoreView(cache.LoadViewStateOrDefault())
	a.unsubscribe = a.settings.Subscribe(a.projection.ApplySettings)

	return a, nil
}

// acquireLock takes an exclusive lock next to the database file so that two
// commands never write the same snapshot
func acquireLock(ctx context.Context, dbPath string) (*flock.Flock, error) {
	lock := flock.New(dbPath + ".lock")

	lockCtx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()

	locked, err := lock.TryLockContext(lockCtx, lockRetryInterval)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return nil, fmt.Errorf("failed to lock local database: %w", err)
	}
	if !locked {
		return nil, utils.ErrDatabaseLocked(dbPath)
	}
	return lock, nil
}

// resolveRemote fills in the URL override and API token for http gateways
func resolveRemote(remote backend.GatewayConfig) backend.GatewayConfig {
	if remote.Type != "http" {
		return remote
	}
	if u := credentials.GetURL(remote.Type); u != "" {
		remote.URL = u
	}

	creds, err := credentials.NewResolver().Resolve(remote.Type, credentials.AccountFor(remote.URL), remote.Token)
	if err != nil {
		utils.Warnf("app: %v, sending requests without a token", err)
		return remote
	}
	utils.Debugf("app: using API token from %s", creds.Source)
	remote.Token = creds.Token
	return remote
}

// restoreView rebuilds the projection from cached state, dropping what no longer applies
func (a *App) restoreView(state cache.ViewState) {
	suiteID := state.SuiteID
	if _, ok := a.store.Suite(suiteID); !ok {
		suiteID = ""
	}
	a.projection = views.NewProjection(suiteID, a.config.Settings.PageSize)

	if state.StatusFilter != "" {
		if err := a.projection.SetStatusFilter(state.StatusFilter); err != nil {
			utils.Debugf("app: ignoring cached status filter: %v", err)
		}
	}
	if state.Page > 1 && suiteID != "" {
		a.projection.SetPage(a.store.CasesInSuite(suiteID), state.Page)
	}
}

// Config returns the loaded configuration
func (a *App) Config() *config.Config {
	return a.config
}

// Store returns the test case store
func (a *App) Store() *store.Store {
	return a.store
}

// Catalog returns the category catalog
func (a *App) Catalog() *category.Catalog {
	return a.catalog
}

// Settings returns the hub that distributes settings changes
func (a *App) Settings() *config.SettingsHub {
	return a.settings
}

// Projection returns the current view over the store
func (a *App) Projection() *views.Projection {
	return a.projection
}

// Database returns the local snapshot database
func (a *App) Database() *sqlite.Database {
	return a.db
}

// ResolveSuite finds a suite by ID or name
func (a *App) ResolveSuite(ref string) (backend.TestSuite, error) {
	if len(a.store.Suites()) == 0 {
		return backend.TestSuite{}, utils.ErrNoSuitesAvailable()
	}
	suite, ok := a.store.ResolveSuite(ref)
	if !ok {
		return backend.TestSuite{}, utils.ErrSuiteNotFound(ref)
	}
	return suite, nil
}

// ResolveCase finds a case by its key or its test identifier
func (a *App) ResolveCase(ref string) (backend.TestCase, error) {
	if c, ok := a.store.Get(ref); ok {
		return c, nil
	}
	if c, ok := a.store.FindByTestID(ref); ok {
		return c, nil
	}
	return backend.TestCase{}, utils.ErrCaseNotFound(ref)
}

// SuiteStats returns the counters of every suite in display order
func (a *App) SuiteStats() []views.SuiteStats {
	return views.AggregateAll(a.store.Cases(), a.store.Suites())
}

// Save waits for outstanding remote calls and writes the snapshot to the local database
func (a *App) Save(ctx context.Context) error {
	if err := a.store.Reconcile(ctx); err != nil {
		utils.Warnf("app: saving before all remote calls answered: %v", err)
	}

	snap := sqlite.Snapshot{
		Suites:     a.store.Suites(),
		Cases:      a.store.Cases(),
		Categories: a.catalog.Records(),
	}
	return utils.LogOperationf("save snapshot to %s", func() error {
		return a.db.SaveSnapshot(ctx, snap)
	}, a.db.Path())
}

// Shutdown saves with a default timeout and releases all resources
func (a *App) Shutdown() error {
	return a.ShutdownWithTimeout(30 * time.Second)
}

// ShutdownWithTimeout saves within timeout and releases all resources
func (a *App) ShutdownWithTimeout(timeout time.Duration) error {
	if a.closed {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	err := a.Save(ctx)
	return errors.Join(err, a.Close())
}

// Close releases resources without saving
func (a *App) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true

	if a.unsubscribe != nil {
		a.unsubscribe()
	}

	state := cache.ViewState{
		SuiteID:      a.projection.SuiteID(),
		StatusFilter: a.projection.StatusFilter(),
		Page:         a.projection.CurrentPage(),
	}
	if err := cache.SaveViewState(state); err != nil {
		utils.Debugf("app: could not save view state: %v", err)
	}

	return errors.Join(closeGateway(a.gateway), a.db.Close(), a.lock.Unlock())
}

func closeGateway(gw backend.Gateway) error {
	if c, ok := gw.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
