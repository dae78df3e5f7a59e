// Package store owns the in-memory collection of test cases. Mutations are
// applied locally first and pushed to the remote gateway in the background;
// the outcome of every remote call comes back as a message that the store
// applies to its state.
package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"qatrack/backend"
	"qatrack/internal/identifier"
	"qatrack/internal/utils"

	"github.com/google/uuid"
)

// LocalIDPrefix marks IDs that were assigned locally and never confirmed by the remote
const LocalIDPrefix = "local-"

// DefaultSuiteIcon is used for suites created implicitly, e.g. by Import
const DefaultSuiteIcon = "folder"

const outcomeBuffer = 64

type operation string

const (
	opCreate operation = "create"
	opUpdate operation = "update"
	opDelete operation = "delete"
)

// outcome is the result of one remote call, applied by the store when received
type outcome struct {
	op     operation
	caseID string // ID the case had when the call was issued
	result backend.TestCase
	err    error
}

// SyncSummary reports the result of BulkRetrySync
type SyncSummary struct {
	Succeeded int `json:"succeeded" yaml:"succeeded"`
	Failed    int `json:"failed" yaml:"failed"`
}

// CaseUpdate holds the fields to change; nil fields are left alone.
// TestID is accepted but ignored, identifiers never change after creation.
type CaseUpdate struct {
	Title       *string
	Description *string
	Note        *string
	Status      *backend.Status
	TestID      *string
}

type entry struct {
	c     backend.TestCase
	stale bool // edited while a remote call was in flight
}

// Store is the authoritative local collection of suites and test cases
type Store struct {
	mu      sync.Mutex
	gateway backend.Gateway

	idWidth    identifier.Width
	newLocalID func() string
	now        func() time.Time

	suites     map[string]backend.TestSuite
	suiteOrder []string
	cases      []*entry

	inflight   map[string]bool // case ID -> remote call outstanding
	tombstones map[string]bool // deleted while a call was in flight
	pending    int             // dispatched outcomes not applied yet
	outcomes   chan outcome

	listeners []func()
}

// Option configures a Store
type Option func(*Store)

// WithIDWidth sets the digit width of generated test identifiers
func WithIDWidth(width identifier.Width) Option {
	return func(s *Store) {
		s.idWidth = width
	}
}

// WithLocalIDFunc replaces the generator for the unique part of local IDs
func WithLocalIDFunc(fn func() string) Option {
	return func(s *Store) {
		s.newLocalID = fn
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates an empty store that persists through gateway.
// Remote outcomes are applied only while Run or Reconcile is consuming them.
func New(gateway backend.Gateway, opts ...Option) *Store {
	s := &Store{
		gateway:    gateway,
		idWidth:    identifier.Width3,
		newLocalID: uuid.NewString,
		now:        time.Now,
		suites:     make(map[string]backend.TestSuite),
		inflight:   make(map[string]bool),
		tombstones: make(map[string]bool),
		outcomes:   make(chan outcome, outcomeBuffer),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IsLocalID reports whether id was assigned locally and not yet replaced by a remote ID
func IsLocalID(id string) bool {
	return strings.HasPrefix(id, LocalIDPrefix)
}

// OnChange registers fn to be called after every state change
func (s *Store) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Store) notify() {
	s.mu.Lock()
	listeners := make([]func(), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// Load replaces the store's contents with a persisted snapshot. Cases that were
// still pendingSync when saved never got an answer and are loaded as syncFailed.
func (s *Store) Load(suites []backend.TestSuite, cases []backend.TestCase) {
	s.mu.Lock()
	s.suites = make(map[string]backend.TestSuite, len(suites))
	s.suiteOrder = s.suiteOrder[:0]
	for _, suite := range suites {
		s.suites[suite.ID] = suite
		s.suiteOrder = append(s.suiteOrder, suite.ID)
	}

	s.cases = make([]*entry, 0, len(cases))
	for _, c := range cases {
		if c.SyncState == backend.PendingSync || c.SyncState == "" {
			c.SyncState = backend.SyncFailed
			if c.LastSyncError == "" {
				c.LastSyncError = "interrupted before the server answered"
			}
		}
		s.cases = append(s.cases, &entry{c: c})
	}
	s.mu.Unlock()

	s.notify()
}

func (s *Store) findLocked(id string) (int, *entry) {
	for i, e := range s.cases {
		if e.c.ID == id {
			return i, e
		}
	}
	return -1, nil
}

// Create adds a test case to suiteID and starts the remote create in the background.
// The returned case is pendingSync.
func (s *Store) Create(ctx context.Context, suiteID, title, description string) (backend.TestCase, error) {
	if err := utils.ValidateTitle(title); err != nil {
		return backend.TestCase{}, &backend.ValidationError{Field: "title", Message: err.Error()}
	}

	s.mu.Lock()
	suite, ok := s.suites[suiteID]
	if !ok {
		s.mu.Unlock()
		return backend.TestCase{}, backend.NewValidationError("suite", "suite %q not found", suiteID)
	}

	now := s.now()
	c := backend.TestCase{
		ID:          LocalIDPrefix + s.newLocalID(),
		TestID:      s.nextTestIDLocked(suite, title),
		SuiteID:     suiteID,
		Title:       strings.TrimSpace(title),
		Description: description,
		Status:      backend.StatusPending,
		SyncState:   backend.PendingSync,
		Created:     now,
		Modified:    now,
	}
	s.cases = append(s.cases, &entry{c: c})
	s.dispatchLocked(ctx, opCreate, c)
	s.mu.Unlock()

	utils.Debugf("store: created %s (%s) in suite %s", c.TestID, c.ID, suiteID)
	s.notify()
	return c, nil
}

// nextTestIDLocked numbers cases per suite starting at count+1 and skips
// numbers whose identifier is already taken in the suite.
func (s *Store) nextTestIDLocked(suite backend.TestSuite, title string) string {
	taken := make(map[string]bool)
	for _, e := range s.cases {
		if e.c.SuiteID == suite.ID {
			taken[e.c.TestID] = true
		}
	}

	prefix := identifier.SuitePrefix(suite.Name)
	seq := len(taken) + 1
	for {
		id := identifier.TestID(prefix, identifier.Generate(title, seq, s.idWidth))
		if !taken[id] {
			return id
		}
		seq++
	}
}

// Update changes a case's content fields. Status may be set to any value.
// If a remote call for the case is still running, the edit is sent once it resolves.
func (s *Store) Update(ctx context.Context, id string, upd CaseUpdate) (backend.TestCase, error) {
	if upd.Title != nil {
		if err := utils.ValidateTitle(*upd.Title); err != nil {
			return backend.TestCase{}, &backend.ValidationError{Field: "title", Message: err.Error()}
		}
	}

	s.mu.Lock()
	_, e := s.findLocked(id)
	if e == nil {
		s.mu.Unlock()
		return backend.TestCase{}, backend.NewValidationError("id", "test case %q not found", id)
	}

	if upd.TestID != nil && *upd.TestID != e.c.TestID {
		utils.Debugf("store: ignoring test ID change for %s", e.c.TestID)
	}
	if upd.Title != nil {
		e.c.Title = strings.TrimSpace(*upd.Title)
	}
	if upd.Description != nil {
		e.c.Description = *upd.Description
	}
	if upd.Note != nil {
		e.c.Note = *upd.Note
	}
	if upd.Status != nil {
		e.c.Status = *upd.Status
	}
	e.c.Modified = s.now()

	if s.inflight[id] {
		e.stale = true
	} else {
		e.c.SyncState = backend.PendingSync
		e.c.LastSyncError = ""
		op := opUpdate
		if IsLocalID(id) {
			op = opCreate
		}
		s.dispatchLocked(ctx, op, e.c)
	}
	c := e.c
	s.mu.Unlock()

	s.notify()
	return c, nil
}

// Delete removes a case locally and deletes it remotely in the background.
// Unknown IDs are ignored. Remote failures are logged, never rolled back.
func (s *Store) Delete(ctx context.Context, id string) {
	s.mu.Lock()
	removed := s.deleteLocked(ctx, id)
	s.mu.Unlock()

	if removed {
		s.notify()
	}
}

func (s *Store) deleteLocked(ctx context.Context, id string) bool {
	i, e := s.findLocked(id)
	if e == nil {
		return false
	}
	s.cases = append(s.cases[:i], s.cases[i+1:]...)

	switch {
	case s.inflight[id]:
		// the running call decides what to delete remotely when it resolves
		s.tombstones[id] = true
	case !IsLocalID(id):
		s.dispatchDeleteLocked(ctx, id)
	}
	return true
}

// CascadeDeleteSuite deletes every case of suiteID and returns how many were removed.
// Callers invoke it whenever a suite is deleted.
func (s *Store) CascadeDeleteSuite(ctx context.Context, suiteID string) int {
	s.mu.Lock()
	var ids []string
	for _, e := range s.cases {
		if e.c.SuiteID == suiteID {
			ids = append(ids, e.c.ID)
		}
	}
	for _, id := range ids {
		s.deleteLocked(ctx, id)
	}
	s.mu.Unlock()

	if len(ids) > 0 {
		utils.Debugf("store: cascade deleted %d cases of suite %s", len(ids), suiteID)
		s.notify()
	}
	return len(ids)
}

// dispatchLocked starts a remote create or update for c. The call is detached
// from ctx cancellation: once issued it always completes and is applied.
func (s *Store) dispatchLocked(ctx context.Context, op operation, c backend.TestCase) {
	s.inflight[c.ID] = true
	s.pending++

	callCtx := context.WithoutCancel(ctx)
	go func() {
		s.outcomes <- s.call(callCtx, op, c)
	}()
}

func (s *Store) dispatchDeleteLocked(ctx context.Context, id string) {
	s.pending++

	callCtx := context.WithoutCancel(ctx)
	go func() {
		s.outcomes <- s.call(callCtx, opDelete, backend.TestCase{ID: id})
	}()
}

func (s *Store) call(ctx context.Context, op operation, c backend.TestCase) outcome {
	o := outcome{op: op, caseID: c.ID}
	switch op {
	case opCreate:
		o.result, o.err = s.gateway.CreateCase(ctx, c)
	case opUpdate:
		o.result, o.err = s.gateway.UpdateCase(ctx, c)
	case opDelete:
		o.err = s.gateway.DeleteCase(ctx, c.ID)
	}
	return o
}

// applyLocked reconciles local state with one remote outcome
func (s *Store) applyLocked(ctx context.Context, o outcome) {
	s.pending--

	if o.op == opDelete {
		if o.err != nil {
			utils.Warnf("store: remote delete of %s failed: %v", o.caseID, o.err)
		}
		return
	}

	delete(s.inflight, o.caseID)

	if s.tombstones[o.caseID] {
		delete(s.tombstones, o.caseID)
		s.compensateLocked(ctx, o)
		return
	}

	_, e := s.findLocked(o.caseID)
	if e == nil {
		utils.Debugf("store: dropping %s outcome for unknown case %s", o.op, o.caseID)
		return
	}

	if o.err != nil {
		e.c.SyncState = backend.SyncFailed
		e.c.LastSyncError = o.err.Error()
		e.stale = false
		utils.Warnf("store: %s of %s failed: %s", o.op, e.c.TestID, utils.Diagnose(o.err))
		return
	}

	if o.op == opCreate {
		if o.result.ID != "" {
			// only the ID is taken from the remote; content fields keep local edits
			e.c.ID = o.result.ID
		} else {
			utils.Warnf("store: remote create of %s returned no ID", e.c.TestID)
		}
	}
	e.c.LastSyncError = ""

	if e.stale {
		e.stale = false
		op := opUpdate
		if IsLocalID(e.c.ID) {
			op = opCreate
		}
		s.dispatchLocked(ctx, op, e.c)
		return
	}
	e.c.SyncState = backend.Synced
}

// compensateLocked handles an outcome for a case deleted while its call was running
func (s *Store) compensateLocked(ctx context.Context, o outcome) {
	switch {
	case o.err != nil:
		// a failed update leaves the remote record in place
		if !IsLocalID(o.caseID) {
			s.dispatchDeleteLocked(ctx, o.caseID)
		}
	case o.op == opCreate && o.result.ID != "":
		utils.Debugf("store: case %s was deleted during create, removing remote copy %s", o.caseID, o.result.ID)
		s.dispatchDeleteLocked(ctx, o.result.ID)
	case o.op == opUpdate:
		s.dispatchDeleteLocked(ctx, o.caseID)
	}
}

func (s *Store) apply(ctx context.Context, o outcome) {
	s.mu.Lock()
	s.applyLocked(ctx, o)
	s.mu.Unlock()
	s.notify()
}

// Run applies remote outcomes as they arrive until ctx is done
func (s *Store) Run(ctx context.Context) error {
	for {
		select {
		case o := <-s.outcomes:
			s.apply(ctx, o)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Reconcile applies outcomes until no remote call is outstanding, including
// follow-up calls issued while reconciling.
func (s *Store) Reconcile(ctx context.Context) error {
	for s.Pending() > 0 {
		select {
		case o := <-s.outcomes:
			s.apply(ctx, o)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Pending returns the number of remote calls whose outcome has not been applied
func (s *Store) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// RetryProgress is told after each case of a bulk retry how many of total are done
type RetryProgress func(done, total int)

// BulkRetrySync retries every case that is not synced and has no call in flight.
// Cases are attempted one at a time and a failure does not stop the others.
func (s *Store) BulkRetrySync(ctx context.Context) SyncSummary {
	return s.BulkRetrySyncProgress(ctx, nil)
}

// BulkRetrySyncProgress is BulkRetrySync reporting to progress, which may be nil
func (s *Store) BulkRetrySyncProgress(ctx context.Context, progress RetryProgress) SyncSummary {
	type job struct {
		op operation
		c  backend.TestCase
	}

	s.mu.Lock()
	var jobs []job
	for _, e := range s.cases {
		if e.c.SyncState == backend.Synced || s.inflight[e.c.ID] {
			continue
		}
		e.c.SyncState = backend.PendingSync
		s.inflight[e.c.ID] = true
		s.pending++

		op := opUpdate
		if IsLocalID(e.c.ID) {
			op = opCreate
		}
		jobs = append(jobs, job{op: op, c: e.c})
	}
	s.mu.Unlock()

	// issued calls run to completion; ctx only stops the loop between cases
	callCtx := context.WithoutCancel(ctx)

	var summary SyncSummary
	for i, j := range jobs {
		if ctx.Err() != nil {
			var rest []string
			for _, left := range jobs[i:] {
				rest = append(rest, left.c.ID)
			}
			s.releaseJobs(ctx, rest)
			utils.Infof("store: retry stopped with %d cases not attempted", len(jobs)-i)
			break
		}
		o := s.call(callCtx, j.op, j.c)
		if o.err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
		s.apply(ctx, o)
		if progress != nil {
			progress(i+1, len(jobs))
		}
	}

	if len(jobs) > 0 {
		utils.Infof("store: retried %d cases: %d succeeded, %d failed", len(jobs), summary.Succeeded, summary.Failed)
	}
	return summary
}

// releaseJobs returns cases claimed by a bulk retry that never called the gateway
func (s *Store) releaseJobs(ctx context.Context, ids []string) {
	s.mu.Lock()
	for _, id := range ids {
		delete(s.inflight, id)
		s.pending--
		if s.tombstones[id] {
			delete(s.tombstones, id)
			if !IsLocalID(id) {
				s.dispatchDeleteLocked(ctx, id)
			}
			continue
		}
		if _, e := s.findLocked(id); e != nil {
			e.c.SyncState = backend.SyncFailed
		}
	}
	s.mu.Unlock()
	s.notify()
}

// Get returns the case with the given ID
func (s *Store) Get(id string) (backend.TestCase, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, e := s.findLocked(id)
	if e == nil {
		return backend.TestCase{}, false
	}
	return e.c, true
}

// FindByTestID returns the case with the given human identifier
func (s *Store) FindByTestID(testID string) (backend.TestCase, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.cases {
		if strings.EqualFold(e.c.TestID, testID) {
			return e.c, true
		}
	}
	return backend.TestCase{}, false
}

// Cases returns a copy of all cases in creation order
func (s *Store) Cases() []backend.TestCase {
	return s.collect(func(backend.TestCase) bool { return true })
}

// CasesInSuite returns the cases of one suite in creation order
func (s *Store) CasesInSuite(suiteID string) []backend.TestCase {
	return s.collect(func(c backend.TestCase) bool { return c.SuiteID == suiteID })
}

// Unsynced returns every case whose sync state is not synced
func (s *Store) Unsynced() []backend.TestCase {
	return s.collect(func(c backend.TestCase) bool { return c.SyncState != backend.Synced })
}

func (s *Store) collect(keep func(backend.TestCase) bool) []backend.TestCase {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []backend.TestCase
	for _, e := range s.cases {
		if keep(e.c) {
			out = append(out, e.c)
		}
	}
	return out
}
