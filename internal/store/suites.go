package store

import (
	"context"
	"strings"

	"qatrack/backend"
	"qatrack/internal/utils"

	"github.com/google/uuid"
)

// AddSuite registers a suite. An empty ID is filled with a fresh UUID.
func (s *Store) AddSuite(suite backend.TestSuite) (backend.TestSuite, error) {
	suite.Name = strings.TrimSpace(suite.Name)
	if suite.Name == "" {
		return backend.TestSuite{}, backend.NewValidationError("name", "suite name must not be empty")
	}
	if suite.ID == "" {
		suite.ID = uuid.NewString()
	}

	s.mu.Lock()
	if _, exists := s.suites[suite.ID]; exists {
		s.mu.Unlock()
		return backend.TestSuite{}, backend.NewValidationError("id", "suite %q already exists", suite.ID)
	}
	if existing, ok := s.suiteByNameLocked(suite.Name); ok {
		s.mu.Unlock()
		return backend.TestSuite{}, backend.NewValidationError("name", "suite %q already exists", existing.Name)
	}
	s.suites[suite.ID] = suite
	s.suiteOrder = append(s.suiteOrder, suite.ID)
	s.mu.Unlock()

	utils.Debugf("store: added suite %s (%s)", suite.Name, suite.ID)
	s.notify()
	return suite, nil
}

// RemoveSuite deletes a suite together with all of its cases.
// It returns the number of cases removed and false if the suite did not exist.
func (s *Store) RemoveSuite(ctx context.Context, id string) (int, bool) {
	s.mu.Lock()
	if _, ok := s.suites[id]; !ok {
		s.mu.Unlock()
		return 0, false
	}
	delete(s.suites, id)
	for i, sid := range s.suiteOrder {
		if sid == id {
			s.suiteOrder = append(s.suiteOrder[:i], s.suiteOrder[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	removed := s.CascadeDeleteSuite(ctx, id)
	s.notify()
	return removed, true
}

// Suite returns the suite with the given ID
func (s *Store) Suite(id string) (backend.TestSuite, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	suite, ok := s.suites[id]
	return suite, ok
}

// SuiteByName looks a suite up by name, ignoring case
func (s *Store) SuiteByName(name string) (backend.TestSuite, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.suiteByNameLocked(name)
}

func (s *Store) suiteByNameLocked(name string) (backend.TestSuite, bool) {
	name = strings.TrimSpace(name)
	for _, id := range s.suiteOrder {
		if strings.EqualFold(s.suites[id].Name, name) {
			return s.suites[id], true
		}
	}
	return backend.TestSuite{}, false
}

// ResolveSuite accepts either a suite ID or a suite name
func (s *Store) ResolveSuite(ref string) (backend.TestSuite, bool) {
	if suite, ok := s.Suite(ref); ok {
		return suite, true
	}
	return s.SuiteByName(ref)
}

// Suites returns all suites in the order they were added
func (s *Store) Suites() []backend.TestSuite {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]backend.TestSuite, 0, len(s.suiteOrder))
	for _, id := range s.suiteOrder {
		out = append(out, s.suites[id])
	}
	return out
}
