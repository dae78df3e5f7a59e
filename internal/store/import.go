package store

import (
	"context"
	"fmt"

	"qatrack/backend"
	"qatrack/internal/utils"
)

// ImportFailure is a record that could not be imported
type ImportFailure struct {
	Record backend.ImportRecord `json:"record" yaml:"record"`
	Reason string               `json:"reason" yaml:"reason"`
}

// ImportResult reports what Import did
type ImportResult struct {
	Created       []backend.TestCase  `json:"created" yaml:"created"`
	CreatedSuites []backend.TestSuite `json:"created_suites,omitempty" yaml:"created_suites,omitempty"`
	Failed        []ImportFailure     `json:"failed,omitempty" yaml:"failed,omitempty"`
}

// Import creates one case per record. Suites are matched by name, ignoring
// case, and created when missing. A bad record is reported and skipped.
func (s *Store) Import(ctx context.Context, records []backend.ImportRecord) ImportResult {
	var result ImportResult

	for _, rec := range records {
		if rec.SuiteName == "" {
			result.Failed = append(result.Failed, ImportFailure{Record: rec, Reason: "missing suite"})
			continue
		}

		suite, ok := s.SuiteByName(rec.SuiteName)
		if !ok {
			var err error
			suite, err = s.AddSuite(backend.TestSuite{Name: rec.SuiteName, Icon: DefaultSuiteIcon})
			if err != nil {
				result.Failed = append(result.Failed, ImportFailure{Record: rec, Reason: err.Error()})
				continue
			}
			result.CreatedSuites = append(result.CreatedSuites, suite)
		}

		c, err := s.Create(ctx, suite.ID, rec.Title, rec.Description)
		if err != nil {
			result.Failed = append(result.Failed, ImportFailure{Record: rec, Reason: err.Error()})
			continue
		}
		result.Created = append(result.Created, c)
	}

	utils.Infof("import: %d created, %d failed", len(result.Created), len(result.Failed))
	return result
}

// Summary returns a one-line description of the import
func (r ImportResult) Summary() string {
	return fmt.Sprintf("%d cases imported, %d new suites, %d skipped", len(r.Created), len(r.CreatedSuites), len(r.Failed))
}
