package views

import "qatrack/backend"

// SuiteStats counts the cases of one suite by status.
// Open counts pending and warning together; Failed counts error only.
type SuiteStats struct {
	SuiteID string `json:"suite_id" yaml:"suite_id"`
	Total   int    `json:"total" yaml:"total"`
	Passed  int    `json:"passed" yaml:"passed"`
	Failed  int    `json:"failed" yaml:"failed"`
	Open    int    `json:"open" yaml:"open"`
	Skipped int    `json:"skipped" yaml:"skipped"`
}

// BadgeKind selects how a suite is highlighted in a list
type BadgeKind string

const (
	BadgeFailed  BadgeKind = "failed"
	BadgeDone    BadgeKind = "done"
	BadgeNeutral BadgeKind = "neutral"
)

// Badge is the summary shown next to a suite name
type Badge struct {
	Kind  BadgeKind `json:"kind" yaml:"kind"`
	Count int       `json:"count" yaml:"count"`
}

// AggregateSuiteStats counts the cases belonging to suiteID
func AggregateSuiteStats(cases []backend.TestCase, suiteID string) SuiteStats {
	stats := SuiteStats{SuiteID: suiteID}

	for _, c := range cases {
		if c.SuiteID != suiteID {
			continue
		}
		stats.Total++
		switch c.Status {
		case backend.StatusSuccess:
			stats.Passed++
		case backend.StatusError:
			stats.Failed++
		case backend.StatusPending, backend.StatusWarning:
			stats.Open++
		case backend.StatusSkipped:
			stats.Skipped++
		}
	}

	return stats
}

// AggregateAll computes stats for every suite, in the order given
func AggregateAll(cases []backend.TestCase, suites []backend.TestSuite) []SuiteStats {
	out := make([]SuiteStats, 0, len(suites))
	for _, suite := range suites {
		out = append(out, AggregateSuiteStats(cases, suite.ID))
	}
	return out
}

// Badge picks the highlight for the suite: failed if anything failed, done when
// every case passed, otherwise neutral with the open count.
func (s SuiteStats) Badge() Badge {
	switch {
	case s.Failed > 0:
		return Badge{Kind: BadgeFailed, Count: s.Failed}
	case s.Open == 0 && s.Total == s.Passed && s.Total > 0:
		return Badge{Kind: BadgeDone, Count: s.Passed}
	default:
		return Badge{Kind: BadgeNeutral, Count: s.Open}
	}
}

// AggregateGlobalOpen returns the number of cases needing attention across all suites
func AggregateGlobalOpen(all []SuiteStats) int {
	total := 0
	for _, s := range all {
		total += s.Open + s.Failed
	}
	return total
}
