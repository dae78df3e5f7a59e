package views

import (
	"testing"

	"qatrack/backend"
)

func TestAggregateSuiteStats_ErrorAndPending(t *testing.T) {
	cases := []backend.TestCase{
		{SuiteID: "s", Status: backend.StatusError},
		{SuiteID: "s", Status: backend.StatusPending},
		{SuiteID: "other", Status: backend.StatusSuccess},
	}

	got := AggregateSuiteStats(cases, "s")
	want := SuiteStats{SuiteID: "s", Total: 2, Passed: 0, Failed: 1, Open: 1, Skipped: 0}
	if got != want {
		t.Errorf("AggregateSuiteStats = %+v, want %+v", got, want)
	}
}

func TestAggregateSuiteStats_WarningCountsAsOpen(t *testing.T) {
	cases := []backend.TestCase{
		{SuiteID: "s", Status: backend.StatusWarning},
		{SuiteID: "s", Status: backend.StatusPending},
		{SuiteID: "s", Status: backend.StatusSkipped},
		{SuiteID: "s", Status: backend.StatusSuccess},
	}

	got := AggregateSuiteStats(cases, "s")
	if got.Open != 2 || got.Skipped != 1 || got.Passed != 1 || got.Total != 4 {
		t.Errorf("unexpected stats %+v", got)
	}
}

func TestSuiteStats_Badge(t *testing.T) {
	tests := []struct {
		name  string
		stats SuiteStats
		want  Badge
	}{
		{"failed wins", SuiteStats{Total: 3, Passed: 1, Failed: 1, Open: 1}, Badge{BadgeFailed, 1}},
		{"all passed", SuiteStats{Total: 2, Passed: 2}, Badge{BadgeDone, 2}},
		{"empty suite is neutral", SuiteStats{}, Badge{BadgeNeutral, 0}},
		{"skipped keeps it neutral", SuiteStats{Total: 2, Passed: 1, Skipped: 1}, Badge{BadgeNeutral, 0}},
		{"open count shown", SuiteStats{Total: 4, Passed: 1, Open: 3}, Badge{BadgeNeutral, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.stats.Badge(); got != tt.want {
				t.Errorf("Badge() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestAggregateGlobalOpen(t *testing.T) {
	all := []SuiteStats{
		{Open: 2, Failed: 1},
		{Open: 0, Failed: 0, Passed: 5},
		{Open: 1, Failed: 3},
	}
	if got := AggregateGlobalOpen(all); got != 7 {
		t.Errorf("AggregateGlobalOpen = %d, want 7", got)
	}
	if got := AggregateGlobalOpen(nil); got != 0 {
		t.Errorf("AggregateGlobalOpen(nil) = %d, want 0", got)
	}
}

func TestAggregateAll(t *testing.T) {
	suites := []backend.TestSuite{{ID: "login"}, {ID: "checkout"}}
	stats := AggregateAll(sampleCases(), suites)

	if len(stats) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(stats))
	}
	if stats[0].SuiteID != "login" || stats[0].Total != 4 {
		t.Errorf("login stats = %+v", stats[0])
	}
	if stats[1].SuiteID != "checkout" || stats[1].Open != 1 {
		t.Errorf("checkout stats = %+v", stats[1])
	}
}
