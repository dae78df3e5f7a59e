package views

import (
	"testing"
	"time"

	"qatrack/backend"
)

func sampleCases() []backend.TestCase {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return []backend.TestCase{
		{ID: "1", TestID: "LO-LDD001", SuiteID: "login", Title: "Login dialog displays", Status: backend.StatusSuccess, Modified: base.Add(3 * time.Hour)},
		{ID: "2", TestID: "LO-PR0002", SuiteID: "login", Title: "password reset", Status: backend.StatusError, Modified: base.Add(1 * time.Hour)},
		{ID: "3", TestID: "LO-RM0003", SuiteID: "login", Title: "Remember me", Status: backend.StatusPending, Modified: base.Add(2 * time.Hour)},
		{ID: "4", TestID: "CH-PBC001", SuiteID: "checkout", Title: "Pay by card", Status: backend.StatusWarning, Modified: base},
		{ID: "5", TestID: "LO-LO0004", SuiteID: "login", Title: "Logout", Status: backend.StatusSkipped, Modified: base.Add(4 * time.Hour)},
	}
}

func ids(cases []backend.TestCase) []string {
	var out []string
	for _, c := range cases {
		out = append(out, c.ID)
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFilter(t *testing.T) {
	cases := sampleCases()

	tests := []struct {
		name   string
		suite  string
		status string
		want   []string
	}{
		{"all statuses", "login", StatusAll, []string{"1", "2", "3", "5"}},
		{"exact status", "login", "error", []string{"2"}},
		{"other suite", "checkout", StatusAll, []string{"4"}},
		{"no partial match", "login", "pend", nil},
		{"status in other suite only", "login", "warning", nil},
		{"unknown suite", "missing", StatusAll, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Filter(cases, tt.suite, tt.status))
			if !equalIDs(got, tt.want) {
				t.Errorf("Filter(%q, %q) = %v, want %v", tt.suite, tt.status, got, tt.want)
			}
		})
	}
}

func TestFilter_KeepsOrder(t *testing.T) {
	got := ids(Filter(sampleCases(), "login", StatusAll))
	if !equalIDs(got, []string{"1", "2", "3", "5"}) {
		t.Errorf("order not preserved: %v", got)
	}
}

func TestApplySort(t *testing.T) {
	tests := []struct {
		name   string
		sortBy string
		order  string
		want   []string
	}{
		{"test id asc", "test_id", "asc", []string{"4", "1", "5", "2", "3"}},
		{"title ignores case", "title", "asc", []string{"1", "5", "2", "4", "3"}},
		{"status rank", "status", "asc", []string{"3", "1", "2", "4", "5"}},
		{"modified desc", "modified", "desc", []string{"5", "1", "3", "2", "4"}},
		{"no sort", "", "", []string{"1", "2", "3", "4", "5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cases := sampleCases()
			ApplySort(cases, tt.sortBy, tt.order)
			if got := ids(cases); !equalIDs(got, tt.want) {
				t.Errorf("ApplySort(%s, %s) = %v, want %v", tt.sortBy, tt.order, got, tt.want)
			}
		})
	}
}

func TestValidateStatusFilter(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", StatusAll, false},
		{"ALL", StatusAll, false},
		{" Error ", "error", false},
		{"skipped", "skipped", false},
		{"done", "", true},
	}

	for _, tt := range tests {
		got, err := ValidateStatusFilter(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateStatusFilter(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ValidateStatusFilter(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidateSort(t *testing.T) {
	if err := ValidateSort("title", "desc"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateSort("priority", ""); err == nil {
		t.Error("expected error for unknown field")
	}
	if err := ValidateSort("title", "up"); err == nil {
		t.Error("expected error for bad order")
	}
}

func TestParseFields(t *testing.T) {
	fields, err := ParseFields("")
	if err != nil || !equalIDs(fields, DefaultFields) {
		t.Errorf("ParseFields(\"\") = %v, %v", fields, err)
	}

	fields, err = ParseFields("test_id, note")
	if err != nil || !equalIDs(fields, []string{"test_id", "note"}) {
		t.Errorf("ParseFields = %v, %v", fields, err)
	}

	if _, err := ParseFields("test_id,priority"); err == nil {
		t.Error("expected error for unknown field")
	}
}

func TestFieldValue(t *testing.T) {
	c := backend.TestCase{
		TestID:      "LO-LDD001",
		Status:      backend.StatusError,
		SyncState:   backend.SyncFailed,
		Description: "first line\nsecond line",
	}

	tests := map[string]string{
		"test_id":     "LO-LDD001",
		"status":      "error",
		"sync":        "syncFailed",
		"description": "first line",
		"modified":    "",
		"unknown":     "",
	}
	for field, want := range tests {
		if got := FieldValue(c, field); got != want {
			t.Errorf("FieldValue(%s) = %q, want %q", field, got, want)
		}
	}
}
