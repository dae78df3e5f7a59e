package backend

import (
	"fmt"
	"strings"
	"time"
)

// Status is the QA outcome of a test case
type Status string

const (
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
	StatusWarning Status = "warning"
	StatusSkipped Status = "skipped"
)

// AllStatuses lists the valid statuses in display order
var AllStatuses = []Status{StatusPending, StatusSuccess, StatusError, StatusWarning, StatusSkipped}

// ParseStatus normalizes a user supplied status name
func ParseStatus(s string) (Status, error) {
	normalized := Status(strings.ToLower(strings.TrimSpace(s)))
	for _, status := range AllStatuses {
		if normalized == status {
			return status, nil
		}
	}
	return "", &ValidationError{
		Field:   "status",
		Message: fmt.Sprintf("invalid status %q (valid: %s)", s, strings.Join(StatusNames(), ", ")),
	}
}

// StatusNames returns the string form of AllStatuses
func StatusNames() []string {
	names := make([]string, len(AllStatuses))
	for i, s := range AllStatuses {
		names[i] = string(s)
	}
	return names
}

// SyncState tracks whether the local copy of a test case has reached the remote service.
// Transitions are owned by the store.
type SyncState string

const (
	Synced      SyncState = "synced"
	PendingSync SyncState = "pendingSync"
	SyncFailed  SyncState = "syncFailed"
)

// TestSuite groups test cases. Cases reference their suite by ID only.
type TestSuite struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Icon string `json:"icon,omitempty" yaml:"icon,omitempty"`
}

// TestCase is a single tracked test
type TestCase struct {
	ID            string    `json:"id" yaml:"id"`
	TestID        string    `json:"test_id" yaml:"test_id"` // human identifier, immutable after create
	SuiteID       string    `json:"suite_id" yaml:"suite_id"`
	Title         string    `json:"title" yaml:"title"`
	Description   string    `json:"description,omitempty" yaml:"description,omitempty"`
	Status        Status    `json:"status" yaml:"status"`
	Note          string    `json:"note,omitempty" yaml:"note,omitempty"`
	SyncState     SyncState `json:"sync_state" yaml:"sync_state"`
	LastSyncError string    `json:"last_sync_error,omitempty" yaml:"last_sync_error,omitempty"`
	Created       time.Time `json:"created" yaml:"created"`
	Modified      time.Time `json:"modified" yaml:"modified"`
}

// ImportRecord is a pre-parsed row handed over by an importer
type ImportRecord struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	SuiteName   string `json:"suite" yaml:"suite"`
}

func (c TestCase) String() string {
	var result strings.Builder

	symbol := "○"
	switch c.Status {
	case StatusSuccess:
		symbol = "✓"
	case StatusError:
		symbol = "✗"
	case StatusWarning:
		symbol = "!"
	case StatusSkipped:
		symbol = "-"
	}

	result.WriteString(fmt.Sprintf("  %s %-12s %s", symbol, c.TestID, c.Title))
	if c.SyncState != Synced && c.SyncState != "" {
		result.WriteString(fmt.Sprintf(" [%s]", c.SyncState))
	}
	result.WriteString("\n")

	if c.Description != "" {
		desc := strings.ReplaceAll(c.Description, "\n", " ")
		if len(desc) > 70 {
			desc = desc[:67] + "..."
		}
		result.WriteString(fmt.Sprintf("     %s\n", desc))
	}

	return result.String()
}
