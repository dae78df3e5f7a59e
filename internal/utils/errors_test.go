package utils

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"qatrack/backend"
)

func TestErrorWithSuggestion(t *testing.T) {
	cause := errors.New("suite 'Login' not found")

	withHint := &ErrorWithSuggestion{Err: cause, Suggestion: "Run 'qatrack suite list'"}
	if got := withHint.Error(); got != "suite 'Login' not found\n\nSuggestion: Run 'qatrack suite list'" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(withHint, cause) {
		t.Error("errors.Is should see the wrapped cause")
	}

	bare := &ErrorWithSuggestion{Err: cause}
	if got := bare.Error(); got != cause.Error() {
		t.Errorf("Error() without suggestion = %q, want %q", got, cause.Error())
	}
}

func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want []string
	}{
		{"case not found", ErrCaseNotFound("LO-LDD001"), []string{"LO-LDD001", "qatrack case list"}},
		{"suite not found", ErrSuiteNotFound("Checkout"), []string{"'Checkout' not found", "qatrack suite list"}},
		{"no suites", ErrNoSuitesAvailable(), []string{"no test suites", "suite add"}},
		{"gateway", ErrGatewayNotConfigured("ftp"), []string{"'ftp' is not configured", "remote.type"}},
		{"locked", ErrDatabaseLocked("/data/qatrack.db"), []string{"/data/qatrack.db is in use", "Another qatrack command"}},
		{"status", ErrInvalidStatus("green", []string{"pending", "success"}), []string{"green", "pending, success"}},
		{"config file", ErrConfigFileNotFound("/etc/qa.json"), []string{"/etc/qa.json"}},
		{"config field", ErrInvalidConfig("id_width", "must be 3 or 4"), []string{"'id_width'", "must be 3 or 4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sugg *ErrorWithSuggestion
			if !errors.As(tt.err, &sugg) || sugg.Suggestion == "" {
				t.Fatalf("%v is not an ErrorWithSuggestion with a suggestion", tt.err)
			}
			for _, want := range tt.want {
				if !strings.Contains(tt.err.Error(), want) {
					t.Errorf("Error() = %q, want to contain %q", tt.err.Error(), want)
				}
			}
		})
	}
}

func TestDiagnose(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"unauthorized", backend.NewRemoteError("CreateCase", 401, "unauthorized"), "Access denied (401)"},
		{"forbidden", backend.NewRemoteError("CreateCase", 403, "forbidden"), "Access denied (403)"},
		{"not found", backend.NewRemoteError("UpdateCase", 404, "missing"), "no longer exists"},
		{"server error", backend.NewRemoteError("UpdateCase", 503, "unavailable"), "server failed (503)"},
		{"client error", backend.NewRemoteError("CreateCase", 422, "bad title"), "rejected the request (422): bad title"},
		{"wrapped remote error", fmt.Errorf("push: %w", backend.NewRemoteError("CreateCase", 500, "x")), "server failed (500)"},
		{"timeout", errors.New("dial tcp: i/o timeout"), "did not answer in time"},
		{"refused", errors.New("connect: connection refused"), "refused the connection"},
		{"other", errors.New("no route"), "Could not reach the server: no route"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diagnose(tt.err)
			if tt.want == "" {
				if got != "" {
					t.Errorf("Diagnose(nil) = %q, want empty", got)
				}
				return
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("Diagnose() = %q, want to contain %q", got, tt.want)
			}
		})
	}
}

func TestWrapWithSuggestion(t *testing.T) {
	if WrapWithSuggestion(nil, "unused") != nil {
		t.Error("WrapWithSuggestion(nil) should return nil")
	}

	cause := fmt.Errorf("yaml: line 3: did not find expected key")
	err := WrapWithSuggestion(cause, "Each record needs title and suite")
	if !errors.Is(err, cause) || !strings.Contains(err.Error(), "Each record needs title and suite") {
		t.Errorf("WrapWithSuggestion() = %v", err)
	}
}
