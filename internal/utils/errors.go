package utils

import (
	"errors"
	"fmt"
	"strings"

	"qatrack/backend"
)

// ErrorWithSuggestion wraps an error with a helpful suggestion for the user
type ErrorWithSuggestion struct {
	Err        error
	Suggestion string
}

// Error implements the error interface
func (e *ErrorWithSuggestion) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%v\n\nSuggestion: %s", e.Err, e.Suggestion)
	}
	return e.Err.Error()
}

// Unwrap allows errors.Is and errors.As to work
func (e *ErrorWithSuggestion) Unwrap() error {
	return e.Err
}

// Common error constructors with suggestions

// ErrCaseNotFound creates an error when a test case is not found
func ErrCaseNotFound(ref string) error {
	return &ErrorWithSuggestion{
		Err:        fmt.Errorf("no test case found matching '%s'", ref),
		Suggestion: "Run 'qatrack case list <suite>' to see case IDs",
	}
}

// ErrSuiteNotFound creates an error when a suite is not found
func ErrSuiteNotFound(suiteName string) error {
	return &ErrorWithSuggestion{
		Err:        fmt.Errorf("suite '%s' not found", suiteName),
		Suggestion: "Run 'qatrack suite list' to see available suites",
	}
}

// ErrNoSuitesAvailable creates an error when no suites exist yet
func ErrNoSuitesAvailable() error {
	return &ErrorWithSuggestion{
		Err:        fmt.Errorf("no test suites available"),
		Suggestion: "Create a new suite with 'qatrack suite add <name>'",
	}
}

// ErrGatewayNotConfigured creates an error when the remote gateway is missing from config
func ErrGatewayNotConfigured(gatewayType string) error {
	return &ErrorWithSuggestion{
		Err:        fmt.Errorf("remote gateway '%s' is not configured", gatewayType),
		Suggestion: "Set 'remote.type' to one of: " + strings.Join(backend.RegisteredTypes(), ", "),
	}
}

// ErrDatabaseLocked creates an error when another process holds the local database
func ErrDatabaseLocked(path string) error {
	return &ErrorWithSuggestion{
		Err:        fmt.Errorf("local database %s is in use", path),
		Suggestion: "Another qatrack command is running; wait for it to finish and try again",
	}
}

// ErrInvalidStatus creates an error for invalid status values
func ErrInvalidStatus(status string, validStatuses []string) error {
	return &ErrorWithSuggestion{
		Err:        fmt.Errorf("invalid status: %s", status),
		Suggestion: fmt.Sprintf("Valid statuses: %s", strings.Join(validStatuses, ", ")),
	}
}

// ErrConfigFileNotFound creates an error when config file is not found
func ErrConfigFileNotFound(path string) error {
	return &ErrorWithSuggestion{
		Err:        fmt.Errorf("config file not found at %s", path),
		Suggestion: "Run qatrack to create a default configuration file",
	}
}

// ErrInvalidConfig creates an error for invalid configuration
func ErrInvalidConfig(field string, reason string) error {
	return &ErrorWithSuggestion{
		Err:        fmt.Errorf("invalid configuration for '%s': %s", field, reason),
		Suggestion: fmt.Sprintf("Check ~/.config/qatrack/config.json and fix the '%s' field", field),
	}
}

// WrapWithSuggestion wraps an existing error with a suggestion
func WrapWithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}
	return &ErrorWithSuggestion{
		Err:        err,
		Suggestion: suggestion,
	}
}

// Diagnose turns a sync error into a user-facing message. The status class of a
// RemoteError only changes the wording; callers never branch on it.
func Diagnose(err error) string {
	if err == nil {
		return ""
	}

	var remoteErr *backend.RemoteError
	if errors.As(err, &remoteErr) && remoteErr.StatusCode > 0 {
		switch {
		case remoteErr.IsUnauthorized():
			return fmt.Sprintf("Access denied (%d). Check the API token in the configuration.", remoteErr.StatusCode)
		case remoteErr.IsNotFound():
			return "The case no longer exists on the server (404)."
		case remoteErr.IsServerError():
			return fmt.Sprintf("The server failed (%d). Retry with 'qatrack sync' later.", remoteErr.StatusCode)
		default:
			return fmt.Sprintf("The server rejected the request (%d): %s", remoteErr.StatusCode, remoteErr.Message)
		}
	}

	reason := err.Error()
	switch {
	case strings.Contains(reason, "timeout"), strings.Contains(reason, "deadline exceeded"):
		return "The server did not answer in time. Retry with 'qatrack sync' later."
	case strings.Contains(reason, "refused"):
		return "The server refused the connection. Check that it is running."
	default:
		return "Could not reach the server: " + reason
	}
}
