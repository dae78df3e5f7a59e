package views

import (
	"fmt"
	"strings"

	"qatrack/backend"
)

// SortFields lists the keys ApplySort understands
var SortFields = []string{"test_id", "title", "status", "created", "modified"}

// ValidateStatusFilter normalizes a status filter. Empty means StatusAll.
func ValidateStatusFilter(filter string) (string, error) {
	filter = strings.ToLower(strings.TrimSpace(filter))
	if filter == "" || filter == StatusAll {
		return StatusAll, nil
	}

	status, err := backend.ParseStatus(filter)
	if err != nil {
		return "", &backend.ValidationError{
			Field:   "status",
			Message: fmt.Sprintf("invalid filter %q (valid: %s, %s)", filter, StatusAll, strings.Join(backend.StatusNames(), ", ")),
		}
	}
	return string(status), nil
}

// ValidateSort checks a sort key and order
func ValidateSort(sortBy, sortOrder string) error {
	if sortBy != "" {
		valid := false
		for _, f := range SortFields {
			if f == sortBy {
				valid = true
				break
			}
		}
		if !valid {
			return &backend.ValidationError{
				Field:   "sort",
				Message: fmt.Sprintf("unknown sort field '%s' (valid: %s)", sortBy, strings.Join(SortFields, ", ")),
			}
		}
	}

	if sortOrder != "" && sortOrder != "asc" && sortOrder != "desc" {
		return &backend.ValidationError{Field: "order", Message: "sort order must be 'asc' or 'desc'"}
	}
	return nil
}
