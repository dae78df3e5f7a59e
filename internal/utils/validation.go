package utils

import (
	"fmt"
	"strings"
)

// ValidateTitle checks that a test case title is usable
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("title must not be empty")
	}
	if len(title) > 500 {
		return fmt.Errorf("title must be at most 500 characters (got %d)", len(title))
	}
	return nil
}

// ValidateIDWidth checks the configured sequence number width (3 or 4 digits)
func ValidateIDWidth(width int) error {
	if width != 3 && width != 4 {
		return fmt.Errorf("id width must be 3 or 4 (got %d)", width)
	}
	return nil
}

// ValidatePageSize checks a page size setting
func ValidatePageSize(size int) error {
	if size < 1 || size > 500 {
		return fmt.Errorf("page size must be between 1 and 500 (got %d)", size)
	}
	return nil
}
