package views

import (
	"fmt"
	"strings"

	"qatrack/backend"
)

// FieldDefinition describes a column that can be shown for a test case
type FieldDefinition struct {
	Name        string
	Label       string
	Description string
	Width       int // 0 = no limit
}

// FieldRegistry maps field names to their definitions
var FieldRegistry = map[string]FieldDefinition{
	"test_id":     {Name: "test_id", Label: "ID", Description: "Human test identifier", Width: 14},
	"title":       {Name: "title", Label: "Title", Description: "Test case title", Width: 48},
	"status":      {Name: "status", Label: "Status", Description: "QA outcome", Width: 8},
	"sync":        {Name: "sync", Label: "Sync", Description: "Sync state with the server", Width: 11},
	"note":        {Name: "note", Label: "Note", Description: "Tester note", Width: 32},
	"description": {Name: "description", Label: "Description", Description: "Steps and expectations", Width: 48},
	"modified":    {Name: "modified", Label: "Modified", Description: "Last local change", Width: 16},
	"id":          {Name: "id", Label: "Key", Description: "Local or remote key", Width: 0},
}

// DefaultFields is the column set used when none is requested
var DefaultFields = []string{"test_id", "status", "sync", "title"}

// GetFieldDefinition returns the definition for a field name
func GetFieldDefinition(name string) (FieldDefinition, bool) {
	def, ok := FieldRegistry[name]
	return def, ok
}

// ParseFields splits a comma separated field list and checks every name
func ParseFields(list string) ([]string, error) {
	if strings.TrimSpace(list) == "" {
		return DefaultFields, nil
	}

	var fields []string
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		if _, ok := GetFieldDefinition(name); !ok {
			return nil, &backend.ValidationError{Field: "fields", Message: fmt.Sprintf("unknown field '%s'", name)}
		}
		fields = append(fields, name)
	}
	return fields, nil
}

// FieldValue returns the plain text value of a field for c
func FieldValue(c backend.TestCase, field string) string {
	switch field {
	case "test_id":
		return c.TestID
	case "title":
		return c.Title
	case "status":
		return string(c.Status)
	case "sync":
		return string(c.SyncState)
	case "note":
		return c.Note
	case "description":
		if i := strings.IndexByte(c.Description, '\n'); i >= 0 {
			return c.Description[:i]
		}
		return c.Description
	case "modified":
		if c.Modified.IsZero() {
			return ""
		}
		return c.Modified.Local().Format("2006-01-02 15:04")
	case "id":
		return c.ID
	default:
		return ""
	}
}
