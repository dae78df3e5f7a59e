package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Output formats accepted by the --output flag
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ValidateOutputFormat checks the --output flag value
func ValidateOutputFormat(format string) error {
	switch strings.ToLower(format) {
	case FormatText, FormatJSON, FormatYAML:
		return nil
	}
	return ErrInvalidConfig("output", fmt.Sprintf("unknown format %q (use text, json or yaml)", format))
}

// Write renders data to w in the requested format. Text output is produced by text.
func Write(w io.Writer, format string, data interface{}, text func(io.Writer) error) error {
	switch strings.ToLower(format) {
	case FormatJSON:
		out, err := MarshalJSON(data)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	case FormatYAML:
		out, err := MarshalYAML(data)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(w, string(out))
		return err
	default:
		return text(w)
	}
}

// OutputJSON marshals the provided data as indented JSON and prints it to stdout.
func OutputJSON(data interface{}) error {
	return Write(os.Stdout, FormatJSON, data, nil)
}

// OutputYAML marshals the provided data as YAML and prints it to stdout.
func OutputYAML(data interface{}) error {
	return Write(os.Stdout, FormatYAML, data, nil)
}

// MarshalJSON marshals the provided data as indented JSON.
func MarshalJSON(data interface{}) ([]byte, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return jsonData, nil
}

// MarshalYAML marshals the provided data as YAML.
func MarshalYAML(data interface{}) ([]byte, error) {
	yamlData, err := yaml.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return yamlData, nil
}
