package main

import (
	"fmt"
	"io"
	"os"

	"qatrack/backend"
	"qatrack/internal/utils"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// readImportFile parses a YAML list of {title, description, suite} records
func readImportFile(path string) ([]backend.ImportRecord, error) {
	expanded, err := utils.ExpandPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		return nil, fmt.Errorf("failed to read import file: %w", err)
	}

	var records []backend.ImportRecord
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, utils.WrapWithSuggestion(
			fmt.Errorf("invalid YAML in %s: %w", path, err),
			"The file must be a list of entries with 'title', 'suite' and optional 'description'",
		)
	}
	return records, nil
}

// newImportCmd creates the 'import' command
func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Create test cases in bulk from a YAML file",
		Long: `Create one test case per entry of a YAML list. Suites are matched by name,
ignoring case, and created when missing. Entries that fail are reported and skipped.

Example file:
  - title: Valid password accepted
    suite: Login
  - title: Pay with card
    description: Use the 4242 test card
    suite: Checkout`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := readImportFile(args[0])
			if err != nil {
				return err
			}

			result := application.Store().Import(cmd.Context(), records)

			return utils.Write(cmd.OutOrStdout(), outputFormat, result, func(w io.Writer) error {
				fmt.Fprintln(w, result.Summary())
				for _, f := range result.Failed {
					fmt.Fprintf(w, "  skipped %q: %s\n", f.Record.Title, f.Reason)
				}
				return nil
			})
		},
	}
}
