package main

import (
	"fmt"
	"io"

	"qatrack/backend"
	"qatrack/internal/cli"
	"qatrack/internal/utils"
	"qatrack/internal/views"

	"github.com/spf13/cobra"
)

func suiteNames() []backend.TestSuite {
	if application == nil {
		return nil
	}
	return application.Store().Suites()
}

// newSuiteCmd creates the suite management command with all subcommands
func newSuiteCmd() *cobra.Command {
	suiteCmd := &cobra.Command{
		Use:   "suite",
		Short: "Manage test suites",
		Long: `Manage test suites (add, list, delete).

Examples:
  qatrack suite                        # Show all suites with their badges
  qatrack suite add "Checkout" -i cart # Create a suite with an icon
  qatrack suite delete Checkout        # Delete a suite and all its cases`,
		RunE: runSuiteList,
	}

	suiteCmd.AddCommand(newSuiteAddCmd())
	suiteCmd.AddCommand(newSuiteListCmd())
	suiteCmd.AddCommand(newSuiteDeleteCmd())

	return suiteCmd
}

// newSuiteAddCmd creates the 'suite add' command
func newSuiteAddCmd() *cobra.Command {
	var icon string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a new test suite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			suite, err := application.Store().AddSuite(backend.TestSuite{Name: args[0], Icon: icon})
			if err != nil {
				return err
			}
			return utils.Write(cmd.OutOrStdout(), outputFormat, suite, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Suite '%s' created (ID: %s)\n", suite.Name, suite.ID)
				return err
			})
		},
	}

	cmd.Flags().StringVarP(&icon, "icon", "i", "", "Suite icon name")

	return cmd
}

// newSuiteListCmd creates the 'suite list' command
func newSuiteListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show all suites with their badges",
		Args:  cobra.NoArgs,
		RunE:  runSuiteList,
	}
}

func runSuiteList(cmd *cobra.Command, args []string) error {
	suites := application.Store().Suites()
	stats := application.SuiteStats()

	type suiteRow struct {
		backend.TestSuite `yaml:",inline"`
		Total             int         `json:"total" yaml:"total"`
		Badge             views.Badge `json:"badge" yaml:"badge"`
	}
	rows := make([]suiteRow, len(suites))
	for i, s := range suites {
		rows[i] = suiteRow{TestSuite: s, Total: stats[i].Total, Badge: stats[i].Badge()}
	}

	return utils.Write(cmd.OutOrStdout(), outputFormat, rows, func(w io.Writer) error {
		if len(suites) == 0 {
			return utils.ErrNoSuitesAvailable()
		}
		cli.ShowSuites(w, suites, stats)
		return nil
	})
}

// newSuiteDeleteCmd creates the 'suite delete' command
func newSuiteDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <suite>",
		Short: "Delete a suite and all of its test cases",
		Long: `Delete a suite by name or ID. Every test case of the suite is deleted
locally and on the server.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: cli.SuiteCompletion(suiteNames),
		RunE: func(cmd *cobra.Command, args []string) error {
			suite, err := application.ResolveSuite(args[0])
			if err != nil {
				return err
			}

			removed, _ := application.Store().RemoveSuite(cmd.Context(), suite.ID)
			if application.Projection().SuiteID() == suite.ID {
				application.Projection().SetSuite("")
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Suite '%s' deleted with %d test cases\n", suite.Name, removed)
			return nil
		},
	}
}
