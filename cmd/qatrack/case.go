package main

import (
	"fmt"
	"io"

	"qatrack/backend"
	"qatrack/internal/cli"
	"qatrack/internal/store"
	"qatrack/internal/utils"
	"qatrack/internal/views"

	"github.com/spf13/cobra"
)

// newCaseCmd creates the test case command with all subcommands
func newCaseCmd() *cobra.Command {
	caseCmd := &cobra.Command{
		Use:   "case",
		Short: "Manage test cases",
		Long: `Manage test cases (add, update, delete, list, show).

Cases are referenced by their test identifier (e.g. LO-VP001) or their key.
Every change is saved locally at once and sent to the server in the background.

Examples:
  qatrack case add Login "Valid password accepted" -d "Enter a valid password"
  qatrack case update LO-VPA001 --status success --note "checked on staging"
  qatrack case list Login --status error --sort modified --order desc
  qatrack case show LO-VPA001
  qatrack case delete LO-VPA001`,
	}

	caseCmd.AddCommand(newCaseAddCmd())
	caseCmd.AddCommand(newCaseUpdateCmd())
	caseCmd.AddCommand(newCaseDeleteCmd())
	caseCmd.AddCommand(newCaseListCmd())
	caseCmd.AddCommand(newCaseShowCmd())

	return caseCmd
}

// newCaseAddCmd creates the 'case add' command
func newCaseAddCmd() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:               "add <suite> <title>",
		Short:             "Add a test case to a suite",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: cli.SuiteCompletion(suiteNames),
		RunE: func(cmd *cobra.Command, args []string) error {
			suite, err := application.ResolveSuite(args[0])
			if err != nil {
				return err
			}

			c, err := application.Store().Create(cmd.Context(), suite.ID, args[1], description)
			if err != nil {
				return err
			}

			return utils.Write(cmd.OutOrStdout(), outputFormat, c, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Test case %s added to '%s'\n", c.TestID, suite.Name)
				return err
			})
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Steps and expected result")

	return cmd
}

// newCaseUpdateCmd creates the 'case update' command
func newCaseUpdateCmd() *cobra.Command {
	var title, description, note, status, testID string

	cmd := &cobra.Command{
		Use:   "update <case>",
		Short: "Change a test case",
		Long: `Change the title, description, note or status of a test case.
Only the flags given are changed. The test identifier never changes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := application.ResolveCase(args[0])
			if err != nil {
				return err
			}

			var upd store.CaseUpdate
			flags := cmd.Flags()
			if flags.Changed("title") {
				upd.Title = &title
			}
			if flags.Changed("description") {
				upd.Description = &description
			}
			if flags.Changed("note") {
				upd.Note = &note
			}
			if flags.Changed("test-id") {
				upd.TestID = &testID
			}
			if flags.Changed("status") {
				s, err := backend.ParseStatus(status)
				if err != nil {
					return utils.ErrInvalidStatus(status, backend.StatusNames())
				}
				upd.Status = &s
			}

			updated, err := application.Store().Update(cmd.Context(), c.ID, upd)
			if err != nil {
				return err
			}

			return utils.Write(cmd.OutOrStdout(), outputFormat, updated, func(w io.Writer) error {
				cli.ShowCase(w, updated)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "New title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description")
	cmd.Flags().StringVarP(&note, "note", "n", "", "Tester note")
	cmd.Flags().StringVarP(&status, "status", "s", "", "QA status: "+fmt.Sprint(backend.StatusNames()))
	cmd.Flags().StringVar(&testID, "test-id", "", "Ignored, test identifiers are fixed at creation")
	cmd.RegisterFlagCompletionFunc("status", cli.StatusCompletion(false))

	return cmd
}

// newCaseDeleteCmd creates the 'case delete' command
func newCaseDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <case>",
		Short: "Delete a test case",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := application.ResolveCase(args[0])
			if err != nil {
				return err
			}

			application.Store().Delete(cmd.Context(), c.ID)
			fmt.Fprintf(cmd.OutOrStdout(), "Test case %s deleted\n", c.TestID)
			return nil
		},
	}
}

// newCaseListCmd creates the 'case list' command
func newCaseListCmd() *cobra.Command {
	var (
		status    string
		page      int
		sortBy    string
		sortOrder string
		fieldList string
	)

	cmd := &cobra.Command{
		Use:   "list [suite]",
		Short: "List the test cases of a suite, one page at a time",
		Long: `List the test cases of a suite. Without a suite the last viewed one is shown.

Fields: test_id, title, status, sync, note, description, modified, id`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: cli.SuiteCompletion(suiteNames),
		RunE: func(cmd *cobra.Command, args []string) error {
			proj := application.Projection()

			if len(args) == 1 {
				suite, err := application.ResolveSuite(args[0])
				if err != nil {
					return err
				}
				if suite.ID != proj.SuiteID() {
					proj.SetSuite(suite.ID)
				}
			} else if proj.SuiteID() == "" {
				return utils.WrapWithSuggestion(
					fmt.Errorf("no suite selected"),
					"Pass a suite name: qatrack case list <suite>",
				)
			}

			if cmd.Flags().Changed("status") {
				if err := proj.SetStatusFilter(status); err != nil {
					return utils.ErrInvalidStatus(status, append([]string{views.StatusAll}, backend.StatusNames()...))
				}
			}
			if err := views.ValidateSort(sortBy, sortOrder); err != nil {
				return err
			}
			fields, err := views.ParseFields(fieldList)
			if err != nil {
				return err
			}

			cases := application.Store().Cases()
			if sortBy != "" {
				views.ApplySort(cases, sortBy, sortOrder)
			}
			if cmd.Flags().Changed("page") {
				proj.SetPage(cases, page)
			}
			result := proj.Page(cases)

			return utils.Write(cmd.OutOrStdout(), outputFormat, result, func(w io.Writer) error {
				cli.ShowCases(w, result, fields)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&status, "status", "s", "", "Show only this status, or 'all'")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "Page to show")
	cmd.Flags().StringVar(&sortBy, "sort", "", "Sort by: test_id, title, status, created, modified")
	cmd.Flags().StringVar(&sortOrder, "order", "asc", "Sort order: asc or desc")
	cmd.Flags().StringVarP(&fieldList, "fields", "f", "", "Comma separated columns to show")
	cmd.RegisterFlagCompletionFunc("status", cli.StatusCompletion(true))

	return cmd
}

// newCaseShowCmd creates the 'case show' command
func newCaseShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <case>",
		Short: "Show every field of a test case",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := application.ResolveCase(args[0])
			if err != nil {
				return err
			}
			return utils.Write(cmd.OutOrStdout(), outputFormat, c, func(w io.Writer) error {
				cli.ShowCase(w, c)
				return nil
			})
		},
	}
}
