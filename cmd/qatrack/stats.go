package main

import (
	"fmt"
	"io"

	"qatrack/internal/cli"
	"qatrack/internal/utils"
	"qatrack/internal/views"

	"github.com/spf13/cobra"
)

// newStatsCmd creates the 'stats' command
func newStatsCmd() *cobra.Command {
	var showDB bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show per-suite counters and the number of items needing attention",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats := application.SuiteStats()

			result := struct {
				Suites    []views.SuiteStats `json:"suites" yaml:"suites"`
				Attention int                `json:"attention" yaml:"attention"`
				Unsynced  int                `json:"unsynced" yaml:"unsynced"`
			}{
				Suites:    stats,
				Attention: views.AggregateGlobalOpen(stats),
				Unsynced:  len(application.Store().Unsynced()),
			}

			err := utils.Write(cmd.OutOrStdout(), outputFormat, result, func(w io.Writer) error {
				cli.ShowSuites(w, application.Store().Suites(), stats)
				_, err := fmt.Fprintf(w, "  %d cases not synced\n", result.Unsynced)
				return err
			})
			if err != nil || !showDB {
				return err
			}

			dbStats, err := application.Database().GetStats()
			if err != nil {
				return fmt.Errorf("failed to read database stats: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dbStats.String())
			return nil
		},
	}

	cmd.Flags().BoolVar(&showDB, "db", false, "Also show local database statistics")

	return cmd
}
