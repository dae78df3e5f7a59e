package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"qatrack/internal/cli"
	"qatrack/internal/store"
	qasync "qatrack/internal/sync"
	"qatrack/internal/utils"

	"github.com/spf13/cobra"
)

// newSyncCmd creates the sync command with all subcommands
func newSyncCmd() *cobra.Command {
	var watch bool
	var interval time.Duration

	syncCmd := &cobra.Command{
		Use:   "sync",
		Short: "Retry every test case that is not synced with the server",
		Long: `Retry the server call of every test case whose last attempt failed or
was interrupted. Cases are retried one at a time; a failure does not stop the rest.

Examples:
  qatrack sync                        # Retry once and print the result
  qatrack sync --watch --interval 1m  # Keep retrying until interrupted
  qatrack sync status                 # Show cases that are not synced`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if watch {
				return runSyncWatch(cmd, interval)
			}

			var progress store.RetryProgress
			if outputFormat == utils.FormatText {
				progress = cli.SyncProgress(cmd.ErrOrStderr())
			}
			summary := application.Store().BulkRetrySyncProgress(cmd.Context(), progress)
			failing := application.Store().Unsynced()

			result := struct {
				store.SyncSummary `yaml:",inline"`
				Failing           []string `json:"failing,omitempty" yaml:"failing,omitempty"`
			}{SyncSummary: summary}
			for _, c := range failing {
				result.Failing = append(result.Failing, c.TestID)
			}

			return utils.Write(cmd.OutOrStdout(), outputFormat, result, func(w io.Writer) error {
				cli.ShowSyncSummary(w, summary, failing)
				return nil
			})
		},
	}

	syncCmd.Flags().BoolVarP(&watch, "watch", "w", false, "Keep retrying in the background until interrupted")
	syncCmd.Flags().DurationVar(&interval, "interval", 30*time.Second, "Delay between retry rounds with --watch")

	syncCmd.AddCommand(newSyncStatusCmd())

	return syncCmd
}

func runSyncWatch(cmd *cobra.Command, interval time.Duration) error {
	rc, err := qasync.NewRetryCoordinator(application.Store(), interval)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "Retrying unsynced cases every %v, press Ctrl+C to stop\n", interval)
	rc.RetryNow(ctx)
	rc.Start(ctx)

	<-ctx.Done()
	rc.Shutdown(10 * time.Second)

	summary, rounds := rc.LastSummary()
	fmt.Fprintf(cmd.OutOrStdout(), "Stopped after %d rounds\n", rounds)
	cli.ShowSyncSummary(cmd.OutOrStdout(), summary, application.Store().Unsynced())
	return nil
}

// newSyncStatusCmd creates the 'sync status' command
func newSyncStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show test cases that are not synced",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			unsynced := application.Store().Unsynced()

			return utils.Write(cmd.OutOrStdout(), outputFormat, unsynced, func(w io.Writer) error {
				if len(unsynced) == 0 {
					_, err := fmt.Fprintln(w, "Everything is in sync.")
					return err
				}
				fmt.Fprintf(w, "%d test cases not synced:\n", len(unsynced))
				for _, c := range unsynced {
					fmt.Fprintf(w, "  %-14s %-11s %s\n", c.TestID, c.SyncState, c.LastSyncError)
				}
				_, err := fmt.Fprintln(w, "Run 'qatrack sync' to retry them.")
				return err
			})
		},
	}
}
