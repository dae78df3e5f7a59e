package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"qatrack/internal/app"
	"qatrack/internal/config"
	"qatrack/internal/credentials"
	"qatrack/internal/utils"

	"github.com/spf13/cobra"
)

// annotationNoApp marks commands that run without loading the local data
const annotationNoApp = "qatrack/no-app"

var (
	application  *app.App
	configPath   string
	envFile      string
	verbose      bool
	outputFormat string
)

// newRootCmd builds the command tree
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "qatrack",
		Short: "Track QA test cases and keep them in sync with the QA server",
		Long: `qatrack keeps test suites and test cases in a local database and pushes
every change to the configured QA server in the background.

Examples:
  qatrack suite add "Login"                    # Create a suite
  qatrack case add Login "Valid password"      # Add a case to it
  qatrack case update LO-VP001 --status error  # Record a QA result
  qatrack case list Login --status error       # Show failing cases
  qatrack sync                                 # Retry everything that did not sync
  qatrack import cases.yaml                    # Bulk create from a YAML file`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			utils.SetVerboseMode(verbose)

			if err := utils.ValidateOutputFormat(outputFormat); err != nil {
				return err
			}
			if cmd.Flags().Changed("config") {
				config.SetCustomConfigPath(configPath)
			}
			if envFile != "" {
				if err := credentials.LoadEnvFile(envFile); err != nil {
					return err
				}
			}
			if skipsApp(cmd) {
				return nil
			}

			cfg, err := config.LoadUserOrSampleConfig()
			if err != nil {
				return err
			}

			application, err = app.NewWithConfig(cmd.Context(), cfg)
			return err
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file or directory (default is the user config dir)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "load environment variables such as QATRACK_HTTP_TOKEN from a file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", utils.FormatText, "output format: text, json or yaml")

	rootCmd.AddCommand(newSuiteCmd())
	rootCmd.AddCommand(newCaseCmd())
	rootCmd.AddCommand(newSyncCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newCategoryCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newTokenCmd())

	return rootCmd
}

// skipsApp reports whether cmd runs without loading config and data
func skipsApp(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "completion" || c.Name() == "help" || c.Annotations[annotationNoApp] == "true" {
			return true
		}
	}
	return false
}

// execute runs the CLI with args and saves the store before returning
func execute(ctx context.Context, args []string, out io.Writer) error {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(out)

	err := rootCmd.ExecuteContext(ctx)
	if application != nil {
		err = errors.Join(err, application.Shutdown())
		application = nil
	}
	return err
}

func main() {
	if err := execute(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
