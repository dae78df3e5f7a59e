package main

import (
	"fmt"
	"os"

	"qatrack/internal/config"
	"qatrack/internal/credentials"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// tokenTarget loads the config and returns the keyring account of the configured http server
func tokenTarget() (*config.Config, string, error) {
	cfg, err := config.LoadUserOrSampleConfig()
	if err != nil {
		return nil, "", err
	}
	if cfg.Remote.Type != "http" {
		return nil, "", fmt.Errorf("remote gateway is %q, API tokens are only used by the http gateway", cfg.Remote.Type)
	}
	return cfg, credentials.AccountFor(cfg.Remote.URL), nil
}

// newTokenCmd creates the API token command with all subcommands
func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage the QA server API token",
		Long: `Store the API token of the QA server in the system keyring.

The token is looked up in this order:
  1. System keyring (entry for the server host)
  2. Environment variable QATRACK_HTTP_TOKEN
  3. remote.token in the config file

Examples:
  qatrack token set --prompt   # Read the token without echoing it
  qatrack token status         # Show where the token comes from
  qatrack token delete`,
		Annotations: map[string]string{annotationNoApp: "true"},
	}

	cmd.AddCommand(newTokenSetCmd())
	cmd.AddCommand(newTokenStatusCmd())
	cmd.AddCommand(newTokenDeleteCmd())

	return cmd
}

func newTokenSetCmd() *cobra.Command {
	var prompt bool

	cmd := &cobra.Command{
		Use:   "set [token]",
		Short: "Store the API token in the system keyring",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, account, err := tokenTarget()
			if err != nil {
				return err
			}

			var token string
			switch {
			case prompt:
				fmt.Fprintf(cmd.OutOrStdout(), "Enter API token for %s: ", account)
				b, err := term.ReadPassword(int(os.Stdin.Fd()))
				fmt.Fprintln(cmd.OutOrStdout())
				if err != nil {
					return fmt.Errorf("failed to read token: %w", err)
				}
				token = string(b)
			case len(args) == 1:
				token = args[0]
			default:
				return fmt.Errorf("token is required (use --prompt for interactive input)")
			}

			if err := credentials.Set(cfg.Remote.Type, account, token); err != nil {
				if !credentials.IsAvailable() {
					return fmt.Errorf("system keyring is not available. Use the environment instead:\n  export %sHTTP_TOKEN=<token>", credentials.EnvPrefix)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Token for %s stored in keyring\n", account)
			return nil
		},
	}

	cmd.Flags().BoolVar(&prompt, "prompt", false, "Read the token interactively")

	return cmd
}

func newTokenStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show where the API token would be read from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, account, err := tokenTarget()
			if err != nil {
				return err
			}

			creds, err := credentials.NewResolver().Resolve(cfg.Remote.Type, account, cfg.Remote.Token)
			if err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "No API token configured for %s\n", account)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "API token for %s found in %s\n", account, creds.Source)
			return nil
		},
	}
}

func newTokenDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete",
		Short: "Remove the API token from the system keyring",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, account, err := tokenTarget()
			if err != nil {
				return err
			}
			if err := credentials.Delete(cfg.Remote.Type, account); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Token for %s removed from keyring\n", account)
			return nil
		},
	}
}
