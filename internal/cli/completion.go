package cli

import (
	"strings"

	"qatrack/backend"

	"github.com/spf13/cobra"
)

// CompletionFunc is the signature cobra expects for ValidArgsFunction
type CompletionFunc func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective)

// SuiteCompletion suggests suite names for the first argument
func SuiteCompletion(suites func() []backend.TestSuite) CompletionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		var completions []string
		for _, s := range suites() {
			if strings.HasPrefix(strings.ToLower(s.Name), strings.ToLower(toComplete)) {
				completions = append(completions, s.Name)
			}
		}
		return completions, cobra.ShellCompDirectiveNoFileComp
	}
}

// StatusCompletion suggests status names, optionally including "all"
func StatusCompletion(includeAll bool) CompletionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		candidates := backend.StatusNames()
		if includeAll {
			candidates = append([]string{"all"}, candidates...)
		}
		var completions []string
		for _, c := range candidates {
			if strings.HasPrefix(c, strings.ToLower(toComplete)) {
				completions = append(completions, c)
			}
		}
		return completions, cobra.ShellCompDirectiveNoFileComp
	}
}
