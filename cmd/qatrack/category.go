package main

import (
	"fmt"
	"io"
	"strings"

	"qatrack/internal/cli"
	"qatrack/internal/utils"

	"github.com/spf13/cobra"
)

func categoryCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if application == nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var completions []string
	for _, r := range application.Catalog().Records() {
		if strings.HasPrefix(strings.ToLower(r.Name), strings.ToLower(toComplete)) {
			completions = append(completions, r.Name)
		}
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}

// newCategoryCmd creates the category command with all subcommands
func newCategoryCmd() *cobra.Command {
	categoryCmd := &cobra.Command{
		Use:   "category",
		Short: "Manage the category tree",
		Long: `Manage categories. Each category names an optional parent; the tree is
rebuilt from these records whenever it is shown.

Examples:
  qatrack category add Payments
  qatrack category add Cards --parent Payments --count 12
  qatrack category rename Cards "Credit cards"
  qatrack category move "Credit cards" --parent ""
  qatrack category path "Credit cards"
  qatrack category parents Payments
  qatrack category delete Payments        # Also deletes every subcategory
  qatrack category tree`,
		RunE: runCategoryTree,
	}

	categoryCmd.AddCommand(newCategoryAddCmd())
	categoryCmd.AddCommand(newCategoryRenameCmd())
	categoryCmd.AddCommand(newCategoryMoveCmd())
	categoryCmd.AddCommand(newCategoryDeleteCmd())
	categoryCmd.AddCommand(newCategoryTreeCmd())
	categoryCmd.AddCommand(newCategoryPathCmd())
	categoryCmd.AddCommand(newCategoryParentsCmd())

	return categoryCmd
}

// newCategoryAddCmd creates the 'category add' command
func newCategoryAddCmd() *cobra.Command {
	var parent string
	var count int

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := application.Catalog()
			r, err := catalog.Create(args[0], parent)
			if err != nil {
				return err
			}
			if count > 0 {
				if err := catalog.SetCount(r.Name, count); err != nil {
					return err
				}
				r.Count = count
			}
			return utils.Write(cmd.OutOrStdout(), outputFormat, r, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Category '%s' created\n", r.Name)
				return err
			})
		},
	}

	cmd.Flags().StringVarP(&parent, "parent", "p", "", "Parent category")
	cmd.Flags().IntVarP(&count, "count", "c", 0, "Number shown next to the category")
	cmd.RegisterFlagCompletionFunc("parent", categoryCompletion)

	return cmd
}

// newCategoryRenameCmd creates the 'category rename' command
func newCategoryRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "rename <old-name> <new-name>",
		Short:             "Rename a category and keep its subcategories attached",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: categoryCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := application.Catalog().Rename(args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Category '%s' renamed\n", args[0])
			return nil
		},
	}
}

// newCategoryMoveCmd creates the 'category move' command
func newCategoryMoveCmd() *cobra.Command {
	var parent string

	cmd := &cobra.Command{
		Use:               "move <name>",
		Short:             "Give a category a new parent",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: categoryCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := application.Catalog().Move(args[0], parent); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Category '%s' moved\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&parent, "parent", "p", "", "New parent, empty for top level")
	cmd.RegisterFlagCompletionFunc("parent", categoryCompletion)

	return cmd
}

// newCategoryDeleteCmd creates the 'category delete' command
func newCategoryDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "delete <name>",
		Short:             "Delete a category and all of its subcategories",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: categoryCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			removed := application.Catalog().Delete(args[0])
			return utils.Write(cmd.OutOrStdout(), outputFormat, removed, func(w io.Writer) error {
				if len(removed) == 0 {
					_, err := fmt.Fprintf(w, "No category named '%s'\n", args[0])
					return err
				}
				_, err := fmt.Fprintf(w, "Deleted %d categories\n", len(removed))
				return err
			})
		},
	}
}

// newCategoryTreeCmd creates the 'category tree' command
func newCategoryTreeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tree",
		Short: "Show the category tree",
		Args:  cobra.NoArgs,
		RunE:  runCategoryTree,
	}
}

func runCategoryTree(cmd *cobra.Command, args []string) error {
	tree := application.Catalog().Tree()
	return utils.Write(cmd.OutOrStdout(), outputFormat, tree.Roots, func(w io.Writer) error {
		cli.ShowCategoryTree(w, tree)
		return nil
	})
}

// newCategoryPathCmd creates the 'category path' command
func newCategoryPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "path <name>",
		Short:             "Show the chain of parents of a category",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: categoryCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := application.Catalog().AncestorPath(args[0])
			if err != nil {
				return err
			}
			return utils.Write(cmd.OutOrStdout(), outputFormat, path, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, strings.Join(path, " › "))
				return err
			})
		},
	}
}

// newCategoryParentsCmd creates the 'category parents' command
func newCategoryParentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "parents [name]",
		Short:             "List the categories that may become the parent of name",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: categoryCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			candidates := application.Catalog().ParentCandidates(name)
			return utils.Write(cmd.OutOrStdout(), outputFormat, candidates, func(w io.Writer) error {
				for _, c := range candidates {
					fmt.Fprintln(w, c)
				}
				return nil
			})
		},
	}
}
