// Package branch holds the branch subcommands.
package branch

import (
	"github.com/spf13/cobra"

	"gitflow.dev/gitflow/internal/actions"
	"gitflow.dev/gitflow/internal/cli/helpers"
)

// NewBranchCmd creates the branch command
func NewBranchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "branch",
		Aliases: []string{"b"},
		Short:   "List, rename, delete and link branches",
	}

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(NewRenameCmd())
	cmd.AddCommand(NewDeleteCmd())
	cmd.AddCommand(NewPruneCmd())
	cmd.AddCommand(NewUpstreamCmd())

	return cmd
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List local and remote-tracking branches",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, actions.BranchListAction)
		},
	}
}
