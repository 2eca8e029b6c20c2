package branch

import (
	"github.com/spf13/cobra"

	"gitflow.dev/gitflow/internal/actions"
	"gitflow.dev/gitflow/internal/cli/helpers"
	"gitflow.dev/gitflow/internal/runtime"
)

// NewRenameCmd creates the rename command
func NewRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <name>",
		Short: "Rename the current branch",
		Long:  `Rename the current branch. Its upstream link moves with it.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.BranchRenameAction(ctx, args[0])
			})
		},
	}
}
