package cli

import (
	"github.com/spf13/cobra"

	"gitflow.dev/gitflow/internal/actions"
	"gitflow.dev/gitflow/internal/cli/helpers"
	"gitflow.dev/gitflow/internal/runtime"
)

// newMergeToCmd creates the merge-to command
func newMergeToCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "merge-to <branch>",
		Aliases: []string{"gmt"},
		Short:   "Squash the current branch and apply it on top of another branch",
		Long: `Squash every commit the current branch has on top of <branch> into one and
cherry-pick it onto <branch>, then switch back. The tip of <branch> must be in
the history of the current branch; nothing is changed otherwise.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: helpers.CompleteBranches,
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.MergeToAction(ctx, args[0])
			})
		},
	}

	return cmd
}
