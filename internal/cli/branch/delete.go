package branch

import (
	"github.com/spf13/cobra"

	"gitflow.dev/gitflow/internal/actions"
	"gitflow.dev/gitflow/internal/cli/helpers"
	"gitflow.dev/gitflow/internal/runtime"
)

// NewDeleteCmd creates the delete command
func NewDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "delete <branch>...",
		Aliases:           []string{"d", "rm"},
		Short:             "Delete local branches",
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: helpers.CompleteBranches,
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.BranchDeleteAction(ctx, args)
			})
		},
	}
}

// NewPruneCmd creates the prune command
func NewPruneCmd() *cobra.Command {
	var opts actions.BranchPruneOptions

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete every local branch except the current one",
		Long: `Delete every local branch except the current one. Remote-tracking
branches are never touched. With --all the current branch goes too, leaving
HEAD on an unborn branch and asking for confirmation first unless --yes
is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.BranchPruneAction(ctx, opts)
			})
		},
	}

	cmd.Flags().BoolVar(&opts.All, "all", false, "Delete the current branch as well")
	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "Do not ask for confirmation")

	return cmd
}
