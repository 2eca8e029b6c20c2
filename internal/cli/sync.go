package cli

import (
	"github.com/spf13/cobra"

	"gitflow.dev/gitflow/internal/actions"
	"gitflow.dev/gitflow/internal/cli/helpers"
	"gitflow.dev/gitflow/internal/runtime"
)

func optionalArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

// newPushCmd creates the push command
func newPushCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "push [remote]",
		Short: "Push the current branch and link its upstream",
		Long: `Push the current branch to a branch of the same name on the remote.

The only remote is used when there is one; with several, remote.default or a
prompt decides. The upstream is linked after a successful push.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.PushAction(ctx, actions.PushOptions{Remote: optionalArg(args), Force: force})
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Force push (refused)")

	return cmd
}

// newPullCmd creates the pull command
func newPullCmd() *cobra.Command {
	var (
		force bool
		mode  string
	)

	cmd := &cobra.Command{
		Use:   "pull [remote]",
		Short: "Fetch the upstream of the current branch and integrate it",
		Long: `Fetch the upstream of the current branch and rebase onto it, or merge it
with --mode merge. A branch without an upstream is linked to the branch of the
same name on the remote first. Conflicts stop the pull and are listed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.PullAction(ctx, actions.PullOptions{Remote: optionalArg(args), Force: force, Mode: mode})
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Force pull (refused)")
	cmd.Flags().StringVar(&mode, "mode", "", "rebase or merge (default from pull.mode)")

	return cmd
}

// newFetchCmd creates the fetch command
func newFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch [remote]",
		Short: "Update remote-tracking branches of one remote, or all of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.FetchAction(ctx, optionalArg(args))
			})
		},
	}

	return cmd
}
