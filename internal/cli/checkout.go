package cli

import (
	"github.com/spf13/cobra"

	"gitflow.dev/gitflow/internal/actions"
	"gitflow.dev/gitflow/internal/cli/helpers"
	"gitflow.dev/gitflow/internal/runtime"
)

// newCheckoutCmd creates the checkout command
func newCheckoutCmd() *cobra.Command {
	var (
		create bool
		rebase bool
	)

	cmd := &cobra.Command{
		Use:     "checkout <branch> [base]",
		Aliases: []string{"co"},
		Short:   "Switch to a branch, creating it from base when needed",
		Long: `Switch to a branch, creating it from base when needed.

With -b a new branch is created at base (HEAD when omitted). An existing branch
is switched to with a warning. A base such as origin/feature creates a local
branch from a remote one. --rebase squashes the branch into a single commit on
its root after switching.`,
		Args:              cobra.RangeArgs(1, 2),
		ValidArgsFunction: helpers.CompleteBranches,
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				opts := actions.CheckoutOptions{
					BranchName: args[0],
					Create:     create,
					Rebase:     rebase,
				}
				if len(args) > 1 {
					opts.Base = args[1]
				}
				return actions.CheckoutAction(ctx, opts)
			})
		},
	}

	cmd.Flags().BoolVarP(&create, "create", "b", false, "Create the branch")
	cmd.Flags().BoolVar(&rebase, "rebase", false, "Squash the branch into its root commit")

	return cmd
}
