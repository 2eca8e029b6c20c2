package branch

import (
	"github.com/spf13/cobra"

	"gitflow.dev/gitflow/internal/actions"
	"gitflow.dev/gitflow/internal/cli/helpers"
	"gitflow.dev/gitflow/internal/runtime"
)

// NewUpstreamCmd creates the upstream command
func NewUpstreamCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upstream [remote/branch]",
		Short: "Show or set the upstream of the current branch",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				upstream := ""
				if len(args) > 0 {
					upstream = args[0]
				}
				return actions.BranchUpstreamAction(ctx, upstream)
			})
		},
	}
}
