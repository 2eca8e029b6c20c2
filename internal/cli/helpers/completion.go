package helpers

import (
	"github.com/spf13/cobra"

	"gitflow.dev/gitflow/internal/runtime"
)

// CompleteBranches is a helper for cobra.ValidArgsFunction and RegisterFlagCompletionFunc
// that returns all branch names in the repository.
func CompleteBranches(cmd *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	ctx, err := runtime.GetContext(cmd.Context(), ConfigPath(cmd))
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	set, err := ctx.Branches.All(ctx, ctx.Repo)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	names := make([]string, 0, len(set.Locals)+len(set.Remotes))
	for _, ref := range set.Locals {
		names = append(names, ref.Short)
	}
	for _, ref := range set.Remotes {
		names = append(names, ref.Short)
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}
