package cli

import (
	"github.com/spf13/cobra"

	"gitflow.dev/gitflow/internal/actions"
	"gitflow.dev/gitflow/internal/cli/helpers"
	"gitflow.dev/gitflow/internal/runtime"
)

// newScaffoldCmd creates the scaffold command
func newScaffoldCmd() *cobra.Command {
	var opts actions.ScaffoldOptions

	cmd := &cobra.Command{
		Use:   "scaffold <url> <dir>",
		Short: "Start a new project from a template repository",
		Long: `Clone a template repository into <dir> and turn it into a fresh project:
the chosen template branch becomes a single "Project init" commit on a branch
named dev, authored by --name and --email. Every other branch is dropped and
origin is repointed with --remote.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.RunWithoutRepo(cmd, func(ctx *runtime.Context) error {
				opts.URL = args[0]
				opts.Dir = args[1]
				return actions.ScaffoldAction(ctx, opts)
			})
		},
	}

	cmd.Flags().StringVar(&opts.Branch, "branch", "", "Template branch to start from")
	cmd.Flags().StringVar(&opts.RemoteURL, "remote", "", "New URL for origin")
	cmd.Flags().StringVar(&opts.UserName, "name", "", "Author name for the project")
	cmd.Flags().StringVar(&opts.UserEmail, "email", "", "Author email for the project")

	return cmd
}
