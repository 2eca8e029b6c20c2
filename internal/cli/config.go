package cli

import (
	"github.com/spf13/cobra"

	"gitflow.dev/gitflow/internal/actions"
	"gitflow.dev/gitflow/internal/cli/helpers"
	"gitflow.dev/gitflow/internal/runtime"
)

// newConfigCmd creates the config command
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show and change gitflow and repository settings",
		Long: `Show and change gitflow and repository settings.

Examples:
  gitflow config show
  gitflow config user --name "Ada Lovelace" --email ada@example.com
  gitflow config remote origin git@example.com:ada/project.git --default`,
	}

	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigUserCmd())
	cmd.AddCommand(newConfigRemoteCmd())

	return cmd
}

// newConfigShowCmd creates the config show command
func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.RunWithoutRepo(cmd, actions.ConfigShowAction)
		},
	}
}

// newConfigInitCmd creates the config init command
func newConfigInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write the effective settings to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.RunWithoutRepo(cmd, func(ctx *runtime.Context) error {
				return actions.ConfigInitAction(ctx, helpers.ConfigPath(cmd))
			})
		},
	}
}

// newConfigUserCmd creates the config user command
func newConfigUserCmd() *cobra.Command {
	var name, email string

	cmd := &cobra.Command{
		Use:   "user",
		Short: "Set the repository author identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.ConfigUserAction(ctx, name, email)
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "user.name")
	cmd.Flags().StringVar(&email, "email", "", "user.email")

	return cmd
}

// newConfigRemoteCmd creates the config remote command
func newConfigRemoteCmd() *cobra.Command {
	var makeDefault bool

	cmd := &cobra.Command{
		Use:   "remote <name> <url>",
		Short: "Add a remote or change its URL",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.ConfigRemoteAction(ctx, args[0], args[1], makeDefault)
			})
		},
	}

	cmd.Flags().BoolVar(&makeDefault, "default", false, "Use this remote when several are configured")

	return cmd
}
