package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"gitflow.dev/gitflow/internal/cli/branch"
	"gitflow.dev/gitflow/internal/cli/helpers"
	"gitflow.dev/gitflow/internal/output"
)

// NewRootCmd creates the root cobra command
func NewRootCmd(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gitflow",
		Short: "gitflow wraps everyday git workflows: branch, commit, sync and land",
		Long: `gitflow wraps everyday git workflows behind a few commands.

Branches are created and switched with checkout, work is recorded with commit,
exchanged with push, pull and fetch, and landed on another branch as a single
commit with merge-to.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			output.ConfigureColor()
		},
	}

	rootCmd.PersistentFlags().String(helpers.ConfigFlag, "", "Path to the config file (default $XDG_CONFIG_HOME/gitflow/config.yaml)")
	rootCmd.PersistentFlags().BoolP(helpers.QuietFlag, "q", false, "Suppress console output; errors are still printed")

	rootCmd.AddCommand(newCheckoutCmd())
	rootCmd.AddCommand(newCommitCmd())
	rootCmd.AddCommand(newPushCmd())
	rootCmd.AddCommand(newPullCmd())
	rootCmd.AddCommand(newFetchCmd())
	rootCmd.AddCommand(newMergeToCmd())
	rootCmd.AddCommand(newScaffoldCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLogCmd())
	rootCmd.AddCommand(branch.NewBranchCmd())

	return rootCmd
}
