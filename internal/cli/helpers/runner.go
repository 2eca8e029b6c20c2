// Package helpers provides shared helper functions for CLI commands.
package helpers

import (
	"github.com/spf13/cobra"

	"gitflow.dev/gitflow/internal/runtime"
)

// ConfigFlag is the persistent flag naming the config file.
const ConfigFlag = "config"

// QuietFlag is the persistent flag silencing console output.
const QuietFlag = "quiet"

// ConfigPath returns the --config value, empty when unset.
func ConfigPath(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString(ConfigFlag)
	return path
}

// Run is a helper that provides a runtime context with the current repository
// to a command's execution function
func Run(cmd *cobra.Command, fn func(ctx *runtime.Context) error) error {
	ctx, err := runtime.GetContext(cmd.Context(), ConfigPath(cmd))
	if err != nil {
		return err
	}
	defer func() { _ = ctx.Splog.Close() }()
	applyQuiet(cmd, ctx)
	return fn(ctx)
}

// RunWithoutRepo is Run for commands that do not need a repository yet.
func RunWithoutRepo(cmd *cobra.Command, fn func(ctx *runtime.Context) error) error {
	ctx, err := runtime.Load(cmd.Context(), ConfigPath(cmd))
	if err != nil {
		return err
	}
	defer func() { _ = ctx.Splog.Close() }()
	applyQuiet(cmd, ctx)
	return fn(ctx)
}

func applyQuiet(cmd *cobra.Command, ctx *runtime.Context) {
	if quiet, _ := cmd.Flags().GetBool(QuietFlag); quiet {
		ctx.Splog.SetQuiet(true)
	}
}
