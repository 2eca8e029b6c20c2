package main

import (
	"os"

	"gitflow.dev/gitflow/internal/cli"
	"gitflow.dev/gitflow/internal/output"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := cli.NewRootCmd(version, commit, date)
	if err := rootCmd.Execute(); err != nil {
		output.NewSplog().Error("%v", err)
		os.Exit(cli.ExitCode(err))
	}
}
