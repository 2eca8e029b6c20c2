package actions

import (
	"gitflow.dev/gitflow/internal/output"
)

// PrintConflictStatus lists unmerged paths and how to get out of the conflict.
func PrintConflictStatus(splog *output.Splog, what string, paths []string, abortCmd string) {
	splog.Warn("Hit conflicts while %s", what)
	if len(paths) > 0 {
		splog.Info("Unmerged files:")
		for _, p := range paths {
			splog.Info("  %s", p)
		}
	}
	splog.Newline()
	splog.Info("To finish:")
	splog.Info("(1) resolve the listed conflicts")
	splog.Info("(2) mark them as resolved with git add")
	splog.Info("(3) continue with git %s --continue", abortCmd)
	splog.Tip("It's safe to give up with git %s --abort.", abortCmd)
}
