package output

import (
	"os"
	"path/filepath"
)

// GetLogFilePath returns the path to the log file.
// GITFLOW_LOG_FILE wins; otherwise the XDG state directory is used.
func GetLogFilePath(configured string) string {
	if customPath := os.Getenv("GITFLOW_LOG_FILE"); customPath != "" {
		return customPath
	}
	if configured != "" {
		return configured
	}

	if stateHome := os.Getenv("XDG_STATE_HOME"); stateHome != "" {
		return filepath.Join(stateHome, "gitflow", "gitflow.log")
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "gitflow.log"
	}
	return filepath.Join(homeDir, ".local", "state", "gitflow", "gitflow.log")
}
