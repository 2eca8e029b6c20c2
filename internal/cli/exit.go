package cli

import (
	"errors"

	"gitflow.dev/gitflow/internal/prompt"
)

// ExitCode maps a command error to the process exit status: 0 on success,
// 130 when the user canceled a prompt and 1 for every other failure.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, prompt.ErrCanceled):
		return 130
	default:
		return 1
	}
}
