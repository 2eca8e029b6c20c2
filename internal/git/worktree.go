package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"

	gferrors "gitflow.dev/gitflow/internal/errors"
)

// Checkout switches to a local branch. Local modifications that would be
// overwritten make it fail with a CheckoutConflictError and leave the
// worktree untouched.
func (r *Repo) Checkout(ctx context.Context, branch string) error {
	name := strings.TrimPrefix(branch, "refs/heads/")
	if _, err := r.repo.Reference(plumbing.NewBranchReferenceName(name), false); err != nil {
		return gferrors.NewBranchNotFoundError(name)
	}

	_, err := r.runner.Run(ctx, "checkout", "-q", name, "--")
	if err == nil {
		return nil
	}

	output := commandOutput(err)
	switch {
	case strings.Contains(output, "would be overwritten"):
		return gferrors.NewCheckoutConflictError(name, parseOverwrittenPaths(output), err)
	case strings.Contains(output, "resolve your current index"), strings.Contains(output, "needs merge"):
		paths, _ := r.conflictedPaths(ctx)
		return gferrors.NewCheckoutConflictError(name, paths, err)
	}
	return fmt.Errorf("failed to checkout %s: %w", name, err)
}

// StageAll stages every change in the worktree, including untracked and deleted files
func (r *Repo) StageAll(ctx context.Context) error {
	if _, err := r.runner.Run(ctx, "add", "-A"); err != nil {
		return fmt.Errorf("failed to stage changes: %w", err)
	}
	return nil
}

// IsClean reports whether index and worktree match HEAD with no untracked files
func (r *Repo) IsClean(ctx context.Context) (bool, error) {
	out, err := r.runner.Run(ctx, "status", "--porcelain", "--untracked-files=all")
	if err != nil {
		return false, fmt.Errorf("failed to read status: %w", err)
	}
	return out == "", nil
}

// Reset moves the current branch to rev
func (r *Repo) Reset(ctx context.Context, rev string, mode ResetMode) error {
	if _, err := r.runner.Run(ctx, "reset", "-q", "--"+mode.String(), rev); err != nil {
		return fmt.Errorf("failed to %s reset to %s: %w", mode, ShortHash(rev), err)
	}
	return nil
}

func (r *Repo) conflictedPaths(ctx context.Context) ([]string, error) {
	return r.runner.RunLines(ctx, "diff", "--name-only", "--diff-filter=U")
}

// parseOverwrittenPaths extracts the tab-indented path list git prints when
// refusing a checkout.
func parseOverwrittenPaths(output string) []string {
	var paths []string
	for _, line := range strings.Split(output, "\n") {
		if strings.HasPrefix(line, "\t") {
			paths = append(paths, strings.TrimSpace(line))
		}
	}
	return paths
}
