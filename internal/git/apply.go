package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// CherryPick applies rev on top of HEAD. Conflicts are a result, not an error.
func (r *Repo) CherryPick(ctx context.Context, rev string) (ApplyResult, error) {
	_, err := r.runner.Run(ctx, "cherry-pick", rev)
	if err == nil {
		return r.applyResult(ctx, ApplyDone)
	}

	if conflicts, _ := r.conflictedPaths(ctx); len(conflicts) > 0 {
		res, headErr := r.applyResult(ctx, ApplyConflict)
		res.Conflicts = conflicts
		return res, headErr
	}

	output := commandOutput(err)
	if strings.Contains(output, "now empty") || strings.Contains(output, "nothing to commit") {
		_, _ = r.runner.Run(ctx, "cherry-pick", "--abort")
		return r.applyResult(ctx, ApplyUpToDate)
	}

	_, _ = r.runner.Run(ctx, "cherry-pick", "--abort")
	return ApplyResult{}, fmt.Errorf("failed to cherry-pick %s: %w", ShortHash(rev), err)
}

// Rebase replays the current branch onto upstream
func (r *Repo) Rebase(ctx context.Context, upstream string) (ApplyResult, error) {
	before, _ := r.headHash()

	_, err := r.runner.Run(ctx, "rebase", upstream)
	if err == nil {
		after, _ := r.headHash()
		if before == after {
			return ApplyResult{State: ApplyUpToDate, Head: after}, nil
		}
		return ApplyResult{State: ApplyDone, Head: after}, nil
	}

	if r.isRebaseInProgress() {
		conflicts, _ := r.conflictedPaths(ctx)
		res, headErr := r.applyResult(ctx, ApplyConflict)
		res.Conflicts = conflicts
		return res, headErr
	}

	// Try to abort rebase if it failed for other reasons
	_, _ = r.runner.Run(ctx, "rebase", "--abort")
	return ApplyResult{}, fmt.Errorf("failed to rebase onto %s: %w", upstream, err)
}

// Merge merges upstream into the current branch, fast-forwarding when possible
func (r *Repo) Merge(ctx context.Context, upstream string) (ApplyResult, error) {
	before, _ := r.headHash()

	_, err := r.runner.Run(ctx, "merge", "--no-edit", upstream)
	if err == nil {
		after, _ := r.headHash()
		if before == after {
			return ApplyResult{State: ApplyUpToDate, Head: after}, nil
		}
		return ApplyResult{State: ApplyDone, Head: after}, nil
	}

	if conflicts, _ := r.conflictedPaths(ctx); len(conflicts) > 0 {
		res, headErr := r.applyResult(ctx, ApplyConflict)
		res.Conflicts = conflicts
		return res, headErr
	}
	return ApplyResult{}, fmt.Errorf("failed to merge %s: %w", upstream, err)
}

func (r *Repo) applyResult(_ context.Context, state ApplyState) (ApplyResult, error) {
	head, err := r.headHash()
	if err != nil {
		return ApplyResult{State: state}, err
	}
	return ApplyResult{State: state, Head: head}, nil
}

func (r *Repo) headHash() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	return head.Hash().String(), nil
}

// isRebaseInProgress checks if a rebase is currently in progress
func (r *Repo) isRebaseInProgress() bool {
	for _, dir := range []string{"rebase-merge", "rebase-apply"} {
		if _, err := os.Stat(filepath.Join(r.gitDir, dir)); err == nil {
			return true
		}
	}
	return false
}
