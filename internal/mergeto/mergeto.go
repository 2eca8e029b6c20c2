// Package mergeto lands the work of the current branch on another branch as
// a single commit.
//
// The commits unique to the current branch C are squashed into one (C is
// rewritten in place), that commit is cherry-picked onto the target T, and
// C is checked out again whatever happened in between.
package mergeto

import (
	"context"
	"fmt"

	"gitflow.dev/gitflow/internal/commit"
	gferrors "gitflow.dev/gitflow/internal/errors"
	"gitflow.dev/gitflow/internal/git"
	"gitflow.dev/gitflow/internal/output"
	"gitflow.dev/gitflow/internal/repo"
)

// Outcome is how a merge-to ended.
type Outcome int

const (
	// OutcomeMerged means the squashed commit now sits on the target
	OutcomeMerged Outcome = iota
	// OutcomeUpToDate means there was nothing to carry over
	OutcomeUpToDate
	// OutcomeConflicted means the cherry-pick stopped on conflicts left on the target
	OutcomeConflicted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeUpToDate:
		return "up-to-date"
	case OutcomeConflicted:
		return "conflicted"
	default:
		return "merged"
	}
}

// Result describes a merge-to.
type Result struct {
	Outcome Outcome
	Source  string
	Target  string
	// Squashed is the commit that replaced the unique commits of Source
	Squashed string
	// Collapsed counts the commits folded into Squashed
	Collapsed int
	// Picked is the new commit on Target
	Picked    string
	Conflicts []string
	// Restored is false when Source could not be checked out again
	Restored bool
}

// Propagator runs merge-to.
type Propagator struct {
	splog   *output.Splog
	commits *commit.Manager
}

// NewPropagator creates a Propagator.
func NewPropagator(splog *output.Splog, commits *commit.Manager) *Propagator {
	return &Propagator{splog: output.OrDiscard(splog), commits: commits}
}

// MergeTo squashes the commits of the current branch that target lacks and
// applies them to target. Conflicts end the call successfully with
// OutcomeConflicted; the user resolves them on target.
func (p *Propagator) MergeTo(ctx context.Context, loc repo.Locator, target string) (res Result, err error) {
	h, err := repo.Open(ctx, loc)
	if err != nil {
		return Result{}, err
	}
	current, err := h.HeadRef(ctx)
	if err != nil {
		return Result{}, err
	}
	res = Result{Source: current.Short, Target: target, Restored: true}

	if current.IsUnborn() {
		return res, gferrors.NewValidationError("branch", "%s has no commits yet", current.Short)
	}
	if target == current.Short {
		return res, gferrors.NewValidationError("target", "%s is the current branch", target)
	}
	tgt, err := h.Reference(ctx, target)
	if err != nil {
		return res, err
	}
	if tgt.Remote {
		return res, gferrors.NewBranchNotFoundError(target)
	}
	if clean, err := h.IsClean(ctx); err != nil {
		return res, err
	} else if !clean {
		return res, gferrors.NewValidationError("working tree", "commit or discard local changes before merging to %s", target)
	}

	root, collapsed, err := p.uniqueRoot(ctx, h, current, tgt)
	if err != nil {
		return res, err
	}
	if collapsed == 0 {
		p.splog.Debug("%s has nothing %s lacks", current.Short, target)
		res.Outcome = OutcomeUpToDate
		return res, nil
	}

	tree, err := h.SquashRange(ctx, tgt.Hash, current.Hash)
	if err != nil {
		return res, err
	}
	if err := h.Reset(ctx, root, git.SoftReset); err != nil {
		return res, err
	}
	squashed, err := p.commits.Amend(ctx, h, commit.AmendOptions{Tree: tree})
	if err != nil {
		return res, err
	}
	res.Squashed = squashed.Hash
	res.Collapsed = collapsed
	p.splog.Debug("Squashed %d commit(s) of %s into %s", collapsed, current.Short, squashed.ShortHash())

	defer func() {
		if cerr := h.Checkout(ctx, current.Short); cerr != nil {
			p.splog.Warn("Could not switch back to %s: %v", current.Short, cerr)
			res.Restored = false
		}
	}()

	if err := h.Checkout(ctx, target); err != nil {
		return res, err
	}
	applied, err := h.CherryPick(ctx, squashed.Hash)
	if err != nil {
		return res, fmt.Errorf("failed to apply %s to %s: %w", squashed.ShortHash(), target, err)
	}

	switch applied.State {
	case git.ApplyConflict:
		res.Outcome = OutcomeConflicted
		res.Conflicts = applied.Conflicts
	case git.ApplyUpToDate:
		res.Outcome = OutcomeUpToDate
	default:
		res.Outcome = OutcomeMerged
		res.Picked = applied.Head
	}
	return res, nil
}

// uniqueRoot finds the oldest commit of current that target lacks: the
// first-parent descendant of target's tip. It returns the number of commits
// from there to current's tip, 0 when target's tip is current's tip.
func (p *Propagator) uniqueRoot(ctx context.Context, h *repo.Handle, current, target git.Ref) (string, int, error) {
	history, err := h.Log(ctx, current.Hash, 0)
	if err != nil {
		return "", 0, fmt.Errorf("failed to read history of %s: %w", current.Short, err)
	}
	found := false
	for _, c := range history {
		if c.Hash == target.Hash {
			found = true
			break
		}
	}
	if !found {
		return "", 0, gferrors.NewHistoryDivergenceError(current.Short, target.Short, "no common ancestor at the tip of "+target.Short)
	}
	if current.Hash == target.Hash {
		return "", 0, nil
	}

	hash, n := current.Hash, 1
	for {
		c, err := h.CommitObject(ctx, hash)
		if err != nil {
			return "", 0, err
		}
		if len(c.Parents) == 0 {
			return "", 0, gferrors.NewHistoryDivergenceError(current.Short, target.Short, target.Short+" was merged in, not branched from")
		}
		if c.Parents[0] == target.Hash {
			return c.Hash, n, nil
		}
		hash = c.Parents[0]
		n++
	}
}
