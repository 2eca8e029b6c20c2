package actions

import (
	"errors"
	"fmt"

	"gitflow.dev/gitflow/internal/commit"
	gferrors "gitflow.dev/gitflow/internal/errors"
	"gitflow.dev/gitflow/internal/git"
	"gitflow.dev/gitflow/internal/output"
	"gitflow.dev/gitflow/internal/runtime"
)

// CheckoutOptions specifies options for the checkout command
type CheckoutOptions struct {
	BranchName string
	// Base is the branch or remote branch a new branch starts from; empty means HEAD
	Base string
	// Create makes a new branch; an existing one is switched to with a warning
	Create bool
	// Rebase squashes the branch into a single commit on its root after switching
	Rebase bool
}

// CheckoutAction switches to a branch, creating it when asked.
func CheckoutAction(ctx *runtime.Context, opts CheckoutOptions) error {
	unlock, err := ctx.Lock()
	if err != nil {
		return err
	}
	defer unlock()

	ref, err := ctx.Repo.Reference(ctx, opts.BranchName)
	if err != nil && !errors.Is(err, gferrors.ErrBranchNotFound) {
		return err
	}
	exists := err == nil && !ref.Remote

	switch {
	case exists && opts.Create:
		ctx.Splog.Warn("Branch %s already exists, switching to it.", output.Branch(opts.BranchName))
	case !exists && !opts.Create && opts.Base == "":
		return gferrors.NewBranchNotFoundError(opts.BranchName)
	case !exists:
		created, err := ctx.Branches.Create(ctx, ctx.Repo, opts.BranchName, opts.Base)
		if err != nil {
			return err
		}
		ctx.Splog.Info("Created %s at %s.", output.Branch(created.Short), output.Hash(git.ShortHash(created.Hash)))
	}

	cur, err := ctx.Branches.Current(ctx, ctx.Repo)
	if err != nil || cur.Short != opts.BranchName {
		if err := ctx.Branches.Checkout(ctx, ctx.Repo, opts.BranchName); err != nil {
			return err
		}
		ctx.Splog.Info("Checked out %s.", output.Branch(opts.BranchName))
	} else {
		ctx.Splog.Info("Already on %s.", output.Branch(opts.BranchName))
	}

	if opts.Rebase {
		return squashToRoot(ctx)
	}
	return nil
}

// squashToRoot folds the whole history of the current branch into its root commit.
func squashToRoot(ctx *runtime.Context) error {
	if err := ctx.Branches.Reset(ctx, ctx.Repo, "", git.SoftReset); err != nil {
		return fmt.Errorf("failed to reset to the root commit: %w", err)
	}
	c, err := ctx.Commits.Amend(ctx, ctx.Repo, commit.AmendOptions{})
	if err != nil {
		return err
	}
	ctx.Splog.Success("Squashed history into %s %s", output.Hash(c.ShortHash()), c.Subject())
	return nil
}
