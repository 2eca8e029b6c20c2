package actions

import (
	"gitflow.dev/gitflow/internal/git"
	"gitflow.dev/gitflow/internal/output"
	"gitflow.dev/gitflow/internal/prompt"
	"gitflow.dev/gitflow/internal/runtime"
)

// BranchListAction prints local and remote-tracking branches with their
// upstreams. The current branch is marked with an asterisk.
func BranchListAction(ctx *runtime.Context) error {
	set, err := ctx.Branches.All(ctx, ctx.Repo)
	if err != nil {
		return err
	}
	current := ""
	if cur, err := ctx.Branches.Current(ctx, ctx.Repo); err == nil {
		current = cur.Short
	}

	var rows [][]string
	for _, ref := range set.Locals {
		marker := ""
		if ref.Short == current {
			marker = "*"
		}
		upstream := ""
		if up, err := ctx.Branches.Tracking(ctx, ctx.Repo, ref.Short); err == nil && !up.IsZero() {
			upstream = output.Dim(up.String())
		}
		rows = append(rows, []string{marker, ref.Short, git.ShortHash(ref.Hash), upstream})
	}
	for _, ref := range set.Remotes {
		rows = append(rows, []string{"", ref.Short, git.ShortHash(ref.Hash), ""})
	}
	return output.Table(ctx.Splog.Writer(), []string{"", "Branch", "Commit", "Upstream"}, rows)
}

// BranchRenameAction renames the current branch.
func BranchRenameAction(ctx *runtime.Context, newName string) error {
	unlock, err := ctx.Lock()
	if err != nil {
		return err
	}
	defer unlock()

	cur, err := ctx.Branches.Current(ctx, ctx.Repo)
	if err != nil {
		return err
	}
	if err := ctx.Branches.Rename(ctx, ctx.Repo, newName); err != nil {
		return err
	}
	ctx.Splog.Success("Renamed %s to %s.", output.Branch(cur.Short), output.Branch(newName))
	return nil
}

// BranchDeleteAction deletes local branches by name.
func BranchDeleteAction(ctx *runtime.Context, names []string) error {
	unlock, err := ctx.Lock()
	if err != nil {
		return err
	}
	defer unlock()

	for _, name := range names {
		if err := ctx.Branches.Delete(ctx, ctx.Repo, name); err != nil {
			return err
		}
		ctx.Splog.Success("Deleted %s.", output.Branch(name))
	}
	return nil
}

// BranchPruneOptions contains options for branch prune
type BranchPruneOptions struct {
	// All deletes the current branch as well
	All bool
	// Yes skips the confirmation asked before an --all prune
	Yes bool
}

// BranchPruneAction deletes every local branch except the current one, or
// every local branch when opts.All is set.
func BranchPruneAction(ctx *runtime.Context, opts BranchPruneOptions) error {
	if opts.All && !opts.Yes {
		ok, err := prompt.Confirm(ctx, "Delete every local branch, including the current one?", false)
		if err != nil {
			return err
		}
		if !ok {
			ctx.Splog.Info("Prune canceled.")
			return nil
		}
	}

	unlock, err := ctx.Lock()
	if err != nil {
		return err
	}
	defer unlock()

	deleted, err := ctx.Branches.DeleteAll(ctx, ctx.Repo, opts.All)
	for _, name := range deleted {
		ctx.Splog.Info("Deleted %s.", output.Branch(name))
	}
	if err != nil {
		return err
	}
	if len(deleted) == 0 {
		ctx.Splog.Info("Nothing to prune.")
	}
	return nil
}

// BranchUpstreamAction links the current branch to upstream ("remote/branch"),
// or prints the current link when upstream is empty.
func BranchUpstreamAction(ctx *runtime.Context, upstream string) error {
	if upstream == "" {
		up, err := ctx.Branches.Tracking(ctx, ctx.Repo, "")
		if err != nil {
			return err
		}
		if up.IsZero() {
			ctx.Splog.Info("No upstream set.")
			return nil
		}
		ctx.Splog.Page(up.String())
		return nil
	}

	unlock, err := ctx.Lock()
	if err != nil {
		return err
	}
	defer unlock()

	if err := ctx.Branches.SetUpstream(ctx, ctx.Repo, upstream); err != nil {
		return err
	}
	ctx.Splog.Success("Tracking %s.", output.Branch(upstream))
	return nil
}
