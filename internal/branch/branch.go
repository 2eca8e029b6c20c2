// Package branch manages local branches and their upstream association.
package branch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gferrors "gitflow.dev/gitflow/internal/errors"
	"gitflow.dev/gitflow/internal/git"
	"gitflow.dev/gitflow/internal/output"
	"gitflow.dev/gitflow/internal/repo"
)

// Set partitions the branches of a repository.
type Set struct {
	Locals  []git.Ref
	Remotes []git.Ref
}

// Upstream is the remote-tracking branch a local branch follows.
type Upstream struct {
	Remote string
	Branch string
}

// IsZero reports whether no upstream is configured.
func (u Upstream) IsZero() bool {
	return u.Remote == "" || u.Branch == ""
}

func (u Upstream) String() string {
	if u.IsZero() {
		return ""
	}
	return u.Remote + "/" + u.Branch
}

// ParseUpstream splits "remote/branch". The branch may itself contain slashes.
func ParseUpstream(s string) (Upstream, error) {
	remote, branch, ok := strings.Cut(s, "/")
	if !ok || remote == "" || branch == "" {
		return Upstream{}, gferrors.NewValidationError("upstream", "%q is not of the form remote/branch", s)
	}
	return Upstream{Remote: remote, Branch: branch}, nil
}

// Manager implements the branch operations.
type Manager struct {
	splog *output.Splog
}

// NewManager creates a Manager.
func NewManager(splog *output.Splog) *Manager {
	return &Manager{splog: output.OrDiscard(splog)}
}

// All lists local and remote-tracking branches.
func (m *Manager) All(ctx context.Context, loc repo.Locator) (Set, error) {
	h, err := repo.Open(ctx, loc)
	if err != nil {
		return Set{}, err
	}
	refs, err := h.References(ctx)
	if err != nil {
		return Set{}, fmt.Errorf("failed to list branches: %w", err)
	}

	var set Set
	for _, ref := range refs {
		if ref.Remote {
			// origin/HEAD is a pointer, not a branch
			if strings.HasSuffix(ref.Short, "/HEAD") {
				continue
			}
			set.Remotes = append(set.Remotes, ref)
		} else {
			set.Locals = append(set.Locals, ref)
		}
	}
	return set, nil
}

// Current returns the checked-out branch.
func (m *Manager) Current(ctx context.Context, loc repo.Locator) (git.Ref, error) {
	h, err := repo.Open(ctx, loc)
	if err != nil {
		return git.Ref{}, err
	}
	return h.HeadRef(ctx)
}

// Create makes a local branch at base. An empty base means the HEAD commit.
func (m *Manager) Create(ctx context.Context, loc repo.Locator, name, base string) (git.Ref, error) {
	h, err := repo.Open(ctx, loc)
	if err != nil {
		return git.Ref{}, err
	}
	if base == "" {
		base = "HEAD"
	}
	tip, err := h.CommitObject(ctx, base)
	if err != nil {
		if base == "HEAD" {
			return git.Ref{}, gferrors.NewValidationError("base", "HEAD has no commits yet")
		}
		return git.Ref{}, err
	}

	if err := h.CreateBranch(ctx, name, tip.Hash); err != nil {
		return git.Ref{}, err
	}
	m.splog.Debug("Created branch %s at %s", name, tip.ShortHash())
	return h.Reference(ctx, "refs/heads/"+name)
}

// Checkout switches to a local branch. Local modifications that the switch
// would overwrite make it fail with a CheckoutConflictError.
func (m *Manager) Checkout(ctx context.Context, loc repo.Locator, name string) error {
	h, err := repo.Open(ctx, loc)
	if err != nil {
		return err
	}
	return h.Checkout(ctx, name)
}

// Rename renames the current branch.
func (m *Manager) Rename(ctx context.Context, loc repo.Locator, newName string) error {
	h, err := repo.Open(ctx, loc)
	if err != nil {
		return err
	}
	head, err := h.HeadRef(ctx)
	if err != nil {
		return err
	}
	if head.Short == newName {
		return nil
	}
	return h.RenameBranch(ctx, head.Short, newName)
}

// Reset moves the current branch to target. An empty target means the root
// commit of HEAD's history.
func (m *Manager) Reset(ctx context.Context, loc repo.Locator, target string, mode git.ResetMode) error {
	h, err := repo.Open(ctx, loc)
	if err != nil {
		return err
	}

	if target == "" {
		target, err = m.root(ctx, h)
		if err != nil {
			return err
		}
	} else {
		c, err := h.CommitObject(ctx, target)
		if err != nil {
			return err
		}
		target = c.Hash
	}

	if err := h.Reset(ctx, target, mode); err != nil {
		return err
	}
	m.splog.Debug("Reset (%s) to %s", mode, git.ShortHash(target))
	return nil
}

// root finds the parentless commit of HEAD's history.
func (m *Manager) root(ctx context.Context, h *repo.Handle) (string, error) {
	head, err := h.HeadRef(ctx)
	if err != nil && !errors.Is(err, gferrors.ErrNotOnBranch) {
		return "", err
	}
	if err == nil && head.IsUnborn() {
		return "", gferrors.NewValidationError("target", "%s has no commits yet", head.Short)
	}

	history, err := h.Log(ctx, "HEAD", 0)
	if err != nil {
		return "", fmt.Errorf("failed to read history: %w", err)
	}
	var roots []string
	for _, c := range history {
		if len(c.Parents) == 0 {
			roots = append(roots, c.Hash)
		}
	}
	switch len(roots) {
	case 0:
		return "", gferrors.NewValidationError("target", "no root commit found")
	case 1:
		return roots[0], nil
	}
	short := make([]string, len(roots))
	for i, r := range roots {
		short[i] = git.ShortHash(r)
	}
	return "", gferrors.NewValidationError("target", "history has %d root commits (%s); pass one explicitly", len(roots), strings.Join(short, ", "))
}

// Delete removes one local branch.
func (m *Manager) Delete(ctx context.Context, loc repo.Locator, name string) error {
	h, err := repo.Open(ctx, loc)
	if err != nil {
		return err
	}
	ref, err := h.Reference(ctx, name)
	if err != nil {
		return err
	}
	if ref.Remote {
		return gferrors.NewBranchNotFoundError(name)
	}
	return h.DeleteBranch(ctx, ref.Short)
}

// DeleteAll removes every local branch, skipping the current one unless
// includeCurrent is set. Remote-tracking branches are never touched.
func (m *Manager) DeleteAll(ctx context.Context, loc repo.Locator, includeCurrent bool) ([]string, error) {
	h, err := repo.Open(ctx, loc)
	if err != nil {
		return nil, err
	}
	set, err := m.All(ctx, h)
	if err != nil {
		return nil, err
	}

	current := ""
	if head, err := h.HeadRef(ctx); err == nil {
		current = head.Short
	}

	var deleted []string
	for _, ref := range set.Locals {
		if ref.Short == current && !includeCurrent {
			continue
		}
		if err := h.DeleteBranch(ctx, ref.Short); err != nil {
			return deleted, err
		}
		deleted = append(deleted, ref.Short)
	}
	return deleted, nil
}

// Tracking returns the persisted upstream of branch, or the zero Upstream
// when none is set. An empty branch means the current one.
func (m *Manager) Tracking(ctx context.Context, loc repo.Locator, branch string) (Upstream, error) {
	h, err := repo.Open(ctx, loc)
	if err != nil {
		return Upstream{}, err
	}
	if branch == "" {
		head, err := h.HeadRef(ctx)
		if err != nil {
			return Upstream{}, err
		}
		branch = head.Short
	}

	remote, err := configValue(ctx, h, "branch."+branch+".remote")
	if err != nil {
		return Upstream{}, err
	}
	merge, err := configValue(ctx, h, "branch."+branch+".merge")
	if err != nil {
		return Upstream{}, err
	}
	if remote == "" || merge == "" {
		return Upstream{}, nil
	}
	return Upstream{Remote: remote, Branch: strings.TrimPrefix(merge, "refs/heads/")}, nil
}

// SetUpstream makes the current branch track upstream ("remote/branch").
// The remote-tracking branch must exist.
func (m *Manager) SetUpstream(ctx context.Context, loc repo.Locator, upstream string) error {
	h, err := repo.Open(ctx, loc)
	if err != nil {
		return err
	}
	head, err := h.HeadRef(ctx)
	if err != nil {
		return err
	}

	up, err := m.resolveUpstream(ctx, h, upstream)
	if err != nil {
		return err
	}
	if err := h.ConfigSet(ctx, "branch."+head.Short+".remote", up.Remote); err != nil {
		return err
	}
	if err := h.ConfigSet(ctx, "branch."+head.Short+".merge", "refs/heads/"+up.Branch); err != nil {
		return err
	}
	m.splog.Debug("%s now tracks %s", head.Short, up)
	return nil
}

// resolveUpstream splits upstream at the name of a configured remote, so
// remotes whose names contain slashes still work.
func (m *Manager) resolveUpstream(ctx context.Context, h *repo.Handle, upstream string) (Upstream, error) {
	if _, err := ParseUpstream(upstream); err != nil {
		return Upstream{}, err
	}
	remotes, err := h.Remotes(ctx)
	if err != nil {
		return Upstream{}, err
	}

	var up Upstream
	for _, r := range remotes {
		if branch, ok := strings.CutPrefix(upstream, r.Name+"/"); ok && branch != "" && len(r.Name) > len(up.Remote) {
			up = Upstream{Remote: r.Name, Branch: branch}
		}
	}
	if up.IsZero() {
		remote, _, _ := strings.Cut(upstream, "/")
		return Upstream{}, gferrors.NewValidationError("remote", "%s is not configured", remote)
	}

	ref, err := h.Reference(ctx, "refs/remotes/"+up.String())
	if err != nil || !ref.Remote {
		return Upstream{}, gferrors.NewBranchNotFoundError(up.String())
	}
	return up, nil
}

// Upstream returns the upstream of the current branch. When none is set it
// links <remote>/<current>, using the alphabetically first remote when remote
// is empty. A failed link is logged and yields the zero Upstream, not an error.
func (m *Manager) Upstream(ctx context.Context, loc repo.Locator, remote string) (Upstream, error) {
	h, err := repo.Open(ctx, loc)
	if err != nil {
		return Upstream{}, err
	}
	head, err := h.HeadRef(ctx)
	if err != nil {
		return Upstream{}, err
	}

	up, err := m.Tracking(ctx, h, head.Short)
	if err != nil || !up.IsZero() {
		return up, err
	}

	if remote == "" {
		remotes, err := h.Remotes(ctx)
		if err != nil {
			return Upstream{}, err
		}
		if len(remotes) == 0 {
			m.splog.Warn("%s has no upstream and no remotes are configured", head.Short)
			return Upstream{}, nil
		}
		remote = remotes[0].Name
	}

	candidate := remote + "/" + head.Short
	m.splog.Debug("%s has no upstream, linking %s", head.Short, candidate)
	if err := m.SetUpstream(ctx, h, candidate); err != nil {
		m.splog.Warn("Could not set upstream of %s to %s: %v", head.Short, candidate, err)
		return Upstream{}, nil
	}
	return m.Tracking(ctx, h, head.Short)
}

func configValue(ctx context.Context, h *repo.Handle, key string) (string, error) {
	value, err := h.ConfigGet(ctx, key)
	if errors.Is(err, git.ErrConfigNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, nil
}
