package memgit

import (
	"context"
	"fmt"
	"strings"

	gferrors "gitflow.dev/gitflow/internal/errors"
	"gitflow.dev/gitflow/internal/git"
)

// Checkout switches branches, carrying local changes that do not collide with
// the target tree and refusing otherwise, like git's safe checkout.
func (e *Engine) Checkout(_ context.Context, branch string) error {
	name := strings.TrimPrefix(branch, "refs/heads/")
	e.checkouts = append(e.checkouts, name)

	refName := "refs/heads/" + name
	hash, ok := e.refs[refName]
	if !ok {
		return notFound(name)
	}
	if len(e.conflicts) > 0 {
		return gferrors.NewCheckoutConflictError(name, e.Conflicts(), fmt.Errorf("unmerged paths in the index"))
	}

	current := e.headTree()
	target := e.trees[e.commits[hash].Tree]

	dirty := map[string]bool{}
	for _, p := range paths(current, e.index, e.worktree) {
		if !samePath(e.index, current, p) || !samePath(e.worktree, current, p) {
			dirty[p] = true
		}
	}

	var blocked []string
	for _, p := range sortedKeys(dirty) {
		if !samePath(current, target, p) {
			blocked = append(blocked, p)
		}
	}
	if len(blocked) > 0 {
		return gferrors.NewCheckoutConflictError(name, blocked, nil)
	}

	for _, p := range paths(current, target) {
		if dirty[p] {
			continue
		}
		if v, ok := target[p]; ok {
			e.index[p] = v
			e.worktree[p] = v
		} else {
			delete(e.index, p)
			delete(e.worktree, p)
		}
	}
	e.head = refName
	e.detached = ""
	return nil
}

// StageAll makes the index match the worktree and resolves conflicts
func (e *Engine) StageAll(_ context.Context) error {
	e.index = e.worktree.clone()
	clear(e.conflicts)
	return nil
}

// IsClean reports whether index and worktree match HEAD
func (e *Engine) IsClean(_ context.Context) (bool, error) {
	current := e.headTree()
	return len(e.conflicts) == 0 && e.index.equal(current) && e.worktree.equal(current), nil
}

// Reset moves the current branch to rev
func (e *Engine) Reset(_ context.Context, rev string, mode git.ResetMode) error {
	hash, err := e.resolve(rev)
	if err != nil {
		return err
	}
	if e.head == "" {
		e.detached = hash
	} else {
		e.refs[e.head] = hash
	}

	snapshot := e.trees[e.commits[hash].Tree]
	switch mode {
	case git.MixedReset:
		e.index = snapshot.clone()
	case git.HardReset:
		e.index = snapshot.clone()
		e.worktree = snapshot.clone()
		clear(e.conflicts)
	}
	return nil
}
