package memgit

import (
	"context"
	"fmt"

	gferrors "gitflow.dev/gitflow/internal/errors"
	"gitflow.dev/gitflow/internal/git"
)

// CherryPick applies the change introduced by rev on top of HEAD
func (e *Engine) CherryPick(_ context.Context, rev string) (git.ApplyResult, error) {
	hash, err := e.resolve(rev)
	if err != nil {
		return git.ApplyResult{}, err
	}
	if err := e.requireClean("cherry-pick"); err != nil {
		return git.ApplyResult{}, err
	}

	picked := e.commits[hash]
	state, conflicts := e.replay(picked)
	if state == git.ApplyDone {
		e.writeReplayed(picked, []string{e.headHash()})
	}
	return git.ApplyResult{State: state, Head: e.headHash(), Conflicts: conflicts}, nil
}

// Rebase replays the first-parent commits of HEAD not in upstream onto upstream
func (e *Engine) Rebase(_ context.Context, upstream string) (git.ApplyResult, error) {
	up, err := e.resolve(upstream)
	if err != nil {
		return git.ApplyResult{}, err
	}
	if err := e.requireClean("rebase"); err != nil {
		return git.ApplyResult{}, err
	}
	if e.head == "" {
		return git.ApplyResult{}, gferrors.ErrNotOnBranch
	}

	head := e.headHash()
	switch {
	case head == up || e.isAncestor(up, head):
		return git.ApplyResult{State: git.ApplyUpToDate, Head: head}, nil
	case head == "" || e.isAncestor(head, up):
		e.fastForward(up)
		return git.ApplyResult{State: git.ApplyDone, Head: up}, nil
	}

	upstreamHistory := e.reachable(up)
	var pending []git.Commit
	for h := head; h != "" && !upstreamHistory[h]; {
		c := e.commits[h]
		pending = append([]git.Commit{c}, pending...)
		if len(c.Parents) == 0 {
			break
		}
		h = c.Parents[0]
	}

	original := e.refs[e.head]
	e.fastForward(up)
	for _, c := range pending {
		state, conflicts := e.replay(c)
		switch state {
		case git.ApplyConflict:
			// The branch keeps its original tip while conflicts are pending.
			e.refs[e.head] = original
			return git.ApplyResult{State: git.ApplyConflict, Head: original, Conflicts: conflicts}, nil
		case git.ApplyDone:
			e.writeReplayed(c, []string{e.headHash()})
		}
	}
	return git.ApplyResult{State: git.ApplyDone, Head: e.headHash()}, nil
}

// Merge merges upstream into HEAD, fast-forwarding when possible
func (e *Engine) Merge(ctx context.Context, upstream string) (git.ApplyResult, error) {
	up, err := e.resolve(upstream)
	if err != nil {
		return git.ApplyResult{}, err
	}
	if err := e.requireClean("merge"); err != nil {
		return git.ApplyResult{}, err
	}

	head := e.headHash()
	switch {
	case head == up || e.isAncestor(up, head):
		return git.ApplyResult{State: git.ApplyUpToDate, Head: head}, nil
	case head == "" || e.isAncestor(head, up):
		e.fastForward(up)
		return git.ApplyResult{State: git.ApplyDone, Head: up}, nil
	}

	base := e.trees[e.commits[e.mergeBase(head, up)].Tree]
	merged, conflicts := merge3(base, e.headTree(), e.trees[e.commits[up].Tree])
	e.index = merged.clone()
	e.worktree = merged.clone()
	if len(conflicts) > 0 {
		for _, p := range conflicts {
			e.conflicts[p] = true
		}
		return git.ApplyResult{State: git.ApplyConflict, Head: head, Conflicts: conflicts}, nil
	}

	sig := e.signature()
	hash, err := e.WriteCommit(ctx, git.CommitSpec{
		Ref:       e.head,
		Parents:   []string{head, up},
		Author:    sig,
		Committer: sig,
		Message:   fmt.Sprintf("Merge %s\n", upstream),
	})
	if err != nil {
		return git.ApplyResult{}, err
	}
	return git.ApplyResult{State: git.ApplyDone, Head: hash}, nil
}

// replay three-way merges the change of c onto the index and worktree. On
// conflict the conflicted paths are recorded and nothing is committed.
func (e *Engine) replay(c git.Commit) (git.ApplyState, []string) {
	base := tree{}
	if len(c.Parents) > 0 {
		base = e.trees[e.commits[c.Parents[0]].Tree]
	}
	ours := e.headTree()
	merged, conflicts := merge3(base, ours, e.trees[c.Tree])

	e.index = merged.clone()
	e.worktree = merged.clone()
	if len(conflicts) > 0 {
		for _, p := range conflicts {
			e.conflicts[p] = true
		}
		return git.ApplyConflict, conflicts
	}
	if merged.equal(ours) {
		return git.ApplyUpToDate, nil
	}
	return git.ApplyDone, nil
}

// writeReplayed commits the index keeping the author and message of c.
func (e *Engine) writeReplayed(c git.Commit, parents []string) {
	if parents[0] == "" {
		parents = nil
	}
	treeHash := e.storeTree(e.index)
	replayed := git.Commit{
		Tree:      treeHash,
		Parents:   parents,
		Author:    c.Author,
		Committer: e.signature(),
		Message:   c.Message,
	}
	replayed.Hash = hashCommit(replayed)
	e.storeCommit(replayed)
	if e.head == "" {
		e.detached = replayed.Hash
	} else {
		e.refs[e.head] = replayed.Hash
	}
}

func (e *Engine) fastForward(hash string) {
	if e.head == "" {
		e.detached = hash
	} else {
		e.refs[e.head] = hash
	}
	snapshot := e.trees[e.commits[hash].Tree]
	e.index = snapshot.clone()
	e.worktree = snapshot.clone()
}

func (e *Engine) requireClean(op string) error {
	clean, _ := e.IsClean(context.Background())
	if !clean {
		return fmt.Errorf("failed to %s: local changes would be overwritten", op)
	}
	return nil
}
