package memgit

import (
	"context"
	"fmt"
	"sort"

	gferrors "gitflow.dev/gitflow/internal/errors"
	"gitflow.dev/gitflow/internal/git"
)

// CommitObject resolves rev to a commit
func (e *Engine) CommitObject(_ context.Context, rev string) (git.Commit, error) {
	hash, err := e.resolve(rev)
	if err != nil {
		return git.Commit{}, err
	}
	return e.commits[hash], nil
}

// Log returns commits reachable from rev, newest first by committer time
func (e *Engine) Log(_ context.Context, rev string, limit int) ([]git.Commit, error) {
	hash, err := e.resolve(rev)
	if err != nil {
		return nil, err
	}

	var commits []git.Commit
	for h := range e.reachable(hash) {
		commits = append(commits, e.commits[h])
	}
	sort.Slice(commits, func(i, j int) bool {
		ti, tj := commits[i].Committer.When, commits[j].Committer.When
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return e.order[commits[i].Hash] > e.order[commits[j].Hash]
	})
	if limit > 0 && len(commits) > limit {
		commits = commits[:limit]
	}
	return commits, nil
}

// WriteCommit stores a commit and optionally moves spec.Ref to it
func (e *Engine) WriteCommit(ctx context.Context, spec git.CommitSpec) (string, error) {
	treeHash := spec.Tree
	if treeHash == "" {
		if len(e.conflicts) > 0 {
			return "", fmt.Errorf("failed to write index tree: unmerged paths %v", e.Conflicts())
		}
		treeHash = e.storeTree(e.index)
	}
	if _, ok := e.trees[treeHash]; !ok {
		return "", fmt.Errorf("failed to write commit: unknown tree %s", git.ShortHash(treeHash))
	}
	for _, p := range spec.Parents {
		if _, ok := e.commits[p]; !ok {
			return "", fmt.Errorf("failed to write commit: unknown parent %s", git.ShortHash(p))
		}
	}

	c := git.Commit{
		Tree:      treeHash,
		Parents:   append([]string(nil), spec.Parents...),
		Author:    spec.Author,
		Committer: spec.Committer,
		Message:   spec.Message,
	}
	c.Hash = hashCommit(c)
	e.storeCommit(c)

	if spec.Ref != "" {
		if err := e.UpdateRef(ctx, spec.Ref, c.Hash, spec.OldHash); err != nil {
			return "", err
		}
	}
	return c.Hash, nil
}

// SquashRange returns the tree of to after checking from is a strict ancestor
func (e *Engine) SquashRange(_ context.Context, from, to string) (string, error) {
	fromHash, err := e.resolve(from)
	if err != nil {
		return "", err
	}
	toHash, err := e.resolve(to)
	if err != nil {
		return "", err
	}
	if fromHash == toHash {
		return "", gferrors.NewValidationError("squash range", "%s..%s is empty", git.ShortHash(from), git.ShortHash(to))
	}
	if !e.isAncestor(fromHash, toHash) {
		return "", gferrors.NewHistoryDivergenceError(git.ShortHash(to), git.ShortHash(from), "not an ancestor")
	}
	return e.commits[toHash].Tree, nil
}
