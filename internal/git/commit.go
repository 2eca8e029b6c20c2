package git

import (
	"context"
	"errors"
	"fmt"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	gferrors "gitflow.dev/gitflow/internal/errors"
)

// CommitObject resolves rev (hash, branch name, HEAD) to a commit
func (r *Repo) CommitObject(_ context.Context, rev string) (Commit, error) {
	c, err := r.resolveCommit(rev)
	if err != nil {
		return Commit{}, err
	}
	return toCommit(c), nil
}

// Log returns commits reachable from rev, newest first by committer time
func (r *Repo) Log(_ context.Context, rev string, limit int) ([]Commit, error) {
	from, err := r.resolveCommit(rev)
	if err != nil {
		return nil, err
	}

	iter, err := r.repo.Log(&gogit.LogOptions{
		From:  from.Hash,
		Order: gogit.LogOrderCommitterTime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk history from %s: %w", rev, err)
	}
	defer iter.Close()

	var commits []Commit
	err = iter.ForEach(func(c *object.Commit) error {
		commits = append(commits, toCommit(c))
		if limit > 0 && len(commits) >= limit {
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk history from %s: %w", rev, err)
	}
	return commits, nil
}

// WriteCommit stores a commit object and optionally moves spec.Ref to it.
// The object is built directly so that amend can keep an arbitrary parent set.
func (r *Repo) WriteCommit(ctx context.Context, spec CommitSpec) (string, error) {
	tree := spec.Tree
	if tree == "" {
		out, err := r.runner.Run(ctx, "write-tree")
		if err != nil {
			return "", fmt.Errorf("failed to write index tree: %w", err)
		}
		tree = out
	}

	parents := make([]plumbing.Hash, 0, len(spec.Parents))
	for _, p := range spec.Parents {
		parents = append(parents, plumbing.NewHash(p))
	}

	commit := &object.Commit{
		Author:       toObjectSignature(spec.Author),
		Committer:    toObjectSignature(spec.Committer),
		Message:      spec.Message,
		TreeHash:     plumbing.NewHash(tree),
		ParentHashes: parents,
	}

	obj := r.repo.Storer.NewEncodedObject()
	if err := commit.Encode(obj); err != nil {
		return "", fmt.Errorf("failed to encode commit: %w", err)
	}
	hash, err := r.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return "", fmt.Errorf("failed to store commit: %w", err)
	}

	if spec.Ref != "" {
		if err := r.UpdateRef(ctx, spec.Ref, hash.String(), spec.OldHash); err != nil {
			return "", err
		}
	}
	return hash.String(), nil
}

// SquashRange returns the tree of to after checking from is a strict ancestor
func (r *Repo) SquashRange(_ context.Context, from, to string) (string, error) {
	fromCommit, err := r.resolveCommit(from)
	if err != nil {
		return "", err
	}
	toCommit, err := r.resolveCommit(to)
	if err != nil {
		return "", err
	}
	if fromCommit.Hash == toCommit.Hash {
		return "", gferrors.NewValidationError("squash range", "%s..%s is empty", ShortHash(from), ShortHash(to))
	}

	isAncestor, err := fromCommit.IsAncestor(toCommit)
	if err != nil {
		return "", fmt.Errorf("failed to compare %s and %s: %w", ShortHash(from), ShortHash(to), err)
	}
	if !isAncestor {
		return "", gferrors.NewHistoryDivergenceError(ShortHash(to), ShortHash(from), "not an ancestor")
	}
	return toCommit.TreeHash.String(), nil
}

func (r *Repo) resolveCommit(rev string) (*object.Commit, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, gferrors.NewBranchNotFoundError(rev)
		}
		return nil, fmt.Errorf("failed to resolve %s: %w", rev, err)
	}
	c, err := r.repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("failed to read commit %s: %w", ShortHash(hash.String()), err)
	}
	return c, nil
}

func toCommit(c *object.Commit) Commit {
	parents := make([]string, 0, len(c.ParentHashes))
	for _, p := range c.ParentHashes {
		parents = append(parents, p.String())
	}
	return Commit{
		Hash:      c.Hash.String(),
		Tree:      c.TreeHash.String(),
		Parents:   parents,
		Author:    Signature{Name: c.Author.Name, Email: c.Author.Email, When: c.Author.When},
		Committer: Signature{Name: c.Committer.Name, Email: c.Committer.Email, When: c.Committer.When},
		Message:   c.Message,
	}
}

func toObjectSignature(s Signature) object.Signature {
	return object.Signature{Name: s.Name, Email: s.Email, When: s.When}
}
