package memgit

import (
	"context"
	"fmt"
	"strings"

	gferrors "gitflow.dev/gitflow/internal/errors"
	"gitflow.dev/gitflow/internal/git"
)

// HeadRef returns the checked-out branch
func (e *Engine) HeadRef(_ context.Context) (git.Ref, error) {
	if e.head == "" {
		return git.Ref{}, gferrors.ErrNotOnBranch
	}
	return git.Ref{Name: e.head, Short: shortName(e.head), Hash: e.refs[e.head]}, nil
}

// References lists local and remote-tracking branches sorted by name
func (e *Engine) References(_ context.Context) ([]git.Ref, error) {
	var refs []git.Ref
	for _, name := range sortedKeys(e.refs) {
		remote := strings.HasPrefix(name, "refs/remotes/")
		if !remote && !strings.HasPrefix(name, "refs/heads/") {
			continue
		}
		refs = append(refs, git.Ref{Name: name, Short: shortName(name), Hash: e.refs[name], Remote: remote})
	}
	return refs, nil
}

// Reference resolves a branch by short or full name
func (e *Engine) Reference(_ context.Context, name string) (git.Ref, error) {
	for _, candidate := range candidateRefNames(name) {
		if h, ok := e.refs[candidate]; ok {
			return git.Ref{
				Name:   candidate,
				Short:  shortName(candidate),
				Hash:   h,
				Remote: strings.HasPrefix(candidate, "refs/remotes/"),
			}, nil
		}
	}
	return git.Ref{}, notFound(name)
}

// CreateBranch creates a local branch at hash
func (e *Engine) CreateBranch(_ context.Context, name, hash string) error {
	if err := git.ValidateBranchName(name); err != nil {
		return err
	}
	if _, ok := e.refs["refs/heads/"+name]; ok {
		return gferrors.NewBranchExistsError(name)
	}
	if _, ok := e.commits[hash]; !ok {
		return fmt.Errorf("failed to create branch %s: unknown commit %s", name, git.ShortHash(hash))
	}
	e.refs["refs/heads/"+name] = hash
	return nil
}

// DeleteBranch removes a local branch and its config
func (e *Engine) DeleteBranch(_ context.Context, name string) error {
	name = strings.TrimPrefix(name, "refs/heads/")
	if _, ok := e.refs["refs/heads/"+name]; !ok {
		return notFound(name)
	}
	delete(e.refs, "refs/heads/"+name)
	for key := range e.config {
		if strings.HasPrefix(key, "branch."+name+".") {
			delete(e.config, key)
		}
	}
	return nil
}

// RenameBranch renames a local branch, moving config and HEAD with it
func (e *Engine) RenameBranch(_ context.Context, oldName, newName string) error {
	if err := git.ValidateBranchName(newName); err != nil {
		return err
	}
	oldRef, newRef := "refs/heads/"+oldName, "refs/heads/"+newName
	hash, ok := e.refs[oldRef]
	if !ok {
		return notFound(oldName)
	}
	if _, exists := e.refs[newRef]; exists {
		return gferrors.NewBranchExistsError(newName)
	}

	delete(e.refs, oldRef)
	e.refs[newRef] = hash
	for key, value := range e.config {
		if rest, found := strings.CutPrefix(key, "branch."+oldName+"."); found {
			delete(e.config, key)
			e.config["branch."+newName+"."+rest] = value
		}
	}
	if e.head == oldRef {
		e.head = newRef
	}
	return nil
}

// UpdateRef points name at hash, optionally only if it currently points at oldHash
func (e *Engine) UpdateRef(_ context.Context, name, hash, oldHash string) error {
	if oldHash != "" && e.refs[name] != oldHash {
		return fmt.Errorf("failed to update %s: expected %s, found %s", name, git.ShortHash(oldHash), git.ShortHash(e.refs[name]))
	}
	if _, ok := e.commits[hash]; !ok {
		return fmt.Errorf("failed to update %s: unknown commit %s", name, git.ShortHash(hash))
	}
	e.refs[name] = hash
	return nil
}
