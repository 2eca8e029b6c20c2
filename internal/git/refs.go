package git

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"

	gferrors "gitflow.dev/gitflow/internal/errors"
)

// HeadRef returns the branch HEAD points at
func (r *Repo) HeadRef(_ context.Context) (Ref, error) {
	head, err := r.repo.Storer.Reference(plumbing.HEAD)
	if err != nil {
		return Ref{}, fmt.Errorf("failed to read HEAD: %w", err)
	}
	if head.Type() != plumbing.SymbolicReference {
		return Ref{}, gferrors.ErrNotOnBranch
	}

	target := head.Target()
	if !target.IsBranch() {
		return Ref{}, gferrors.ErrNotOnBranch
	}

	resolved, err := r.repo.Reference(target, true)
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return Ref{Name: target.String(), Short: target.Short()}, nil
	}
	if err != nil {
		return Ref{}, fmt.Errorf("failed to resolve %s: %w", target, err)
	}
	return toRef(resolved), nil
}

// References lists local and remote-tracking branches
func (r *Repo) References(_ context.Context) ([]Ref, error) {
	iter, err := r.repo.References()
	if err != nil {
		return nil, fmt.Errorf("failed to list references: %w", err)
	}
	defer iter.Close()

	var refs []Ref
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		// Symbolic refs such as refs/remotes/origin/HEAD are aliases
		if ref.Type() != plumbing.HashReference {
			return nil
		}
		if ref.Name().IsBranch() || ref.Name().IsRemote() {
			refs = append(refs, toRef(ref))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate references: %w", err)
	}

	sort.Slice(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })
	return refs, nil
}

// Reference resolves a branch by short or full name
func (r *Repo) Reference(_ context.Context, name string) (Ref, error) {
	for _, candidate := range candidateRefNames(name) {
		ref, err := r.repo.Reference(candidate, true)
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			continue
		}
		if err != nil {
			return Ref{}, fmt.Errorf("failed to resolve %s: %w", candidate, err)
		}
		return toRef(ref), nil
	}
	return Ref{}, gferrors.NewBranchNotFoundError(name)
}

// CreateBranch creates refs/heads/<name> pointing at hash
func (r *Repo) CreateBranch(_ context.Context, name, hash string) error {
	if err := ValidateBranchName(name); err != nil {
		return err
	}
	refName := plumbing.NewBranchReferenceName(name)
	if _, err := r.repo.Reference(refName, false); err == nil {
		return gferrors.NewBranchExistsError(name)
	}
	if _, err := r.repo.CommitObject(plumbing.NewHash(hash)); err != nil {
		return fmt.Errorf("failed to create branch %s: commit %s: %w", name, ShortHash(hash), err)
	}
	if err := r.repo.Storer.SetReference(plumbing.NewHashReference(refName, plumbing.NewHash(hash))); err != nil {
		return fmt.Errorf("failed to create branch %s: %w", name, err)
	}
	return nil
}

// DeleteBranch removes a local branch and its config section. Deleting the
// checked-out branch leaves HEAD on an unborn branch of the same name.
func (r *Repo) DeleteBranch(ctx context.Context, name string) error {
	refName := plumbing.NewBranchReferenceName(strings.TrimPrefix(name, "refs/heads/"))
	if _, err := r.repo.Reference(refName, false); err != nil {
		return gferrors.NewBranchNotFoundError(refName.Short())
	}

	head, err := r.HeadRef(ctx)
	if err == nil && head.Name == refName.String() {
		// git branch -D refuses the current branch; drop the ref directly.
		if _, err := r.runner.Run(ctx, "update-ref", "-d", refName.String()); err != nil {
			return fmt.Errorf("failed to delete branch %s: %w", refName.Short(), err)
		}
		_, _ = r.runner.Run(ctx, "config", "--remove-section", "branch."+refName.Short())
		return nil
	}

	if _, err := r.runner.Run(ctx, "branch", "-D", refName.Short()); err != nil {
		return fmt.Errorf("failed to delete branch %s: %w", refName.Short(), err)
	}
	return nil
}

// RenameBranch renames a local branch, moving its config and HEAD with it
func (r *Repo) RenameBranch(ctx context.Context, oldName, newName string) error {
	if err := ValidateBranchName(newName); err != nil {
		return err
	}
	if _, err := r.repo.Reference(plumbing.NewBranchReferenceName(newName), false); err == nil {
		return gferrors.NewBranchExistsError(newName)
	}
	if _, err := r.runner.Run(ctx, "branch", "-m", oldName, newName); err != nil {
		return fmt.Errorf("failed to rename branch %s to %s: %w", oldName, newName, err)
	}
	return nil
}

// UpdateRef points name at hash, optionally only if it currently points at oldHash
func (r *Repo) UpdateRef(_ context.Context, name, hash, oldHash string) error {
	newRef := plumbing.NewHashReference(plumbing.ReferenceName(name), plumbing.NewHash(hash))
	if oldHash == "" {
		if err := r.repo.Storer.SetReference(newRef); err != nil {
			return fmt.Errorf("failed to update %s: %w", name, err)
		}
		return nil
	}
	oldRef := plumbing.NewHashReference(plumbing.ReferenceName(name), plumbing.NewHash(oldHash))
	if err := r.repo.Storer.CheckAndSetReference(newRef, oldRef); err != nil {
		return fmt.Errorf("failed to update %s from %s: %w", name, ShortHash(oldHash), err)
	}
	return nil
}

// ValidateBranchName rejects names git would refuse as a branch
func ValidateBranchName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return gferrors.NewValidationError("branch name", "must not be empty")
	case strings.HasPrefix(name, "-"), strings.HasPrefix(name, "/"), strings.HasSuffix(name, "/"):
		return gferrors.NewValidationError("branch name", "%q has an invalid leading or trailing character", name)
	case strings.HasSuffix(name, ".lock"), strings.HasSuffix(name, "."):
		return gferrors.NewValidationError("branch name", "%q has an invalid suffix", name)
	case strings.Contains(name, ".."), strings.Contains(name, "@{"), strings.Contains(name, "//"):
		return gferrors.NewValidationError("branch name", "%q contains an invalid sequence", name)
	case strings.ContainsAny(name, " ~^:?*[\\\t\n"):
		return gferrors.NewValidationError("branch name", "%q contains an invalid character", name)
	case name == "HEAD":
		return gferrors.NewValidationError("branch name", "HEAD is reserved")
	}
	return nil
}

func candidateRefNames(name string) []plumbing.ReferenceName {
	if strings.HasPrefix(name, "refs/") {
		return []plumbing.ReferenceName{plumbing.ReferenceName(name)}
	}
	return []plumbing.ReferenceName{
		plumbing.NewBranchReferenceName(name),
		plumbing.ReferenceName("refs/remotes/" + name),
	}
}

func toRef(ref *plumbing.Reference) Ref {
	return Ref{
		Name:   ref.Name().String(),
		Short:  ref.Name().Short(),
		Hash:   ref.Hash().String(),
		Remote: ref.Name().IsRemote(),
	}
}
