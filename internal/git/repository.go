package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	gogit "github.com/go-git/go-git/v5"
)

// Repo is the on-disk Engine: go-git for objects, references and transport,
// the git CLI for history application and worktree updates.
type Repo struct {
	repo   *gogit.Repository
	root   string
	gitDir string
	runner *CommandRunner
}

var _ Engine = (*Repo)(nil)

// Open opens the repository containing path. Parent directories are searched
// for a .git directory the way the git CLI does.
func Open(path string) (*Repo, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	repo, err := gogit.PlainOpenWithOptions(absPath, &gogit.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository at %s: %w", absPath, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to open worktree: %w", err)
	}
	root := wt.Filesystem.Root()

	r := &Repo{
		repo:   repo,
		root:   root,
		runner: NewCommandRunner(root),
	}
	r.gitDir = r.resolveGitDir()
	return r, nil
}

// Init creates an empty repository at path with the given initial branch.
func Init(ctx context.Context, path, initialBranch string) (*Repo, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	args := []string{"init", "-q"}
	if initialBranch != "" {
		args = append(args, "-b", initialBranch)
	}
	if _, err := NewCommandRunner(path).Run(ctx, args...); err != nil {
		return nil, fmt.Errorf("failed to init repository: %w", err)
	}
	return Open(path)
}

func (r *Repo) resolveGitDir() string {
	dotGit := filepath.Join(r.root, ".git")
	if info, err := os.Stat(dotGit); err == nil && info.IsDir() {
		return dotGit
	}
	// Linked worktrees and submodules keep a .git file pointing elsewhere.
	out, err := r.runner.Run(context.Background(), "rev-parse", "--absolute-git-dir")
	if err != nil {
		return dotGit
	}
	return out
}

// Root returns the root directory of the working tree
func (r *Repo) Root() string {
	return r.root
}

// GitDir returns the repository metadata directory
func (r *Repo) GitDir() string {
	return r.gitDir
}
