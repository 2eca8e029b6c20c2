package git

import (
	"context"
	"errors"
)

// ErrConfigNotFound is returned by ConfigGet when the key is not set.
var ErrConfigNotFound = errors.New("config key not found")

// Engine is the version-control capability gitflow drives. Repo is the
// on-disk implementation; memgit provides an in-memory one.
type Engine interface {
	// Root is the working directory of the repository.
	Root() string
	// GitDir is the repository metadata directory. Empty when the engine
	// is not backed by a filesystem.
	GitDir() string

	// HeadRef returns the branch HEAD points at. Detached HEAD yields
	// ErrNotOnBranch. An unborn branch yields a Ref with an empty Hash.
	HeadRef(ctx context.Context) (Ref, error)
	// References lists local and remote-tracking branches sorted by name.
	References(ctx context.Context) ([]Ref, error)
	// Reference resolves a branch by short or full name, preferring local
	// branches over remote-tracking ones.
	Reference(ctx context.Context, name string) (Ref, error)
	CreateBranch(ctx context.Context, name, hash string) error
	DeleteBranch(ctx context.Context, name string) error
	RenameBranch(ctx context.Context, oldName, newName string) error
	// UpdateRef points name at hash. A non-empty oldHash makes the update
	// conditional on the current value.
	UpdateRef(ctx context.Context, name, hash, oldHash string) error

	CommitObject(ctx context.Context, rev string) (Commit, error)
	// Log walks history reachable from rev, newest first by commit time.
	// limit <= 0 means no limit.
	Log(ctx context.Context, rev string, limit int) ([]Commit, error)
	WriteCommit(ctx context.Context, spec CommitSpec) (string, error)
	// SquashRange validates that from is a strict ancestor of to and returns
	// the tree that squashing (from, to] onto from produces.
	SquashRange(ctx context.Context, from, to string) (string, error)

	Checkout(ctx context.Context, branch string) error
	StageAll(ctx context.Context) error
	IsClean(ctx context.Context) (bool, error)
	Reset(ctx context.Context, rev string, mode ResetMode) error

	CherryPick(ctx context.Context, rev string) (ApplyResult, error)
	Rebase(ctx context.Context, upstream string) (ApplyResult, error)
	Merge(ctx context.Context, upstream string) (ApplyResult, error)

	ConfigGet(ctx context.Context, key string) (string, error)
	ConfigSet(ctx context.Context, key, value string) error
	ConfigUnset(ctx context.Context, key string) error
	Remotes(ctx context.Context) ([]Remote, error)
	SetRemoteURL(ctx context.Context, name, url string) error

	Fetch(ctx context.Context, opts FetchOptions) error
	Push(ctx context.Context, opts PushOptions) error
}

// Cloner creates a new repository from a remote URL.
type Cloner func(ctx context.Context, opts CloneOptions) (Engine, error)

// DefaultCloner clones onto disk with go-git.
func DefaultCloner(ctx context.Context, opts CloneOptions) (Engine, error) {
	repo, err := Clone(ctx, opts)
	if err != nil {
		return nil, err
	}
	return repo, nil
}

// RemoteNames returns the names of the given remotes in order.
func RemoteNames(remotes []Remote) []string {
	names := make([]string, 0, len(remotes))
	for _, r := range remotes {
		names = append(names, r.Name)
	}
	return names
}

// FindRemote returns the remote with the given name.
func FindRemote(remotes []Remote, name string) (Remote, bool) {
	for _, r := range remotes {
		if r.Name == name {
			return r, true
		}
	}
	return Remote{}, false
}
