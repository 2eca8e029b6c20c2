// Package repo resolves where a workflow operates: a path on disk or an
// already open repository handle.
package repo

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"

	"gitflow.dev/gitflow/internal/auth"
	gferrors "gitflow.dev/gitflow/internal/errors"
	"gitflow.dev/gitflow/internal/git"
	"gitflow.dev/gitflow/internal/output"
	"gitflow.dev/gitflow/internal/sync"
)

const lockFileName = "gitflow.lock"

// Locator identifies a repository. It is either a Path or a *Handle.
type Locator interface {
	resolve(ctx context.Context) (*Handle, error)
}

// Path locates a repository by its working directory.
type Path string

func (p Path) resolve(_ context.Context) (*Handle, error) {
	if p == "" {
		return nil, gferrors.NewValidationError("repository path", "must not be empty")
	}
	r, err := git.Open(string(p))
	if err != nil {
		return nil, err
	}
	return NewHandle(r), nil
}

// Handle is an open repository. It implements git.Engine.
type Handle struct {
	git.Engine
}

// NewHandle wraps an engine.
func NewHandle(eng git.Engine) *Handle {
	return &Handle{Engine: eng}
}

func (h *Handle) resolve(_ context.Context) (*Handle, error) {
	if h == nil || h.Engine == nil {
		return nil, gferrors.NewValidationError("repository", "handle is not open")
	}
	return h, nil
}

// Open resolves loc into a handle. A *Handle is returned as is.
func Open(ctx context.Context, loc Locator) (*Handle, error) {
	if loc == nil {
		return nil, gferrors.NewValidationError("repository", "no repository given")
	}
	return loc.resolve(ctx)
}

// Lock takes the workflow lock of the repository. It fails fast with
// ErrRepositoryLocked when another gitflow process holds it. Engines without
// a git directory are never locked.
func (h *Handle) Lock() (unlock func(), err error) {
	gitDir := h.GitDir()
	if gitDir == "" {
		return func() {}, nil
	}

	fileLock := flock.New(filepath.Join(gitDir, lockFileName))
	locked, err := fileLock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock repository: %w", err)
	}
	if !locked {
		return nil, gferrors.ErrRepositoryLocked
	}
	return func() { _ = fileLock.Unlock() }, nil
}

// CloneOptions configures Clone.
type CloneOptions struct {
	// Progress receives transport progress; nil discards it
	Progress sync.Sink
	// Credentials authenticate the transfer; nil sends none
	Credentials *auth.Provider
	// Cloner creates the repository; nil clones onto disk
	Cloner git.Cloner
	Splog  *output.Splog
}

// Clone clones url into dest and returns a handle on the new repository.
// Transport failures are *errors.TransportError and are not retried.
func Clone(ctx context.Context, url, dest string, opts CloneOptions) (*Handle, error) {
	if url == "" {
		return nil, gferrors.NewValidationError("url", "must not be empty")
	}
	syncer := sync.New(opts.Credentials, opts.Splog)
	eng, err := syncer.Clone(ctx, opts.Cloner, url, dest, opts.Progress)
	if err != nil {
		return nil, err
	}
	return NewHandle(eng), nil
}
