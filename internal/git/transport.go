package git

import (
	"context"
	"errors"
	"fmt"
	"os"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
)

// Fetch downloads objects and updates remote-tracking references of one remote.
// An up-to-date remote is not an error.
func (r *Repo) Fetch(ctx context.Context, opts FetchOptions) error {
	err := r.repo.FetchContext(ctx, &gogit.FetchOptions{
		RemoteName:      opts.Remote,
		Auth:            opts.Auth,
		Progress:        opts.Progress,
		InsecureSkipTLS: opts.InsecureSkipTLS,
	})
	if err != nil && !errors.Is(err, gogit.NoErrAlreadyUpToDate) {
		return fmt.Errorf("failed to fetch %s: %w", opts.Remote, err)
	}
	return nil
}

// Push uploads the given refspecs to a remote. An up-to-date remote is not an error.
func (r *Repo) Push(ctx context.Context, opts PushOptions) error {
	refSpecs := make([]config.RefSpec, 0, len(opts.RefSpecs))
	for _, spec := range opts.RefSpecs {
		rs := config.RefSpec(spec)
		if err := rs.Validate(); err != nil {
			return fmt.Errorf("invalid refspec %q: %w", spec, err)
		}
		refSpecs = append(refSpecs, rs)
	}

	err := r.repo.PushContext(ctx, &gogit.PushOptions{
		RemoteName:      opts.Remote,
		RefSpecs:        refSpecs,
		Auth:            opts.Auth,
		Progress:        opts.Progress,
		InsecureSkipTLS: opts.InsecureSkipTLS,
	})
	if err != nil && !errors.Is(err, gogit.NoErrAlreadyUpToDate) {
		return fmt.Errorf("failed to push to %s: %w", opts.Remote, err)
	}
	return nil
}

// Clone creates opts.Dir and clones opts.URL into it
func Clone(ctx context.Context, opts CloneOptions) (*Repo, error) {
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", opts.Dir, err)
	}

	_, err := gogit.PlainCloneContext(ctx, opts.Dir, false, &gogit.CloneOptions{
		URL:             opts.URL,
		Auth:            opts.Auth,
		Progress:        opts.Progress,
		InsecureSkipTLS: opts.InsecureSkipTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to clone %s: %w", opts.URL, err)
	}
	return Open(opts.Dir)
}
