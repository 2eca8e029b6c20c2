// Package sync moves history between a repository and its remotes.
//
// Every transport call reports to a Sink: Start once, Tick for each progress
// write from the remote (counting from 0 on every call), Done with the outcome.
// Failures are returned as *errors.TransportError, which callers treat as
// recoverable.
package sync

import (
	"context"
	"fmt"

	"gitflow.dev/gitflow/internal/auth"
	gferrors "gitflow.dev/gitflow/internal/errors"
	"gitflow.dev/gitflow/internal/git"
	"gitflow.dev/gitflow/internal/output"
)

// Sink receives transport progress.
type Sink interface {
	Start(title string)
	Tick(n int)
	Done(err error)
}

// NopSink discards progress.
type NopSink struct{}

func (NopSink) Start(string) {}
func (NopSink) Tick(int)     {}
func (NopSink) Done(error)   {}

// Syncer runs fetch, push and clone with credentials from an auth.Provider.
type Syncer struct {
	auth  *auth.Provider
	splog *output.Splog
}

// New creates a Syncer. A nil provider sends no credentials.
func New(provider *auth.Provider, splog *output.Splog) *Syncer {
	return &Syncer{auth: provider, splog: output.OrDiscard(splog)}
}

// Fetch updates remote-tracking branches. An empty remote fetches every
// configured remote in order and stops at the first failure.
func (s *Syncer) Fetch(ctx context.Context, eng git.Engine, remote string, sink Sink) error {
	remotes, err := eng.Remotes(ctx)
	if err != nil {
		return fmt.Errorf("failed to list remotes: %w", err)
	}

	targets := remotes
	if remote != "" {
		r, ok := git.FindRemote(remotes, remote)
		if !ok {
			return gferrors.NewValidationError("remote", "%s is not configured", remote)
		}
		targets = []git.Remote{r}
	}

	for _, r := range targets {
		err := s.run(ctx, "fetch", r, sink, func(opts git.TransportOptions) error {
			return eng.Fetch(ctx, git.FetchOptions{TransportOptions: opts, Remote: r.Name})
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Push uploads refSpecs to remote.
func (s *Syncer) Push(ctx context.Context, eng git.Engine, remote string, refSpecs []string, sink Sink) error {
	remotes, err := eng.Remotes(ctx)
	if err != nil {
		return fmt.Errorf("failed to list remotes: %w", err)
	}
	r, ok := git.FindRemote(remotes, remote)
	if !ok {
		return gferrors.NewValidationError("remote", "%s is not configured", remote)
	}

	return s.run(ctx, "push", r, sink, func(opts git.TransportOptions) error {
		return eng.Push(ctx, git.PushOptions{TransportOptions: opts, Remote: r.Name, RefSpecs: refSpecs})
	})
}

// Clone creates a new repository at dir from url.
func (s *Syncer) Clone(ctx context.Context, cloner git.Cloner, url, dir string, sink Sink) (git.Engine, error) {
	if cloner == nil {
		cloner = git.DefaultCloner
	}

	var eng git.Engine
	err := s.run(ctx, "clone", git.Remote{Name: url, URLs: []string{url}}, sink, func(opts git.TransportOptions) error {
		var err error
		eng, err = cloner(ctx, git.CloneOptions{TransportOptions: opts, URL: url, Dir: dir})
		return err
	})
	if err != nil {
		return nil, err
	}
	return eng, nil
}

// run wraps one transport call with auth resolution and sink reporting.
func (s *Syncer) run(ctx context.Context, op string, r git.Remote, sink Sink, call func(git.TransportOptions) error) error {
	if sink == nil {
		sink = NopSink{}
	}
	sink.Start(fmt.Sprintf("%s %s", title(op), r.Name))

	opts := git.TransportOptions{
		Progress:        &ticker{sink: sink},
		InsecureSkipTLS: true,
	}
	if s.auth != nil {
		method, err := s.auth.AuthMethod(ctx, r.URL())
		if err != nil {
			terr := gferrors.NewTransportError(op, r.Name, err)
			sink.Done(terr)
			return terr
		}
		opts.Auth = method
	}

	s.splog.Debug("%s %s (%s)", op, r.Name, r.URL())
	if err := call(opts); err != nil {
		terr := gferrors.NewTransportError(op, r.Name, err)
		sink.Done(terr)
		return terr
	}
	sink.Done(nil)
	return nil
}

func title(op string) string {
	switch op {
	case "fetch":
		return "Fetching"
	case "push":
		return "Pushing to"
	case "clone":
		return "Cloning"
	}
	return op
}

// ticker turns transport progress writes into sink ticks.
type ticker struct {
	sink Sink
	n    int
}

func (t *ticker) Write(p []byte) (int, error) {
	t.sink.Tick(t.n)
	t.n++
	return len(p), nil
}
