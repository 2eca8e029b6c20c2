// Package commit creates and amends commits and moves them to and from
// remotes.
package commit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gitflow.dev/gitflow/internal/branch"
	gferrors "gitflow.dev/gitflow/internal/errors"
	"gitflow.dev/gitflow/internal/git"
	"gitflow.dev/gitflow/internal/output"
	"gitflow.dev/gitflow/internal/prompt"
	"gitflow.dev/gitflow/internal/repo"
	"gitflow.dev/gitflow/internal/sync"
)

// Options configures Create. Zero signatures default to user.name and
// user.email from the repository config.
type Options struct {
	Message   string
	Author    git.Signature
	Committer git.Signature
}

// AmendOptions configures Amend. Zero fields keep the value of the amended commit.
type AmendOptions struct {
	Message   string
	Author    git.Signature
	Committer git.Signature
	// Tree replaces the snapshot. Empty stages the worktree and uses the index.
	Tree string
}

// Manager implements the commit operations.
type Manager struct {
	splog    *output.Splog
	branches *branch.Manager
	syncer   *sync.Syncer
	chooser  prompt.Chooser
	now      func() time.Time
}

// Option configures a Manager
type Option func(*Manager)

// WithSyncer sets the transport used by Push and Pull.
func WithSyncer(s *sync.Syncer) Option {
	return func(m *Manager) { m.syncer = s }
}

// WithChooser sets who picks a remote when several are configured.
func WithChooser(c prompt.Chooser) Option {
	return func(m *Manager) { m.chooser = c }
}

// WithClock overrides the time used for new signatures.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager creates a Manager.
func NewManager(splog *output.Splog, branches *branch.Manager, opts ...Option) *Manager {
	m := &Manager{
		splog:    output.OrDiscard(splog),
		branches: branches,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.branches == nil {
		m.branches = branch.NewManager(splog)
	}
	if m.syncer == nil {
		m.syncer = sync.New(nil, splog)
	}
	return m
}

// Create stages every change and commits it on the current branch. The
// commit's only parent is the previous tip; the first commit of an unborn
// branch has none.
func (m *Manager) Create(ctx context.Context, loc repo.Locator, opts Options) (git.Commit, error) {
	if strings.TrimSpace(opts.Message) == "" {
		return git.Commit{}, gferrors.NewValidationError("message", "must not be empty")
	}
	h, err := repo.Open(ctx, loc)
	if err != nil {
		return git.Commit{}, err
	}
	head, err := h.HeadRef(ctx)
	if err != nil {
		return git.Commit{}, err
	}

	author, err := m.signature(ctx, h, opts.Author)
	if err != nil {
		return git.Commit{}, err
	}
	committer, err := m.signature(ctx, h, opts.Committer)
	if err != nil {
		return git.Commit{}, err
	}

	if err := h.StageAll(ctx); err != nil {
		return git.Commit{}, err
	}

	var parents []string
	if !head.IsUnborn() {
		parents = []string{head.Hash}
	}
	hash, err := h.WriteCommit(ctx, git.CommitSpec{
		Ref:       head.Name,
		OldHash:   head.Hash,
		Parents:   parents,
		Author:    author,
		Committer: committer,
		Message:   normalizeMessage(opts.Message),
	})
	if err != nil {
		return git.Commit{}, err
	}
	m.splog.Debug("Committed %s on %s", git.ShortHash(hash), head.Short)
	return h.CommitObject(ctx, hash)
}

// Amend rewrites the HEAD commit in place. The new commit keeps the parents
// of the old one, so amending twice with nothing changed is a no-op.
func (m *Manager) Amend(ctx context.Context, loc repo.Locator, opts AmendOptions) (git.Commit, error) {
	h, err := repo.Open(ctx, loc)
	if err != nil {
		return git.Commit{}, err
	}
	head, err := h.HeadRef(ctx)
	if err != nil {
		return git.Commit{}, err
	}
	if head.IsUnborn() {
		return git.Commit{}, gferrors.NewValidationError("HEAD", "%s has no commit to amend", head.Short)
	}
	orig, err := h.CommitObject(ctx, head.Hash)
	if err != nil {
		return git.Commit{}, err
	}

	if opts.Tree == "" {
		if err := h.StageAll(ctx); err != nil {
			return git.Commit{}, err
		}
	}

	spec := git.CommitSpec{
		Ref:       head.Name,
		OldHash:   head.Hash,
		Tree:      opts.Tree,
		Parents:   orig.Parents,
		Author:    orig.Author,
		Committer: orig.Committer,
		Message:   orig.Message,
	}
	if !opts.Author.IsZero() {
		spec.Author = m.stamp(opts.Author)
	}
	if !opts.Committer.IsZero() {
		spec.Committer = m.stamp(opts.Committer)
	}
	if strings.TrimSpace(opts.Message) != "" {
		spec.Message = normalizeMessage(opts.Message)
	}

	hash, err := h.WriteCommit(ctx, spec)
	if err != nil {
		return git.Commit{}, err
	}
	if hash != orig.Hash {
		m.splog.Debug("Amended %s into %s", orig.ShortHash(), git.ShortHash(hash))
	}
	return h.CommitObject(ctx, hash)
}

// History returns up to count commits reachable from HEAD, newest first.
// count <= 0 returns all of them.
func (m *Manager) History(ctx context.Context, loc repo.Locator, count int) ([]git.Commit, error) {
	h, err := repo.Open(ctx, loc)
	if err != nil {
		return nil, err
	}
	head, err := h.HeadRef(ctx)
	if err != nil && !errors.Is(err, gferrors.ErrNotOnBranch) {
		return nil, err
	}
	if err == nil && head.IsUnborn() {
		return nil, nil
	}
	return h.Log(ctx, "HEAD", count)
}

// signature fills a zero signature from the repository identity and stamps
// the current time when none is set.
func (m *Manager) signature(ctx context.Context, h *repo.Handle, sig git.Signature) (git.Signature, error) {
	if sig.IsZero() {
		name, err := h.ConfigGet(ctx, "user.name")
		if err != nil && !errors.Is(err, git.ErrConfigNotFound) {
			return git.Signature{}, err
		}
		email, err := h.ConfigGet(ctx, "user.email")
		if err != nil && !errors.Is(err, git.ErrConfigNotFound) {
			return git.Signature{}, err
		}
		if name == "" || email == "" {
			return git.Signature{}, gferrors.NewValidationError("user", "user.name and user.email must be set (run `gitflow config user`)")
		}
		sig.Name, sig.Email = name, email
	}
	return m.stamp(sig), nil
}

func (m *Manager) stamp(sig git.Signature) git.Signature {
	if sig.When.IsZero() {
		sig.When = m.now()
	}
	return sig
}

// normalizeMessage trims surrounding blank space and ends the message with a newline.
func normalizeMessage(message string) string {
	return strings.TrimSpace(message) + "\n"
}

// Message builds a conventional commit message: "<type>(#<source>): <text>".
// Type and source are optional.
func Message(kind, source, text string) string {
	text = strings.TrimSpace(text)
	if kind == "" {
		return text
	}
	prefix := kind
	if source != "" {
		prefix += fmt.Sprintf("(#%s)", strings.TrimPrefix(source, "#"))
	}
	return prefix + ": " + text
}
