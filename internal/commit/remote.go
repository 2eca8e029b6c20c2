package commit

import (
	"context"
	"fmt"

	gferrors "gitflow.dev/gitflow/internal/errors"
	"gitflow.dev/gitflow/internal/git"
	"gitflow.dev/gitflow/internal/repo"
	"gitflow.dev/gitflow/internal/sync"
)

// PushOptions configures Push.
type PushOptions struct {
	// Remote to push to. Empty picks the only remote or asks the chooser.
	Remote   string
	Progress sync.Sink
	Force    bool
}

// PullMode selects how fetched history is integrated.
type PullMode int

const (
	// PullRebase replays local commits on top of the upstream
	PullRebase PullMode = iota
	// PullMerge merges the upstream into the current branch
	PullMerge
)

func (m PullMode) String() string {
	if m == PullMerge {
		return "merge"
	}
	return "rebase"
}

// ParsePullMode converts a config or flag value into a PullMode.
func ParsePullMode(s string) (PullMode, error) {
	switch s {
	case "", "rebase":
		return PullRebase, nil
	case "merge":
		return PullMerge, nil
	}
	return PullRebase, gferrors.NewValidationError("pull mode", "%q is neither rebase nor merge", s)
}

// PullOptions configures Pull.
type PullOptions struct {
	// Remote used to link an upstream when none is set
	Remote   string
	Progress sync.Sink
	Mode     PullMode
}

// PullState is the outcome of a pull.
type PullState int

const (
	// PullUpdated means new history was integrated
	PullUpdated PullState = iota
	// PullUpToDate means the branch already contained the upstream
	PullUpToDate
	// PullConflicted means integration stopped on conflicts the user must resolve
	PullConflicted
)

func (s PullState) String() string {
	switch s {
	case PullUpToDate:
		return "up-to-date"
	case PullConflicted:
		return "conflicted"
	default:
		return "updated"
	}
}

// PullResult describes a pull.
type PullResult struct {
	State     PullState
	Upstream  string
	Head      string
	Conflicts []string
}

// Push uploads the current branch under the same name. It returns the remote
// pushed to. Force pushes are refused.
func (m *Manager) Push(ctx context.Context, loc repo.Locator, opts PushOptions) (string, error) {
	if opts.Force {
		return "", gferrors.NewValidationError("force", "force pushes are not supported")
	}
	h, err := repo.Open(ctx, loc)
	if err != nil {
		return "", err
	}
	head, err := h.HeadRef(ctx)
	if err != nil {
		return "", err
	}
	if head.IsUnborn() {
		return "", gferrors.NewValidationError("branch", "%s has no commits to push", head.Short)
	}

	remote, err := m.pickRemote(ctx, h, opts.Remote, "Select a remote to push to")
	if err != nil {
		return "", err
	}
	if remote == "" {
		return "", gferrors.NewValidationError("remote", "no remotes configured")
	}

	refSpec := fmt.Sprintf("%s:%s", head.Name, head.Name)
	if err := m.syncer.Push(ctx, h, remote, []string{refSpec}, opts.Progress); err != nil {
		return remote, err
	}

	if _, err := m.branches.Upstream(ctx, h, remote); err != nil {
		m.splog.Warn("Could not set upstream of %s: %v", head.Short, err)
	}
	return remote, nil
}

// Pull fetches the upstream of the current branch and integrates it.
// Conflicts are reported in the result, not as an error.
func (m *Manager) Pull(ctx context.Context, loc repo.Locator, opts PullOptions) (PullResult, error) {
	h, err := repo.Open(ctx, loc)
	if err != nil {
		return PullResult{}, err
	}
	head, err := h.HeadRef(ctx)
	if err != nil {
		return PullResult{}, err
	}
	if clean, err := h.IsClean(ctx); err != nil {
		return PullResult{}, err
	} else if !clean {
		return PullResult{}, gferrors.NewValidationError("working tree", "commit or discard local changes before pulling")
	}

	up, err := m.branches.Tracking(ctx, h, head.Short)
	if err != nil {
		return PullResult{}, err
	}

	if up.IsZero() {
		remote, err := m.pickRemote(ctx, h, opts.Remote, "Select a remote to pull from")
		if err != nil {
			return PullResult{}, err
		}
		if remote == "" {
			return PullResult{}, gferrors.NewNoUpstreamError(head.Short, "no remotes configured")
		}
		// the remote-tracking branch must exist before it can be linked
		if err := m.syncer.Fetch(ctx, h, remote, opts.Progress); err != nil {
			return PullResult{}, err
		}
		up, err = m.branches.Upstream(ctx, h, remote)
		if err != nil {
			return PullResult{}, err
		}
		if up.IsZero() {
			return PullResult{}, gferrors.NewNoUpstreamError(head.Short, fmt.Sprintf("%s/%s does not exist", remote, head.Short))
		}
	} else if err := m.syncer.Fetch(ctx, h, up.Remote, opts.Progress); err != nil {
		return PullResult{}, err
	}

	var res git.ApplyResult
	if opts.Mode == PullMerge {
		res, err = h.Merge(ctx, up.String())
	} else {
		res, err = h.Rebase(ctx, up.String())
	}
	if err != nil {
		return PullResult{}, fmt.Errorf("failed to %s onto %s: %w", opts.Mode, up, err)
	}

	result := PullResult{Upstream: up.String(), Head: res.Head, Conflicts: res.Conflicts}
	switch res.State {
	case git.ApplyConflict:
		result.State = PullConflicted
	case git.ApplyUpToDate:
		result.State = PullUpToDate
	default:
		result.State = PullUpdated
	}
	return result, nil
}

// pickRemote returns explicit when set, the only remote when there is one,
// the chooser's pick when there are several, and "" when there are none.
func (m *Manager) pickRemote(ctx context.Context, h *repo.Handle, explicit, message string) (string, error) {
	remotes, err := h.Remotes(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list remotes: %w", err)
	}
	if explicit != "" {
		if _, ok := git.FindRemote(remotes, explicit); !ok {
			return "", gferrors.NewValidationError("remote", "%s is not configured", explicit)
		}
		return explicit, nil
	}

	switch len(remotes) {
	case 0:
		return "", nil
	case 1:
		return remotes[0].Name, nil
	}
	if m.chooser == nil {
		return "", gferrors.NewValidationError("remote", "several remotes are configured (%v); name one", git.RemoteNames(remotes))
	}
	return m.chooser.Choose(ctx, message, git.RemoteNames(remotes))
}
