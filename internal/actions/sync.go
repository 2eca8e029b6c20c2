package actions

import (
	"gitflow.dev/gitflow/internal/commit"
	gferrors "gitflow.dev/gitflow/internal/errors"
	"gitflow.dev/gitflow/internal/output"
	"gitflow.dev/gitflow/internal/runtime"
)

// PushOptions specifies options for the push command
type PushOptions struct {
	Remote string
	Force  bool
}

// PushAction uploads the current branch.
func PushAction(ctx *runtime.Context, opts PushOptions) error {
	unlock, err := ctx.Lock()
	if err != nil {
		return err
	}
	defer unlock()

	remote, err := ctx.Commits.Push(ctx, ctx.Repo, commit.PushOptions{
		Remote:   opts.Remote,
		Force:    opts.Force,
		Progress: ctx.Sink(),
	})
	if err != nil {
		return err
	}
	ctx.Splog.Success("Pushed to %s.", remote)
	return nil
}

// PullOptions specifies options for the pull command
type PullOptions struct {
	Remote string
	Force  bool
	// Mode is rebase or merge; empty uses the configured pull.mode
	Mode string
}

// PullAction fetches the upstream of the current branch and integrates it.
func PullAction(ctx *runtime.Context, opts PullOptions) error {
	if opts.Force {
		return forceRefused()
	}
	mode := opts.Mode
	if mode == "" {
		mode = ctx.Config.PullMode()
	}
	pullMode, err := commit.ParsePullMode(mode)
	if err != nil {
		return err
	}

	unlock, err := ctx.Lock()
	if err != nil {
		return err
	}
	defer unlock()

	res, err := ctx.Commits.Pull(ctx, ctx.Repo, commit.PullOptions{
		Remote:   opts.Remote,
		Mode:     pullMode,
		Progress: ctx.Sink(),
	})
	if err != nil {
		return err
	}

	switch res.State {
	case commit.PullConflicted:
		PrintConflictStatus(ctx.Splog, "pulling "+res.Upstream, res.Conflicts, pullMode.String())
	case commit.PullUpToDate:
		ctx.Splog.Info("Already up to date with %s.", output.Branch(res.Upstream))
	default:
		ctx.Splog.Success("Pulled %s (%s).", output.Branch(res.Upstream), pullMode)
	}
	return nil
}

// FetchAction updates remote-tracking branches of one remote, or all of them.
func FetchAction(ctx *runtime.Context, remote string) error {
	if err := ctx.Syncer.Fetch(ctx, ctx.Repo, remote, ctx.Sink()); err != nil {
		return err
	}
	if remote == "" {
		ctx.Splog.Success("Fetched all remotes.")
	} else {
		ctx.Splog.Success("Fetched %s.", remote)
	}
	return nil
}

func forceRefused() error {
	return gferrors.NewValidationError("force", "force pushes and pulls are not supported")
}
