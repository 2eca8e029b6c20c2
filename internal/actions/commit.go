package actions

import (
	"errors"
	"strings"

	"gitflow.dev/gitflow/internal/commit"
	gferrors "gitflow.dev/gitflow/internal/errors"
	"gitflow.dev/gitflow/internal/output"
	"gitflow.dev/gitflow/internal/prompt"
	"gitflow.dev/gitflow/internal/runtime"
)

// CommitOptions specifies options for the commit command
type CommitOptions struct {
	Message string
	// Type is the conventional commit type, e.g. feat or fix
	Type string
	// Source is an issue or ticket id, rendered as (#id)
	Source string
	Amend  bool
	Push   bool
	// Edit opens the editor for the message
	Edit bool
}

const editTemplate = "\n# Enter the commit message. Lines starting with # are ignored.\n"

// CommitAction stages everything and commits (or amends) it, optionally pushing.
func CommitAction(ctx *runtime.Context, opts CommitOptions) error {
	unlock, err := ctx.Lock()
	if err != nil {
		return err
	}
	defer unlock()

	kind := opts.Type
	if kind == "" && !opts.Amend && prompt.Interactive() {
		kind, err = ctx.Chooser.Choose(ctx, "Commit type", ctx.Config.Commit.Types)
		if err != nil {
			return err
		}
	}

	text := strings.TrimSpace(opts.Message)
	if opts.Edit {
		text, err = prompt.Edit(ctx, text+editTemplate, "COMMIT_EDITMSG-*")
		if err != nil {
			return err
		}
	}
	if text == "" && !opts.Amend {
		if !prompt.Interactive() {
			return gferrors.NewValidationError("message", "must not be empty")
		}
		text, err = prompt.Input(ctx, "Commit message", "")
		if err != nil {
			return err
		}
	}

	message := ""
	if text != "" {
		message = commit.Message(kind, opts.Source, text)
	}

	if opts.Amend {
		c, err := ctx.Commits.Amend(ctx, ctx.Repo, commit.AmendOptions{Message: message})
		if err != nil {
			return err
		}
		ctx.Splog.Success("Amended %s %s", output.Hash(c.ShortHash()), c.Subject())
	} else {
		c, err := ctx.Commits.Create(ctx, ctx.Repo, commit.Options{Message: message})
		if err != nil {
			return err
		}
		ctx.Splog.Success("Committed %s %s", output.Hash(c.ShortHash()), c.Subject())
	}

	if !opts.Push {
		return nil
	}
	remote, err := ctx.Commits.Push(ctx, ctx.Repo, commit.PushOptions{Progress: ctx.Sink()})
	if errors.Is(err, gferrors.ErrTransport) {
		// the commit stands; only the upload failed
		ctx.Splog.Warn("Push failed: %v", err)
		ctx.Splog.Tip("Retry with gitflow push.")
		return nil
	}
	if err != nil {
		return err
	}
	ctx.Splog.Success("Pushed to %s.", remote)
	return nil
}
