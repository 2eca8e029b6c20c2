package actions

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"gitflow.dev/gitflow/internal/commit"
	gferrors "gitflow.dev/gitflow/internal/errors"
	"gitflow.dev/gitflow/internal/git"
	"gitflow.dev/gitflow/internal/output"
	"gitflow.dev/gitflow/internal/prompt"
	"gitflow.dev/gitflow/internal/repo"
	"gitflow.dev/gitflow/internal/runtime"
)

const (
	scaffoldMessage = "Project init"
	scaffoldBranch  = "dev"
)

// ScaffoldOptions specifies options for the scaffold command
type ScaffoldOptions struct {
	URL string
	Dir string
	// Branch of the template to start from; empty asks when there are several
	Branch    string
	RemoteURL string
	UserName  string
	UserEmail string
}

// ScaffoldAction starts a new project from a template repository: the chosen
// template branch becomes a single "Project init" commit on a branch named dev,
// authored by the given user, and every other local branch is dropped.
func ScaffoldAction(ctx *runtime.Context, opts ScaffoldOptions) error {
	if opts.URL == "" || opts.Dir == "" {
		return gferrors.NewValidationError("scaffold", "a template URL and a target directory are required")
	}

	h, err := repo.Clone(ctx, opts.URL, opts.Dir, repo.CloneOptions{
		Progress:    ctx.Sink(),
		Credentials: ctx.Auth,
		Cloner:      ctx.Cloner,
		Splog:       ctx.Splog,
	})
	if err != nil {
		return err
	}
	ctx.Repo = h

	unlock, err := ctx.Lock()
	if err != nil {
		return err
	}
	defer unlock()

	if err := checkoutTemplateBranch(ctx, opts.Branch); err != nil {
		return err
	}
	if err := ctx.Branches.Reset(ctx, h, "", git.SoftReset); err != nil {
		return err
	}

	if opts.UserName != "" {
		if err := h.ConfigSet(ctx, "user.name", opts.UserName); err != nil {
			return err
		}
	}
	if opts.UserEmail != "" {
		if err := h.ConfigSet(ctx, "user.email", opts.UserEmail); err != nil {
			return err
		}
	}
	if opts.RemoteURL != "" {
		if err := h.SetRemoteURL(ctx, "origin", opts.RemoteURL); err != nil {
			return err
		}
	}

	sig, err := configuredSignature(ctx)
	if err != nil {
		return err
	}
	c, err := ctx.Commits.Amend(ctx, h, commit.AmendOptions{Message: scaffoldMessage, Author: sig, Committer: sig})
	if err != nil {
		return err
	}

	if _, err := ctx.Branches.DeleteAll(ctx, h, false); err != nil {
		return err
	}
	if err := ctx.Branches.Rename(ctx, h, scaffoldBranch); err != nil {
		return err
	}
	// the template's upstream does not apply to the new project
	for _, key := range []string{"remote", "merge"} {
		if err := h.ConfigUnset(ctx, "branch."+scaffoldBranch+"."+key); err != nil {
			return err
		}
	}

	ctx.Splog.Success("Scaffolded %s on %s at %s.", opts.Dir, output.Branch(scaffoldBranch), output.Hash(c.ShortHash()))
	return nil
}

// checkoutTemplateBranch switches to the template branch to start from, via a
// temporary local branch when it is not the one the clone checked out.
func checkoutTemplateBranch(ctx *runtime.Context, want string) error {
	set, err := ctx.Branches.All(ctx, ctx.Repo)
	if err != nil {
		return err
	}
	var remoteBranches []string
	for _, r := range set.Remotes {
		remoteBranches = append(remoteBranches, r.Short)
	}
	if want != "" && !strings.Contains(want, "/") {
		want = "origin/" + want
	}
	if want == "" && len(remoteBranches) > 1 {
		want, err = ctx.Chooser.Choose(ctx, "Template branch", remoteBranches)
		if errors.Is(err, prompt.ErrInteractiveDisabled) {
			ctx.Splog.Debug("Keeping the default template branch")
			return nil
		}
		if err != nil {
			return err
		}
	}
	if want == "" {
		return nil
	}

	cur, err := ctx.Branches.Current(ctx, ctx.Repo)
	if err != nil {
		return err
	}
	if tracked, err := ctx.Branches.Tracking(ctx, ctx.Repo, cur.Short); err == nil && tracked.String() == want {
		return nil
	}

	tmp := "gitflow-" + uuid.NewString()
	if _, err := ctx.Branches.Create(ctx, ctx.Repo, tmp, want); err != nil {
		return fmt.Errorf("failed to start from %s: %w", want, err)
	}
	return ctx.Branches.Checkout(ctx, ctx.Repo, tmp)
}

func configuredSignature(ctx *runtime.Context) (git.Signature, error) {
	name, _ := ctx.Repo.ConfigGet(ctx, "user.name")
	email, _ := ctx.Repo.ConfigGet(ctx, "user.email")
	if name == "" || email == "" {
		return git.Signature{}, gferrors.NewValidationError("user", "user.name and user.email must be set (pass --name and --email)")
	}
	return git.Signature{Name: name, Email: email}, nil
}
