package actions

import (
	"gitflow.dev/gitflow/internal/config"
	gferrors "gitflow.dev/gitflow/internal/errors"
	"gitflow.dev/gitflow/internal/runtime"
)

// ConfigUserAction sets the repository identity used for new commits.
func ConfigUserAction(ctx *runtime.Context, name, email string) error {
	if name == "" && email == "" {
		return gferrors.NewValidationError("user", "pass a name, an email or both")
	}
	if name != "" {
		if err := ctx.Repo.ConfigSet(ctx, "user.name", name); err != nil {
			return err
		}
	}
	if email != "" {
		if err := ctx.Repo.ConfigSet(ctx, "user.email", email); err != nil {
			return err
		}
	}
	ctx.Splog.Success("Updated the repository user.")
	return nil
}

// ConfigRemoteAction points a remote at url, creating it when missing, and
// optionally makes it the default remote of the repository.
func ConfigRemoteAction(ctx *runtime.Context, name, url string, makeDefault bool) error {
	if name == "" || url == "" {
		return gferrors.NewValidationError("remote", "a name and a URL are required")
	}
	if err := ctx.Repo.SetRemoteURL(ctx, name, url); err != nil {
		return err
	}
	if makeDefault && ctx.Repo.GitDir() != "" {
		if err := config.SetDefaultRemote(ctx.Repo.GitDir(), name); err != nil {
			return err
		}
	}
	ctx.Splog.Success("Remote %s now points at %s.", name, url)
	return nil
}

// ConfigShowAction prints the effective settings.
func ConfigShowAction(ctx *runtime.Context) error {
	shown, err := config.Show(ctx.Config)
	if err != nil {
		return err
	}
	ctx.Splog.Page(shown)
	return nil
}

// ConfigInitAction writes the effective settings to the user config file.
func ConfigInitAction(ctx *runtime.Context, path string) error {
	if path == "" {
		path = config.DefaultPath()
	}
	if err := config.Save(path, ctx.Config); err != nil {
		return err
	}
	ctx.Splog.Success("Wrote %s.", path)
	return nil
}
