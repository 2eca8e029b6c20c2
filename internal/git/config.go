package git

import (
	"context"
	"errors"
	"fmt"
	"sort"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
)

// ConfigGet reads a config value, falling back to global config like git does
func (r *Repo) ConfigGet(ctx context.Context, key string) (string, error) {
	out, err := r.runner.Run(ctx, "config", "--get", key)
	if err != nil {
		if exitCode(err) == 1 {
			return "", fmt.Errorf("%s: %w", key, ErrConfigNotFound)
		}
		return "", fmt.Errorf("failed to read config %s: %w", key, err)
	}
	return out, nil
}

// ConfigSet writes a value to the repository-local config
func (r *Repo) ConfigSet(ctx context.Context, key, value string) error {
	if _, err := r.runner.Run(ctx, "config", "--local", key, value); err != nil {
		return fmt.Errorf("failed to set config %s: %w", key, err)
	}
	return nil
}

// ConfigUnset removes a key from the repository-local config. Missing keys are ignored.
func (r *Repo) ConfigUnset(ctx context.Context, key string) error {
	_, err := r.runner.Run(ctx, "config", "--local", "--unset-all", key)
	// exit code 5: the key was not set
	if err != nil && exitCode(err) != 5 {
		return fmt.Errorf("failed to unset config %s: %w", key, err)
	}
	return nil
}

// Remotes lists configured remotes sorted by name
func (r *Repo) Remotes(_ context.Context) ([]Remote, error) {
	remotes, err := r.repo.Remotes()
	if err != nil {
		return nil, fmt.Errorf("failed to list remotes: %w", err)
	}

	result := make([]Remote, 0, len(remotes))
	for _, remote := range remotes {
		cfg := remote.Config()
		result = append(result, Remote{Name: cfg.Name, URLs: append([]string(nil), cfg.URLs...)})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// SetRemoteURL creates the remote or replaces its URL
func (r *Repo) SetRemoteURL(_ context.Context, name, url string) error {
	if err := r.repo.DeleteRemote(name); err != nil && !errors.Is(err, gogit.ErrRemoteNotFound) {
		return fmt.Errorf("failed to replace remote %s: %w", name, err)
	}
	if _, err := r.repo.CreateRemote(&config.RemoteConfig{Name: name, URLs: []string{url}}); err != nil {
		return fmt.Errorf("failed to add remote %s: %w", name, err)
	}
	return nil
}
