package memgit

import (
	"context"
	"fmt"
	"sort"

	"gitflow.dev/gitflow/internal/git"
)

// ConfigGet reads a config value
func (e *Engine) ConfigGet(_ context.Context, key string) (string, error) {
	value, ok := e.config[key]
	if !ok {
		return "", fmt.Errorf("%s: %w", key, git.ErrConfigNotFound)
	}
	return value, nil
}

// ConfigSet writes a config value
func (e *Engine) ConfigSet(_ context.Context, key, value string) error {
	e.config[key] = value
	return nil
}

// ConfigUnset removes a config value
func (e *Engine) ConfigUnset(_ context.Context, key string) error {
	delete(e.config, key)
	return nil
}

// Remotes lists configured remotes sorted by name
func (e *Engine) Remotes(_ context.Context) ([]git.Remote, error) {
	remotes := append([]git.Remote(nil), e.remotes...)
	sort.Slice(remotes, func(i, j int) bool { return remotes[i].Name < remotes[j].Name })
	return remotes, nil
}

// SetRemoteURL creates the remote or replaces its URL
func (e *Engine) SetRemoteURL(_ context.Context, name, url string) error {
	for i := range e.remotes {
		if e.remotes[i].Name == name {
			e.remotes[i].URLs = []string{url}
			return nil
		}
	}
	e.remotes = append(e.remotes, git.Remote{Name: name, URLs: []string{url}})
	return nil
}
