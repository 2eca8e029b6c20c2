package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const repoConfigFile = "gitflow.yaml"

// RepoConfig holds per-repository overrides. Unset fields fall through to
// the user config.
type RepoConfig struct {
	Pull   *PullConfig   `yaml:"pull,omitempty"`
	Remote *RemoteConfig `yaml:"remote,omitempty"`
	Commit *CommitConfig `yaml:"commit,omitempty"`
}

// RepoConfigPath returns the location of the repository config.
func RepoConfigPath(gitDir string) string {
	return filepath.Join(gitDir, repoConfigFile)
}

// GetRepoConfig reads the repository config. A missing file yields an empty config.
func GetRepoConfig(gitDir string) (*RepoConfig, error) {
	data, err := os.ReadFile(RepoConfigPath(gitDir))
	if os.IsNotExist(err) {
		return &RepoConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read repo config: %w", err)
	}

	var cfg RepoConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse repo config: %w", err)
	}
	return &cfg, nil
}

// SetRepoConfig writes the repository config.
func SetRepoConfig(gitDir string, cfg *RepoConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal repo config: %w", err)
	}
	return os.WriteFile(RepoConfigPath(gitDir), data, 0o600)
}

// SetDefaultRemote records the remote push and pull use in this repository.
func SetDefaultRemote(gitDir, remote string) error {
	cfg, err := GetRepoConfig(gitDir)
	if err != nil {
		return err
	}
	cfg.Remote = &RemoteConfig{Default: remote}
	return SetRepoConfig(gitDir, cfg)
}
