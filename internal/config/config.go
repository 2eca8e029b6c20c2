package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultCommitTypes are offered when a commit is made without a type.
var DefaultCommitTypes = []string{"feat", "fix", "refactor", "style", "test", "chore", "doc"}

// Config holds gitflow settings.
type Config struct {
	SSH    SSHConfig    `mapstructure:"ssh" yaml:"ssh"`
	HTTP   HTTPConfig   `mapstructure:"http" yaml:"http"`
	Pull   PullConfig   `mapstructure:"pull" yaml:"pull"`
	Remote RemoteConfig `mapstructure:"remote" yaml:"remote"`
	Commit CommitConfig `mapstructure:"commit" yaml:"commit"`
	Log    LogConfig    `mapstructure:"log" yaml:"log"`
}

// SSHConfig locates the key pair used for ssh remotes.
type SSHConfig struct {
	PublicKey  string `mapstructure:"publickey" yaml:"publicKey"`
	PrivateKey string `mapstructure:"privatekey" yaml:"privateKey"`
	User       string `mapstructure:"user" yaml:"user"`
	// Passphrase is read from GITFLOW_SSH_PASSPHRASE only and never saved
	Passphrase string `mapstructure:"passphrase" yaml:"-"`
}

// HTTPConfig authenticates https remotes.
type HTTPConfig struct {
	Token string `mapstructure:"token" yaml:"token,omitempty"`
}

// PullConfig selects how pull integrates the upstream.
type PullConfig struct {
	Mode string `mapstructure:"mode" yaml:"mode"`
}

// RemoteConfig picks the remote used when several are configured.
type RemoteConfig struct {
	Default string `mapstructure:"default" yaml:"default,omitempty"`
}

// CommitConfig holds the conventional commit types.
type CommitConfig struct {
	Types []string `mapstructure:"types" yaml:"types"`
}

// LogConfig locates the debug log file.
type LogConfig struct {
	File string `mapstructure:"file" yaml:"file,omitempty"`
}

// DefaultPath returns $XDG_CONFIG_HOME/gitflow/config.yaml, falling back to ~/.config.
func DefaultPath() string {
	if path := os.Getenv("GITFLOW_CONFIG"); path != "" {
		return path
	}
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "gitflow", "config.yaml")
}

func setDefaults(v *viper.Viper) {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	v.SetDefault("ssh.publickey", filepath.Join(home, ".ssh", "id_rsa.pub"))
	v.SetDefault("ssh.privatekey", filepath.Join(home, ".ssh", "id_rsa"))
	v.SetDefault("ssh.user", "git")
	v.SetDefault("ssh.passphrase", "")
	v.SetDefault("http.token", "")
	v.SetDefault("pull.mode", "rebase")
	v.SetDefault("remote.default", "")
	v.SetDefault("commit.types", DefaultCommitTypes)
	v.SetDefault("log.file", "")
}

// Load reads the user file at path (DefaultPath when empty), overlays the
// repository file in gitDir when gitDir is set, and applies GITFLOW_*
// environment overrides. Missing files are not an error.
func Load(path, gitDir string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("GITFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := mergeFile(v, path); err != nil {
		return nil, err
	}
	if gitDir != "" {
		if err := mergeFile(v, RepoConfigPath(gitDir)); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if len(cfg.Commit.Types) == 0 {
		cfg.Commit.Types = DefaultCommitTypes
	}
	return &cfg, nil
}

func mergeFile(v *viper.Viper, path string) error {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if err := v.MergeConfig(f); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

// Save writes cfg to path as YAML, creating the directory when needed.
func Save(path string, cfg *Config) error {
	if path == "" {
		path = DefaultPath()
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

// Show renders the effective config as YAML with secrets masked.
func Show(cfg *Config) (string, error) {
	shown := *cfg
	if shown.HTTP.Token != "" {
		shown.HTTP.Token = "********"
	}
	data, err := yaml.Marshal(&shown)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	return string(data), nil
}

// PullMode returns the configured pull mode, defaulting to rebase.
func (c *Config) PullMode() string {
	if c.Pull.Mode == "" {
		return "rebase"
	}
	return strings.ToLower(c.Pull.Mode)
}
