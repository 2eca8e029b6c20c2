package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"gitflow.dev/gitflow/internal/config"
)

func TestLoad(t *testing.T) {
	t.Run("defaults when no file exists", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())
		cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"), "")
		require.NoError(t, err)

		require.Equal(t, "rebase", cfg.PullMode())
		require.Equal(t, "git", cfg.SSH.User)
		require.Equal(t, config.DefaultCommitTypes, cfg.Commit.Types)
		require.Equal(t, filepath.Join(os.Getenv("HOME"), ".ssh", "id_rsa"), cfg.SSH.PrivateKey)
	})

	t.Run("file values", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
ssh:
  privateKey: /keys/id_ed25519
pull:
  mode: merge
commit:
  types: [feat, fix]
`), 0o600))

		cfg, err := config.Load(path, "")
		require.NoError(t, err)
		require.Equal(t, "/keys/id_ed25519", cfg.SSH.PrivateKey)
		require.Equal(t, "merge", cfg.PullMode())
		require.Equal(t, []string{"feat", "fix"}, cfg.Commit.Types)
	})

	t.Run("repository file overrides the user file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("pull:\n  mode: merge\nremote:\n  default: origin\n"), 0o600))
		gitDir := t.TempDir()
		require.NoError(t, config.SetDefaultRemote(gitDir, "fork"))

		cfg, err := config.Load(path, gitDir)
		require.NoError(t, err)
		require.Equal(t, "fork", cfg.Remote.Default)
		require.Equal(t, "merge", cfg.PullMode())
	})

	t.Run("environment overrides files", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("pull:\n  mode: merge\n"), 0o600))
		t.Setenv("GITFLOW_PULL_MODE", "rebase")
		t.Setenv("GITFLOW_SSH_PASSPHRASE", "s3cret")

		cfg, err := config.Load(path, "")
		require.NoError(t, err)
		require.Equal(t, "rebase", cfg.PullMode())
		require.Equal(t, "s3cret", cfg.SSH.Passphrase)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("pull: [unterminated"), 0o600))

		_, err := config.Load(path, "")
		require.Error(t, err)
	})
}

func TestSaveAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := &config.Config{
		SSH:  config.SSHConfig{PrivateKey: "/k", PublicKey: "/k.pub", User: "git", Passphrase: "never saved"},
		HTTP: config.HTTPConfig{Token: "tok"},
		Pull: config.PullConfig{Mode: "merge"},
	}
	require.NoError(t, config.Save(path, cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(data), "never saved")

	loaded, err := config.Load(path, "")
	require.NoError(t, err)
	require.Equal(t, "/k", loaded.SSH.PrivateKey)
	require.Equal(t, "tok", loaded.HTTP.Token)

	shown, err := config.Show(loaded)
	require.NoError(t, err)
	require.Contains(t, shown, "privateKey: /k")
	require.NotContains(t, shown, "tok\n")
	require.Contains(t, shown, "********")
}

func TestRepoConfig(t *testing.T) {
	gitDir := t.TempDir()

	cfg, err := config.GetRepoConfig(gitDir)
	require.NoError(t, err)
	require.Nil(t, cfg.Remote)

	require.NoError(t, config.SetDefaultRemote(gitDir, "upstream"))
	cfg, err = config.GetRepoConfig(gitDir)
	require.NoError(t, err)
	require.Equal(t, "upstream", cfg.Remote.Default)
}
