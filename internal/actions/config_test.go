package actions_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"gitflow.dev/gitflow/internal/actions"
	"gitflow.dev/gitflow/internal/config"
	gferrors "gitflow.dev/gitflow/internal/errors"
	"gitflow.dev/gitflow/testhelpers"
	"gitflow.dev/gitflow/testhelpers/scenario"
)

func TestConfigUserAction(t *testing.T) {
	s := newMemScenario(t)

	require.ErrorIs(t, actions.ConfigUserAction(s.Context, "", ""), gferrors.ErrValidation)

	require.NoError(t, actions.ConfigUserAction(s.Context, "Grace", ""))
	name, err := s.Engine().ConfigGet(s.Context, "user.name")
	require.NoError(t, err)
	require.Equal(t, "Grace", name)
	email, err := s.Engine().ConfigGet(s.Context, "user.email")
	require.NoError(t, err)
	require.Equal(t, "test@example.com", email)
}

func TestConfigRemoteAction(t *testing.T) {
	t.Run("adds a remote", func(t *testing.T) {
		s := newMemScenario(t)

		require.NoError(t, actions.ConfigRemoteAction(s.Context, "upstream", "https://example.com/u.git", false))
		remotes, err := s.Engine().Remotes(s.Context)
		require.NoError(t, err)
		require.Len(t, remotes, 1)
		require.Equal(t, "https://example.com/u.git", remotes[0].URL())
	})

	t.Run("records the default remote for the repository", func(t *testing.T) {
		s := scenario.NewScenario(t, testhelpers.BasicSceneSetup)

		require.NoError(t, actions.ConfigRemoteAction(s.Context, "upstream", "https://example.com/u.git", true))

		url, err := s.Scene.Repo.GetConfig("remote.upstream.url")
		require.NoError(t, err)
		require.Equal(t, "https://example.com/u.git", url)

		cfg, err := config.Load(filepath.Join(t.TempDir(), "none.yaml"), s.Engine().GitDir())
		require.NoError(t, err)
		require.Equal(t, "upstream", cfg.Remote.Default)
	})

	t.Run("requires a name and a URL", func(t *testing.T) {
		s := newMemScenario(t)

		require.ErrorIs(t, actions.ConfigRemoteAction(s.Context, "origin", "", false), gferrors.ErrValidation)
	})
}

func TestConfigShowAction(t *testing.T) {
	s := newMemScenario(t)
	s.Context.Config.HTTP.Token = "secret-token"

	require.NoError(t, actions.ConfigShowAction(s.Context))
	s.ExpectOutput("mode: rebase", "********")
	require.NotContains(t, s.Output.String(), "secret-token")
}

func TestConfigInitAction(t *testing.T) {
	s := newMemScenario(t)
	path := filepath.Join(t.TempDir(), "gitflow", "config.yaml")

	require.NoError(t, actions.ConfigInitAction(s.Context, path))

	cfg, err := config.Load(path, "")
	require.NoError(t, err)
	require.Equal(t, "rebase", cfg.Pull.Mode)
}
