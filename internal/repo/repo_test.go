package repo_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	gferrors "gitflow.dev/gitflow/internal/errors"
	"gitflow.dev/gitflow/internal/memgit"
	"gitflow.dev/gitflow/internal/repo"
	"gitflow.dev/gitflow/testhelpers"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("path opens the repository", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)

		h, err := repo.Open(ctx, repo.Path(scene.Dir))
		require.NoError(t, err)
		head, err := h.HeadRef(ctx)
		require.NoError(t, err)
		require.Equal(t, "main", head.Short)
	})

	t.Run("handle passes through", func(t *testing.T) {
		h := repo.NewHandle(memgit.New())

		got, err := repo.Open(ctx, h)
		require.NoError(t, err)
		require.Same(t, h, got)
	})

	t.Run("empty path", func(t *testing.T) {
		_, err := repo.Open(ctx, repo.Path(""))
		require.ErrorIs(t, err, gferrors.ErrValidation)
	})

	t.Run("not a repository", func(t *testing.T) {
		_, err := repo.Open(ctx, repo.Path(t.TempDir()))
		require.Error(t, err)
	})
}

func TestLock(t *testing.T) {
	scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
	h, err := repo.Open(context.Background(), repo.Path(scene.Dir))
	require.NoError(t, err)

	unlock, err := h.Lock()
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(h.GitDir(), "gitflow.lock"))

	second, err := repo.Open(context.Background(), repo.Path(scene.Dir))
	require.NoError(t, err)
	_, err = second.Lock()
	require.ErrorIs(t, err, gferrors.ErrRepositoryLocked)

	unlock()
	unlockAgain, err := second.Lock()
	require.NoError(t, err)
	unlockAgain()

	memUnlock, err := repo.NewHandle(memgit.New()).Lock()
	require.NoError(t, err)
	memUnlock()
}

func TestClone(t *testing.T) {
	ctx := context.Background()

	t.Run("in memory", func(t *testing.T) {
		server := memgit.New()
		server.WriteFile("README.md", "template\n")
		server.Commit("init\n")

		h, err := repo.Clone(ctx, "mem://template", "", repo.CloneOptions{
			Cloner: memgit.Cloner(map[string]*memgit.Engine{"mem://template": server}),
		})
		require.NoError(t, err)
		c, err := h.CommitObject(ctx, "HEAD")
		require.NoError(t, err)
		require.Equal(t, server.BranchHash("main"), c.Hash)
	})

	t.Run("on disk from a bare remote", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.RemoteSceneSetup)
		dest := filepath.Join(t.TempDir(), "nested", "clone")

		h, err := repo.Clone(ctx, scene.Repo.Dir+"-origin.git", dest, repo.CloneOptions{})
		require.NoError(t, err)
		require.Equal(t, dest, h.Root())
	})

	t.Run("unreachable url is a transport error", func(t *testing.T) {
		_, err := repo.Clone(ctx, filepath.Join(t.TempDir(), "missing.git"), filepath.Join(t.TempDir(), "dest"), repo.CloneOptions{})
		require.ErrorIs(t, err, gferrors.ErrTransport)
	})
}
