package git_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	gferrors "gitflow.dev/gitflow/internal/errors"
	"gitflow.dev/gitflow/internal/git"
	"gitflow.dev/gitflow/testhelpers"
)

func openScene(t *testing.T, setup testhelpers.SceneSetup) (*testhelpers.Scene, *git.Repo) {
	t.Helper()
	scene := testhelpers.NewScene(t, setup)
	repo, err := git.Open(scene.Dir)
	require.NoError(t, err)
	return scene, repo
}

func TestOpen(t *testing.T) {
	t.Run("finds the repository from a subdirectory", func(t *testing.T) {
		scene := testhelpers.NewScene(t, func(s *testhelpers.Scene) error {
			if err := s.Repo.WriteFile("sub/dir/file.txt", "x"); err != nil {
				return err
			}
			return s.Repo.CreateChangeAndCommit("1", "1")
		})

		repo, err := git.Open(filepath.Join(scene.Dir, "sub", "dir"))
		require.NoError(t, err)
		require.Equal(t, filepath.Join(scene.Dir, ".git"), repo.GitDir())
	})

	t.Run("fails outside a repository", func(t *testing.T) {
		_, err := git.Open(t.TempDir())
		require.Error(t, err)
	})
}

func TestHeadRef(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the current branch", func(t *testing.T) {
		scene, repo := openScene(t, testhelpers.BasicSceneSetup)

		head, err := repo.HeadRef(ctx)
		require.NoError(t, err)
		require.Equal(t, "refs/heads/main", head.Name)
		require.Equal(t, "main", head.Short)
		require.Equal(t, testhelpers.Must(scene.Repo.GetRevision("main")), head.Hash)
	})

	t.Run("detached HEAD is not on a branch", func(t *testing.T) {
		scene, repo := openScene(t, testhelpers.BasicSceneSetup)
		require.NoError(t, scene.Repo.CheckoutDetached("HEAD"))

		_, err := repo.HeadRef(ctx)
		require.ErrorIs(t, err, gferrors.ErrNotOnBranch)
	})
}

func TestCheckout(t *testing.T) {
	ctx := context.Background()

	t.Run("switches branches", func(t *testing.T) {
		scene, repo := openScene(t, func(s *testhelpers.Scene) error {
			if err := s.Repo.CreateChangeAndCommit("1", "1"); err != nil {
				return err
			}
			return s.Repo.CreateBranch("feature")
		})

		require.NoError(t, repo.Checkout(ctx, "feature"))
		require.Equal(t, "feature", testhelpers.Must(scene.Repo.CurrentBranchName()))
	})

	t.Run("refuses when local changes would be overwritten", func(t *testing.T) {
		scene, repo := openScene(t, func(s *testhelpers.Scene) error {
			if err := s.Repo.CreateChangeAndCommit("1", "shared"); err != nil {
				return err
			}
			if err := s.Repo.CreateAndCheckoutBranch("feature"); err != nil {
				return err
			}
			if err := s.Repo.CreateChangeAndCommit("feature version", "shared"); err != nil {
				return err
			}
			return s.Repo.CheckoutBranch("main")
		})
		require.NoError(t, scene.Repo.CreateChange("local edit", "shared", true))

		err := repo.Checkout(ctx, "feature")
		var conflictErr *gferrors.CheckoutConflictError
		require.ErrorAs(t, err, &conflictErr)
		require.Contains(t, conflictErr.Paths, "shared_test.txt")

		require.Equal(t, "main", testhelpers.Must(scene.Repo.CurrentBranchName()))
		require.Equal(t, "local edit", testhelpers.Must(scene.Repo.ReadFile("shared_test.txt")))
	})

	t.Run("unknown branch", func(t *testing.T) {
		_, repo := openScene(t, testhelpers.BasicSceneSetup)

		err := repo.Checkout(ctx, "nope")
		require.ErrorIs(t, err, gferrors.ErrBranchNotFound)
	})
}

func TestWriteCommit(t *testing.T) {
	ctx := context.Background()

	t.Run("amending a merge commit keeps both parents", func(t *testing.T) {
		scene, repo := openScene(t, func(s *testhelpers.Scene) error {
			if err := s.Repo.CreateChangeAndCommit("1", "1"); err != nil {
				return err
			}
			if err := s.Repo.CreateAndCheckoutBranch("side"); err != nil {
				return err
			}
			if err := s.Repo.CreateChangeAndCommit("side", "side"); err != nil {
				return err
			}
			if err := s.Repo.CheckoutBranch("main"); err != nil {
				return err
			}
			if err := s.Repo.CreateChangeAndCommit("2", "2"); err != nil {
				return err
			}
			return s.Repo.RunGitCommand("merge", "--no-edit", "-q", "side")
		})

		head, err := repo.HeadRef(ctx)
		require.NoError(t, err)
		orig, err := repo.CommitObject(ctx, head.Hash)
		require.NoError(t, err)
		require.Len(t, orig.Parents, 2)

		require.NoError(t, scene.Repo.CreateChange("amended", "3", false))
		hash, err := repo.WriteCommit(ctx, git.CommitSpec{
			Ref:       head.Name,
			OldHash:   head.Hash,
			Parents:   orig.Parents,
			Author:    orig.Author,
			Committer: orig.Committer,
			Message:   "amended merge\n",
		})
		require.NoError(t, err)

		amended, err := repo.CommitObject(ctx, "main")
		require.NoError(t, err)
		require.Equal(t, hash, amended.Hash)
		require.Equal(t, orig.Parents, amended.Parents)
		require.NotEqual(t, orig.Tree, amended.Tree)
		require.Equal(t, "amended merge", amended.Subject())
	})
}

func TestStageAllAndIsClean(t *testing.T) {
	ctx := context.Background()

	t.Run("untracked files make the tree dirty until committed", func(t *testing.T) {
		scene, repo := openScene(t, testhelpers.BasicSceneSetup)

		clean, err := repo.IsClean(ctx)
		require.NoError(t, err)
		require.True(t, clean)

		require.NoError(t, scene.Repo.CreateChange("new", "new", true))
		clean, err = repo.IsClean(ctx)
		require.NoError(t, err)
		require.False(t, clean)

		require.NoError(t, repo.StageAll(ctx))
		status, err := scene.Repo.Status()
		require.NoError(t, err)
		require.Equal(t, "A  new_test.txt", status)
	})
}

func TestReset(t *testing.T) {
	ctx := context.Background()

	t.Run("soft reset keeps the worktree", func(t *testing.T) {
		scene, repo := openScene(t, func(s *testhelpers.Scene) error {
			if err := s.Repo.CreateChangeAndCommit("1", "1"); err != nil {
				return err
			}
			return s.Repo.CreateChangeAndCommit("2", "2")
		})
		first := testhelpers.Must(scene.Repo.GetRevision("HEAD~1"))

		require.NoError(t, repo.Reset(ctx, first, git.SoftReset))
		require.Equal(t, first, testhelpers.Must(scene.Repo.GetRevision("main")))
		require.Equal(t, "2", testhelpers.Must(scene.Repo.ReadFile("2_test.txt")))
	})
}

func TestCherryPick(t *testing.T) {
	ctx := context.Background()

	t.Run("applies a commit onto HEAD", func(t *testing.T) {
		scene, repo := openScene(t, func(s *testhelpers.Scene) error {
			if err := s.Repo.CreateChangeAndCommit("1", "1"); err != nil {
				return err
			}
			if err := s.Repo.CreateAndCheckoutBranch("feature"); err != nil {
				return err
			}
			if err := s.Repo.CreateChangeAndCommit("feature", "feature"); err != nil {
				return err
			}
			return s.Repo.CheckoutBranch("main")
		})

		res, err := repo.CherryPick(ctx, "feature")
		require.NoError(t, err)
		require.Equal(t, git.ApplyDone, res.State)
		require.Equal(t, testhelpers.Must(scene.Repo.GetRevision("main")), res.Head)
		testhelpers.ExpectCommits(t, scene.Repo, "main", []string{"feature", "1"})
	})

	t.Run("reports conflicts without failing", func(t *testing.T) {
		scene, repo := openScene(t, func(s *testhelpers.Scene) error {
			if err := s.Repo.CreateChangeAndCommit("1", "shared"); err != nil {
				return err
			}
			if err := s.Repo.CreateAndCheckoutBranch("feature"); err != nil {
				return err
			}
			if err := s.Repo.CreateChangeAndCommit("feature", "shared"); err != nil {
				return err
			}
			if err := s.Repo.CheckoutBranch("main"); err != nil {
				return err
			}
			return s.Repo.CreateChangeAndCommit("main", "shared")
		})

		res, err := repo.CherryPick(ctx, "feature")
		require.NoError(t, err)
		require.Equal(t, git.ApplyConflict, res.State)
		require.Equal(t, []string{"shared_test.txt"}, res.Conflicts)
		require.Equal(t, []string{"shared_test.txt"}, testhelpers.Must(scene.Repo.UnmergedFiles()))
	})
}

func TestConfig(t *testing.T) {
	ctx := context.Background()

	t.Run("get set and unset", func(t *testing.T) {
		scene, repo := openScene(t, testhelpers.BasicSceneSetup)

		_, err := repo.ConfigGet(ctx, "branch.main.merge")
		require.ErrorIs(t, err, git.ErrConfigNotFound)

		require.NoError(t, repo.ConfigSet(ctx, "branch.main.merge", "refs/heads/main"))
		value, err := repo.ConfigGet(ctx, "branch.main.merge")
		require.NoError(t, err)
		require.Equal(t, "refs/heads/main", value)
		require.Equal(t, "refs/heads/main", testhelpers.Must(scene.Repo.GetConfig("branch.main.merge")))

		require.NoError(t, repo.ConfigUnset(ctx, "branch.main.merge"))
		require.NoError(t, repo.ConfigUnset(ctx, "branch.main.merge"))
		_, err = repo.ConfigGet(ctx, "branch.main.merge")
		require.ErrorIs(t, err, git.ErrConfigNotFound)
	})

	t.Run("set remote url adds or replaces", func(t *testing.T) {
		_, repo := openScene(t, testhelpers.BasicSceneSetup)

		require.NoError(t, repo.SetRemoteURL(ctx, "origin", "https://example.com/a.git"))
		require.NoError(t, repo.SetRemoteURL(ctx, "origin", "https://example.com/b.git"))

		remotes, err := repo.Remotes(ctx)
		require.NoError(t, err)
		require.Len(t, remotes, 1)
		require.Equal(t, "https://example.com/b.git", remotes[0].URL())
	})
}

func TestTransport(t *testing.T) {
	ctx := context.Background()

	t.Run("push then fetch through a local bare remote", func(t *testing.T) {
		scene, repo := openScene(t, func(s *testhelpers.Scene) error {
			if err := s.Repo.CreateChangeAndCommit("1", "1"); err != nil {
				return err
			}
			_, err := s.Repo.CreateBareRemote("origin")
			return err
		})

		var progress bytes.Buffer
		err := repo.Push(ctx, git.PushOptions{
			Remote:           "origin",
			RefSpecs:         []string{"refs/heads/main:refs/heads/main"},
			TransportOptions: git.TransportOptions{Progress: &progress},
		})
		require.NoError(t, err)

		// Pushing again is up to date, which is success.
		require.NoError(t, repo.Push(ctx, git.PushOptions{
			Remote:   "origin",
			RefSpecs: []string{"refs/heads/main:refs/heads/main"},
		}))

		require.NoError(t, repo.Fetch(ctx, git.FetchOptions{Remote: "origin"}))
		tracking, err := repo.Reference(ctx, "origin/main")
		require.NoError(t, err)
		require.Equal(t, testhelpers.Must(scene.Repo.GetRevision("main")), tracking.Hash)
	})

	t.Run("clone creates the destination", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.RemoteSceneSetup)
		dest := filepath.Join(t.TempDir(), "nested", "clone")

		cloned, err := git.Clone(ctx, git.CloneOptions{URL: scene.Dir + "-origin.git", Dir: dest})
		require.NoError(t, err)

		head, err := cloned.HeadRef(ctx)
		require.NoError(t, err)
		require.Equal(t, testhelpers.Must(scene.Repo.GetRevision("main")), head.Hash)
	})

	t.Run("fetch from a missing remote fails", func(t *testing.T) {
		_, repo := openScene(t, testhelpers.BasicSceneSetup)

		err := repo.Fetch(ctx, git.FetchOptions{Remote: "origin"})
		require.Error(t, err)
	})
}
