package git

import (
	"context"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/stretchr/testify/require"

	gferrors "gitflow.dev/gitflow/internal/errors"
)

// newMemoryRepo builds a Repo over go-git in-memory storage. Only the methods
// that never shell out to the git CLI may be used with it.
func newMemoryRepo(t *testing.T) (*Repo, billy.Filesystem) {
	t.Helper()
	fs := memfs.New()
	repo, err := gogit.Init(memory.NewStorage(), fs)
	require.NoError(t, err)
	return &Repo{repo: repo, root: "/"}, fs
}

func commitFile(t *testing.T, r *Repo, fs billy.Filesystem, name, content string, when time.Time) string {
	t.Helper()
	f, err := fs.Create(name)
	require.NoError(t, err)
	_, err = f.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	wt, err := r.repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add(name)
	require.NoError(t, err)
	sig := &object.Signature{Name: "Test User", Email: "test@example.com", When: when}
	hash, err := wt.Commit(content, &gogit.CommitOptions{Author: sig, Committer: sig})
	require.NoError(t, err)
	return hash.String()
}

func TestMemoryLog(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("returns newest first and honors limit", func(t *testing.T) {
		r, fs := newMemoryRepo(t)
		a := commitFile(t, r, fs, "a.txt", "a", base)
		b := commitFile(t, r, fs, "b.txt", "b", base.Add(time.Minute))
		c := commitFile(t, r, fs, "c.txt", "c", base.Add(2*time.Minute))

		all, err := r.Log(ctx, "HEAD", 0)
		require.NoError(t, err)
		require.Len(t, all, 3)
		require.Equal(t, []string{c, b, a}, []string{all[0].Hash, all[1].Hash, all[2].Hash})
		require.Equal(t, []string{b}, all[0].Parents)
		require.Empty(t, all[2].Parents)

		limited, err := r.Log(ctx, "HEAD", 2)
		require.NoError(t, err)
		require.Len(t, limited, 2)
	})

	t.Run("unknown revision is a branch not found error", func(t *testing.T) {
		r, fs := newMemoryRepo(t)
		commitFile(t, r, fs, "a.txt", "a", base)

		_, err := r.Log(ctx, "nope", 0)
		require.ErrorIs(t, err, gferrors.ErrBranchNotFound)
	})
}

func TestMemorySquashRange(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("returns the tip tree for an ancestor range", func(t *testing.T) {
		r, fs := newMemoryRepo(t)
		a := commitFile(t, r, fs, "a.txt", "a", base)
		commitFile(t, r, fs, "b.txt", "b", base.Add(time.Minute))
		c := commitFile(t, r, fs, "c.txt", "c", base.Add(2*time.Minute))

		tree, err := r.SquashRange(ctx, a, c)
		require.NoError(t, err)

		tip, err := r.CommitObject(ctx, c)
		require.NoError(t, err)
		require.Equal(t, tip.Tree, tree)
	})

	t.Run("rejects reversed and empty ranges", func(t *testing.T) {
		r, fs := newMemoryRepo(t)
		a := commitFile(t, r, fs, "a.txt", "a", base)
		b := commitFile(t, r, fs, "b.txt", "b", base.Add(time.Minute))

		_, err := r.SquashRange(ctx, b, a)
		require.ErrorIs(t, err, gferrors.ErrHistoryDivergence)

		_, err = r.SquashRange(ctx, a, a)
		require.ErrorIs(t, err, gferrors.ErrValidation)
	})
}

func TestMemoryWriteCommit(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("rewriting a commit with identical fields yields the same object", func(t *testing.T) {
		r, fs := newMemoryRepo(t)
		commitFile(t, r, fs, "a.txt", "a", base)
		b := commitFile(t, r, fs, "b.txt", "b", base.Add(time.Minute))

		orig, err := r.CommitObject(ctx, b)
		require.NoError(t, err)

		head, err := r.HeadRef(ctx)
		require.NoError(t, err)

		hash, err := r.WriteCommit(ctx, CommitSpec{
			Ref:       head.Name,
			OldHash:   head.Hash,
			Tree:      orig.Tree,
			Parents:   orig.Parents,
			Author:    orig.Author,
			Committer: orig.Committer,
			Message:   orig.Message,
		})
		require.NoError(t, err)
		require.Equal(t, b, hash)
	})

	t.Run("keeps an explicit parent set and moves the ref", func(t *testing.T) {
		r, fs := newMemoryRepo(t)
		a := commitFile(t, r, fs, "a.txt", "a", base)
		b := commitFile(t, r, fs, "b.txt", "b", base.Add(time.Minute))
		tip, err := r.CommitObject(ctx, b)
		require.NoError(t, err)

		sig := Signature{Name: "Test User", Email: "test@example.com", When: base.Add(time.Hour)}
		hash, err := r.WriteCommit(ctx, CommitSpec{
			Ref:       "refs/heads/combined",
			Tree:      tip.Tree,
			Parents:   []string{b, a},
			Author:    sig,
			Committer: sig,
			Message:   "combined\n",
		})
		require.NoError(t, err)

		ref, err := r.Reference(ctx, "combined")
		require.NoError(t, err)
		require.Equal(t, hash, ref.Hash)

		written, err := r.CommitObject(ctx, hash)
		require.NoError(t, err)
		require.Equal(t, []string{b, a}, written.Parents)
		require.Equal(t, "combined", written.Subject())
	})

	t.Run("conditional update fails when the ref moved", func(t *testing.T) {
		r, fs := newMemoryRepo(t)
		a := commitFile(t, r, fs, "a.txt", "a", base)
		b := commitFile(t, r, fs, "b.txt", "b", base.Add(time.Minute))
		head, err := r.HeadRef(ctx)
		require.NoError(t, err)

		err = r.UpdateRef(ctx, head.Name, a, a)
		require.Error(t, err)

		require.NoError(t, r.UpdateRef(ctx, head.Name, a, b))
		head, err = r.HeadRef(ctx)
		require.NoError(t, err)
		require.Equal(t, a, head.Hash)
	})
}

func TestMemoryReferences(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("partitions local and remote-tracking branches", func(t *testing.T) {
		r, fs := newMemoryRepo(t)
		a := commitFile(t, r, fs, "a.txt", "a", base)

		require.NoError(t, r.CreateBranch(ctx, "feature", a))
		require.NoError(t, r.UpdateRef(ctx, "refs/remotes/origin/feature", a, ""))

		refs, err := r.References(ctx)
		require.NoError(t, err)

		var locals, remotes []string
		for _, ref := range refs {
			if ref.Remote {
				remotes = append(remotes, ref.Short)
			} else {
				locals = append(locals, ref.Short)
			}
		}
		require.Equal(t, []string{"feature", "master"}, locals)
		require.Equal(t, []string{"origin/feature"}, remotes)

		ref, err := r.Reference(ctx, "origin/feature")
		require.NoError(t, err)
		require.True(t, ref.Remote)
	})

	t.Run("create refuses an existing name", func(t *testing.T) {
		r, fs := newMemoryRepo(t)
		a := commitFile(t, r, fs, "a.txt", "a", base)

		err := r.CreateBranch(ctx, "master", a)
		require.ErrorIs(t, err, gferrors.ErrBranchExists)

		err = r.CreateBranch(ctx, "bad name", a)
		require.ErrorIs(t, err, gferrors.ErrValidation)
	})

	t.Run("unborn HEAD has no hash", func(t *testing.T) {
		r, _ := newMemoryRepo(t)

		head, err := r.HeadRef(ctx)
		require.NoError(t, err)
		require.True(t, head.IsUnborn())
		require.Equal(t, "master", head.Short)
	})
}
