package sync_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"gitflow.dev/gitflow/internal/auth"
	gferrors "gitflow.dev/gitflow/internal/errors"
	"gitflow.dev/gitflow/internal/memgit"
	"gitflow.dev/gitflow/internal/sync"
)

type recordingSink struct {
	titles []string
	ticks  [][]int
	errs   []error
}

func (s *recordingSink) Start(title string) {
	s.titles = append(s.titles, title)
	s.ticks = append(s.ticks, nil)
}

func (s *recordingSink) Tick(n int) {
	s.ticks[len(s.ticks)-1] = append(s.ticks[len(s.ticks)-1], n)
}

func (s *recordingSink) Done(err error) {
	s.errs = append(s.errs, err)
}

func newServer(t *testing.T, branches ...string) *memgit.Engine {
	t.Helper()
	server := memgit.New()
	server.WriteFile("README.md", "hello\n")
	server.Commit("initial\n")
	for _, b := range branches {
		require.NoError(t, server.CreateBranchAt(b, "main"))
	}
	return server
}

func TestFetch(t *testing.T) {
	ctx := context.Background()

	t.Run("tick counter restarts on every call", func(t *testing.T) {
		server := newServer(t, "dev")
		eng := memgit.New()
		eng.AddRemote("origin", server)
		sink := &recordingSink{}
		s := sync.New(nil, nil)

		require.NoError(t, s.Fetch(ctx, eng, "origin", sink))
		require.Equal(t, []int{0, 1}, sink.ticks[0])

		server.WriteFile("README.md", "changed\n")
		server.Commit("second\n")

		require.NoError(t, s.Fetch(ctx, eng, "origin", sink))
		require.Equal(t, []int{0}, sink.ticks[1])
		require.Equal(t, []error{nil, nil}, sink.errs)
		require.Equal(t, server.BranchHash("main"), eng.RemoteHash("origin", "main"))
	})

	t.Run("up to date remote is success", func(t *testing.T) {
		server := newServer(t)
		eng := memgit.New()
		eng.AddRemote("origin", server)
		s := sync.New(nil, nil)

		require.NoError(t, s.Fetch(ctx, eng, "origin", nil))
		require.NoError(t, s.Fetch(ctx, eng, "origin", nil))
	})

	t.Run("empty remote fetches all remotes", func(t *testing.T) {
		eng := memgit.New()
		eng.AddRemote("origin", newServer(t))
		eng.AddRemote("upstream", newServer(t))
		sink := &recordingSink{}

		require.NoError(t, sync.New(nil, nil).Fetch(ctx, eng, "", sink))
		require.Equal(t, []string{"Fetching origin", "Fetching upstream"}, sink.titles)
		require.NotEmpty(t, eng.RemoteHash("upstream", "main"))
	})

	t.Run("failure is a transport error reported to the sink", func(t *testing.T) {
		eng := memgit.New()
		eng.AddRemote("origin", newServer(t))
		eng.FetchErr = errors.New("connection reset")
		sink := &recordingSink{}

		err := sync.New(nil, nil).Fetch(ctx, eng, "origin", sink)
		require.ErrorIs(t, err, gferrors.ErrTransport)
		require.ErrorIs(t, sink.errs[0], gferrors.ErrTransport)
	})

	t.Run("unreadable key is a transport error reported to the sink", func(t *testing.T) {
		eng := memgit.New()
		eng.AddRemote("origin", newServer(t))
		require.NoError(t, eng.SetRemoteURL(ctx, "origin", "ssh://git@example.com/x.git"))
		provider := auth.NewProvider(auth.Credentials{
			User:           "git",
			PrivateKeyPath: filepath.Join(t.TempDir(), "id_rsa"),
		})
		sink := &recordingSink{}

		err := sync.New(provider, nil).Fetch(ctx, eng, "origin", sink)
		var terr *gferrors.TransportError
		require.ErrorAs(t, err, &terr)
		require.Equal(t, "fetch", terr.Op)
		require.Equal(t, "origin", terr.Remote)
		require.ErrorIs(t, sink.errs[0], gferrors.ErrTransport)
	})

	t.Run("unknown remote", func(t *testing.T) {
		err := sync.New(nil, nil).Fetch(ctx, memgit.New(), "nope", nil)
		require.ErrorIs(t, err, gferrors.ErrValidation)
	})
}

func TestPush(t *testing.T) {
	ctx := context.Background()

	t.Run("uploads the branch", func(t *testing.T) {
		server := memgit.New()
		eng := memgit.New()
		eng.WriteFile("a.txt", "a\n")
		eng.Commit("add a\n")
		eng.AddRemote("origin", server)
		sink := &recordingSink{}

		err := sync.New(nil, nil).Push(ctx, eng, "origin", []string{"refs/heads/main:refs/heads/main"}, sink)
		require.NoError(t, err)
		require.Equal(t, eng.BranchHash("main"), server.BranchHash("main"))
		require.Equal(t, []string{"Pushing to origin"}, sink.titles)
	})

	t.Run("rejection is a transport error", func(t *testing.T) {
		eng := memgit.New()
		eng.WriteFile("a.txt", "a\n")
		eng.Commit("add a\n")
		eng.AddRemote("origin", memgit.New())
		eng.PushErr = errors.New("permission denied")

		err := sync.New(nil, nil).Push(ctx, eng, "origin", []string{"refs/heads/main:refs/heads/main"}, nil)
		var terr *gferrors.TransportError
		require.ErrorAs(t, err, &terr)
		require.Equal(t, "push", terr.Op)
		require.Equal(t, "origin", terr.Remote)
	})
}

func TestClone(t *testing.T) {
	ctx := context.Background()
	server := newServer(t, "dev")
	cloner := memgit.Cloner(map[string]*memgit.Engine{"mem://template": server})

	eng, err := sync.New(nil, nil).Clone(ctx, cloner, "mem://template", "", nil)
	require.NoError(t, err)

	head, err := eng.HeadRef(ctx)
	require.NoError(t, err)
	require.Equal(t, "main", head.Short)

	_, err = sync.New(nil, nil).Clone(ctx, cloner, "mem://missing", "", nil)
	require.ErrorIs(t, err, gferrors.ErrTransport)
}
