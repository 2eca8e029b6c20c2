package actions_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gitflow.dev/gitflow/internal/actions"
	gferrors "gitflow.dev/gitflow/internal/errors"
	"gitflow.dev/gitflow/internal/prompt"
)

func TestBranchActions(t *testing.T) {
	t.Run("list marks the current branch and shows upstreams", func(t *testing.T) {
		s := newMemScenario(t)
		withServer(t, s)
		require.NoError(t, actions.FetchAction(s.Context, "origin"))
		require.NoError(t, actions.BranchUpstreamAction(s.Context, "origin/main"))
		s.CreateBranch("feature")

		require.NoError(t, actions.BranchListAction(s.Context))
		s.ExpectOutput("feature", "origin/main", "*")
	})

	t.Run("rename moves the current branch", func(t *testing.T) {
		s := newMemScenario(t).CreateBranch("feature")

		require.NoError(t, actions.BranchRenameAction(s.Context, "feature-2"))
		s.ExpectBranch("feature-2").ExpectBranches("main", "feature-2")
	})

	t.Run("rename onto an existing branch fails", func(t *testing.T) {
		s := newMemScenario(t).CreateBranch("feature")

		require.ErrorIs(t, actions.BranchRenameAction(s.Context, "main"), gferrors.ErrBranchExists)
	})

	t.Run("delete removes named branches", func(t *testing.T) {
		s := newMemScenario(t).CreateBranch("a").CreateBranch("b").Checkout("main")

		require.NoError(t, actions.BranchDeleteAction(s.Context, []string{"a", "b"}))
		s.ExpectBranches("main")
	})

	t.Run("delete of a missing branch fails", func(t *testing.T) {
		s := newMemScenario(t)

		require.ErrorIs(t, actions.BranchDeleteAction(s.Context, []string{"ghost"}), gferrors.ErrBranchNotFound)
	})

	t.Run("prune keeps only the current branch", func(t *testing.T) {
		s := newMemScenario(t).CreateBranch("a").CreateBranch("b")

		require.NoError(t, actions.BranchPruneAction(s.Context, actions.BranchPruneOptions{}))
		s.ExpectBranch("b").ExpectBranches("b")
	})

	t.Run("prune all needs confirmation", func(t *testing.T) {
		s := newMemScenario(t).CreateBranch("a")

		err := actions.BranchPruneAction(s.Context, actions.BranchPruneOptions{All: true})
		require.ErrorIs(t, err, prompt.ErrInteractiveDisabled)
		s.ExpectBranches("main", "a")
	})

	t.Run("prune all with yes deletes the current branch too", func(t *testing.T) {
		s := newMemScenario(t).CreateBranch("a")

		require.NoError(t, actions.BranchPruneAction(s.Context, actions.BranchPruneOptions{All: true, Yes: true}))
		s.ExpectBranches()
	})

	t.Run("prune with nothing to do", func(t *testing.T) {
		s := newMemScenario(t)

		require.NoError(t, actions.BranchPruneAction(s.Context, actions.BranchPruneOptions{}))
		s.ExpectOutput("Nothing to prune")
	})

	t.Run("upstream shows and sets the link", func(t *testing.T) {
		s := newMemScenario(t)
		withServer(t, s)

		require.NoError(t, actions.BranchUpstreamAction(s.Context, ""))
		s.ExpectOutput("No upstream set")

		require.ErrorIs(t, actions.BranchUpstreamAction(s.Context, "origin/main"), gferrors.ErrBranchNotFound)

		require.NoError(t, actions.FetchAction(s.Context, "origin"))
		require.NoError(t, actions.BranchUpstreamAction(s.Context, "origin/main"))
		merge, err := s.Engine().ConfigGet(s.Context, "branch.main.merge")
		require.NoError(t, err)
		require.Equal(t, "refs/heads/main", merge)
	})
}
