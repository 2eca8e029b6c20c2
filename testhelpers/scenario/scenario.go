// Package scenario combines a Scene, an open repository and a runtime Context
// to provide a terse API for action tests.
package scenario

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"gitflow.dev/gitflow/internal/config"
	"gitflow.dev/gitflow/internal/git"
	"gitflow.dev/gitflow/internal/memgit"
	"gitflow.dev/gitflow/internal/output"
	"gitflow.dev/gitflow/internal/repo"
	"gitflow.dev/gitflow/internal/runtime"
	"gitflow.dev/gitflow/testhelpers"
)

// Scenario is a repository plus a runtime Context whose output is captured.
// Scene is nil for in-memory scenarios and Mem is nil for on-disk ones.
type Scenario struct {
	T       *testing.T
	Scene   *testhelpers.Scene
	Mem     *memgit.Engine
	Context *runtime.Context
	Output  *bytes.Buffer
}

// NewScenario creates an on-disk scenario. It sets process environment, so
// it is NOT safe for parallel tests.
func NewScenario(t *testing.T, setup testhelpers.SceneSetup) *Scenario {
	t.Helper()

	scene := testhelpers.NewScene(t, setup)
	eng, err := git.Open(scene.Dir)
	require.NoError(t, err)

	s := newScenario(t, repo.NewHandle(eng))
	s.Scene = scene
	return s
}

// NewMemScenario creates a scenario over an in-memory engine.
func NewMemScenario(t *testing.T, eng *memgit.Engine) *Scenario {
	t.Helper()
	t.Setenv("GITFLOW_NON_INTERACTIVE", "true")

	s := newScenario(t, repo.NewHandle(eng))
	s.Mem = eng
	return s
}

func newScenario(t *testing.T, h *repo.Handle) *Scenario {
	t.Helper()

	// Keep the user's own config out of tests.
	t.Setenv("GITFLOW_CONFIG", t.TempDir()+"/config.yaml")
	cfg, err := config.Load("", h.GitDir())
	require.NoError(t, err)

	var buf bytes.Buffer
	splog, err := output.NewSplogWithConfig(&buf, "")
	require.NoError(t, err)

	return &Scenario{
		T:       t,
		Context: runtime.NewContextWithRepo(context.Background(), h, cfg, splog),
		Output:  &buf,
	}
}

// Engine returns the repository the Context operates on.
func (s *Scenario) Engine() git.Engine {
	return s.Context.Repo.Engine
}

// WithInitialCommit creates an initial commit on the current branch.
func (s *Scenario) WithInitialCommit() *Scenario {
	s.T.Helper()
	return s.CommitChange("init", "initial")
}

// CommitChange writes <name>_test.txt and commits it with message.
func (s *Scenario) CommitChange(name, message string) *Scenario {
	s.T.Helper()
	if s.Mem != nil {
		s.Mem.WriteFile(name+"_test.txt", message)
		s.Mem.Commit(message + "\n")
		return s
	}
	require.NoError(s.T, s.Scene.Repo.CreateChangeAndCommit(message, name))
	return s
}

// WithUncommittedChange leaves a modified file in the worktree.
func (s *Scenario) WithUncommittedChange(name string) *Scenario {
	s.T.Helper()
	if s.Mem != nil {
		s.Mem.WriteFile(name+"_test.txt", "unstaged content")
		return s
	}
	require.NoError(s.T, s.Scene.Repo.CreateChange("unstaged content", name, true))
	return s
}

// CreateBranch creates and checks out a new branch at HEAD.
func (s *Scenario) CreateBranch(name string) *Scenario {
	s.T.Helper()
	if s.Mem != nil {
		require.NoError(s.T, s.Mem.CreateBranchAt(name, "HEAD"))
		return s.Checkout(name)
	}
	require.NoError(s.T, s.Scene.Repo.CreateAndCheckoutBranch(name))
	return s
}

// Checkout switches branches.
func (s *Scenario) Checkout(branch string) *Scenario {
	s.T.Helper()
	if s.Mem != nil {
		require.NoError(s.T, s.Mem.CheckoutBranch(branch))
		return s
	}
	require.NoError(s.T, s.Scene.Repo.CheckoutBranch(branch))
	return s
}

// RunGit runs a git command in an on-disk scenario.
func (s *Scenario) RunGit(args ...string) *Scenario {
	s.T.Helper()
	require.NotNil(s.T, s.Scene, "RunGit needs an on-disk scenario")
	require.NoError(s.T, s.Scene.Repo.RunGitCommand(args...))
	return s
}

// ExpectBranch asserts that the current branch is as expected.
func (s *Scenario) ExpectBranch(expected string) *Scenario {
	s.T.Helper()
	head, err := s.Engine().HeadRef(context.Background())
	require.NoError(s.T, err)
	require.Equal(s.T, expected, head.Short)
	return s
}

// ExpectBranches asserts the exact set of local branches.
func (s *Scenario) ExpectBranches(expected ...string) *Scenario {
	s.T.Helper()
	refs, err := s.Engine().References(context.Background())
	require.NoError(s.T, err)
	var locals []string
	for _, r := range refs {
		if !r.Remote {
			locals = append(locals, r.Short)
		}
	}
	require.ElementsMatch(s.T, expected, locals)
	return s
}

// ExpectSubjects asserts the newest commit subjects of rev.
func (s *Scenario) ExpectSubjects(rev string, expected ...string) *Scenario {
	s.T.Helper()
	log, err := s.Engine().Log(context.Background(), rev, len(expected))
	require.NoError(s.T, err)
	subjects := make([]string, 0, len(log))
	for _, c := range log {
		subjects = append(subjects, c.Subject())
	}
	require.Equal(s.T, expected, subjects)
	return s
}

// ExpectOutput asserts that the captured output mentions each fragment.
func (s *Scenario) ExpectOutput(fragments ...string) *Scenario {
	s.T.Helper()
	for _, f := range fragments {
		require.Contains(s.T, s.Output.String(), f)
	}
	return s
}
