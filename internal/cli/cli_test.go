package cli_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"gitflow.dev/gitflow/internal/cli"
	gferrors "gitflow.dev/gitflow/internal/errors"
	"gitflow.dev/gitflow/internal/prompt"
	"gitflow.dev/gitflow/testhelpers"
)

// run executes gitflow in dir with args, in process.
func run(t *testing.T, dir string, args ...string) error {
	t.Helper()
	t.Chdir(dir)
	t.Setenv("GITFLOW_CONFIG", filepath.Join(t.TempDir(), "config.yaml"))
	root := cli.NewRootCmd("test", "none", "unknown")
	root.SetArgs(args)
	return root.Execute()
}

func TestExitCode(t *testing.T) {
	require.Equal(t, 0, cli.ExitCode(nil))
	require.Equal(t, 1, cli.ExitCode(gferrors.NewValidationError("x", "bad")))
	require.Equal(t, 1, cli.ExitCode(gferrors.NewTransportError("push", "origin", errors.New("down"))))
	require.Equal(t, 130, cli.ExitCode(fmt.Errorf("choosing: %w", prompt.ErrCanceled)))
}

func TestMergeToAlias(t *testing.T) {
	root := cli.NewRootCmd("test", "none", "unknown")
	cmd, _, err := root.Find([]string{"gmt", "main"})
	require.NoError(t, err)
	require.Equal(t, "merge-to", cmd.Name())
}

func TestCheckoutCommand(t *testing.T) {
	scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)

	require.NoError(t, run(t, scene.Dir, "checkout", "-b", "feature"))

	name, err := scene.Repo.CurrentBranchName()
	require.NoError(t, err)
	require.Equal(t, "feature", name)
}

func TestCommitAndMergeToCommands(t *testing.T) {
	scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
	require.NoError(t, scene.Repo.CreateAndCheckoutBranch("dev"))

	require.NoError(t, scene.Repo.WriteFile("a.txt", "a"))
	require.NoError(t, run(t, scene.Dir, "commit", "-t", "feat", "-s", "7", "add", "a"))
	require.NoError(t, scene.Repo.WriteFile("b.txt", "b"))
	require.NoError(t, run(t, scene.Dir, "commit", "-t", "fix", "add b"))

	require.NoError(t, run(t, scene.Dir, "merge-to", "main"))

	testhelpers.ExpectCommits(t, scene.Repo, "main", []string{"feat(#7): add a", "1"})
	name, err := scene.Repo.CurrentBranchName()
	require.NoError(t, err)
	require.Equal(t, "dev", name)
}

func TestPushCommand(t *testing.T) {
	scene := testhelpers.NewScene(t, testhelpers.RemoteSceneSetup)
	require.NoError(t, scene.Repo.CreateAndCheckoutBranch("feature"))
	require.NoError(t, scene.Repo.CreateChangeAndCommit("feature", "feature"))

	require.NoError(t, run(t, scene.Dir, "push"))

	remote, err := scene.Repo.GetConfig("branch.feature.remote")
	require.NoError(t, err)
	require.Equal(t, "origin", remote)

	require.Error(t, run(t, scene.Dir, "push", "--force"))
}

func TestCommandsOutsideRepository(t *testing.T) {
	err := run(t, t.TempDir(), "log")
	require.Error(t, err)
	require.Equal(t, 1, cli.ExitCode(err))
}

func TestDemoMode(t *testing.T) {
	t.Setenv("GITFLOW_DEMO", "1")

	require.NoError(t, run(t, t.TempDir(), "log", "-n", "3"))
	require.NoError(t, run(t, t.TempDir(), "branch", "list"))
}

// captureStdout redirects os.Stdout to a file for the rest of the test and
// returns a function reading what was written so far.
func captureStdout(t *testing.T) func() string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "stdout")
	require.NoError(t, err)
	orig := os.Stdout
	os.Stdout = f
	t.Cleanup(func() {
		os.Stdout = orig
		_ = f.Close()
	})
	return func() string {
		data, err := os.ReadFile(f.Name())
		require.NoError(t, err)
		return string(data)
	}
}

func TestQuietFlag(t *testing.T) {
	t.Setenv("GITFLOW_DEMO", "1")

	t.Run("branch list prints by default", func(t *testing.T) {
		read := captureStdout(t)
		require.NoError(t, run(t, t.TempDir(), "branch", "list"))
		require.NotEmpty(t, read())
	})

	t.Run("quiet suppresses output", func(t *testing.T) {
		read := captureStdout(t)
		require.NoError(t, run(t, t.TempDir(), "--quiet", "branch", "list"))
		require.Empty(t, read())
	})
}
