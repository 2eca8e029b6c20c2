package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadFromStdin(t *testing.T) {
	oldStdin := os.Stdin
	defer func() { os.Stdin = oldStdin }()

	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdin = r

	go func() {
		_, _ = w.Write([]byte("feat: my commit message\n\nbody line\n"))
		_ = w.Close()
	}()

	msg, err := ReadFromStdin()
	require.NoError(t, err)
	require.Equal(t, "feat: my commit message\n\nbody line", msg)
}

func TestReadMessage(t *testing.T) {
	t.Run("drops comment lines", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "msg")
		require.NoError(t, os.WriteFile(path, []byte("# Please enter a message\nfix: typo\n# trailing\n"), 0o600))
		f, err := os.Open(path)
		require.NoError(t, err)
		defer f.Close()

		msg, err := ReadMessage(f)
		require.NoError(t, err)
		require.Equal(t, "fix: typo", msg)
	})

	t.Run("empty file does not block", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty")
		require.NoError(t, os.WriteFile(path, nil, 0o600))
		f, err := os.Open(path)
		require.NoError(t, err)
		defer f.Close()

		msg, err := ReadMessage(f)
		require.NoError(t, err)
		require.Empty(t, msg)
	})
}
