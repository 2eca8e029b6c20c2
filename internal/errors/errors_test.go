package errors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	gferrors "gitflow.dev/gitflow/internal/errors"
)

func TestTypedErrorsMatchTheirSentinels(t *testing.T) {
	cases := []struct {
		err      error
		sentinel error
	}{
		{gferrors.NewBranchNotFoundError("feature"), gferrors.ErrBranchNotFound},
		{gferrors.NewBranchExistsError("feature"), gferrors.ErrBranchExists},
		{gferrors.NewValidationError("message", "must not be empty"), gferrors.ErrValidation},
		{gferrors.NewTransportError("fetch", "origin", errors.New("timeout")), gferrors.ErrTransport},
		{gferrors.NewNoUpstreamError("main", ""), gferrors.ErrNoUpstream},
		{gferrors.NewHistoryDivergenceError("dev", "main", ""), gferrors.ErrHistoryDivergence},
		{gferrors.NewCheckoutConflictError("main", nil, nil), gferrors.ErrCheckoutConflict},
	}
	for _, c := range cases {
		wrapped := fmt.Errorf("doing work: %w", c.err)
		require.ErrorIs(t, wrapped, c.sentinel, c.err.Error())
		require.NotErrorIs(t, wrapped, gferrors.ErrRepositoryLocked)
	}
}

func TestTransportErrorUnwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := gferrors.NewTransportError("push", "origin", cause)

	require.ErrorIs(t, err, cause)
	require.Equal(t, "push origin failed: connection refused", err.Error())
	require.Equal(t, "clone failed: connection refused", gferrors.NewTransportError("clone", "", cause).Error())

	var transport *gferrors.TransportError
	require.True(t, errors.As(fmt.Errorf("wrapped: %w", err), &transport))
	require.Equal(t, "origin", transport.Remote)
}

func TestMessages(t *testing.T) {
	require.Equal(t, "invalid message: must not be empty", gferrors.NewValidationError("message", "must not be empty").Error())
	require.Equal(t, "plain", gferrors.NewValidationError("", "plain").Error())
	require.Equal(t, "branch main has no upstream: no remotes configured", gferrors.NewNoUpstreamError("main", "no remotes configured").Error())
	require.Equal(t, "dev does not contain the tip of main (diverged)", gferrors.NewHistoryDivergenceError("dev", "main", "diverged").Error())
	require.Equal(t, "cannot check out main: local changes would be overwritten: a.txt, b.txt",
		gferrors.NewCheckoutConflictError("main", []string{"a.txt", "b.txt"}, nil).Error())
}

func TestGitCommandError(t *testing.T) {
	cause := errors.New("exit status 128")
	err := gferrors.NewGitCommandError("git", []string{"rebase", "main"}, "", "fatal: bad revision", cause)

	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "[rebase main]")
	require.Contains(t, err.Error(), "stderr: fatal: bad revision")
}
