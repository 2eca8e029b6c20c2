package auth_test

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	gitssh "github.com/go-git/go-git/v5/plumbing/transport/ssh"
	"github.com/stretchr/testify/require"
	gossh "golang.org/x/crypto/ssh"

	"gitflow.dev/gitflow/internal/auth"
	gferrors "gitflow.dev/gitflow/internal/errors"
)

type countingPrompter struct {
	passphrase string
	calls      int
}

func (p *countingPrompter) Passphrase(context.Context) (string, error) {
	p.calls++
	return p.passphrase, nil
}

// writeKeyPair writes an ed25519 key pair, encrypted when passphrase is set.
func writeKeyPair(t *testing.T, passphrase string) auth.Credentials {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	var block *pem.Block
	if passphrase == "" {
		block, err = gossh.MarshalPrivateKey(priv, "")
	} else {
		block, err = gossh.MarshalPrivateKeyWithPassphrase(priv, "", []byte(passphrase))
	}
	require.NoError(t, err)

	sshPub, err := gossh.NewPublicKey(pub)
	require.NoError(t, err)

	dir := t.TempDir()
	creds := auth.Credentials{
		PrivateKeyPath: filepath.Join(dir, "id_ed25519"),
		PublicKeyPath:  filepath.Join(dir, "id_ed25519.pub"),
	}
	require.NoError(t, os.WriteFile(creds.PrivateKeyPath, pem.EncodeToMemory(block), 0o600))
	require.NoError(t, os.WriteFile(creds.PublicKeyPath, gossh.MarshalAuthorizedKey(sshPub), 0o600))
	return creds
}

func TestAuthMethod(t *testing.T) {
	ctx := context.Background()

	t.Run("unencrypted key never prompts", func(t *testing.T) {
		prompter := &countingPrompter{}
		provider := auth.NewProvider(writeKeyPair(t, ""), auth.WithPrompter(prompter))

		method, err := provider.AuthMethod(ctx, "git@example.com:team/repo.git")
		require.NoError(t, err)

		keys, ok := method.(*gitssh.PublicKeys)
		require.True(t, ok)
		require.Equal(t, "git", keys.User)
		require.NotNil(t, keys.HostKeyCallback)
		require.Zero(t, prompter.calls)
	})

	t.Run("encrypted key prompts once per provider", func(t *testing.T) {
		prompter := &countingPrompter{passphrase: "s3cret"}
		provider := auth.NewProvider(writeKeyPair(t, "s3cret"), auth.WithPrompter(prompter))

		_, err := provider.AuthMethod(ctx, "ssh://deploy@example.com/team/repo.git")
		require.NoError(t, err)
		method, err := provider.AuthMethod(ctx, "ssh://deploy@example.com/team/repo.git")
		require.NoError(t, err)

		require.Equal(t, 1, prompter.calls)
		require.Equal(t, "deploy", method.(*gitssh.PublicKeys).User)
	})

	t.Run("preset passphrase skips the prompt", func(t *testing.T) {
		prompter := &countingPrompter{}
		creds := writeKeyPair(t, "s3cret")
		creds.Passphrase = "s3cret"
		provider := auth.NewProvider(creds, auth.WithPrompter(prompter))

		_, err := provider.AuthMethod(ctx, "ssh://example.com/team/repo.git")
		require.NoError(t, err)
		require.Zero(t, prompter.calls)
	})

	t.Run("missing key is a validation error", func(t *testing.T) {
		provider := auth.NewProvider(auth.Credentials{PrivateKeyPath: filepath.Join(t.TempDir(), "nope")})

		_, err := provider.AuthMethod(ctx, "ssh://example.com/team/repo.git")
		require.ErrorIs(t, err, gferrors.ErrValidation)
	})

	t.Run("https uses the token", func(t *testing.T) {
		provider := auth.NewProvider(auth.Credentials{Token: "tok"})

		method, err := provider.AuthMethod(ctx, "https://example.com/team/repo.git")
		require.NoError(t, err)
		basic, ok := method.(*githttp.BasicAuth)
		require.True(t, ok)
		require.Equal(t, "tok", basic.Password)

		method, err = auth.NewProvider(auth.Credentials{}).AuthMethod(ctx, "https://example.com/team/repo.git")
		require.NoError(t, err)
		require.Nil(t, method)
	})

	t.Run("local paths need no auth", func(t *testing.T) {
		method, err := auth.NewProvider(auth.Credentials{}).AuthMethod(ctx, "/srv/git/repo.git")
		require.NoError(t, err)
		require.Nil(t, method)
	})
}

func TestCredentials(t *testing.T) {
	t.Run("resolves the passphrase once", func(t *testing.T) {
		prompter := &countingPrompter{passphrase: "pw"}
		provider := auth.NewProvider(auth.Credentials{}, auth.WithPrompter(prompter))

		for i := 0; i < 3; i++ {
			creds, err := provider.Credentials(context.Background())
			require.NoError(t, err)
			require.Equal(t, "pw", creds.Passphrase)
		}
		require.Equal(t, 1, prompter.calls)
	})
}
