// Package auth turns configured credentials into go-git transport auth.
package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	gitssh "github.com/go-git/go-git/v5/plumbing/transport/ssh"
	gossh "golang.org/x/crypto/ssh"

	gferrors "gitflow.dev/gitflow/internal/errors"
	"gitflow.dev/gitflow/internal/output"
)

const defaultSSHUser = "git"

// Credentials identify the user to remotes.
type Credentials struct {
	// User is the ssh login when the remote URL does not carry one
	User           string
	PublicKeyPath  string
	PrivateKeyPath string
	Passphrase     string
	// Token is sent as the basic auth password to http(s) remotes
	Token string
}

// DefaultCredentials uses ~/.ssh/id_rsa and ~/.ssh/id_rsa.pub.
func DefaultCredentials() Credentials {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Credentials{
		User:           defaultSSHUser,
		PublicKeyPath:  filepath.Join(home, ".ssh", "id_rsa.pub"),
		PrivateKeyPath: filepath.Join(home, ".ssh", "id_rsa"),
	}
}

// PassphrasePrompter asks the user for the private key passphrase.
type PassphrasePrompter interface {
	Passphrase(ctx context.Context) (string, error)
}

// Provider resolves credentials once per workflow and hands out auth methods.
type Provider struct {
	mu       sync.Mutex
	creds    Credentials
	prompter PassphrasePrompter
	resolved bool
	splog    *output.Splog
}

// Option configures a Provider
type Option func(*Provider)

// WithPrompter sets who is asked for a passphrase when the key needs one.
func WithPrompter(p PassphrasePrompter) Option {
	return func(pr *Provider) { pr.prompter = p }
}

// WithSplog sets the logger.
func WithSplog(splog *output.Splog) Option {
	return func(pr *Provider) { pr.splog = splog }
}

// NewProvider creates a Provider for creds.
func NewProvider(creds Credentials, opts ...Option) *Provider {
	p := &Provider{creds: creds}
	for _, opt := range opts {
		opt(p)
	}
	p.splog = output.OrDiscard(p.splog)
	if p.creds.User == "" {
		p.creds.User = defaultSSHUser
	}
	return p
}

// Credentials returns the key pair and passphrase. A preset passphrase is
// used as is; otherwise the prompter is asked, at most once per Provider.
func (p *Provider) Credentials(ctx context.Context) (Credentials, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.resolved && p.creds.Passphrase == "" && p.prompter != nil {
		passphrase, err := p.prompter.Passphrase(ctx)
		if err != nil {
			return Credentials{}, fmt.Errorf("failed to read SSH key passphrase: %w", err)
		}
		p.creds.Passphrase = passphrase
	}
	p.resolved = true
	return p.creds, nil
}

// AuthMethod returns the auth for a remote URL: ssh keys for ssh remotes,
// basic auth for http(s) remotes with a token, nothing for local paths.
func (p *Provider) AuthMethod(ctx context.Context, rawURL string) (transport.AuthMethod, error) {
	ep, err := transport.NewEndpoint(rawURL)
	if err != nil {
		return nil, gferrors.NewValidationError("remote url", "%q: %v", rawURL, err)
	}

	switch ep.Protocol {
	case "ssh":
		return p.sshAuth(ctx, ep)
	case "http", "https":
		if p.creds.Token == "" {
			return nil, nil
		}
		user := ep.User
		if user == "" {
			user = defaultSSHUser
		}
		p.splog.Debug("Using HTTP basic authentication for %s", ep.Host)
		return &githttp.BasicAuth{Username: user, Password: p.creds.Token}, nil
	default:
		return nil, nil
	}
}

func (p *Provider) sshAuth(ctx context.Context, ep *transport.Endpoint) (transport.AuthMethod, error) {
	keyPath := p.creds.PrivateKeyPath
	if _, err := os.Stat(keyPath); err != nil {
		return nil, gferrors.NewValidationError("ssh.privateKey", "%s is not readable: %v", keyPath, err)
	}
	if p.creds.PublicKeyPath != "" {
		if _, err := os.Stat(p.creds.PublicKeyPath); err != nil {
			return nil, gferrors.NewValidationError("ssh.publicKey", "%s is not readable: %v", p.creds.PublicKeyPath, err)
		}
	}

	encrypted, err := isEncrypted(keyPath)
	if err != nil {
		return nil, err
	}
	passphrase := p.creds.Passphrase
	if encrypted {
		creds, err := p.Credentials(ctx)
		if err != nil {
			return nil, err
		}
		passphrase = creds.Passphrase
	}

	user := ep.User
	if user == "" {
		user = p.creds.User
	}
	keys, err := gitssh.NewPublicKeysFromFile(user, keyPath, passphrase)
	if err != nil {
		return nil, fmt.Errorf("failed to load SSH key %s: %w", keyPath, err)
	}
	// Host keys are not verified.
	keys.HostKeyCallback = gossh.InsecureIgnoreHostKey()
	p.splog.Debug("Using SSH key %s for %s@%s", keyPath, user, ep.Host)
	return keys, nil
}

// isEncrypted reports whether the private key needs a passphrase.
func isEncrypted(keyPath string) (bool, error) {
	data, err := os.ReadFile(keyPath)
	if err != nil {
		return false, fmt.Errorf("failed to read SSH key %s: %w", keyPath, err)
	}
	_, err = gossh.ParseRawPrivateKey(data)
	var missing *gossh.PassphraseMissingError
	if errors.As(err, &missing) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to parse SSH key %s: %w", keyPath, err)
	}
	return false, nil
}
