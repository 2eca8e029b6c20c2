package runtime

import (
	"context"
	"fmt"
	"os"

	"gitflow.dev/gitflow/internal/auth"
	"gitflow.dev/gitflow/internal/branch"
	"gitflow.dev/gitflow/internal/commit"
	"gitflow.dev/gitflow/internal/config"
	"gitflow.dev/gitflow/internal/demo"
	"gitflow.dev/gitflow/internal/git"
	"gitflow.dev/gitflow/internal/mergeto"
	"gitflow.dev/gitflow/internal/output"
	"gitflow.dev/gitflow/internal/prompt"
	"gitflow.dev/gitflow/internal/repo"
	"gitflow.dev/gitflow/internal/sync"
)

// Context provides access to the repository, settings and managers for commands
type Context struct {
	context.Context

	// Repo is nil until a repository is opened or cloned
	Repo   *repo.Handle
	Config *config.Config
	Splog  *output.Splog

	Auth     *auth.Provider
	Syncer   *sync.Syncer
	Chooser  prompt.Chooser
	Cloner   git.Cloner
	Branches *branch.Manager
	Commits  *commit.Manager
	MergeTo  *mergeto.Propagator

	// NewSink creates the progress sink for one transport call
	NewSink func() sync.Sink
}

// NewContext wires managers around cfg without opening a repository.
func NewContext(ctx context.Context, cfg *config.Config, splog *output.Splog) *Context {
	splog = output.OrDiscard(splog)

	keyPath := cfg.SSH.PrivateKey
	provider := auth.NewProvider(auth.Credentials{
		User:           cfg.SSH.User,
		PublicKeyPath:  cfg.SSH.PublicKey,
		PrivateKeyPath: keyPath,
		Passphrase:     cfg.SSH.Passphrase,
		Token:          cfg.HTTP.Token,
	}, auth.WithPrompter(prompt.SurveyPassphrase{KeyPath: keyPath}), auth.WithSplog(splog))

	syncer := sync.New(provider, splog)
	chooser := prompt.Preferred(cfg.Remote.Default, prompt.SurveyChooser{})
	branches := branch.NewManager(splog)
	commits := commit.NewManager(splog, branches, commit.WithSyncer(syncer), commit.WithChooser(chooser))

	return &Context{
		Context:  ctx,
		Config:   cfg,
		Splog:    splog,
		Auth:     provider,
		Syncer:   syncer,
		Chooser:  chooser,
		Cloner:   git.DefaultCloner,
		Branches: branches,
		Commits:  commits,
		MergeTo:  mergeto.NewPropagator(splog, commits),
		NewSink:  func() sync.Sink { return output.NewProgress(splog) },
	}
}

// NewContextWithRepo is NewContext with an open repository.
func NewContextWithRepo(ctx context.Context, h *repo.Handle, cfg *config.Config, splog *output.Splog) *Context {
	c := NewContext(ctx, cfg, splog)
	c.Repo = h
	return c
}

// IsDemoMode returns true if GITFLOW_DEMO environment variable is set
func IsDemoMode() bool {
	return demo.IsDemoMode()
}

// Load reads the config at configPath and sets up logging. In demo mode the
// cloner serves the demo template instead of the network.
func Load(ctx context.Context, configPath string) (*Context, error) {
	cfg, err := config.Load(configPath, "")
	if err != nil {
		return nil, err
	}
	splog, err := newSplog(cfg)
	if err != nil {
		return nil, err
	}
	c := NewContext(ctx, cfg, splog)
	if IsDemoMode() {
		c.Cloner = demo.NewCloner()
	}
	return c, nil
}

// GetContext opens the repository containing the working directory, or the
// demo repository in demo mode, and wires everything around it.
func GetContext(ctx context.Context, configPath string) (*Context, error) {
	if IsDemoMode() {
		c, err := Load(ctx, configPath)
		if err != nil {
			return nil, err
		}
		c.Repo = repo.NewHandle(demo.NewEngine())
		return c, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	h, err := repo.Open(ctx, repo.Path(wd))
	if err != nil {
		return nil, fmt.Errorf("not a git repository: %w", err)
	}

	cfg, err := config.Load(configPath, h.GitDir())
	if err != nil {
		return nil, err
	}
	splog, err := newSplog(cfg)
	if err != nil {
		return nil, err
	}
	return NewContextWithRepo(ctx, h, cfg, splog), nil
}

// newSplog logs to stdout and, when a log file is configured, to that file.
func newSplog(cfg *config.Config) (*output.Splog, error) {
	logFile := ""
	if cfg.Log.File != "" || os.Getenv("GITFLOW_LOG_FILE") != "" {
		logFile = output.GetLogFilePath(cfg.Log.File)
	}
	return output.NewSplogWithConfig(os.Stdout, logFile)
}

// Lock takes the repository workflow lock. Callers defer the returned func.
func (c *Context) Lock() (func(), error) {
	if c.Repo == nil {
		return func() {}, nil
	}
	return c.Repo.Lock()
}

// Sink returns a fresh progress sink.
func (c *Context) Sink() sync.Sink {
	if c.NewSink == nil {
		return sync.NopSink{}
	}
	return c.NewSink()
}
