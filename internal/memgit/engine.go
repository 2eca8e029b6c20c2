// Package memgit is an in-memory git.Engine. It backs manager unit tests and
// demo mode. It models commits, branches, a single index and worktree and
// simulated remotes; it is not safe for concurrent use.
package memgit

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"gitflow.dev/gitflow/internal/git"
)

// Engine is an in-memory repository.
type Engine struct {
	commits map[string]git.Commit
	order   map[string]int
	trees   map[string]tree
	refs    map[string]string

	// head is the checked-out branch; detached holds the commit when HEAD is detached
	head     string
	detached string

	index     tree
	worktree  tree
	conflicts map[string]bool

	config  map[string]string
	remotes []git.Remote
	servers map[string]*Engine

	clock time.Time
	seq   int

	// FetchErr and PushErr, when set, make the corresponding transport call fail.
	FetchErr error
	PushErr  error

	checkouts []string
}

var _ git.Engine = (*Engine)(nil)

// New returns an empty repository on an unborn main branch with a test identity.
func New() *Engine {
	return &Engine{
		commits:   map[string]git.Commit{},
		order:     map[string]int{},
		trees:     map[string]tree{hashTree(tree{}): {}},
		refs:      map[string]string{},
		head:      "refs/heads/main",
		index:     tree{},
		worktree:  tree{},
		conflicts: map[string]bool{},
		config: map[string]string{
			"user.name":  "Test User",
			"user.email": "test@example.com",
		},
		servers: map[string]*Engine{},
		clock:   time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

// Now advances and returns the engine clock. Every commit gets a distinct time.
func (e *Engine) Now() time.Time {
	e.clock = e.clock.Add(time.Second)
	return e.clock
}

// Root returns an empty path: the engine has no filesystem.
func (e *Engine) Root() string { return "" }

// GitDir returns an empty path: the engine has no filesystem.
func (e *Engine) GitDir() string { return "" }

// WriteFile changes a worktree file.
func (e *Engine) WriteFile(path, content string) {
	e.worktree[path] = content
}

// RemoveFile deletes a worktree file.
func (e *Engine) RemoveFile(path string) {
	delete(e.worktree, path)
}

// ReadFile reads a worktree file.
func (e *Engine) ReadFile(path string) (string, bool) {
	content, ok := e.worktree[path]
	return content, ok
}

// Commit stages everything and commits it on the current branch, like
// `git add -A && git commit -m message`.
func (e *Engine) Commit(message string) string {
	e.index = e.worktree.clone()
	clear(e.conflicts)
	sig := e.signature()
	var parents []string
	if h := e.headHash(); h != "" {
		parents = []string{h}
	}
	hash, err := e.WriteCommit(context.Background(), git.CommitSpec{
		Ref:       e.head,
		Parents:   parents,
		Author:    sig,
		Committer: sig,
		Message:   message,
	})
	if err != nil {
		panic(err)
	}
	return hash
}

// Detach points HEAD directly at a commit.
func (e *Engine) Detach(rev string) error {
	hash, err := e.resolve(rev)
	if err != nil {
		return err
	}
	e.detached = hash
	e.head = ""
	return nil
}

// AddRemote registers server as a remote reachable under name.
func (e *Engine) AddRemote(name string, server *Engine) {
	url := "mem://" + name
	e.remotes = append(e.remotes, git.Remote{Name: name, URLs: []string{url}})
	e.servers[url] = server
}

// BranchHash returns the commit a local branch points at.
func (e *Engine) BranchHash(name string) string {
	return e.refs["refs/heads/"+name]
}

// RemoteHash returns the commit a remote-tracking branch points at.
func (e *Engine) RemoteHash(remote, branch string) string {
	return e.refs["refs/remotes/"+remote+"/"+branch]
}

// Conflicts lists paths left unmerged by the last cherry-pick, rebase or merge.
func (e *Engine) Conflicts() []string {
	return sortedKeys(e.conflicts)
}

// CheckoutCalls lists every branch Checkout was asked to switch to, in order.
func (e *Engine) CheckoutCalls() []string {
	return append([]string(nil), e.checkouts...)
}

// Tree returns the files of a commit.
func (e *Engine) Tree(rev string) (map[string]string, error) {
	hash, err := e.resolve(rev)
	if err != nil {
		return nil, err
	}
	return e.trees[e.commits[hash].Tree].clone(), nil
}

func (e *Engine) signature() git.Signature {
	return git.Signature{Name: e.config["user.name"], Email: e.config["user.email"], When: e.Now()}
}

func (e *Engine) headHash() string {
	if e.head == "" {
		return e.detached
	}
	return e.refs[e.head]
}

func (e *Engine) headTree() tree {
	h := e.headHash()
	if h == "" {
		return tree{}
	}
	return e.trees[e.commits[h].Tree]
}

func (e *Engine) storeCommit(c git.Commit) {
	if _, ok := e.commits[c.Hash]; ok {
		return
	}
	e.seq++
	e.commits[c.Hash] = c
	e.order[c.Hash] = e.seq
}

func (e *Engine) storeTree(t tree) string {
	h := hashTree(t)
	if _, ok := e.trees[h]; !ok {
		e.trees[h] = t.clone()
	}
	return h
}

// resolve turns HEAD, a branch name, a full ref, a hash or a unique hash prefix
// into a commit hash.
func (e *Engine) resolve(rev string) (string, error) {
	if rev == "HEAD" {
		if h := e.headHash(); h != "" {
			return h, nil
		}
		return "", fmt.Errorf("HEAD has no commits yet")
	}
	for _, name := range candidateRefNames(rev) {
		if h, ok := e.refs[name]; ok {
			return h, nil
		}
	}
	if _, ok := e.commits[rev]; ok {
		return rev, nil
	}
	if len(rev) >= 4 {
		var match string
		for h := range e.commits {
			if strings.HasPrefix(h, rev) {
				if match != "" {
					return "", fmt.Errorf("ambiguous revision %s", rev)
				}
				match = h
			}
		}
		if match != "" {
			return match, nil
		}
	}
	return "", notFound(rev)
}

// reachable returns every commit reachable from hash, hash included.
func (e *Engine) reachable(hash string) map[string]bool {
	seen := map[string]bool{}
	queue := []string{hash}
	for len(queue) > 0 {
		h := queue[0]
		queue = queue[1:]
		if h == "" || seen[h] {
			continue
		}
		seen[h] = true
		queue = append(queue, e.commits[h].Parents...)
	}
	return seen
}

func (e *Engine) isAncestor(ancestor, descendant string) bool {
	return ancestor != descendant && e.reachable(descendant)[ancestor]
}

func (e *Engine) mergeBase(a, b string) string {
	ancestors := e.reachable(a)
	var best string
	for h := range e.reachable(b) {
		if !ancestors[h] {
			continue
		}
		if best == "" || e.commits[h].Committer.When.After(e.commits[best].Committer.When) ||
			(e.commits[h].Committer.When.Equal(e.commits[best].Committer.When) && e.order[h] > e.order[best]) {
			best = h
		}
	}
	return best
}

func candidateRefNames(name string) []string {
	if strings.HasPrefix(name, "refs/") {
		return []string{name}
	}
	return []string{"refs/heads/" + name, "refs/remotes/" + name}
}

func shortName(name string) string {
	for _, prefix := range []string{"refs/heads/", "refs/remotes/"} {
		if strings.HasPrefix(name, prefix) {
			return strings.TrimPrefix(name, prefix)
		}
	}
	return name
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// CreateBranchAt creates a local branch at rev.
func (e *Engine) CreateBranchAt(name, rev string) error {
	hash, err := e.resolve(rev)
	if err != nil {
		return err
	}
	return e.CreateBranch(context.Background(), name, hash)
}

// CheckoutBranch is Checkout without a context.
func (e *Engine) CheckoutBranch(name string) error {
	return e.Checkout(context.Background(), name)
}

// Adopt copies branch from src into this engine as a local branch and makes
// it the default branch. Used to seed servers.
func (e *Engine) Adopt(src *Engine, branch string) {
	hash := src.refs["refs/heads/"+branch]
	copyObjects(e, src, hash)
	e.refs["refs/heads/"+branch] = hash
	e.head = "refs/heads/" + branch
	e.fastForward(hash)
}
