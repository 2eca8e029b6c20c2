package memgit

import (
	"context"
	"fmt"
	"io"
	"strings"

	"gitflow.dev/gitflow/internal/git"
)

// Fetch copies branches of the remote's server into refs/remotes/<remote>/
func (e *Engine) Fetch(ctx context.Context, opts git.FetchOptions) error {
	server, err := e.server(opts.Remote)
	if err != nil {
		return err
	}
	if e.FetchErr != nil {
		return e.FetchErr
	}

	for _, name := range sortedKeys(server.refs) {
		if err := ctx.Err(); err != nil {
			return err
		}
		branch, ok := strings.CutPrefix(name, "refs/heads/")
		if !ok {
			continue
		}
		hash := server.refs[name]
		tracking := "refs/remotes/" + opts.Remote + "/" + branch
		if e.refs[tracking] == hash {
			continue
		}
		copyObjects(e, server, hash)
		e.refs[tracking] = hash
		progress(opts.Progress, "Receiving %s: done\n", branch)
	}
	return nil
}

// Push uploads local refs to the remote's server. Non-fast-forward updates are rejected.
func (e *Engine) Push(ctx context.Context, opts git.PushOptions) error {
	server, err := e.server(opts.Remote)
	if err != nil {
		return err
	}
	if e.PushErr != nil {
		return e.PushErr
	}

	for _, spec := range opts.RefSpecs {
		if err := ctx.Err(); err != nil {
			return err
		}
		src, dst, ok := strings.Cut(strings.TrimPrefix(spec, "+"), ":")
		if !ok {
			return fmt.Errorf("invalid refspec %q", spec)
		}
		hash, err := e.resolve(src)
		if err != nil {
			return err
		}
		if current, exists := server.refs[dst]; exists {
			if current == hash {
				continue
			}
			if !e.reachable(hash)[current] {
				return fmt.Errorf("failed to push to %s: non-fast-forward update of %s", opts.Remote, dst)
			}
		}
		copyObjects(server, e, hash)
		server.refs[dst] = hash
		e.refs["refs/remotes/"+opts.Remote+"/"+shortName(dst)] = hash
		progress(opts.Progress, "Writing %s: done\n", shortName(dst))
	}
	return nil
}

// Cloner returns a git.Cloner that clones in-memory servers registered by URL.
func Cloner(servers map[string]*Engine) git.Cloner {
	return func(ctx context.Context, opts git.CloneOptions) (git.Engine, error) {
		server, ok := servers[opts.URL]
		if !ok {
			return nil, fmt.Errorf("failed to clone %s: repository not found", opts.URL)
		}
		clone := New()
		clone.AddRemote("origin", server)
		clone.remotes[0].URLs = []string{opts.URL}
		clone.servers = map[string]*Engine{opts.URL: server}

		if err := clone.Fetch(ctx, git.FetchOptions{Remote: "origin", TransportOptions: opts.TransportOptions}); err != nil {
			return nil, err
		}
		if hash, ok := server.refs[server.head]; ok {
			clone.head = server.head
			clone.refs[clone.head] = hash
			clone.fastForward(hash)
			name := shortName(server.head)
			clone.config["branch."+name+".remote"] = "origin"
			clone.config["branch."+name+".merge"] = server.head
		}
		return clone, nil
	}
}

func (e *Engine) server(remote string) (*Engine, error) {
	r, ok := git.FindRemote(e.remotes, remote)
	if !ok {
		return nil, fmt.Errorf("remote %s not found", remote)
	}
	server, ok := e.servers[r.URL()]
	if !ok {
		return nil, fmt.Errorf("remote %s is unreachable at %s", remote, r.URL())
	}
	return server, nil
}

// copyObjects copies every commit and tree reachable from hash.
func copyObjects(dst, src *Engine, hash string) {
	for h := range src.reachable(hash) {
		if _, ok := dst.commits[h]; ok {
			continue
		}
		c := src.commits[h]
		dst.storeTree(src.trees[c.Tree])
		dst.storeCommit(c)
	}
}

func progress(w io.Writer, format string, args ...any) {
	if w != nil {
		_, _ = fmt.Fprintf(w, format, args...)
	}
}
