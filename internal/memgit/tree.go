package memgit

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"

	gferrors "gitflow.dev/gitflow/internal/errors"
	"gitflow.dev/gitflow/internal/git"
)

// tree is a flat path to content snapshot.
type tree map[string]string

func (t tree) clone() tree {
	out := make(tree, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

func (t tree) equal(other tree) bool {
	if len(t) != len(other) {
		return false
	}
	for k, v := range t {
		if ov, ok := other[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// samePath reports whether both trees hold the same content (or absence) at path.
func samePath(a, b tree, path string) bool {
	av, aok := a[path]
	bv, bok := b[path]
	return aok == bok && av == bv
}

func paths(trees ...tree) []string {
	set := map[string]bool{}
	for _, t := range trees {
		for p := range t {
			set[p] = true
		}
	}
	return sortedKeys(set)
}

// merge3 combines ours and theirs relative to base path by path. Paths changed
// differently on both sides get conflict markers and are reported.
func merge3(base, ours, theirs tree) (tree, []string) {
	result := tree{}
	var conflicts []string
	for _, p := range paths(base, ours, theirs) {
		var src tree
		switch {
		case samePath(theirs, base, p), samePath(ours, theirs, p):
			src = ours
		case samePath(ours, base, p):
			src = theirs
		default:
			conflicts = append(conflicts, p)
			result[p] = fmt.Sprintf("<<<<<<< ours\n%s=======\n%s>>>>>>> theirs\n", ours[p], theirs[p])
			continue
		}
		if v, ok := src[p]; ok {
			result[p] = v
		}
	}
	return result, conflicts
}

func hashTree(t tree) string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s\x00%d\x00%s\n", k, len(t[k]), t[k])
	}
	return plumbing.ComputeHash(plumbing.TreeObject, []byte(b.String())).String()
}

func hashCommit(c git.Commit) string {
	var b strings.Builder
	fmt.Fprintf(&b, "tree %s\n", c.Tree)
	for _, p := range c.Parents {
		fmt.Fprintf(&b, "parent %s\n", p)
	}
	fmt.Fprintf(&b, "author %s <%s> %d\n", c.Author.Name, c.Author.Email, c.Author.When.UnixNano())
	fmt.Fprintf(&b, "committer %s <%s> %d\n", c.Committer.Name, c.Committer.Email, c.Committer.When.UnixNano())
	fmt.Fprintf(&b, "\n%s", c.Message)
	return plumbing.ComputeHash(plumbing.CommitObject, []byte(b.String())).String()
}

func notFound(name string) error {
	return gferrors.NewBranchNotFoundError(name)
}
