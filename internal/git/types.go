package git

import (
	"io"
	"strings"
	"time"

	"github.com/go-git/go-git/v5/plumbing/transport"
)

// Ref is a named pointer to a commit.
type Ref struct {
	// Name is the full reference name, e.g. refs/heads/main
	Name string
	// Short is the human readable name, e.g. main or origin/main
	Short string
	// Hash is the commit the reference points at. Empty on an unborn branch.
	Hash string
	// Remote is true for remote-tracking references
	Remote bool
}

// IsUnborn reports whether the reference has no commit yet.
func (r Ref) IsUnborn() bool {
	return r.Hash == ""
}

// Signature identifies an author or committer at a point in time.
type Signature struct {
	Name  string
	Email string
	When  time.Time
}

// IsZero reports whether the signature carries no identity.
func (s Signature) IsZero() bool {
	return s.Name == "" && s.Email == ""
}

// Commit is an immutable snapshot of the tree plus metadata.
type Commit struct {
	Hash      string
	Tree      string
	Parents   []string
	Author    Signature
	Committer Signature
	Message   string
}

// ShortHash returns the abbreviated commit hash.
func (c Commit) ShortHash() string {
	return ShortHash(c.Hash)
}

// Subject returns the first line of the commit message.
func (c Commit) Subject() string {
	subject, _, _ := strings.Cut(c.Message, "\n")
	return strings.TrimSpace(subject)
}

// ShortHash abbreviates a full commit hash to seven characters.
func ShortHash(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}

// Remote is a named remote repository.
type Remote struct {
	Name string
	URLs []string
}

// URL returns the first configured URL of the remote.
func (r Remote) URL() string {
	if len(r.URLs) == 0 {
		return ""
	}
	return r.URLs[0]
}

// ResetMode selects what a reset touches besides the branch reference.
type ResetMode int

const (
	// SoftReset moves the branch only; index and worktree are kept
	SoftReset ResetMode = iota
	// MixedReset moves the branch and resets the index
	MixedReset
	// HardReset moves the branch and resets index and worktree
	HardReset
)

func (m ResetMode) String() string {
	switch m {
	case MixedReset:
		return "mixed"
	case HardReset:
		return "hard"
	default:
		return "soft"
	}
}

// ParseResetMode converts a flag value into a ResetMode.
func ParseResetMode(s string) (ResetMode, bool) {
	switch strings.ToLower(s) {
	case "", "soft":
		return SoftReset, true
	case "mixed":
		return MixedReset, true
	case "hard":
		return HardReset, true
	}
	return SoftReset, false
}

// CommitSpec describes a commit object to write.
type CommitSpec struct {
	// Ref is the full reference name to point at the new commit. Empty leaves
	// all references untouched.
	Ref string
	// OldHash, when set, makes the reference update fail unless Ref still
	// points at it.
	OldHash string
	// Tree is the tree hash to commit. Empty writes the tree from the index.
	Tree      string
	Parents   []string
	Author    Signature
	Committer Signature
	Message   string
}

// ApplyState is the outcome of applying foreign history onto HEAD.
type ApplyState int

const (
	// ApplyDone means new history was written without conflicts
	ApplyDone ApplyState = iota
	// ApplyUpToDate means there was nothing to apply
	ApplyUpToDate
	// ApplyConflict means the operation stopped with unresolved paths
	ApplyConflict
)

func (s ApplyState) String() string {
	switch s {
	case ApplyUpToDate:
		return "up-to-date"
	case ApplyConflict:
		return "conflict"
	default:
		return "done"
	}
}

// ApplyResult describes a cherry-pick, rebase or merge.
type ApplyResult struct {
	State ApplyState
	// Head is the commit HEAD points at after the operation
	Head string
	// Conflicts lists unmerged paths when State is ApplyConflict
	Conflicts []string
}

// TransportOptions are shared by every network operation.
type TransportOptions struct {
	Auth transport.AuthMethod
	// Progress receives the remote's sideband progress output
	Progress io.Writer
	// InsecureSkipTLS disables TLS certificate verification for https remotes
	InsecureSkipTLS bool
}

// FetchOptions configures Fetch.
type FetchOptions struct {
	TransportOptions
	Remote string
}

// PushOptions configures Push.
type PushOptions struct {
	TransportOptions
	Remote string
	// RefSpecs are src:dst pairs, e.g. refs/heads/main:refs/heads/main
	RefSpecs []string
}

// CloneOptions configures Clone.
type CloneOptions struct {
	TransportOptions
	URL string
	Dir string
}
