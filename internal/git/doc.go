// Package git is the version-control engine behind gitflow.
//
// The Engine interface is the capability set every workflow is built on:
//   - References (HEAD, local branches, remote-tracking branches)
//   - Objects (commit lookup, history walks, commit writing)
//   - Worktree state (stage all, cleanliness, checkout, reset)
//   - History application (cherry-pick, rebase, merge)
//   - Repository config and remotes
//   - Transport (fetch, push, clone)
//
// Repo implements Engine on top of go-git for reads, object writes and
// transport, and shells out to the git CLI for operations go-git does not
// provide (cherry-pick, rebase, merge) or implements only partially
// (safe checkout, index staging). This package should be the only place
// where git commands are executed.
package git
