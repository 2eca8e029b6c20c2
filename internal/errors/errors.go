// Package errors provides sentinel errors and custom error types for gitflow.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common conditions
var (
	// ErrNotOnBranch indicates that HEAD is not on a branch
	ErrNotOnBranch = errors.New("not on a branch")

	// ErrBranchNotFound indicates that a branch does not exist
	ErrBranchNotFound = errors.New("branch not found")

	// ErrBranchExists indicates that a branch with the requested name already exists
	ErrBranchExists = errors.New("branch already exists")

	// ErrRepositoryLocked indicates another gitflow workflow holds the repository lock
	ErrRepositoryLocked = errors.New("repository is locked by another gitflow process")

	// ErrValidation is matched by every ValidationError
	ErrValidation = errors.New("validation failed")

	// ErrTransport is matched by every TransportError
	ErrTransport = errors.New("transport failed")

	// ErrNoUpstream is matched by every NoUpstreamError
	ErrNoUpstream = errors.New("no upstream configured")

	// ErrHistoryDivergence is matched by every HistoryDivergenceError
	ErrHistoryDivergence = errors.New("histories have diverged")

	// ErrCheckoutConflict is matched by every CheckoutConflictError
	ErrCheckoutConflict = errors.New("checkout would overwrite local changes")
)

// BranchNotFoundError represents an error when a branch is not found
type BranchNotFoundError struct {
	BranchName string
}

func (e *BranchNotFoundError) Error() string {
	return fmt.Sprintf("branch %s does not exist", e.BranchName)
}

// Is returns true if the target error is ErrBranchNotFound
func (e *BranchNotFoundError) Is(target error) bool {
	return target == ErrBranchNotFound
}

// NewBranchNotFoundError creates a new BranchNotFoundError
func NewBranchNotFoundError(branchName string) *BranchNotFoundError {
	return &BranchNotFoundError{BranchName: branchName}
}

// BranchExistsError is returned when creating or renaming onto an existing branch.
type BranchExistsError struct {
	BranchName string
}

func (e *BranchExistsError) Error() string {
	return fmt.Sprintf("branch %s already exists", e.BranchName)
}

// Is returns true if the target error is ErrBranchExists
func (e *BranchExistsError) Is(target error) bool {
	return target == ErrBranchExists
}

// NewBranchExistsError creates a new BranchExistsError
func NewBranchExistsError(branchName string) *BranchExistsError {
	return &BranchExistsError{BranchName: branchName}
}

// ValidationError reports a precondition failure detected before any mutation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}
	return e.Message
}

// Is returns true if the target error is ErrValidation
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// TransportError represents a failed network operation (fetch, push, clone).
// It is recoverable: callers report it and carry on.
type TransportError struct {
	Op     string
	Remote string
	Err    error
}

func (e *TransportError) Error() string {
	if e.Remote != "" {
		return fmt.Sprintf("%s %s failed: %v", e.Op, e.Remote, e.Err)
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is returns true if the target error is ErrTransport
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// NewTransportError creates a new TransportError
func NewTransportError(op, remote string, err error) *TransportError {
	return &TransportError{Op: op, Remote: remote, Err: err}
}

// NoUpstreamError is returned by pull when the current branch has no upstream
// and one could not be linked automatically.
type NoUpstreamError struct {
	BranchName string
	Reason     string
}

func (e *NoUpstreamError) Error() string {
	msg := fmt.Sprintf("branch %s has no upstream", e.BranchName)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// Is returns true if the target error is ErrNoUpstream
func (e *NoUpstreamError) Is(target error) bool {
	return target == ErrNoUpstream
}

// NewNoUpstreamError creates a new NoUpstreamError
func NewNoUpstreamError(branchName, reason string) *NoUpstreamError {
	return &NoUpstreamError{BranchName: branchName, Reason: reason}
}

// HistoryDivergenceError is returned by merge-to when the target tip is not
// part of the current branch history.
type HistoryDivergenceError struct {
	Current string
	Target  string
	Reason  string
}

func (e *HistoryDivergenceError) Error() string {
	msg := fmt.Sprintf("%s does not contain the tip of %s", e.Current, e.Target)
	if e.Reason != "" {
		msg += " (" + e.Reason + ")"
	}
	return msg
}

// Is returns true if the target error is ErrHistoryDivergence
func (e *HistoryDivergenceError) Is(target error) bool {
	return target == ErrHistoryDivergence
}

// NewHistoryDivergenceError creates a new HistoryDivergenceError
func NewHistoryDivergenceError(current, target, reason string) *HistoryDivergenceError {
	return &HistoryDivergenceError{Current: current, Target: target, Reason: reason}
}

// CheckoutConflictError is returned when switching branches would overwrite
// local modifications.
type CheckoutConflictError struct {
	BranchName string
	Paths      []string
	Err        error
}

func (e *CheckoutConflictError) Error() string {
	msg := fmt.Sprintf("cannot check out %s: local changes would be overwritten", e.BranchName)
	if len(e.Paths) > 0 {
		msg += ": " + strings.Join(e.Paths, ", ")
	}
	return msg
}

func (e *CheckoutConflictError) Unwrap() error {
	return e.Err
}

// Is returns true if the target error is ErrCheckoutConflict
func (e *CheckoutConflictError) Is(target error) bool {
	return target == ErrCheckoutConflict
}

// NewCheckoutConflictError creates a new CheckoutConflictError
func NewCheckoutConflictError(branchName string, paths []string, err error) *CheckoutConflictError {
	return &CheckoutConflictError{BranchName: branchName, Paths: paths, Err: err}
}

// GitCommandError represents an error from a git command execution
type GitCommandError struct {
	Command string
	Args    []string
	Stdout  string
	Stderr  string
	Err     error
}

func (e *GitCommandError) Error() string {
	msg := fmt.Sprintf("git command failed: %s", e.Command)
	if len(e.Args) > 0 {
		msg += fmt.Sprintf(" %v", e.Args)
	}
	if e.Stderr != "" {
		msg += fmt.Sprintf("\nstderr: %s", e.Stderr)
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n%v", e.Err)
	}
	return msg
}

func (e *GitCommandError) Unwrap() error {
	return e.Err
}

// NewGitCommandError creates a new GitCommandError
func NewGitCommandError(command string, args []string, stdout, stderr string, err error) *GitCommandError {
	return &GitCommandError{
		Command: command,
		Args:    args,
		Stdout:  stdout,
		Stderr:  stderr,
		Err:     err,
	}
}
