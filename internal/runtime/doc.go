// Package runtime provides the execution context for gitflow commands.
//
// It wires configuration, logging, credentials and the managers around one
// repository handle, so actions receive a single value.
package runtime
