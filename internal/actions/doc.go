// Package actions provides the business logic behind each gitflow command.
//
// Each action takes a *runtime.Context, which carries the repository handle,
// the managers and the logger, and an options struct built by the cli package.
// Actions that change the repository take the workflow lock first.
package actions
