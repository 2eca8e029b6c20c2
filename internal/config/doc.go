// Package config loads gitflow settings.
//
// Settings come from, lowest precedence first:
//   - built-in defaults
//   - the user file ($XDG_CONFIG_HOME/gitflow/config.yaml)
//   - the repository file (<git dir>/gitflow.yaml)
//   - GITFLOW_* environment variables, e.g. GITFLOW_PULL_MODE=merge
package config
