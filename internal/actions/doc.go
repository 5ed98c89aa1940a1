// Package actions provides high-level business logic for CLI commands.
//
// Each action corresponds to a dotsync command (status, sync, watch, config init)
// and drives the repository through the git and sync packages.
//
// Key patterns:
//   - Actions accept runtime.Context which provides the Repository, Splog, and Notifier
//   - Actions are stateless - every call queries git again
package actions
