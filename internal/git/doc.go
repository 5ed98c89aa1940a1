// Package git drives the git executable for a dotsync working tree.
//
// It provides:
//   - A parser for `git status --porcelain -z` output (ParseStatus)
//   - The StatusEntry and CommitMessage data types
//   - Repository, one method per git subcommand a sync needs
//     (status, add, commit, pull, push, submodule init/update)
//   - CommandRunner, the process execution seam used by Repository
//
// go-git is used only to validate and inspect the repository; every
// mutation goes through the git executable.
package git
