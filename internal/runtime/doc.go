// Package runtime provides the execution context for dotsync commands.
//
// It encapsulates shared dependencies and configuration needed by actions,
// such as the repository, logger, notifier and resolved configuration.
package runtime
