// Package errors provides sentinel errors and custom error types for the dotsync application.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common conditions
var (
	// ErrNoRepository indicates that the configured path is not a git working tree
	ErrNoRepository = errors.New("no repository")

	// ErrIO indicates that a subprocess could not be spawned or its pipes failed
	ErrIO = errors.New("i/o failure")

	// ErrParser indicates that git status output did not match the porcelain layout
	ErrParser = errors.New("status parse failure")

	// ErrCommandFailed indicates that git ran and exited with a non-zero status
	ErrCommandFailed = errors.New("command failed")
)

// NoRepositoryError represents an error when a path cannot be used as a repository
type NoRepositoryError struct {
	Path   string
	Reason string
	Err    error
}

func (e *NoRepositoryError) Error() string {
	msg := fmt.Sprintf("no repository at %s", e.Path)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += fmt.Sprintf(" (%v)", e.Err)
	}
	return msg
}

// Is returns true if the target error is ErrNoRepository
func (e *NoRepositoryError) Is(target error) bool {
	return target == ErrNoRepository
}

func (e *NoRepositoryError) Unwrap() error {
	return e.Err
}

// NewNoRepositoryError creates a new NoRepositoryError
func NewNoRepositoryError(path, reason string, err error) *NoRepositoryError {
	return &NoRepositoryError{Path: path, Reason: reason, Err: err}
}

// IOError represents a failure to spawn a subprocess or to use its pipes
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Is returns true if the target error is ErrIO
func (e *IOError) Is(target error) bool {
	return target == ErrIO
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(op string, err error) *IOError {
	return &IOError{Op: op, Err: err}
}

// ParseError represents malformed porcelain status output.
// Offset is the byte position in the raw stream where decoding stopped.
type ParseError struct {
	Offset int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid status output at byte %d: %s", e.Offset, e.Reason)
}

// Is returns true if the target error is ErrParser
func (e *ParseError) Is(target error) bool {
	return target == ErrParser
}

// NewParseError creates a new ParseError
func NewParseError(offset int, reason string) *ParseError {
	return &ParseError{Offset: offset, Reason: reason}
}

// CommandError represents a git command that ran and exited with a non-zero status
type CommandError struct {
	Command  string
	Args     []string
	ExitCode int
	Stdout   string
	Stderr   string
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s command failed with exit code %d", e.Command, e.ExitCode)
	if len(e.Args) > 0 {
		msg += fmt.Sprintf(": %s %s", e.Command, strings.Join(e.Args, " "))
	}
	if e.Stderr != "" {
		msg += fmt.Sprintf("\nstderr: %s", strings.TrimSpace(e.Stderr))
	}
	if e.Stdout != "" {
		msg += fmt.Sprintf("\nstdout: %s", strings.TrimSpace(e.Stdout))
	}
	return msg
}

// Is returns true if the target error is ErrCommandFailed
func (e *CommandError) Is(target error) bool {
	return target == ErrCommandFailed
}

// Output returns the captured stderr and stdout, stderr first.
func (e *CommandError) Output() string {
	parts := make([]string, 0, 2)
	for _, s := range []string{e.Stderr, e.Stdout} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n")
}

// NewCommandError creates a new CommandError
func NewCommandError(command string, args []string, exitCode int, stdout, stderr string) *CommandError {
	return &CommandError{
		Command:  command,
		Args:     args,
		ExitCode: exitCode,
		Stdout:   stdout,
		Stderr:   stderr,
	}
}
