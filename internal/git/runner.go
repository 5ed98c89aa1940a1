package git

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"strings"
	"time"

	dserrors "dotsync.dev/dotsync/internal/errors"
)

// DefaultProgram is the executable used by ExecRunner when none is configured
const DefaultProgram = "git"

// Command describes one invocation of the external tool.
type Command struct {
	Args  []string
	Dir   string
	Stdin io.Reader
}

// Result holds the outcome of a command that was started successfully
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Success reports whether the command exited with status 0
func (r *Result) Success() bool {
	return r.ExitCode == 0
}

// CommandRunner executes external commands.
// Run returns an error only when the process could not be spawned or its pipes
// failed; a non-zero exit status is reported through Result.ExitCode.
type CommandRunner interface {
	Run(ctx context.Context, cmd Command) (*Result, error)
}

// ExecRunner runs commands with os/exec
type ExecRunner struct {
	// Program is the executable to run, "git" when empty
	Program string
	// Timeout bounds each command. Zero means no timeout.
	Timeout time.Duration
}

// NewExecRunner creates an ExecRunner for git with the given timeout
func NewExecRunner(timeout time.Duration) *ExecRunner {
	return &ExecRunner{Program: DefaultProgram, Timeout: timeout}
}

func (r *ExecRunner) program() string {
	if r.Program == "" {
		return DefaultProgram
	}
	return r.Program
}

// Run executes the command and waits for it to exit
func (r *ExecRunner) Run(ctx context.Context, c Command) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	if r.Timeout > 0 {
		if _, ok := ctx.Deadline(); !ok {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, r.Timeout)
			defer cancel()
		}
	}

	// #nosec G204 -- arguments come from internal logic and are not shell interpolated
	cmd := exec.CommandContext(ctx, r.program(), c.Args...)
	if c.Dir != "" {
		cmd.Dir = c.Dir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	op := r.program() + " " + strings.Join(c.Args, " ")

	if c.Stdin == nil {
		if err := cmd.Run(); err != nil {
			return exitResult(op, err, &stdout, &stderr)
		}
		return &Result{Stdout: stdout.String(), Stderr: stderr.String()}, nil
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, dserrors.NewIOError(op, err)
	}
	if err := cmd.Start(); err != nil {
		_ = stdin.Close()
		return nil, dserrors.NewIOError(op, err)
	}

	if err := writeAndClose(stdin, c.Stdin); err != nil {
		// Reap the child before reporting the pipe failure.
		_ = cmd.Wait()
		return nil, dserrors.NewIOError(op+": write stdin", err)
	}

	if err := cmd.Wait(); err != nil {
		return exitResult(op, err, &stdout, &stderr)
	}
	return &Result{Stdout: stdout.String(), Stderr: stderr.String()}, nil
}

// writeAndClose copies src into the pipe; the pipe is closed on every path
// so the child sees EOF.
func writeAndClose(pipe io.WriteCloser, src io.Reader) (err error) {
	defer func() {
		if cerr := pipe.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()
	_, err = io.Copy(pipe, src)
	return err
}

func exitResult(op string, err error, stdout, stderr *bytes.Buffer) (*Result, error) {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
		return &Result{
			ExitCode: exitErr.ExitCode(),
			Stdout:   stdout.String(),
			Stderr:   stderr.String(),
		}, nil
	}
	return nil, dserrors.NewIOError(op, err)
}
