package testhelpers

import (
	"context"
	"io"
	"strings"
	"sync"

	"dotsync.dev/dotsync/internal/git"
)

// Call is one command received by a FakeRunner
type Call struct {
	Args  []string
	Dir   string
	Stdin string
}

// Line returns the arguments joined with spaces, e.g. "status --porcelain -z"
func (c Call) Line() string {
	return strings.Join(c.Args, " ")
}

// Response is a scripted reply to a command
type Response struct {
	Result git.Result
	Err    error
}

// Ok is a successful response with the given stdout
func Ok(stdout string) Response {
	return Response{Result: git.Result{Stdout: stdout}}
}

// Fail is a response with a non-zero exit code and stderr
func Fail(code int, stderr string) Response {
	return Response{Result: git.Result{ExitCode: code, Stderr: stderr}}
}

// SpawnError is a response for a command that could not be started
func SpawnError(err error) Response {
	return Response{Err: err}
}

// FakeRunner implements git.CommandRunner with scripted responses.
//
// Responses are matched on the full argument line first, then on the first
// argument (the git subcommand). Queued responses are consumed in order and
// the last one repeats. Unscripted commands succeed with empty output.
type FakeRunner struct {
	mu        sync.Mutex
	calls     []Call
	responses map[string][]Response
}

// NewFakeRunner creates an empty FakeRunner
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{responses: make(map[string][]Response)}
}

// On queues responses for a command line ("add foo") or a subcommand ("add")
func (f *FakeRunner) On(line string, responses ...Response) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[line] = append(f.responses[line], responses...)
	return f
}

// Run records the call and replies with the scripted response
func (f *FakeRunner) Run(_ context.Context, c git.Command) (*git.Result, error) {
	call := Call{Args: append([]string(nil), c.Args...), Dir: c.Dir}
	if c.Stdin != nil {
		data, err := io.ReadAll(c.Stdin)
		if err != nil {
			return nil, err
		}
		call.Stdin = string(data)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)

	resp := f.next(call.Line())
	if resp == nil && len(call.Args) > 0 {
		resp = f.next(call.Args[0])
	}
	if resp == nil {
		return &git.Result{}, nil
	}
	if resp.Err != nil {
		return nil, resp.Err
	}
	res := resp.Result
	return &res, nil
}

func (f *FakeRunner) next(key string) *Response {
	queue := f.responses[key]
	if len(queue) == 0 {
		return nil
	}
	resp := queue[0]
	if len(queue) > 1 {
		f.responses[key] = queue[1:]
	}
	return &resp
}

// Calls returns every recorded call in order
func (f *FakeRunner) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Lines returns the argument line of every recorded call in order
func (f *FakeRunner) Lines() []string {
	calls := f.Calls()
	lines := make([]string, len(calls))
	for i, c := range calls {
		lines[i] = c.Line()
	}
	return lines
}

// Count returns how many calls used the given subcommand
func (f *FakeRunner) Count(subcommand string) int {
	n := 0
	for _, c := range f.Calls() {
		if len(c.Args) > 0 && c.Args[0] == subcommand {
			n++
		}
	}
	return n
}
