package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	dserrors "dotsync.dev/dotsync/internal/errors"
	"dotsync.dev/dotsync/internal/notify"
)

// DefaultRemote is the remote pulled from and pushed to
const DefaultRemote = "origin"

// Logger is the logging surface the repository needs
type Logger interface {
	Debug(format string, args ...interface{})
	Warn(format string, args ...interface{})
}

type discardLogger struct{}

func (discardLogger) Debug(string, ...interface{}) {}
func (discardLogger) Warn(string, ...interface{})  {}

// Repository is a git working tree synchronized by dotsync.
// It caches nothing: every call queries git again.
type Repository struct {
	path   string
	name   string
	remote string

	repo     *gogit.Repository
	runner   CommandRunner
	notifier notify.Notifier
	logger   Logger
	now      func() time.Time
}

// Option configures a Repository
type Option func(*Repository)

// WithRunner sets the command runner used for git invocations
func WithRunner(r CommandRunner) Option {
	return func(repo *Repository) { repo.runner = r }
}

// WithNotifier sets the notifier signalled for files needing manual resolution
func WithNotifier(n notify.Notifier) Option {
	return func(repo *Repository) { repo.notifier = n }
}

// WithLogger sets the logger
func WithLogger(l Logger) Option {
	return func(repo *Repository) { repo.logger = l }
}

// WithClock sets the time source used for commit messages
func WithClock(now func() time.Time) Option {
	return func(repo *Repository) { repo.now = now }
}

// WithRemote sets the remote to pull from and push to
func WithRemote(remote string) Option {
	return func(repo *Repository) {
		if remote != "" {
			repo.remote = remote
		}
	}
}

// Open validates that path is the root of a git working tree and returns a
// Repository for it. name identifies this host in commit messages.
func Open(path, name string, opts ...Option) (*Repository, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, dserrors.NewNoRepositoryError(path, "cannot resolve path", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, dserrors.NewNoRepositoryError(absPath, "path does not exist", err)
	}
	if !info.IsDir() {
		return nil, dserrors.NewNoRepositoryError(absPath, "not a directory", nil)
	}

	repo, err := gogit.PlainOpen(absPath)
	if err != nil {
		return nil, dserrors.NewNoRepositoryError(absPath, "no git metadata", err)
	}

	r := &Repository{
		path:     absPath,
		name:     name,
		remote:   DefaultRemote,
		repo:     repo,
		runner:   NewExecRunner(0),
		notifier: notify.Disabled{},
		logger:   discardLogger{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Path returns the working tree root
func (r *Repository) Path() string {
	return r.path
}

// Name returns the host name used in commit messages
func (r *Repository) Name() string {
	return r.name
}

// Remote returns the remote name
func (r *Repository) Remote() string {
	return r.remote
}

// Branch returns the checked out branch name, including a branch with no commits yet
func (r *Repository) Branch() (string, error) {
	head, err := r.repo.Storer.Reference(plumbing.HEAD)
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD: %w", err)
	}
	if head.Type() != plumbing.SymbolicReference || !head.Target().IsBranch() {
		return "", fmt.Errorf("HEAD is detached")
	}
	return head.Target().Short(), nil
}

// HasRemote reports whether the configured remote exists
func (r *Repository) HasRemote() bool {
	_, err := r.repo.Remote(r.remote)
	return err == nil
}

// run executes git with args in the working tree and maps a non-zero exit to a CommandError
func (r *Repository) run(ctx context.Context, stdin []byte, args ...string) (*Result, error) {
	c := Command{Args: args, Dir: r.path}
	if stdin != nil {
		c.Stdin = bytes.NewReader(stdin)
	}

	r.logger.Debug("git %s", strings.Join(args, " "))
	res, err := r.runner.Run(ctx, c)
	if err != nil {
		var ioErr *dserrors.IOError
		if !errors.As(err, &ioErr) {
			err = dserrors.NewIOError("git "+strings.Join(args, " "), err)
		}
		return nil, err
	}
	if !res.Success() {
		return res, dserrors.NewCommandError("git", args, res.ExitCode, res.Stdout, res.Stderr)
	}
	return res, nil
}

// Status returns the working tree changes
func (r *Repository) Status(ctx context.Context) ([]StatusEntry, error) {
	res, err := r.run(ctx, nil, "status", "--porcelain", "-z")
	if err != nil {
		return nil, err
	}
	return ParseStatus([]byte(res.Stdout))
}

// Add stages entries one path at a time, in order.
//
// Unmerged entries are skipped and reported through the notifier; entries
// whose deletion is already staged are skipped silently. The first failing
// `git add` aborts: the entries staged so far are returned with the error
// and stay staged.
func (r *Repository) Add(ctx context.Context, entries []StatusEntry) ([]StatusEntry, error) {
	staged := make([]StatusEntry, 0, len(entries))
	for _, e := range entries {
		switch {
		case e.IsUnmerged():
			r.logger.Warn("skipping %s: unmerged, resolve the conflict manually", e.EffectivePath())
			r.notifier.Notify("dotsync: merge conflict", fmt.Sprintf("%s in %s needs manual resolution", e.EffectivePath(), r.path))
			continue
		case e.IndexState == StateDeleted:
			continue
		}

		if _, err := r.run(ctx, nil, "add", e.EffectivePath()); err != nil {
			return staged, err
		}
		staged = append(staged, e)
	}
	return staged, nil
}

// Commit records the staged changes with a message describing entries
func (r *Repository) Commit(ctx context.Context, entries []StatusEntry) error {
	msg := NewCommitMessage(r.name, r.now(), entries)
	_, err := r.run(ctx, []byte(msg.String()), "commit", "--file", "-")
	return err
}

// Pull rebases local commits onto the remote, stashing uncommitted work around the rebase
func (r *Repository) Pull(ctx context.Context) error {
	_, err := r.run(ctx, nil, "pull", r.remote, "--rebase", "--autostash")
	return err
}

// Push pushes the current branch to the remote
func (r *Repository) Push(ctx context.Context) error {
	_, err := r.run(ctx, nil, "push", r.remote)
	return err
}

// SubmodulesInit registers the submodules listed in .gitmodules
func (r *Repository) SubmodulesInit(ctx context.Context) error {
	_, err := r.run(ctx, nil, "submodule", "init")
	return err
}

// SubmodulesUpdate checks out the recorded submodule commits
func (r *Repository) SubmodulesUpdate(ctx context.Context) error {
	_, err := r.run(ctx, nil, "submodule", "update")
	return err
}
