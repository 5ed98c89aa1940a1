package runtime

import (
	"context"

	"dotsync.dev/dotsync/internal/config"
	"dotsync.dev/dotsync/internal/git"
	"dotsync.dev/dotsync/internal/notify"
	"dotsync.dev/dotsync/internal/tui"
)

// Context provides access to the repository and output for commands
type Context struct {
	context.Context
	Config   *config.Config
	Splog    *tui.Splog
	Notifier notify.Notifier
	Repo     *git.Repository
}

// NewContext opens the configured repository and wires its collaborators.
// A nil runner runs the real git executable.
func NewContext(ctx context.Context, cfg *config.Config, splog *tui.Splog, runner git.CommandRunner) (*Context, error) {
	if runner == nil {
		runner = git.NewExecRunner(cfg.CommandTimeout)
	}
	notifier := notify.New(cfg.Notify, splog)

	repo, err := git.Open(cfg.Repo, cfg.Name,
		git.WithRunner(runner),
		git.WithNotifier(notifier),
		git.WithLogger(splog),
		git.WithRemote(cfg.Remote),
	)
	if err != nil {
		return nil, err
	}

	return &Context{
		Context:  ctx,
		Config:   cfg,
		Splog:    splog,
		Notifier: notifier,
		Repo:     repo,
	}, nil
}
