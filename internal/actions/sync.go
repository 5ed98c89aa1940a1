package actions

import (
	"dotsync.dev/dotsync/internal/runtime"
	"dotsync.dev/dotsync/internal/sync"
	"dotsync.dev/dotsync/internal/tui"
)

// SyncOptions contains options for the sync command
type SyncOptions struct {
	// Progress receives stage transitions, for a progress display
	Progress func(sync.Event)
	// Quiet keeps console output back, the log file still records everything.
	// The caller reports the result with ReportUnmerged.
	Quiet bool
}

// SyncAction synchronizes the repository with its remote once
func SyncAction(ctx *runtime.Context, opts SyncOptions) (*sync.Result, error) {
	splog := ctx.Splog

	splog.Debug("synchronizing %s as %s", ctx.Repo.Path(), ctx.Repo.Name())
	orchestrator := sync.New(ctx.Repo, ctx.Notifier, splog, sync.Options{
		Notify:   ctx.Config.Notify,
		Progress: opts.Progress,
	})

	if opts.Quiet {
		splog.SetQuiet(true)
		defer splog.SetQuiet(false)
	}

	result, err := orchestrator.Run(ctx.Context)
	if !opts.Quiet {
		ReportUnmerged(splog, result)
	}
	if err != nil {
		return result, err
	}

	for _, e := range result.Committed {
		splog.Debug("committed %s", e)
	}
	return result, nil
}

// ReportUnmerged warns about every file a sync left out because of a conflict
func ReportUnmerged(splog *tui.Splog, result *sync.Result) {
	for _, e := range result.Unmerged {
		splog.Warn("not synced, needs manual resolution: %s", e.EffectivePath())
	}
}
