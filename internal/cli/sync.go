package cli

import (
	"context"

	"github.com/spf13/cobra"

	"dotsync.dev/dotsync/internal/actions"
	"dotsync.dev/dotsync/internal/runtime"
	"dotsync.dev/dotsync/internal/sync"
	"dotsync.dev/dotsync/internal/tui"
)

var displayStatus = map[sync.State]tui.StageStatus{
	sync.StateStarted: tui.StageRunning,
	sync.StateDone:    tui.StageDone,
	sync.StateFailed:  tui.StageFailed,
	sync.StateSkipped: tui.StageSkipped,
}

// newSyncCmd creates the sync command
func newSyncCmd(o *rootOptions) *cobra.Command {
	var noProgress bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Synchronize the repository with its remote",
		Long: `Synchronize the repository with its remote.

Local changes are staged and committed, then the branch is rebased onto the
remote (stashing anything left uncommitted), submodules are initialized and
updated, and the result is pushed. Files with unresolved merge conflicts are
left out and reported. The exit status identifies the stage that failed.

In a terminal the stages are shown as they run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.run(cmd, func(ctx *runtime.Context) error {
				if noProgress || o.verbose || !tui.IsTTY() {
					_, err := actions.SyncAction(ctx, actions.SyncOptions{})
					return err
				}
				return syncWithProgress(cmd, ctx)
			})
		},
	}

	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "Print plain output instead of the stage display")

	return cmd
}

func syncWithProgress(cmd *cobra.Command, ctx *runtime.Context) error {
	stages := sync.AllStages()
	names := make([]string, len(stages))
	for i, s := range stages {
		names[i] = string(s)
	}

	var result *sync.Result
	err := tui.RunSyncProgress(ctx.Context, cmd.OutOrStdout(), names, func(runCtx context.Context, report tui.ReportFunc) error {
		syncCtx := *ctx
		syncCtx.Context = runCtx
		var err error
		result, err = actions.SyncAction(&syncCtx, actions.SyncOptions{
			Quiet: true,
			Progress: func(e sync.Event) {
				report(string(e.Stage), displayStatus[e.State], e.Err)
			},
		})
		return err
	})
	if result != nil {
		actions.ReportUnmerged(ctx.Splog, result)
	}
	return err
}
