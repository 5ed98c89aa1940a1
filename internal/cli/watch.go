package cli

import (
	"time"

	"github.com/spf13/cobra"

	"dotsync.dev/dotsync/internal/actions"
	"dotsync.dev/dotsync/internal/runtime"
)

// newWatchCmd creates the watch command
func newWatchCmd(o *rootOptions) *cobra.Command {
	var (
		debounce time.Duration
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Sync whenever the working tree changes",
		Long: `Sync once, then again whenever files in the working tree change and
periodically to pick up remote changes. Syncs never overlap. A failed sync is
reported and watching continues. Stop with Ctrl+C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.run(cmd, func(ctx *runtime.Context) error {
				opts := actions.WatchOptions{
					Debounce: ctx.Config.Watch.Debounce,
					Interval: ctx.Config.Watch.Interval,
				}
				if cmd.Flags().Changed("debounce") {
					opts.Debounce = debounce
				}
				if cmd.Flags().Changed("interval") {
					opts.Interval = interval
				}
				if err := opts.Validate(); err != nil {
					return &configError{err: err}
				}
				return actions.WatchAction(ctx, opts)
			})
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", 0, "Quiet period before syncing local changes (default from config, 5s)")
	cmd.Flags().DurationVar(&interval, "interval", 0, "Sync at least this often (default from config, 15m)")

	return cmd
}
