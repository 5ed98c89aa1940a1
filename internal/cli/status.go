package cli

import (
	"github.com/spf13/cobra"

	"dotsync.dev/dotsync/internal/actions"
	"dotsync.dev/dotsync/internal/runtime"
	"dotsync.dev/dotsync/internal/sync"
	"dotsync.dev/dotsync/internal/tui"
)

// newStatusCmd creates the status command
func newStatusCmd(o *rootOptions) *cobra.Command {
	var color string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show local changes and the commit the next sync would create",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.run(cmd, func(ctx *runtime.Context) error {
				useColor := color == "always" || (color == "auto" && tui.IsTTY())
				if err := actions.StatusAction(ctx, actions.StatusOptions{Color: useColor}); err != nil {
					return &sync.StageError{Stage: sync.StageStatus, Err: err}
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&color, "color", "auto", "Colorize output: auto, always or never")

	return cmd
}
