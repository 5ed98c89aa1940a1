package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"dotsync.dev/dotsync/internal/actions"
	"dotsync.dev/dotsync/internal/config"
	"dotsync.dev/dotsync/internal/tui"
)

// newConfigCmd creates the config command
func newConfigCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the resolved configuration",
		Long: `Show the configuration dotsync would run with, after applying the
configuration file, environment variables and flags.

Examples:
  dotsync config
  dotsync config path
  dotsync config init`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := o.loadConfig(cmd)
			if err != nil {
				return err
			}
			data, err := cfg.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the configuration file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), o.configFile())
			return err
		},
	})

	cmd.AddCommand(newConfigInitCmd(o))

	return cmd
}

// newConfigInitCmd creates the config init command
func newConfigInitCmd(o *rootOptions) *cobra.Command {
	var (
		yes   bool
		force bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the configuration file",
		Long: `Create the configuration file, asking for the repository, host name,
remote and notification preference. Flags such as --repo and --name set the
suggested values. With --yes the suggestions are written without asking.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Defaults()
			o.applyFlags(cmd, cfg)

			splog, err := o.newSplog(cmd, cfg)
			if err != nil {
				return &configError{err: err}
			}
			defer splog.Close()

			opts := actions.ConfigInitOptions{
				Path:   o.configFile(),
				Config: cfg,
				Force:  force,
			}
			if !yes {
				opts.Prompt = tui.PromptConfig
			}
			if err := actions.ConfigInitAction(splog, opts); err != nil {
				return &configError{err: err}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Write the suggested values without asking")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing configuration file")

	return cmd
}
