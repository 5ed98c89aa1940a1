package actions

import (
	"errors"
	"fmt"
	"os"

	"dotsync.dev/dotsync/internal/config"
	"dotsync.dev/dotsync/internal/git"
	"dotsync.dev/dotsync/internal/tui"
)

// ConfigInitOptions contains options for the config init command
type ConfigInitOptions struct {
	// Path is where the configuration is written
	Path string
	// Config holds the starting values
	Config *config.Config
	// Force overwrites an existing file
	Force bool
	// Prompt, when set, lets the user edit the values before they are written
	Prompt func(*config.Config) error
}

// ConfigInitAction writes a new configuration file
func ConfigInitAction(splog *tui.Splog, opts ConfigInitOptions) error {
	if _, err := os.Stat(opts.Path); err == nil && !opts.Force {
		return fmt.Errorf("%s already exists, use --force to overwrite it", opts.Path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to check %s: %w", opts.Path, err)
	}

	cfg := opts.Config
	if opts.Prompt != nil {
		if err := opts.Prompt(cfg); err != nil {
			return err
		}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := cfg.Save(opts.Path); err != nil {
		return err
	}
	splog.Info("Wrote %s", opts.Path)

	if _, err := git.Open(cfg.Repo, cfg.Name); err != nil {
		splog.Tip("%s is not a git working tree yet. Clone your dotfiles there, then run dotsync sync.", cfg.Repo)
	}
	return nil
}
