package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"dotsync.dev/dotsync/internal/config"
	"dotsync.dev/dotsync/internal/git"
	"dotsync.dev/dotsync/internal/runtime"
	"dotsync.dev/dotsync/internal/tui"
)

// BuildInfo describes the running binary
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// RootOption customizes the root command
type RootOption func(*rootOptions)

// WithRunner makes commands run git through r instead of the real executable
func WithRunner(r git.CommandRunner) RootOption {
	return func(o *rootOptions) { o.runner = r }
}

// WithOutput redirects command output
func WithOutput(out, errOut io.Writer) RootOption {
	return func(o *rootOptions) {
		o.out = out
		o.errOut = errOut
	}
}

type rootOptions struct {
	configPath string
	repo       string
	name       string
	logFile    string
	noNotify   bool
	verbose    bool

	runner git.CommandRunner
	out    io.Writer
	errOut io.Writer
}

// configError marks failures to resolve the configuration
type configError struct {
	err error
}

func (e *configError) Error() string { return e.err.Error() }
func (e *configError) Unwrap() error { return e.err }

// loadConfig reads the configuration file and applies command line flags over it
func (o *rootOptions) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, &configError{err: err}
	}

	o.applyFlags(cmd, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, &configError{err: err}
	}
	return cfg, nil
}

// applyFlags overrides cfg with the persistent flags given on the command line
func (o *rootOptions) applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("repo") {
		cfg.Repo = config.ExpandHome(o.repo)
	}
	if flags.Changed("name") {
		cfg.Name = o.name
	}
	if flags.Changed("log-file") {
		cfg.LogFile = config.ExpandHome(o.logFile)
	}
	if o.noNotify {
		cfg.Notify = false
	}
}

// configFile returns the configuration file location
func (o *rootOptions) configFile() string {
	if o.configPath != "" {
		return o.configPath
	}
	return config.DefaultPath()
}

func (o *rootOptions) newSplog(cmd *cobra.Command, cfg *config.Config) (*tui.Splog, error) {
	logFile := cfg.LogFile
	if logFile == "" {
		logFile = tui.GetLogFilePath()
	}
	return tui.NewSplogWithConfig(tui.SplogOptions{
		Writer:  cmd.OutOrStdout(),
		LogFile: logFile,
		Verbose: o.verbose,
	})
}

// run provides a runtime context to a command's execution function
func (o *rootOptions) run(cmd *cobra.Command, fn func(ctx *runtime.Context) error) error {
	cfg, err := o.loadConfig(cmd)
	if err != nil {
		return err
	}

	splog, err := o.newSplog(cmd, cfg)
	if err != nil {
		return &configError{err: err}
	}
	defer splog.Close()

	ctx, err := runtime.NewContext(cmd.Context(), cfg, splog, o.runner)
	if err != nil {
		splog.Debug("open repository: %v", err)
		return err
	}
	return fn(ctx)
}

// NewRootCmd creates the root cobra command
func NewRootCmd(info BuildInfo, opts ...RootOption) *cobra.Command {
	o := &rootOptions{}
	for _, opt := range opts {
		opt(o)
	}

	rootCmd := &cobra.Command{
		Use:   "dotsync",
		Short: "Keep a dotfiles repository in sync across hosts",
		Long: `dotsync commits local changes in a git working tree, rebases them onto the
remote, updates submodules and pushes. It is meant to run unattended, from a
timer or with "dotsync watch".`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", info.Version, info.Commit, info.Date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	if o.out != nil {
		rootCmd.SetOut(o.out)
	}
	if o.errOut != nil {
		rootCmd.SetErr(o.errOut)
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&o.repo, "repo", "r", "", "Path to the repository (default ~/Shared/sync)")
	flags.StringVar(&o.name, "name", "", "Host name used in commit messages (default the system host name)")
	flags.StringVar(&o.configPath, "config", "", "Path to the configuration file (default "+config.DefaultPath()+")")
	flags.StringVar(&o.logFile, "log-file", "", "Path to the log file")
	flags.BoolVar(&o.noNotify, "no-notify", false, "Disable desktop notifications")
	flags.BoolVarP(&o.verbose, "verbose", "v", false, "Show debug output")

	rootCmd.AddCommand(newStatusCmd(o))
	rootCmd.AddCommand(newSyncCmd(o))
	rootCmd.AddCommand(newWatchCmd(o))
	rootCmd.AddCommand(newConfigCmd(o))

	return rootCmd
}

// Execute runs the command line and returns the process exit code
func Execute(ctx context.Context, info BuildInfo, args []string, opts ...RootOption) int {
	rootCmd := NewRootCmd(info, opts...)
	rootCmd.SetArgs(args)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return ExitCode(err)
	}
	return ExitOK
}
