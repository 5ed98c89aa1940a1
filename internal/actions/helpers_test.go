package actions_test

import (
	"bytes"
	"context"
	"testing"

	gogit "github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/require"

	"dotsync.dev/dotsync/internal/config"
	"dotsync.dev/dotsync/internal/git"
	"dotsync.dev/dotsync/internal/runtime"
	"dotsync.dev/dotsync/internal/tui"
)

// newTestContext opens dir (a fresh repository when empty) with runner and
// captures console output. Notifications are disabled.
func newTestContext(t *testing.T, ctx context.Context, dir string, runner git.CommandRunner) (*runtime.Context, *bytes.Buffer) {
	t.Helper()
	t.Setenv("DEBUG", "")

	if dir == "" {
		dir = t.TempDir()
		_, err := gogit.PlainInit(dir, false)
		require.NoError(t, err)
	}

	cfg := config.Defaults()
	cfg.Repo = dir
	cfg.Name = "testhost"
	cfg.Notify = false

	var out bytes.Buffer
	splog, err := tui.NewSplogWithConfig(tui.SplogOptions{Writer: &out, Verbose: true})
	require.NoError(t, err)

	rctx, err := runtime.NewContext(ctx, cfg, splog, runner)
	require.NoError(t, err)
	return rctx, &out
}
