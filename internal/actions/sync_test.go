package actions_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	gogit "github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/require"

	"dotsync.dev/dotsync/internal/actions"
	"dotsync.dev/dotsync/internal/config"
	"dotsync.dev/dotsync/internal/runtime"
	"dotsync.dev/dotsync/internal/sync"
	"dotsync.dev/dotsync/internal/tui"
	"dotsync.dev/dotsync/testhelpers"
)

func TestSyncAction(t *testing.T) {
	t.Run("reports unmerged files", func(t *testing.T) {
		runner := testhelpers.NewFakeRunner().
			On("status", testhelpers.Ok("UU .gitconfig\x00 M .vimrc\x00"), testhelpers.Ok("UU .gitconfig\x00M  .vimrc\x00"))
		ctx, out := newTestContext(t, t.Context(), "", runner)

		res, err := actions.SyncAction(ctx, actions.SyncOptions{})
		require.NoError(t, err)
		require.Len(t, res.Committed, 1)
		require.Contains(t, out.String(), "needs manual resolution: .gitconfig")
		require.Contains(t, out.String(), "committed M  .vimrc")
		require.Contains(t, out.String(), "Synchronized 1 local change(s).")
	})

	t.Run("returns the failing stage", func(t *testing.T) {
		runner := testhelpers.NewFakeRunner().On("pull", testhelpers.Fail(1, "could not apply"))
		ctx, _ := newTestContext(t, t.Context(), "", runner)

		res, err := actions.SyncAction(ctx, actions.SyncOptions{})
		var stageErr *sync.StageError
		require.ErrorAs(t, err, &stageErr)
		require.Equal(t, sync.StagePull, stageErr.Stage)
		require.Equal(t, []sync.Stage{sync.StageStatus}, res.Stages)
		require.Zero(t, runner.Count("push"))
	})
}

func TestSyncActionQuiet(t *testing.T) {
	runner := testhelpers.NewFakeRunner().
		On("status", testhelpers.Ok("UU .gitconfig\x00"), testhelpers.Ok("UU .gitconfig\x00"))
	ctx, out := newTestContext(t, t.Context(), "", runner)

	var events []sync.Event
	res, err := actions.SyncAction(ctx, actions.SyncOptions{
		Quiet:    true,
		Progress: func(e sync.Event) { events = append(events, e) },
	})
	require.NoError(t, err)
	require.Empty(t, out.String())
	require.False(t, ctx.Splog.IsQuiet())
	require.NotEmpty(t, events)

	actions.ReportUnmerged(ctx.Splog, res)
	require.Contains(t, out.String(), "needs manual resolution: .gitconfig")
}

func TestSyncActionQuietLogsUnmergedOnce(t *testing.T) {
	t.Setenv("DEBUG", "")
	runner := testhelpers.NewFakeRunner().
		On("status", testhelpers.Ok("UU .gitconfig\x00"), testhelpers.Ok("UU .gitconfig\x00"))
	dir := t.TempDir()
	_, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)

	cfg := config.Defaults()
	cfg.Repo = dir
	cfg.Name = "testhost"
	cfg.Notify = false

	logFile := filepath.Join(t.TempDir(), "dotsync.log")
	splog, err := tui.NewSplogWithConfig(tui.SplogOptions{Writer: &bytes.Buffer{}, LogFile: logFile})
	require.NoError(t, err)
	ctx, err := runtime.NewContext(t.Context(), cfg, splog, runner)
	require.NoError(t, err)

	res, err := actions.SyncAction(ctx, actions.SyncOptions{Quiet: true})
	require.NoError(t, err)
	actions.ReportUnmerged(splog, res)
	require.NoError(t, splog.Close())

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	require.Equal(t, 1, strings.Count(string(data), "needs manual resolution: .gitconfig"))
}

func TestSyncActionWithGit(t *testing.T) {
	t.Run("propagates changes between hosts", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		laptop := scene.Host("laptop")
		desktop := scene.Host("desktop")

		require.NoError(t, laptop.WriteFile(".bashrc", "export EDITOR=nvim\n"))
		require.NoError(t, laptop.WriteFile(".config/git/ignore", "*.swp\n"))

		ctx, _ := newTestContext(t, t.Context(), laptop.Dir, nil)
		res, err := actions.SyncAction(ctx, actions.SyncOptions{})
		require.NoError(t, err)
		require.Len(t, res.Committed, 2)

		subject, err := laptop.HeadSubject()
		require.NoError(t, err)
		require.Contains(t, subject, "dotsync: testhost ")

		messages, err := laptop.CommitMessages()
		require.NoError(t, err)
		require.Contains(t, messages[0], "M  .bashrc")
		require.Contains(t, messages[0], "A  .config/git/ignore")

		ctx, _ = newTestContext(t, t.Context(), desktop.Dir, nil)
		res, err = actions.SyncAction(ctx, actions.SyncOptions{})
		require.NoError(t, err)
		require.Empty(t, res.Committed)

		content, err := desktop.ReadFile(".bashrc")
		require.NoError(t, err)
		require.Equal(t, "export EDITOR=nvim\n", content)

		count, err := desktop.CommitCount("HEAD")
		require.NoError(t, err)
		require.Equal(t, 2, count)
	})

	t.Run("rebases local commits onto the remote", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		laptop := scene.Host("laptop")
		desktop := scene.Host("desktop")

		require.NoError(t, laptop.WriteFile(".vimrc", "set number\n"))
		ctx, _ := newTestContext(t, t.Context(), laptop.Dir, nil)
		_, err := actions.SyncAction(ctx, actions.SyncOptions{})
		require.NoError(t, err)

		require.NoError(t, desktop.WriteFile(".tmux.conf", "set -g mouse on\n"))
		ctx, _ = newTestContext(t, t.Context(), desktop.Dir, nil)
		_, err = actions.SyncAction(ctx, actions.SyncOptions{})
		require.NoError(t, err)

		count, err := desktop.CommitCount("origin/main")
		require.NoError(t, err)
		require.Equal(t, 3, count)

		merges, err := desktop.Output("rev-list", "--merges", "--count", "HEAD")
		require.NoError(t, err)
		require.Equal(t, "0", merges)
	})

	t.Run("stops at pull on conflicting edits", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		laptop := scene.Host("laptop")
		desktop := scene.Host("desktop")

		require.NoError(t, laptop.WriteFile(".bashrc", "export EDITOR=emacs\n"))
		ctx, _ := newTestContext(t, t.Context(), laptop.Dir, nil)
		_, err := actions.SyncAction(ctx, actions.SyncOptions{})
		require.NoError(t, err)

		require.NoError(t, desktop.WriteFile(".bashrc", "export EDITOR=nano\n"))
		ctx, _ = newTestContext(t, t.Context(), desktop.Dir, nil)
		res, err := actions.SyncAction(ctx, actions.SyncOptions{})

		var stageErr *sync.StageError
		require.ErrorAs(t, err, &stageErr)
		require.Equal(t, sync.StagePull, stageErr.Stage)
		require.Contains(t, res.Stages, sync.StageCommit)
		require.NotContains(t, res.Stages, sync.StagePush)

		remote, err := laptop.Output("ls-remote", "origin", "main")
		require.NoError(t, err)
		local, err := laptop.Output("rev-parse", "HEAD")
		require.NoError(t, err)
		require.Contains(t, remote, local)
	})
}
