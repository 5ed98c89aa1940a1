package tui_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"dotsync.dev/dotsync/internal/tui"
)

func update(t *testing.T, m tui.SyncProgressModel, msg tea.Msg) (tui.SyncProgressModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(tui.SyncProgressModel)
	require.True(t, ok)
	return model, cmd
}

func TestSyncProgressModel(t *testing.T) {
	withProfile(t, termenv.Ascii)
	stages := []string{"status", "commit", "push"}

	t.Run("tracks stage states", func(t *testing.T) {
		events := make(chan tea.Msg, 1)
		m := tui.NewSyncProgressModel(stages, events)

		m, cmd := update(t, m, tui.StageMsg{Stage: "status", Status: tui.StageDone})
		require.NotNil(t, cmd)
		m, _ = update(t, m, tui.StageMsg{Stage: "commit", Status: tui.StageSkipped})
		m, _ = update(t, m, tui.StageMsg{Stage: "push", Status: tui.StageRunning})

		view := m.View()
		require.Contains(t, view, "✓ status")
		require.Contains(t, view, "- commit skipped")
		require.Contains(t, view, "push running...")
	})

	t.Run("waits for the next event", func(t *testing.T) {
		events := make(chan tea.Msg, 1)
		m := tui.NewSyncProgressModel(stages, events)

		_, cmd := update(t, m, tui.StageMsg{Stage: "status", Status: tui.StageRunning})
		events <- tui.StageMsg{Stage: "status", Status: tui.StageDone}
		require.Equal(t, tui.StageMsg{Stage: "status", Status: tui.StageDone}, cmd())

		close(events)
		require.Equal(t, tui.SyncDoneMsg{}, cmd())
	})

	t.Run("summarizes a failure", func(t *testing.T) {
		m := tui.NewSyncProgressModel(stages, make(chan tea.Msg))
		m, _ = update(t, m, tui.StageMsg{Stage: "status", Status: tui.StageDone})
		m, _ = update(t, m, tui.StageMsg{Stage: "commit", Status: tui.StageFailed})
		m, cmd := update(t, m, tui.SyncDoneMsg{Err: errors.New("commit failed")})
		require.NotNil(t, cmd)

		view := m.View()
		require.Contains(t, view, "✗ commit failed")
		require.Contains(t, view, "○ push not run")
		require.Contains(t, view, "Sync failed")
		require.EqualError(t, m.Err(), "commit failed")
	})

	t.Run("summarizes a success", func(t *testing.T) {
		m := tui.NewSyncProgressModel(stages, make(chan tea.Msg))
		m, _ = update(t, m, tui.SyncDoneMsg{})
		require.Contains(t, m.View(), "✓ Synchronized")
		require.NoError(t, m.Err())
	})

	t.Run("ctrl+c clears the view", func(t *testing.T) {
		m := tui.NewSyncProgressModel(stages, make(chan tea.Msg))
		m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
		require.NotNil(t, cmd)
		require.Empty(t, m.View())
	})
}

func TestRunSyncProgress(t *testing.T) {
	withProfile(t, termenv.Ascii)
	var out bytes.Buffer

	err := tui.RunSyncProgress(context.Background(), &out, []string{"status", "push"},
		func(_ context.Context, report tui.ReportFunc) error {
			report("status", tui.StageRunning, nil)
			report("status", tui.StageDone, nil)
			report("push", tui.StageFailed, errors.New("rejected"))
			return errors.New("push failed")
		})
	require.EqualError(t, err, "push failed")
}
