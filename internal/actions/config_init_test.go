package actions_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	gogit "github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/require"

	"dotsync.dev/dotsync/internal/actions"
	"dotsync.dev/dotsync/internal/config"
	"dotsync.dev/dotsync/internal/tui"
)

func TestConfigInitAction(t *testing.T) {
	newSplog := func(t *testing.T) (*tui.Splog, *bytes.Buffer) {
		t.Helper()
		t.Setenv("DEBUG", "")
		var out bytes.Buffer
		splog, err := tui.NewSplogWithConfig(tui.SplogOptions{Writer: &out})
		require.NoError(t, err)
		return splog, &out
	}

	t.Run("writes the prompted values", func(t *testing.T) {
		splog, out := newSplog(t)
		repo := t.TempDir()
		_, err := gogit.PlainInit(repo, false)
		require.NoError(t, err)
		path := filepath.Join(t.TempDir(), "dotsync", "config.yaml")

		err = actions.ConfigInitAction(splog, actions.ConfigInitOptions{
			Path:   path,
			Config: config.Defaults(),
			Prompt: func(cfg *config.Config) error {
				cfg.Repo = repo
				cfg.Name = "workstation"
				return nil
			},
		})
		require.NoError(t, err)
		require.Contains(t, out.String(), "Wrote "+path)
		require.NotContains(t, out.String(), "not a git working tree")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		require.Contains(t, string(data), "name: workstation\n")
	})

	t.Run("hints when the repository is missing", func(t *testing.T) {
		splog, out := newSplog(t)
		cfg := config.Defaults()
		cfg.Repo = filepath.Join(t.TempDir(), "missing")

		err := actions.ConfigInitAction(splog, actions.ConfigInitOptions{
			Path:   filepath.Join(t.TempDir(), "config.yaml"),
			Config: cfg,
		})
		require.NoError(t, err)
		require.Contains(t, out.String(), "not a git working tree yet")
	})

	t.Run("refuses to overwrite without force", func(t *testing.T) {
		splog, _ := newSplog(t)
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("name: keep\n"), 0600))

		err := actions.ConfigInitAction(splog, actions.ConfigInitOptions{Path: path, Config: config.Defaults()})
		require.ErrorContains(t, err, "already exists")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		require.Equal(t, "name: keep\n", string(data))

		require.NoError(t, actions.ConfigInitAction(splog, actions.ConfigInitOptions{Path: path, Config: config.Defaults(), Force: true}))
	})

	t.Run("prompt errors abort", func(t *testing.T) {
		splog, _ := newSplog(t)
		path := filepath.Join(t.TempDir(), "config.yaml")

		err := actions.ConfigInitAction(splog, actions.ConfigInitOptions{
			Path:   path,
			Config: config.Defaults(),
			Prompt: func(*config.Config) error { return errors.New("canceled") },
		})
		require.EqualError(t, err, "canceled")
		require.NoFileExists(t, path)
	})
}
