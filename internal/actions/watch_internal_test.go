package actions

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsIgnoredPath(t *testing.T) {
	root := filepath.FromSlash("/home/me/dotfiles")

	require.True(t, isIgnoredPath(root, filepath.Join(root, ".git")))
	require.True(t, isIgnoredPath(root, filepath.Join(root, ".git", "index.lock")))
	require.False(t, isIgnoredPath(root, filepath.Join(root, ".gitconfig")))
	require.False(t, isIgnoredPath(root, filepath.Join(root, ".config", "git", "config")))
	require.False(t, isIgnoredPath(root, filepath.Join(root, "nested", ".git")))
}
