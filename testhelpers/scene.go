package testhelpers

import (
	"os/exec"
	"path/filepath"
	"testing"
)

// Scene is a bare remote plus working trees cloned from it, one per simulated host.
type Scene struct {
	t    *testing.T
	Root string
	// Remote is the path of the bare repository every host syncs with
	Remote string
	// Seed is the working tree that created the remote
	Seed *GitRepo
}

// SceneSetup prepares the remote before hosts are cloned.
type SceneSetup func(*Scene) error

// NewScene creates a scene in a temporary directory. Tests using it are
// skipped when git is not installed.
func NewScene(t *testing.T, setup SceneSetup) *Scene {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	root := t.TempDir()
	seed, err := NewGitRepo(filepath.Join(root, "seed"))
	if err != nil {
		t.Fatalf("Failed to create seed repo: %v", err)
	}
	remote, err := seed.CreateBareRemote("origin")
	if err != nil {
		t.Fatalf("Failed to create remote: %v", err)
	}

	scene := &Scene{t: t, Root: root, Remote: remote, Seed: seed}
	if setup != nil {
		if err := setup(scene); err != nil {
			t.Fatalf("Setup failed: %v", err)
		}
	}
	return scene
}

// Host clones the remote into a new working tree named name.
func (s *Scene) Host(name string) *GitRepo {
	s.t.Helper()
	repo, err := CloneGitRepo(s.Remote, filepath.Join(s.Root, name))
	if err != nil {
		s.t.Fatalf("Failed to clone host %s: %v", name, err)
	}
	return repo
}

// BasicSceneSetup pushes a single commit with a dotfile to the remote.
func BasicSceneSetup(s *Scene) error {
	if err := s.Seed.CommitFile(".bashrc", "export EDITOR=vi\n", "initial"); err != nil {
		return err
	}
	return s.Seed.Run("push", "-u", "origin", "main")
}
